package locale

import (
	"fmt"

	"golang.org/x/text/language"
)

// Casing is the letter-case pattern of a word.
type Casing int

const (
	// Small: no uppercase letters ("table", "3d", "").
	Small Casing = iota
	// InitCapital: only the first letter is uppercase ("Table").
	InitCapital
	// AllCapital: every letter is uppercase ("TABLE").
	AllCapital
	// Camel: first letter lowercase, some later letter uppercase ("iPhone").
	Camel
	// Pascal: first letter uppercase plus some, not all, later ones ("McDonald").
	Pascal
)

var casingNames = [...]string{"SMALL", "INIT_CAPITAL", "ALL_CAPITAL", "CAMEL", "PASCAL"}

func (c Casing) String() string {
	if c < 0 || int(c) >= len(casingNames) {
		return fmt.Sprintf("Casing(%d)", int(c))
	}
	return casingNames[c]
}

// MarshalText implements encoding.TextMarshaler.
func (c Casing) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Casing) UnmarshalText(b []byte) error {
	for i, name := range casingNames {
		if name == string(b) {
			*c = Casing(i)
			return nil
		}
	}
	return fmt.Errorf("unknown casing %q", b)
}

// ClassifyCasing classifies word using the Unicode letter categories.
func ClassifyCasing(word string) Casing {
	return ClassifyCasingWith(Unicode, word, language.Und)
}

// ClassifyCasingWith classifies word using the category tests of svc under
// tag. Characters that are neither upper- nor lowercase letters are ignored.
func ClassifyCasingWith(svc CaseService, word string, tag language.Tag) Casing {
	var upper, lower int
	firstUpper, seenLetter := false, false
	for _, r := range word {
		switch {
		case svc.IsUpper(r, tag):
			if !seenLetter {
				firstUpper = true
			}
			upper++
		case svc.IsLower(r, tag):
			lower++
		default:
			continue
		}
		seenLetter = true
	}

	switch {
	case upper == 0:
		return Small
	case !firstUpper:
		return Camel
	case upper == 1:
		return InitCapital
	case lower == 0:
		return AllCapital
	default:
		return Pascal
	}
}
