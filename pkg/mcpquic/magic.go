package mcpquic

import (
	"fmt"
	"io"
)

// ValidateMagicBytes reads the stream preamble and checks it is MagicBytes.
func ValidateMagicBytes(r io.Reader) error {
	got := make([]byte, len(MagicBytes))
	if _, err := io.ReadFull(r, got); err != nil {
		return fmt.Errorf("read magic bytes: %w", err)
	}
	if string(got) != MagicBytes {
		return fmt.Errorf("%w: got %q", ErrInvalidMagicBytes, got)
	}
	return nil
}

// SendMagicBytes writes the stream preamble. The client sends it right
// after opening the stream, which also makes the stream visible to the server.
func SendMagicBytes(w io.Writer) error {
	if _, err := io.WriteString(w, MagicBytes); err != nil {
		return fmt.Errorf("write magic bytes: %w", err)
	}
	return nil
}
