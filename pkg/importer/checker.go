package importer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Checker probes every recorded source URL on an interval and stores the
// outcome, so a dead upstream shows up before the next import does.
type Checker struct {
	sources  *SourceDB
	logger   *slog.Logger
	interval time.Duration
	client   *http.Client
	workers  int
}

// NewChecker creates a Checker that will verify source URLs every interval.
func NewChecker(sources *SourceDB, logger *slog.Logger, interval time.Duration) *Checker {
	return &Checker{
		sources:  sources,
		logger:   logger,
		interval: interval,
		workers:  4,
		client: &http.Client{
			Timeout: 30 * time.Second,
			// A mirror move is reported as its 3xx, not chased.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Start checks once, then again every interval until ctx is done.
func (c *Checker) Start(ctx context.Context) {
	c.CheckAll(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.CheckAll(ctx)
		}
	}
}

type probe struct {
	src    Source
	status int
	err    error
}

// CheckAll probes every source with at most c.workers requests in flight.
// Results are persisted from the calling goroutine only.
func (c *Checker) CheckAll(ctx context.Context) {
	sources, err := c.sources.ListSources()
	if err != nil {
		c.logger.Error("source check: list sources", "error", err)
		return
	}
	if len(sources) == 0 {
		return
	}

	jobs := make(chan Source)
	probes := make(chan probe)
	var wg sync.WaitGroup
	for range min(c.workers, len(sources)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for src := range jobs {
				status, err := c.probeSource(ctx, src.SourceURL)
				probes <- probe{src: src, status: status, err: err}
			}
		}()
	}
	go func() {
		defer close(jobs)
		for _, src := range sources {
			select {
			case jobs <- src:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(probes)
	}()

	var reachable, broken int
	for p := range probes {
		var msg string
		if p.err != nil {
			msg = p.err.Error()
		}
		if err := c.sources.UpdateCheck(p.src.AdapterID, p.status, msg); err != nil {
			c.logger.Error("source check: record", "adapter", p.src.AdapterID, "error", err)
		}
		if reachableStatus(p.status) {
			reachable++
			continue
		}
		broken++
		c.logger.Warn("source unreachable",
			"adapter", p.src.AdapterID,
			"dict", p.src.DictID,
			"url", p.src.SourceURL,
			"status", p.status,
			"error", msg,
		)
	}
	c.logger.Info("source check complete", "total", reachable+broken, "ok", reachable, "failed", broken)
}

func reachableStatus(status int) bool {
	return status >= 200 && status < 400
}

// probeSource HEADs url and, for a plain Hunspell .dic, its .aff sibling:
// an import needs both. The first unreachable one decides the status.
func (c *Checker) probeSource(ctx context.Context, url string) (int, error) {
	status, err := c.head(ctx, url)
	if err != nil || !reachableStatus(status) {
		return status, err
	}
	aff := affURL(url)
	if aff == "" {
		return status, nil
	}
	affStatus, err := c.head(ctx, aff)
	if err != nil {
		return affStatus, fmt.Errorf("affix file: %w", err)
	}
	if !reachableStatus(affStatus) {
		return affStatus, fmt.Errorf("affix file %s: HTTP %d", aff, affStatus)
	}
	return status, nil
}

// head returns the HTTP status of a HEAD request, or 0 on a network error.
func (c *Checker) head(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("HEAD %s: %w", url, err)
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}
