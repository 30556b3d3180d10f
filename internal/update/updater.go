// Package update orchestrates a single TLE refresh: fetch by name, classify
// and validate the payload, then atomically overwrite the station's TLE file.
package update

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/discosat/sattrack/internal/tle"
)

// Name comparison modes for the post-fetch sanity check.
const (
	MatchPrefix = "prefix" // compare the first line truncated to the name's length
	MatchExact  = "exact"  // require the full first line to equal the name
)

// ErrWrite marks failures while writing the output file, so callers can map
// them to a dedicated exit code.
var ErrWrite = errors.New("writing TLE file")

// Source fetches a raw TLE payload for a satellite name.
type Source interface {
	FetchByName(ctx context.Context, name string) ([]byte, error)
}

// Config holds updater settings resolved once at startup.
type Config struct {
	OutputPath string // absolute path of the TLE file to overwrite
	NameMatch  string // MatchPrefix or MatchExact
}

// Result reports what a successful update did.
type Result struct {
	FirstLine    string
	NameMismatch bool
	BytesWritten int
	Elapsed      time.Duration
}

// Updater performs TLE updates against a Source.
type Updater struct {
	src    Source
	cfg    Config
	logger *slog.Logger
}

// New creates an Updater.
func New(src Source, cfg Config, logger *slog.Logger) *Updater {
	if cfg.NameMatch == "" {
		cfg.NameMatch = MatchPrefix
	}
	return &Updater{src: src, cfg: cfg, logger: logger}
}

// Run fetches TLE data for name and overwrites the configured output file.
// The fetched content is staged fully before the destination is replaced, so
// an interrupted run never leaves a truncated file. A name mismatch between
// the request and the returned first line is reported in the Result but does
// not block the write.
func (u *Updater) Run(ctx context.Context, name string) (*Result, error) {
	start := time.Now()

	body, err := u.src.FetchByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if err := tle.ValidateRecord(body); err != nil {
		return nil, fmt.Errorf("invalid TLE payload: %w", err)
	}

	res := &Result{
		FirstLine: firstLine(body),
	}
	if !nameMatches(u.cfg.NameMatch, name, res.FirstLine) {
		res.NameMismatch = true
		u.logger.Warn("fetched TLE name does not match request",
			"requested", name,
			"first_line", res.FirstLine,
			"match_mode", u.cfg.NameMatch,
		)
	}

	// Guarantee a trailing newline so downstream TLE readers see a complete
	// final line.
	if len(body) == 0 || body[len(body)-1] != '\n' {
		body = append(body, '\n')
	}

	n, err := writeAtomic(u.cfg.OutputPath, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	res.BytesWritten = n
	res.Elapsed = time.Since(start)

	u.logger.Info("TLE file updated",
		"satellite", name,
		"path", u.cfg.OutputPath,
		"bytes", n,
		"elapsed_ms", res.Elapsed.Milliseconds(),
	)
	return res, nil
}

// nameMatches compares the requested name against the payload's first line.
// Prefix mode truncates the line to the request's character count, which
// tolerates the padding CelesTrak appends after short names.
func nameMatches(mode, name, line string) bool {
	if mode == MatchExact {
		return line == name
	}
	runes := []rune(line)
	want := []rune(name)
	if len(runes) > len(want) {
		runes = runes[:len(want)]
	}
	return string(runes) == name
}

func firstLine(body []byte) string {
	s := string(body)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimRight(s, "\r")
}
