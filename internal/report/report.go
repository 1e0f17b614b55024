// Package report aggregates producer records into a per-binary summary used
// for mixed-toolchain audits.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/zeebo/xxh3"

	"github.com/coral-mesh/dwprod/pkg/dwprod"
)

// Entry is one distinct producer string.
type Entry struct {
	Producer    string `json:"producer"`
	Units       int    `json:"units"`
	FirstOffset uint64 `json:"first_unit_offset"`
}

// Summary describes every unit seen in one binary.
type Summary struct {
	Path            string  `json:"path,omitempty"`
	Fingerprint     string  `json:"fingerprint,omitempty"`
	Units           int     `json:"units"`
	WithProducer    int     `json:"with_producer"`
	Missing         int     `json:"missing"`
	MixedToolchains bool    `json:"mixed_toolchains"`
	Producers       []Entry `json:"producers"`
}

// Aggregator collects records in the order they are produced. It is not safe
// for concurrent use.
type Aggregator struct {
	entries []Entry
	index   map[string]int
	units   int
	missing int
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{index: make(map[string]int)}
}

// Add records one unit.
func (a *Aggregator) Add(rec dwprod.Producer) {
	a.units++
	if rec.Missing {
		a.missing++
		return
	}

	if i, ok := a.index[rec.Value]; ok {
		a.entries[i].Units++
		return
	}
	a.index[rec.Value] = len(a.entries)
	a.entries = append(a.entries, Entry{
		Producer:    rec.Value,
		Units:       1,
		FirstOffset: rec.UnitOffset,
	})
}

// Summary returns a snapshot of what has been added so far. Distinct
// producers keep first-seen order.
func (a *Aggregator) Summary() Summary {
	entries := make([]Entry, len(a.entries))
	copy(entries, a.entries)

	return Summary{
		Units:           a.units,
		WithProducer:    a.units - a.missing,
		Missing:         a.missing,
		MixedToolchains: len(entries) > 1,
		Producers:       entries,
	}
}

// Fingerprint returns the xxh3-64 digest of r as 16 hex digits.
func Fingerprint(r io.Reader) (string, error) {
	h := xxh3.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}

// FingerprintFile hashes the file at path.
func FingerprintFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = f.Close()
	}()

	sum, err := Fingerprint(f)
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", path, err)
	}
	return sum, nil
}
