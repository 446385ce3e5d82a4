// Package lexicon loads Beta-code glossaries and attaches glosses to the
// words collected during ingestion.
package lexicon

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/japaniel/polytonic/pkg/document"
)

// Entry is one glossary headword. Word is Beta code.
type Entry struct {
	Word  string   `json:"word"`
	Gloss string   `json:"gloss"`
	POS   []string `json:"pos,omitempty"`
}

// Load reads a glossary file, either {"entries": [...]} or a bare array.
func Load(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a glossary in either accepted shape from r.
func Decode(r io.Reader) ([]Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var wrapped struct {
		Entries []Entry `json:"entries"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && len(wrapped.Entries) > 0 {
		return wrapped.Entries, nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon as object or array: %w", err)
	}
	return entries, nil
}

// Index maps rendered Greek word forms to glossary entries. Two spellings
// that render the same glyphs, such as a)/ and /), share a key.
type Index struct {
	mu      sync.RWMutex
	entries map[string][]Entry
}

// NewIndex builds an index over entries.
func NewIndex(entries []Entry) *Index {
	idx := &Index{entries: make(map[string][]Entry, len(entries))}
	for _, e := range entries {
		idx.Add(e)
	}
	return idx
}

// Add inserts e. Entries with an empty word are ignored.
func (x *Index) Add(e Entry) {
	key := document.WordForm(strings.TrimSpace(e.Word))
	if key == "" {
		return
	}
	x.mu.Lock()
	x.entries[key] = append(x.entries[key], e)
	x.mu.Unlock()
}

// Len returns the number of distinct word forms.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries)
}

// Lookup returns the entries for a Beta-code word.
func (x *Index) Lookup(latin string) []Entry {
	return x.LookupGreek(document.WordForm(latin))
}

// LookupGreek returns the entries for a rendered word form. A word that
// starts a sentence is retried in lower case.
func (x *Index) LookupGreek(greek string) []Entry {
	if x == nil || greek == "" {
		return nil
	}
	x.mu.RLock()
	defer x.mu.RUnlock()
	if es, ok := x.entries[greek]; ok {
		return es
	}
	if lower := strings.ToLower(greek); lower != greek {
		return x.entries[lower]
	}
	return nil
}

// Gloss joins the distinct glosses of the entries for greek, or returns "".
func (x *Index) Gloss(greek string) string {
	return FormatGloss(x.LookupGreek(greek))
}

// FormatGloss joins the distinct glosses of entries in sorted order.
func FormatGloss(entries []Entry) string {
	seen := make(map[string]bool)
	var glosses []string
	for _, e := range entries {
		g := strings.TrimSpace(e.Gloss)
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		glosses = append(glosses, g)
	}
	sort.Strings(glosses)
	return strings.Join(glosses, "; ")
}
