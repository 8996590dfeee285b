package store

import (
	"context"
	"crypto/rand"
	"math/big"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/robalobadob/antakshari/internal/game"
)

// Dictionary is an in-memory game.Dictionary.
// Words are stored lower-cased and indexed by first letter.
type Dictionary struct {
	mu       sync.RWMutex
	entries  []game.WordEntry
	set      map[string]struct{}
	byLetter map[rune][]game.WordEntry
}

// NewDictionary builds a dictionary holding entries.
func NewDictionary(entries ...game.WordEntry) *Dictionary {
	d := &Dictionary{
		set:      make(map[string]struct{}),
		byLetter: make(map[rune][]game.WordEntry),
	}
	_ = d.Insert(context.Background(), entries)
	return d
}

// SampleRandom returns a uniformly random entry.
func (d *Dictionary) SampleRandom(ctx context.Context) (game.WordEntry, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if len(d.entries) == 0 {
		return game.WordEntry{}, game.ErrEmptyDictionary
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(d.entries))))
	if err != nil {
		return game.WordEntry{}, err
	}
	return d.entries[n.Int64()], nil
}

// FindByPrefixLetter returns a copy of the entries starting with letter.
func (d *Dictionary) FindByPrefixLetter(ctx context.Context, letter rune) ([]game.WordEntry, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	matches := d.byLetter[unicode.ToLower(letter)]
	return append([]game.WordEntry(nil), matches...), nil
}

// Exists reports whether word is present, ignoring case.
func (d *Dictionary) Exists(ctx context.Context, word string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.set[game.Lower(word)]
	return ok, nil
}

// Count returns the number of stored entries.
func (d *Dictionary) Count(ctx context.Context) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries), nil
}

// Insert adds entries, skipping blanks and words already present.
func (d *Dictionary) Insert(ctx context.Context, entries []game.WordEntry) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, e := range entries {
		w := game.Normalize(e.Word)
		if w == "" {
			continue
		}
		if _, dup := d.set[w]; dup {
			continue
		}
		e = game.WordEntry{Word: w, Length: utf8.RuneCountInString(w)}
		first, _ := utf8.DecodeRuneInString(w)
		d.set[w] = struct{}{}
		d.entries = append(d.entries, e)
		d.byLetter[first] = append(d.byLetter[first], e)
	}
	return nil
}
