// internal/words/words.go
//
// Provides dictionary loading for the game stores.
//
// Responsibilities:
//   - Load the word list from DICTIONARY_FILE or fall back to the embedded
//     default (assets/words.txt).
//   - Normalize entries: trimmed, lower-cased, letters only, de-duplicated,
//     Length set to the number of letters.
//   - Seed an empty store with the loaded entries at startup.
//
// The stores treat the dictionary as read-only reference data; nothing in
// the engine adds or removes words.

package words

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/antakshari/assets"
	"github.com/robalobadob/antakshari/internal/game"
)

// Seeder is the write side of a dictionary store.
type Seeder interface {
	Count(ctx context.Context) (int, error)
	Insert(ctx context.Context, entries []game.WordEntry) error
}

// Load reads the dictionary from path, or the embedded default when path is empty.
func Load(path string) ([]game.WordEntry, error) {
	var lines []string
	var err error
	if path != "" {
		lines, err = readWordFile(path)
	} else {
		lines, err = assets.DictionaryList()
	}
	if err != nil {
		return nil, fmt.Errorf("words: load dictionary: %w", err)
	}
	return Normalize(lines), nil
}

// Seed inserts entries when the store is empty and returns the resulting size.
// A store that already holds words is left untouched.
func Seed(ctx context.Context, s Seeder, entries []game.WordEntry) (int, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info().Int("words", n).Msg("dictionary already seeded")
		return n, nil
	}
	if err := s.Insert(ctx, entries); err != nil {
		return 0, fmt.Errorf("words: seed: %w", err)
	}
	n, err = s.Count(ctx)
	if err != nil {
		return 0, err
	}
	log.Info().Int("words", n).Msg("dictionary seeded")
	return n, nil
}

// readWordFile loads one word per line from a file.
// Blank lines and lines starting with # are skipped by Normalize.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	return out, sc.Err()
}

// Normalize turns raw lines into dictionary entries.
// Lines that are empty, comments, or contain non-letters are dropped.
func Normalize(lines []string) []game.WordEntry {
	seen := make(map[string]struct{}, len(lines))
	out := make([]game.WordEntry, 0, len(lines))
	for _, line := range lines {
		w := game.Normalize(line)
		if w == "" || w[0] == '#' || !isLetters(w) {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, game.WordEntry{Word: w, Length: utf8.RuneCountInString(w)})
	}
	return out
}

// isLetters reports whether s consists only of letters.
func isLetters(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
