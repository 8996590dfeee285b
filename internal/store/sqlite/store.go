package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/robalobadob/antakshari/internal/game"
)

// Store implements game.Dictionary and game.PlayerStore over the words and
// players tables.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// SampleRandom picks one row uniformly with ORDER BY RANDOM().
func (s *Store) SampleRandom(ctx context.Context) (game.WordEntry, error) {
	var e game.WordEntry
	err := s.db.QueryRowContext(ctx,
		`SELECT word, length FROM words ORDER BY RANDOM() LIMIT 1`,
	).Scan(&e.Word, &e.Length)
	if errors.Is(err, sql.ErrNoRows) {
		return game.WordEntry{}, game.ErrEmptyDictionary
	}
	if err != nil {
		return game.WordEntry{}, fmt.Errorf("sample word: %w", err)
	}
	return e, nil
}

func (s *Store) FindByPrefixLetter(ctx context.Context, letter rune) ([]game.WordEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT word, length FROM words WHERE substr(word, 1, 1) = ?`,
		string(unicode.ToLower(letter)),
	)
	if err != nil {
		return nil, fmt.Errorf("find words: %w", err)
	}
	defer rows.Close()

	var out []game.WordEntry
	for rows.Next() {
		var e game.WordEntry
		if err := rows.Scan(&e.Word, &e.Length); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) Exists(ctx context.Context, word string) (bool, error) {
	var cnt int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM words WHERE word=?`, game.Lower(word),
	).Scan(&cnt); err != nil {
		return false, fmt.Errorf("lookup word: %w", err)
	}
	return cnt > 0, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var cnt int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM words`).Scan(&cnt); err != nil {
		return 0, fmt.Errorf("count words: %w", err)
	}
	return cnt, nil
}

// Insert adds entries in one transaction. Existing words are ignored.
func (s *Store) Insert(ctx context.Context, entries []game.WordEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO words (word, length) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		w := game.Normalize(e.Word)
		if w == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, w, utf8.RuneCountInString(w)); err != nil {
			return fmt.Errorf("insert %q: %w", w, err)
		}
	}
	return tx.Commit()
}

func (s *Store) FindByName(ctx context.Context, name string) (game.PlayerRecord, bool, error) {
	var p game.PlayerRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT name, score, streak FROM players WHERE name=?`, name,
	).Scan(&p.Name, &p.Score, &p.Streak)
	if errors.Is(err, sql.ErrNoRows) {
		return game.PlayerRecord{}, false, nil
	}
	if err != nil {
		return game.PlayerRecord{}, false, fmt.Errorf("load player: %w", err)
	}
	return p, true, nil
}

func (s *Store) Upsert(ctx context.Context, p game.PlayerRecord) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO players (name, score, streak)
        VALUES (?, ?, ?)
        ON CONFLICT(name) DO UPDATE SET score=excluded.score, streak=excluded.streak`,
		p.Name, p.Score, p.Streak,
	)
	if err != nil {
		return fmt.Errorf("upsert player: %w", err)
	}
	return nil
}

// TopN orders by score DESC, then name ASC.
func (s *Store) TopN(ctx context.Context, n int) ([]game.PlayerRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT name, score, streak
        FROM players
        ORDER BY score DESC, name ASC
        LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("top players: %w", err)
	}
	defer rows.Close()

	out := make([]game.PlayerRecord, 0, n)
	for rows.Next() {
		var p game.PlayerRecord
		if err := rows.Scan(&p.Name, &p.Score, &p.Streak); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
