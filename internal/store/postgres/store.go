// Package postgres implements the dictionary and player stores on Postgres
// through gorm. Tables are created with AutoMigrate.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/robalobadob/antakshari/internal/game"
)

// Word is the words table row.
type Word struct {
	Word   string `gorm:"primaryKey"`
	Length int    `gorm:"not null"`
}

// Player is the players table row.
type Player struct {
	Name   string `gorm:"primaryKey"`
	Score  int    `gorm:"not null;default:0;index:idx_players_score,sort:desc"`
	Streak int    `gorm:"not null;default:0"`
}

// Store implements game.Dictionary and game.PlayerStore.
type Store struct{ db *gorm.DB }

// Open connects to dsn and migrates the schema.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&Word{}, &Player{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) SampleRandom(ctx context.Context) (game.WordEntry, error) {
	var w Word
	err := s.db.WithContext(ctx).Order("RANDOM()").Limit(1).Take(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return game.WordEntry{}, game.ErrEmptyDictionary
	}
	if err != nil {
		return game.WordEntry{}, fmt.Errorf("sample word: %w", err)
	}
	return game.WordEntry{Word: w.Word, Length: w.Length}, nil
}

func (s *Store) FindByPrefixLetter(ctx context.Context, letter rune) ([]game.WordEntry, error) {
	var rows []Word
	err := s.db.WithContext(ctx).
		Where("left(word, 1) = ?", string(unicode.ToLower(letter))).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find words: %w", err)
	}
	out := make([]game.WordEntry, 0, len(rows))
	for _, w := range rows {
		out = append(out, game.WordEntry{Word: w.Word, Length: w.Length})
	}
	return out, nil
}

func (s *Store) Exists(ctx context.Context, word string) (bool, error) {
	var cnt int64
	err := s.db.WithContext(ctx).Model(&Word{}).
		Where("word = ?", game.Lower(word)).
		Count(&cnt).Error
	if err != nil {
		return false, fmt.Errorf("lookup word: %w", err)
	}
	return cnt > 0, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var cnt int64
	if err := s.db.WithContext(ctx).Model(&Word{}).Count(&cnt).Error; err != nil {
		return 0, fmt.Errorf("count words: %w", err)
	}
	return int(cnt), nil
}

// Insert adds entries in batches. Existing words are ignored.
func (s *Store) Insert(ctx context.Context, entries []game.WordEntry) error {
	rows := make([]Word, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		w := game.Normalize(e.Word)
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		rows = append(rows, Word{Word: w, Length: utf8.RuneCountInString(w)})
	}
	if len(rows) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(rows, 500).Error
	if err != nil {
		return fmt.Errorf("insert words: %w", err)
	}
	return nil
}

func (s *Store) FindByName(ctx context.Context, name string) (game.PlayerRecord, bool, error) {
	var p Player
	err := s.db.WithContext(ctx).Where("name = ?", name).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return game.PlayerRecord{}, false, nil
	}
	if err != nil {
		return game.PlayerRecord{}, false, fmt.Errorf("load player: %w", err)
	}
	return game.PlayerRecord{Name: p.Name, Score: p.Score, Streak: p.Streak}, true, nil
}

func (s *Store) Upsert(ctx context.Context, p game.PlayerRecord) error {
	row := Player{Name: p.Name, Score: p.Score, Streak: p.Streak}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "streak"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert player: %w", err)
	}
	return nil
}

func (s *Store) TopN(ctx context.Context, n int) ([]game.PlayerRecord, error) {
	var rows []Player
	err := s.db.WithContext(ctx).
		Order("score DESC").Order("name ASC").
		Limit(n).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("top players: %w", err)
	}
	out := make([]game.PlayerRecord, 0, len(rows))
	for _, p := range rows {
		out = append(out, game.PlayerRecord{Name: p.Name, Score: p.Score, Streak: p.Streak})
	}
	return out, nil
}
