// internal/game/types.go
//
// Core type definitions for the word-chain game engine.
// Defines:
//   - WordEntry:    a dictionary word and its length.
//   - PlayerRecord: a player's cumulative score and streak.
//   - Round:        the state of one word chain (current word, finished flag).
//   - SubmitResult: the outcome of a single word submission.
//   - The store interfaces the engine depends on.

package game

import (
	"context"
	"errors"
	"time"
)

// DefaultRoundID is used when a caller does not name a round.
// Every client that omits a round ID shares this one chain.
const DefaultRoundID = "global"

// LeaderboardSize is the number of players returned by Leaderboard.
const LeaderboardSize = 10

var (
	ErrEmptyDictionary  = errors.New("dictionary is empty")
	ErrNoActiveRound    = errors.New("no active round")
	ErrRoundNotFound    = errors.New("round not found")
	ErrMalformedRequest = errors.New("malformed request")
)

// WordEntry is one dictionary word. Length always equals len(Word).
type WordEntry struct {
	Word   string `json:"word"`
	Length int    `json:"length"`
}

// PlayerRecord holds a player's running totals, keyed by Name.
type PlayerRecord struct {
	Name   string `json:"name"`
	Score  int    `json:"score"`
	Streak int    `json:"streak"`
}

// Round holds the state of a single word chain.
type Round struct {
	ID          string    // Round identifier (DefaultRoundID or a UUID).
	CurrentWord string    // Word the next submission must chain from.
	Finished    bool      // True once nobody can answer the last word.
	StartedAt   time.Time // Set by StartRound.
	UpdatedAt   time.Time // Last successful submission or start.
}

// SubmitResult is the outcome of SubmitWord.
//
//   - Valid=false: Message explains the rejection.
//   - Valid=true, Won=false: NextWord is the server's reply.
//   - Valid=true, Won=true: no reply word exists; the round is over.
type SubmitResult struct {
	Valid    bool
	Won      bool
	Message  string
	NextWord string
	Score    int
}

// Dictionary is the word lookup the engine plays against.
type Dictionary interface {
	// SampleRandom returns one entry chosen uniformly.
	// Returns ErrEmptyDictionary when no entries exist.
	SampleRandom(ctx context.Context) (WordEntry, error)

	// FindByPrefixLetter returns every entry starting with letter, ignoring case.
	FindByPrefixLetter(ctx context.Context, letter rune) ([]WordEntry, error)

	// Exists reports whether word is in the dictionary, ignoring case.
	Exists(ctx context.Context, word string) (bool, error)
}

// PlayerStore persists player records.
type PlayerStore interface {
	FindByName(ctx context.Context, name string) (PlayerRecord, bool, error)
	Upsert(ctx context.Context, p PlayerRecord) error
	// TopN returns at most n players ordered by descending score.
	TopN(ctx context.Context, n int) ([]PlayerRecord, error)
}

// RoundStore persists round state keyed by Round.ID.
type RoundStore interface {
	Save(ctx context.Context, r Round) error
	// Get returns ErrRoundNotFound for unknown IDs.
	Get(ctx context.Context, id string) (Round, error)
}
