// internal/game/engine.go
//
// Core game engine for the word chain.
// Responsibilities:
//   - Start (or restart) a round from a random dictionary word.
//   - Validate a submission: it must start with the current word's last letter
//     and be present in the dictionary.
//   - Score the submitting player (length + streak bonus) and persist them.
//   - Reply with a random dictionary word chaining from the submission, or
//     declare the player the winner when no such word exists.
//
// Notes:
//   - The engine holds no state of its own; rounds live in a RoundStore.
//   - SubmitWord reads a round, does store I/O and saves it back without a
//     per-round lock. Concurrent submissions to one round are last-writer-wins.
package game

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	msgWrongLetter = "Invalid word! Must start with "
	msgNotFound    = "Word not found in dictionary!"
	msgWon         = "You won! No more words left!"
)

// Engine runs rounds against a dictionary and a player store.
type Engine struct {
	dict    Dictionary
	players PlayerStore
	rounds  RoundStore

	pick func(n int) int
	now  func() time.Time
}

// Option customizes an Engine.
type Option func(*Engine)

// WithPicker replaces the uniform index picker used to choose reply words.
// pick(n) must return a value in [0, n).
func WithPicker(pick func(n int) int) Option {
	return func(e *Engine) { e.pick = pick }
}

// WithClock replaces time.Now for round timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine wires an engine to its stores.
func NewEngine(dict Dictionary, players PlayerStore, rounds RoundStore, opts ...Option) *Engine {
	e := &Engine{
		dict:    dict,
		players: players,
		rounds:  rounds,
		pick:    randomIndex,
		now:     time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// StartRound picks a random starting word and (re)sets the round to it.
// An empty roundID selects DefaultRoundID.
func (e *Engine) StartRound(ctx context.Context, roundID string) (Round, error) {
	if roundID == "" {
		roundID = DefaultRoundID
	}
	entry, err := e.dict.SampleRandom(ctx)
	if err != nil {
		return Round{}, fmt.Errorf("sample start word: %w", err)
	}
	now := e.now().UTC()
	r := Round{
		ID:          roundID,
		CurrentWord: Normalize(entry.Word),
		StartedAt:   now,
		UpdatedAt:   now,
	}
	if err := e.rounds.Save(ctx, r); err != nil {
		return Round{}, fmt.Errorf("save round: %w", err)
	}
	return r, nil
}

// SubmitWord applies playerName's word to the round.
//
// Validation failures are reported through SubmitResult.Valid, never as errors.
// Errors are ErrNoActiveRound (unknown or finished round) or store failures.
//
// Scoring: streak += 1; score += len(word) + streak*2 + 1.
func (e *Engine) SubmitWord(ctx context.Context, roundID, playerName, word string) (SubmitResult, error) {
	if roundID == "" {
		roundID = DefaultRoundID
	}
	r, err := e.rounds.Get(ctx, roundID)
	if err != nil {
		if errors.Is(err, ErrRoundNotFound) {
			return SubmitResult{}, ErrNoActiveRound
		}
		return SubmitResult{}, fmt.Errorf("load round: %w", err)
	}
	if r.Finished {
		return SubmitResult{}, ErrNoActiveRound
	}

	word = Lower(word)
	want := lastLetter(r.CurrentWord)
	if word == "" || firstLetter(word) != want {
		return SubmitResult{Message: msgWrongLetter + string(want)}, nil
	}

	ok, err := e.dict.Exists(ctx, word)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("lookup word: %w", err)
	}
	if !ok {
		return SubmitResult{Message: msgNotFound}, nil
	}

	p, found, err := e.players.FindByName(ctx, playerName)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("load player: %w", err)
	}
	if !found {
		p = PlayerRecord{Name: playerName}
	}
	p = Score(p, word)
	if err := e.players.Upsert(ctx, p); err != nil {
		return SubmitResult{}, fmt.Errorf("save player: %w", err)
	}

	candidates, err := e.dict.FindByPrefixLetter(ctx, lastLetter(word))
	if err != nil {
		return SubmitResult{}, fmt.Errorf("find reply word: %w", err)
	}

	r.UpdatedAt = e.now().UTC()
	if len(candidates) == 0 {
		r.Finished = true
		if err := e.rounds.Save(ctx, r); err != nil {
			return SubmitResult{}, fmt.Errorf("save round: %w", err)
		}
		return SubmitResult{Valid: true, Won: true, Message: msgWon, Score: p.Score}, nil
	}

	next := Normalize(candidates[e.pick(len(candidates))].Word)
	r.CurrentWord = next
	if err := e.rounds.Save(ctx, r); err != nil {
		return SubmitResult{}, fmt.Errorf("save round: %w", err)
	}
	return SubmitResult{Valid: true, NextWord: next, Score: p.Score}, nil
}

// Leaderboard returns the top LeaderboardSize players by score.
func (e *Engine) Leaderboard(ctx context.Context) ([]PlayerRecord, error) {
	top, err := e.players.TopN(ctx, LeaderboardSize)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	return top, nil
}

// Score applies one valid word to p and returns the updated record.
func Score(p PlayerRecord, word string) PlayerRecord {
	p.Streak++
	p.Score += utf8.RuneCountInString(word) + p.Streak*2 + 1
	return p
}

// Lower lower-cases a submitted word without trimming it, so surrounding
// whitespace fails the first-letter and dictionary checks.
// A Caser is stateful, so one is built per call.
func Lower(word string) string {
	return cases.Lower(language.Und).String(word)
}

// Normalize trims and lower-cases a dictionary word.
func Normalize(word string) string {
	return Lower(strings.TrimSpace(word))
}

// firstLetter returns the first rune of s, or utf8.RuneError if s is empty.
func firstLetter(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

// lastLetter returns the last rune of s, or utf8.RuneError if s is empty.
func lastLetter(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

// randomIndex returns a uniform index in [0, n) from crypto/rand.
func randomIndex(n int) int {
	if n <= 1 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}
