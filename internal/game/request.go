package game

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PlayRequest is a validated word submission.
type PlayRequest struct {
	RoundID    string
	PlayerName string
	Word       string
}

// ParsePlayRequest checks a raw submission body before it reaches the engine.
//
// The body must be a JSON object with a non-blank string "playerName".
// "word" and "roundId" are optional strings; a missing word is not malformed,
// the engine rejects it as a wrong starting letter.
// Every failure wraps ErrMalformedRequest.
func ParsePlayRequest(body []byte) (PlayRequest, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return PlayRequest{}, fmt.Errorf("%w: body must be a JSON object", ErrMalformedRequest)
	}

	var req PlayRequest
	fields := []struct {
		key      string
		dst      *string
		required bool
	}{
		{"playerName", &req.PlayerName, true},
		{"word", &req.Word, false},
		{"roundId", &req.RoundID, false},
	}
	for _, f := range fields {
		v, ok := raw[f.key]
		if !ok || string(v) == "null" {
			if f.required {
				return PlayRequest{}, fmt.Errorf("%w: %s is required", ErrMalformedRequest, f.key)
			}
			continue
		}
		if err := json.Unmarshal(v, f.dst); err != nil {
			return PlayRequest{}, fmt.Errorf("%w: %s must be a string", ErrMalformedRequest, f.key)
		}
	}

	req.PlayerName = strings.TrimSpace(req.PlayerName)
	if req.PlayerName == "" {
		return PlayRequest{}, fmt.Errorf("%w: playerName is required", ErrMalformedRequest)
	}
	req.RoundID = strings.TrimSpace(req.RoundID)
	return req, nil
}
