package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlayRequest(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		want    PlayRequest
		wantErr bool
	}{
		{
			name: "full request",
			body: `{"playerName":"asha","word":"Egg","roundId":"room-1"}`,
			want: PlayRequest{PlayerName: "asha", Word: "Egg", RoundID: "room-1"},
		},
		{
			name: "missing word reaches the engine",
			body: `{"playerName":"asha"}`,
			want: PlayRequest{PlayerName: "asha"},
		},
		{
			name: "null word reaches the engine",
			body: `{"playerName":"asha","word":null}`,
			want: PlayRequest{PlayerName: "asha"},
		},
		{
			name: "player name is trimmed",
			body: `{"playerName":"  asha ","word":"egg"}`,
			want: PlayRequest{PlayerName: "asha", Word: "egg"},
		},
		{name: "not json", body: `playerName=asha`, wantErr: true},
		{name: "json array", body: `["asha","egg"]`, wantErr: true},
		{name: "json null", body: `null`, wantErr: true},
		{name: "empty body", body: ``, wantErr: true},
		{name: "missing player", body: `{"word":"egg"}`, wantErr: true},
		{name: "blank player", body: `{"playerName":"  ","word":"egg"}`, wantErr: true},
		{name: "numeric player", body: `{"playerName":7,"word":"egg"}`, wantErr: true},
		{name: "numeric word", body: `{"playerName":"asha","word":42}`, wantErr: true},
		{name: "object round id", body: `{"playerName":"asha","roundId":{}}`, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParsePlayRequest([]byte(tc.body))
			if tc.wantErr {
				require.ErrorIs(t, err, ErrMalformedRequest)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLetterHelpers(t *testing.T) {
	assert.Equal(t, 't', firstLetter("tree"))
	assert.Equal(t, 'e', lastLetter("tree"))
	assert.Equal(t, 'é', lastLetter("café"))
	assert.Equal(t, "echo", Normalize("  ECHO "))
}
