package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Command
	}{
		{"plain text", "hello there", Command{Kind: CommandNone}},
		{"empty", "", Command{Kind: CommandNone}},
		{"whitespace", "   ", Command{Kind: CommandNone}},
		{"start", "/start", Command{Kind: CommandStart}},
		{"start with bot suffix", "/start@relay_bot", Command{Kind: CommandStart}},
		{"start with payload", "/start ref123", Command{Kind: CommandStart}},
		{"ban permanent", "/ban 555", Command{Kind: CommandBan, UserID: 555}},
		{"ban timed", "/ban 555 3", Command{Kind: CommandBan, UserID: 555, Days: 3}},
		{"ban negative days", "/ban 555 -2", Command{Kind: CommandBan, UserID: 555, Days: -2}},
		{"ban no args", "/ban", Command{Kind: CommandBan, Err: ErrMalformedArgument}},
		{"ban bad id", "/ban abc", Command{Kind: CommandBan, Err: ErrMalformedArgument}},
		{"ban bad days", "/ban 555 soon", Command{Kind: CommandBan, UserID: 555, Err: ErrMalformedArgument}},
		{"unban", "/unban 555", Command{Kind: CommandUnban, UserID: 555}},
		{"unban no args", "/unban", Command{Kind: CommandUnban, Err: ErrMalformedArgument}},
		{"unban bad id", "/unban ??", Command{Kind: CommandUnban, Err: ErrMalformedArgument}},
		{"unknown command", "/selfdestruct", Command{Kind: CommandUnknown}},
		{"slash alone", "/", Command{Kind: CommandUnknown}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCommand(tt.text)
			assert.Equal(t, tt.want.Kind, got.Kind)
			assert.Equal(t, tt.want.UserID, got.UserID)
			assert.Equal(t, tt.want.Days, got.Days)
			assert.Equal(t, tt.want.Err, got.Err)
		})
	}
}
