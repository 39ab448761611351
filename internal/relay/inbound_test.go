package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	in := Inbound{UserID: 42, FirstName: "Olena"}
	assert.Equal(t, "Olena", in.DisplayName())

	in.LastName = "Kovalenko"
	assert.Equal(t, "Olena Kovalenko", in.DisplayName())

	in.Username = "olena_k"
	assert.Equal(t, "Olena Kovalenko (@olena_k)", in.DisplayName())
}

func TestSenderLine(t *testing.T) {
	in := Inbound{UserID: 42, FirstName: "Olena", Username: "olena_k"}
	assert.Equal(t, `👤 <a href="tg://user?id=42">Olena (@olena_k)</a> [42]`, in.SenderLine())
}

func TestBuildPayloadsTextOnly(t *testing.T) {
	payloads := BuildPayloads(Inbound{UserID: 42, FirstName: "Olena", Text: "hello"})

	assert.Len(t, payloads, 1)
	assert.Equal(t, ContentText, payloads[0].Kind)
	assert.Empty(t, payloads[0].FileID)
}

func TestBuildPayloadsMediaWithoutCaption(t *testing.T) {
	payloads := BuildPayloads(Inbound{UserID: 42, FirstName: "Olena", VideoID: "vid"})

	assert.Len(t, payloads, 1)
	assert.Equal(t, ContentVideo, payloads[0].Kind)
	assert.Equal(t, "vid", payloads[0].FileID)
	assert.Contains(t, payloads[0].Text, "video attached")
}

func TestBuildPayloadsNothingPresent(t *testing.T) {
	assert.Empty(t, BuildPayloads(Inbound{UserID: 42, FirstName: "Olena"}))
}
