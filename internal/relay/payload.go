package relay

import (
	"context"
	"fmt"
	"strings"
)

// ContentKind identifies which slot of an inbound event a payload carries.
type ContentKind int

const (
	ContentText ContentKind = iota
	ContentPhoto
	ContentVideo
	ContentDocument
)

func (k ContentKind) String() string {
	switch k {
	case ContentText:
		return "text"
	case ContentPhoto:
		return "photo"
	case ContentVideo:
		return "video"
	case ContentDocument:
		return "document"
	default:
		return "unknown"
	}
}

// Payload is one outbound unit bound for the destination chat. Text holds the
// annotated message body (used as the caption for media kinds); FileID is set
// only for media kinds.
type Payload struct {
	Kind   ContentKind
	Text   string
	FileID string
}

// Transport is the narrow boundary to the bot API client. The pipeline knows
// nothing about the client beyond these two calls.
type Transport interface {
	// Deliver sends a payload to the destination chat. May fail with an error
	// wrappable as *DeliveryError.
	Deliver(ctx context.Context, chatID int64, p Payload) error
	// Reply sends a response back to the originating user.
	Reply(ctx context.Context, in Inbound, text string) error
}

// BuildPayloads classifies an inbound event into its present content slots
// and annotates each with the sender line. Slots are independent: an event
// carrying both a photo and a document yields two payloads. The caption, when
// present, is appended to every media payload.
func BuildPayloads(in Inbound) []Payload {
	var payloads []Payload
	sender := in.SenderLine()

	if in.Text != "" {
		payloads = append(payloads, Payload{
			Kind: ContentText,
			Text: fmt.Sprintf("%s\n✉️ %s", sender, in.Text),
		})
	}
	if in.PhotoID != "" {
		payloads = append(payloads, Payload{
			Kind:   ContentPhoto,
			FileID: in.PhotoID,
			Text:   mediaText(sender, "📷 photo attached", in.Caption),
		})
	}
	if in.VideoID != "" {
		payloads = append(payloads, Payload{
			Kind:   ContentVideo,
			FileID: in.VideoID,
			Text:   mediaText(sender, "🎬 video attached", in.Caption),
		})
	}
	if in.DocumentID != "" {
		payloads = append(payloads, Payload{
			Kind:   ContentDocument,
			FileID: in.DocumentID,
			Text:   mediaText(sender, "📄 document attached", in.Caption),
		})
	}

	return payloads
}

func mediaText(sender, tag, caption string) string {
	var b strings.Builder
	b.WriteString(sender)
	b.WriteString("\n")
	b.WriteString(tag)
	if caption != "" {
		b.WriteString("\n")
		b.WriteString(caption)
	}
	return b.String()
}
