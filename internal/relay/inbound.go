package relay

import "fmt"

// Inbound is the transport-neutral view of one incoming user event. Media
// fields are independent optional slots identified by the transport's file
// reference; absent slots are empty strings.
type Inbound struct {
	UserID    int64
	ChatID    int64
	FirstName string
	LastName  string
	Username  string

	Text       string
	PhotoID    string
	VideoID    string
	DocumentID string
	Caption    string
}

// DisplayName is the sender's human-readable name, with the username appended
// when one is set.
func (in Inbound) DisplayName() string {
	name := in.FirstName
	if in.LastName != "" {
		name += " " + in.LastName
	}
	if in.Username != "" {
		name = fmt.Sprintf("%s (@%s)", name, in.Username)
	}
	return name
}

// SenderLine is the HTML annotation prefixed to every forwarded payload:
// a tg:// deep link on the display name plus the raw numeric id, so
// moderators can act on the sender without the link.
func (in Inbound) SenderLine() string {
	return fmt.Sprintf("👤 <a href=\"tg://user?id=%d\">%s</a> [%d]", in.UserID, in.DisplayName(), in.UserID)
}
