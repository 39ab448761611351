// Package relay turns one inbound user event into exactly one outcome:
// a forward to the destination chat, a user-facing rejection, or a no-op.
package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tg-relay/internal/logger"
	"tg-relay/internal/moderation"
)

// User-facing replies. HTML parse mode is assumed by the transport.
const (
	replyBlocked         = "🚫 You are blocked and cannot send messages."
	replyRateLimitedFmt  = "⏳ You can send your next message in %s."
	replyNothingToRelay  = "❌ Nothing to forward. Send text, a photo, a video or a document."
	replyDeliveryFailed  = "❌ Your message could not be delivered. Please try again later."
	replyInternalTrouble = "❌ Something went wrong on our side. Please try again later."
	replyAck             = "✅ Your message has been sent! Thank you for trusting us 🤝"
)

// Bookkeeper is the slice of the persistence layer the pipeline writes to
// after a successful relay.
type Bookkeeper interface {
	UpsertActivity(userID int64, t time.Time) error
}

// Pipeline orchestrates the per-event relay state machine. One call to
// Process handles one event and is terminal: no conversation state is kept.
type Pipeline struct {
	policy      *moderation.Policy
	activity    Bookkeeper
	transport   Transport
	destination int64
	now         func() time.Time
}

// NewPipeline wires the pipeline. destination is the moderated chat all
// accepted payloads are forwarded to.
func NewPipeline(policy *moderation.Policy, activity Bookkeeper, transport Transport, destination int64) *Pipeline {
	return &Pipeline{
		policy:      policy,
		activity:    activity,
		transport:   transport,
		destination: destination,
		now:         time.Now,
	}
}

// Process runs one inbound event through the pipeline. The returned error is
// for the caller's log; every user-visible outcome has already been sent by
// the time Process returns.
func (p *Pipeline) Process(ctx context.Context, in Inbound) error {
	// Events originating in the destination chat itself are never relayed
	// back into it.
	if in.ChatID == p.destination {
		return nil
	}

	now := p.now()

	verdict, err := p.policy.EvaluateSend(in.UserID, now)
	if err != nil {
		logger.Errorf("policy evaluation failed for user %d: %v", in.UserID, err)
		p.reply(ctx, in, replyInternalTrouble)
		return err
	}

	switch verdict.Kind {
	case moderation.Banned:
		return p.reply(ctx, in, replyBlocked)
	case moderation.RateLimited:
		return p.reply(ctx, in, fmt.Sprintf(replyRateLimitedFmt, formatWait(verdict.RetryAfter)))
	}

	payloads := BuildPayloads(in)
	if len(payloads) == 0 {
		return p.reply(ctx, in, replyNothingToRelay)
	}

	for _, payload := range payloads {
		if err := p.transport.Deliver(ctx, p.destination, payload); err != nil {
			derr := err
			var de *DeliveryError
			if !errors.As(err, &de) {
				derr = &DeliveryError{Kind: payload.Kind, Err: err}
			}
			logger.Errorf("delivery failed for user %d: %v", in.UserID, derr)
			p.reply(ctx, in, replyDeliveryFailed)
			return derr
		}
	}

	if err := p.activity.UpsertActivity(in.UserID, now); err != nil {
		// The forward went out but the rate-limit clock did not advance.
		// Tell the user something went wrong rather than ack falsely.
		logger.Errorf("activity bookkeeping failed for user %d: %v", in.UserID, err)
		p.reply(ctx, in, replyInternalTrouble)
		return err
	}

	return p.reply(ctx, in, replyAck)
}

// reply sends a response to the user, downgrading failures to a log line:
// a dead reply channel must not abort handling of the event.
func (p *Pipeline) reply(ctx context.Context, in Inbound, text string) error {
	if err := p.transport.Reply(ctx, in, text); err != nil {
		logger.Warningf("reply to user %d failed: %v", in.UserID, err)
		return err
	}
	return nil
}

// formatWait renders the remaining rate-limit wait in whole minutes (rounded
// up), falling back to seconds below one minute.
func formatWait(d time.Duration) string {
	if d >= time.Minute {
		mins := int((d + time.Minute - 1) / time.Minute)
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	secs := int((d + time.Second - 1) / time.Second)
	if secs <= 1 {
		return "1 second"
	}
	return fmt.Sprintf("%d seconds", secs)
}
