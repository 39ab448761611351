// Package moderation holds the decision logic of the relay: whether a user
// may send right now, and how admin ban commands mutate ban state. It never
// talks to the transport and never caches store state across calls.
package moderation

import (
	"errors"
	"time"

	"tg-relay/internal/logger"
	"tg-relay/internal/models"
)

var (
	// ErrUnauthorized is returned when a non-admin issues an admin command.
	ErrUnauthorized = errors.New("moderation: requester is not an admin")
	// ErrMalformedArgument is returned for admin commands with invalid arguments.
	ErrMalformedArgument = errors.New("moderation: malformed command argument")
)

// VerdictKind classifies the outcome of EvaluateSend.
type VerdictKind int

const (
	Allowed VerdictKind = iota
	Banned
	RateLimited
)

// Verdict is the result of a send evaluation. RetryAfter is set only for
// RateLimited and tells the user how long to wait.
type Verdict struct {
	Kind       VerdictKind
	RetryAfter time.Duration
}

// BanStore is the slice of the persistence layer the policy needs for bans.
type BanStore interface {
	GetBan(userID int64) (*models.BanRecord, error)
	SetBan(userID int64, until string) error
	ClearBan(userID int64) error
}

// ActivityStore is the slice of the persistence layer the policy needs for
// rate limiting.
type ActivityStore interface {
	GetLastMessageTime(userID int64) (*time.Time, error)
}

// Policy makes moderation decisions against current store state.
type Policy struct {
	bans      BanStore
	activity  ActivityStore
	admins    map[int64]struct{}
	rateLimit time.Duration
}

// NewPolicy builds a policy over the given stores. adminIDs is the static set
// allowed to run /ban and /unban.
func NewPolicy(bans BanStore, activity ActivityStore, adminIDs []int64, rateLimit time.Duration) *Policy {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &Policy{
		bans:      bans,
		activity:  activity,
		admins:    admins,
		rateLimit: rateLimit,
	}
}

// IsAdmin reports whether the user is in the static admin set.
func (p *Policy) IsAdmin(userID int64) bool {
	_, ok := p.admins[userID]
	return ok
}

// EvaluateSend decides whether a user may relay a message at the given time.
// Every call re-reads store state; nothing is cached.
func (p *Policy) EvaluateSend(userID int64, now time.Time) (Verdict, error) {
	ban, err := p.bans.GetBan(userID)
	if err != nil {
		return Verdict{}, err
	}
	if ban != nil && banActive(ban, now) {
		return Verdict{Kind: Banned}, nil
	}

	last, err := p.activity.GetLastMessageTime(userID)
	if err != nil {
		return Verdict{}, err
	}
	if last != nil {
		if since := now.Sub(*last); since < p.rateLimit {
			return Verdict{Kind: RateLimited, RetryAfter: p.rateLimit - since}, nil
		}
	}

	return Verdict{Kind: Allowed}, nil
}

// banActive evaluates ban expiry lazily. A malformed stored expiry fails open:
// the user is treated as not banned, with a warning, rather than taking the
// pipeline down over one corrupt row.
func banActive(ban *models.BanRecord, now time.Time) bool {
	if ban.Permanent() {
		return true
	}
	until, err := ban.ExpiresAt()
	if err != nil {
		logger.Warningf("malformed ban_until %q for user %d, treating as lapsed", ban.BanUntil, ban.UserID)
		return false
	}
	return now.Before(until)
}

// ApplyBan bans the target user. days == 0 means permanent, days > 0 sets an
// absolute expiry, days < 0 is malformed. A new ban overwrites any existing
// one; there are no extend semantics.
func (p *Policy) ApplyBan(adminID, userID int64, days int, now time.Time) error {
	if !p.IsAdmin(adminID) {
		return ErrUnauthorized
	}
	if days < 0 {
		return ErrMalformedArgument
	}

	until := models.BanPermanent
	if days > 0 {
		until = now.AddDate(0, 0, days).Format(models.BanTimeLayout)
	}
	return p.bans.SetBan(userID, until)
}

// ApplyUnban lifts the ban on the target user. Idempotent: unbanning a user
// with no ban record succeeds silently.
func (p *Policy) ApplyUnban(adminID, userID int64) error {
	if !p.IsAdmin(adminID) {
		return ErrUnauthorized
	}
	return p.bans.ClearBan(userID)
}
