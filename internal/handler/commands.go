package handler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tg-relay/internal/logger"
	"tg-relay/internal/moderation"
	"tg-relay/internal/relay"
)

const (
	replyWelcome        = "👋 Welcome! If you witnessed something important, send it to us."
	replyWelcomeAgain   = "You're all set, just send your message."
	replyUnknownCommand = "❌ Unknown command. Send /start to get going."

	replyNotAllowed   = "⛔ You are not allowed to use this command."
	replyBanUsage     = "❌ Invalid format. Usage: /ban <user_id> [days]"
	replyUnbanUsage   = "❌ Invalid format. Usage: /unban <user_id>"
	replyBanPermFmt   = "✅ User %d banned permanently."
	replyBanDaysFmt   = "✅ User %d banned for %d day(s)."
	replyUnbannedFmt  = "✅ User %d unbanned."
	replyCommandError = "❌ Something went wrong, please try again later."
)

// handleStart records first contact and greets the user. The full greeting is
// sent only once; later /start calls get a short reminder.
func (h *Handler) handleStart(ctx context.Context, in relay.Inbound) error {
	logger.Infof("Received /start from user %d", in.UserID)

	welcomed, err := h.users.IsWelcomed(in.UserID)
	if err != nil {
		logger.Errorf("welcome lookup failed for user %d: %v", in.UserID, err)
		return h.reply(ctx, in, replyCommandError)
	}
	if welcomed {
		return h.reply(ctx, in, replyWelcomeAgain)
	}

	if err := h.users.MarkUserSeen(in.UserID); err != nil {
		logger.Errorf("mark seen failed for user %d: %v", in.UserID, err)
		return h.reply(ctx, in, replyCommandError)
	}
	if err := h.users.MarkWelcomed(in.UserID); err != nil {
		logger.Errorf("mark welcomed failed for user %d: %v", in.UserID, err)
		return h.reply(ctx, in, replyCommandError)
	}

	return h.reply(ctx, in, replyWelcome)
}

// handleBan maps /ban through the policy onto the fixed admin response set.
func (h *Handler) handleBan(ctx context.Context, in relay.Inbound, cmd moderation.Command) error {
	if !h.policy.IsAdmin(in.UserID) {
		return h.reply(ctx, in, replyNotAllowed)
	}
	if cmd.Err != nil {
		return h.reply(ctx, in, replyBanUsage)
	}

	err := h.policy.ApplyBan(in.UserID, cmd.UserID, cmd.Days, time.Now())
	switch {
	case errors.Is(err, moderation.ErrUnauthorized):
		return h.reply(ctx, in, replyNotAllowed)
	case errors.Is(err, moderation.ErrMalformedArgument):
		return h.reply(ctx, in, replyBanUsage)
	case err != nil:
		logger.Errorf("ban of user %d by admin %d failed: %v", cmd.UserID, in.UserID, err)
		return h.reply(ctx, in, replyCommandError)
	}

	logger.Infof("Admin %d banned user %d (days=%d)", in.UserID, cmd.UserID, cmd.Days)
	if cmd.Days == 0 {
		return h.reply(ctx, in, fmt.Sprintf(replyBanPermFmt, cmd.UserID))
	}
	return h.reply(ctx, in, fmt.Sprintf(replyBanDaysFmt, cmd.UserID, cmd.Days))
}

// handleUnban maps /unban through the policy; unbanning a user who is not
// banned still reports success.
func (h *Handler) handleUnban(ctx context.Context, in relay.Inbound, cmd moderation.Command) error {
	if !h.policy.IsAdmin(in.UserID) {
		return h.reply(ctx, in, replyNotAllowed)
	}
	if cmd.Err != nil {
		return h.reply(ctx, in, replyUnbanUsage)
	}

	err := h.policy.ApplyUnban(in.UserID, cmd.UserID)
	switch {
	case errors.Is(err, moderation.ErrUnauthorized):
		return h.reply(ctx, in, replyNotAllowed)
	case err != nil:
		logger.Errorf("unban of user %d by admin %d failed: %v", cmd.UserID, in.UserID, err)
		return h.reply(ctx, in, replyCommandError)
	}

	logger.Infof("Admin %d unbanned user %d", in.UserID, cmd.UserID)
	return h.reply(ctx, in, fmt.Sprintf(replyUnbannedFmt, cmd.UserID))
}

func (h *Handler) reply(ctx context.Context, in relay.Inbound, text string) error {
	if err := h.transport.Reply(ctx, in, text); err != nil {
		logger.Warningf("reply to user %d failed: %v", in.UserID, err)
		return err
	}
	return nil
}
