package handler

import (
	"context"
	"testing"
	"time"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tg-relay/internal/models"
	"tg-relay/internal/moderation"
	"tg-relay/internal/relay"
	"tg-relay/internal/storage"
)

const (
	testDestination int64 = -100_200_300
	testAdminID     int64 = 100
)

type recordingTransport struct {
	delivered []relay.Payload
	replies   []string
}

func (t *recordingTransport) Deliver(_ context.Context, _ int64, p relay.Payload) error {
	t.delivered = append(t.delivered, p)
	return nil
}

func (t *recordingTransport) Reply(_ context.Context, _ relay.Inbound, text string) error {
	t.replies = append(t.replies, text)
	return nil
}

type handlerFixture struct {
	handler   *Handler
	users     *storage.UserRepository
	bans      *storage.BanRepository
	transport *recordingTransport
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.UserActivity{}, &models.BanRecord{}))

	users := storage.NewUserRepository(db)
	bans := storage.NewBanRepository(db)
	transport := &recordingTransport{}
	policy := moderation.NewPolicy(bans, users, []int64{testAdminID}, 5*time.Minute)
	pipeline := relay.NewPipeline(policy, users, transport, testDestination)

	return &handlerFixture{
		handler:   New(policy, pipeline, users, transport, testDestination),
		users:     users,
		bans:      bans,
		transport: transport,
	}
}

func userEvent(userID int64) relay.Inbound {
	return relay.Inbound{UserID: userID, ChatID: userID, FirstName: "Olena"}
}

func TestHandleStartGreetsOnlyOnce(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	require.NoError(t, f.handler.handleStart(ctx, userEvent(42)))

	require.Len(t, f.transport.replies, 1)
	assert.Equal(t, replyWelcome, f.transport.replies[0])

	// First contact is recorded and flagged as welcomed; the rate-limit
	// clock stays untouched.
	welcomed, err := f.users.IsWelcomed(42)
	require.NoError(t, err)
	assert.True(t, welcomed)

	last, err := f.users.GetLastMessageTime(42)
	require.NoError(t, err)
	assert.Nil(t, last)

	// A repeat /start gets the short reminder, not the full greeting.
	require.NoError(t, f.handler.handleStart(ctx, userEvent(42)))
	require.Len(t, f.transport.replies, 2)
	assert.Equal(t, replyWelcomeAgain, f.transport.replies[1])
}

func TestHandleBanByNonAdmin(t *testing.T) {
	f := newHandlerFixture(t)

	cmd := moderation.Command{Kind: moderation.CommandBan, UserID: 555}
	require.NoError(t, f.handler.handleBan(context.Background(), userEvent(999), cmd))

	require.Len(t, f.transport.replies, 1)
	assert.Equal(t, replyNotAllowed, f.transport.replies[0])

	ban, err := f.bans.GetBan(555)
	require.NoError(t, err)
	assert.Nil(t, ban)
}

func TestHandleBanApplied(t *testing.T) {
	f := newHandlerFixture(t)

	cmd := moderation.Command{Kind: moderation.CommandBan, UserID: 555, Days: 3}
	require.NoError(t, f.handler.handleBan(context.Background(), userEvent(testAdminID), cmd))

	require.Len(t, f.transport.replies, 1)
	assert.Contains(t, f.transport.replies[0], "banned for 3 day(s)")

	ban, err := f.bans.GetBan(555)
	require.NoError(t, err)
	require.NotNil(t, ban)
	assert.False(t, ban.Permanent())
}

func TestHandleBanMalformed(t *testing.T) {
	f := newHandlerFixture(t)

	// Parse errors and negative days both map to the usage hint.
	cmd := moderation.Command{Kind: moderation.CommandBan, Err: moderation.ErrMalformedArgument}
	require.NoError(t, f.handler.handleBan(context.Background(), userEvent(testAdminID), cmd))

	cmd = moderation.Command{Kind: moderation.CommandBan, UserID: 555, Days: -1}
	require.NoError(t, f.handler.handleBan(context.Background(), userEvent(testAdminID), cmd))

	require.Len(t, f.transport.replies, 2)
	assert.Equal(t, replyBanUsage, f.transport.replies[0])
	assert.Equal(t, replyBanUsage, f.transport.replies[1])
}

func TestHandleUnban(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	require.NoError(t, f.bans.SetBan(555, models.BanPermanent))

	cmd := moderation.Command{Kind: moderation.CommandUnban, UserID: 555}
	require.NoError(t, f.handler.handleUnban(ctx, userEvent(testAdminID), cmd))

	ban, err := f.bans.GetBan(555)
	require.NoError(t, err)
	assert.Nil(t, ban)

	// Unbanning a user who is not banned still reports success.
	require.NoError(t, f.handler.handleUnban(ctx, userEvent(testAdminID), cmd))
	require.Len(t, f.transport.replies, 2)
	assert.Contains(t, f.transport.replies[1], "unbanned")
}

func TestHandleUnbanByNonAdmin(t *testing.T) {
	f := newHandlerFixture(t)

	require.NoError(t, f.bans.SetBan(555, models.BanPermanent))

	cmd := moderation.Command{Kind: moderation.CommandUnban, UserID: 555}
	require.NoError(t, f.handler.handleUnban(context.Background(), userEvent(999), cmd))

	require.Len(t, f.transport.replies, 1)
	assert.Equal(t, replyNotAllowed, f.transport.replies[0])

	ban, err := f.bans.GetBan(555)
	require.NoError(t, err)
	assert.NotNil(t, ban)
}

func TestInboundFromMessage(t *testing.T) {
	message := telego.Message{
		From: &telego.User{ID: 42, FirstName: "Olena", LastName: "Kovalenko", Username: "olena_k"},
		Chat: telego.Chat{ID: 42},
		Text: "hello",
		Photo: []telego.PhotoSize{
			{FileID: "small"},
			{FileID: "large"},
		},
		Video:    &telego.Video{FileID: "vid"},
		Document: &telego.Document{FileID: "doc"},
		Caption:  "evidence",
	}

	in := inboundFromMessage(message)

	assert.Equal(t, int64(42), in.UserID)
	assert.Equal(t, "hello", in.Text)
	// The largest photo size is the last entry of the ladder.
	assert.Equal(t, "large", in.PhotoID)
	assert.Equal(t, "vid", in.VideoID)
	assert.Equal(t, "doc", in.DocumentID)
	assert.Equal(t, "evidence", in.Caption)
}
