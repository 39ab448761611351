package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Bot: BotConfig{
			Token:             "123456789:AAFakeTokenForTests",
			DestinationChatID: -1001234567890,
			AdminIDs:          []int64{111111111},
		},
		Moderation: ModerationConfig{RateLimit: 5 * time.Minute},
		Database:   DatabaseConfig{Driver: "sqlite", DSN: "data/bot_data.db"},
	}
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	require.NoError(t, validate(validConfig()))
}

func TestValidateRejectsMissingToken(t *testing.T) {
	c := validConfig()
	c.Bot.Token = ""
	assert.Error(t, validate(c))
}

func TestValidateRejectsShortToken(t *testing.T) {
	c := validConfig()
	c.Bot.Token = "abc"
	assert.Error(t, validate(c))
}

func TestValidateRejectsMissingDestination(t *testing.T) {
	c := validConfig()
	c.Bot.DestinationChatID = 0
	assert.Error(t, validate(c))
}

func TestValidateRejectsNegativeRateLimit(t *testing.T) {
	c := validConfig()
	c.Moderation.RateLimit = -time.Minute
	assert.Error(t, validate(c))
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	c := validConfig()
	c.Database.Driver = "postgres"
	assert.Error(t, validate(c))
}
