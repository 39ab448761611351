package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tg-relay/internal/models"
	"tg-relay/internal/storage"
)

func newTestBanRepo(t *testing.T) *storage.BanRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.BanRecord{}))
	return storage.NewBanRepository(db)
}

func TestJanitorDisabledByEmptySchedule(t *testing.T) {
	j := NewJanitor(newTestBanRepo(t), "")

	require.NoError(t, j.Start())
	assert.Nil(t, j.cron)
	j.Stop()
}

func TestJanitorPurgesLapsedBans(t *testing.T) {
	repo := newTestBanRepo(t)
	require.NoError(t, repo.SetBan(1, models.BanPermanent))
	require.NoError(t, repo.SetBan(2, time.Now().Add(-time.Hour).Format(models.BanTimeLayout)))

	j := NewJanitor(repo, "@hourly")
	j.run()

	ban, err := repo.GetBan(1)
	require.NoError(t, err)
	assert.NotNil(t, ban)

	ban, err = repo.GetBan(2)
	require.NoError(t, err)
	assert.Nil(t, ban)
}

func TestJanitorBadSchedule(t *testing.T) {
	j := NewJanitor(newTestBanRepo(t), "every once in a while")
	assert.Error(t, j.Start())
}
