package alert

import (
	"context"
	"testing"
	"time"

	"go-pm/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRetentionSweeper_Sweep(t *testing.T) {
	f := newServiceFixture()
	f.repo.purgeDeleted = 2
	cfg := &config.Config{AlertRetentionDays: 7, AlertRetentionCron: "0 3 * * *"}

	sweeper := NewRetentionSweeper(f.service, cfg, zap.NewNop())
	n, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, fixedNow.Add(-7*24*time.Hour), f.repo.purgeCutoff)
}

func TestRetentionSweeper_Start(t *testing.T) {
	f := newServiceFixture()

	disabled := NewRetentionSweeper(f.service, &config.Config{AlertRetentionDays: 0, AlertRetentionCron: "bogus"}, zap.NewNop())
	require.NoError(t, disabled.Start())
	disabled.Stop()

	invalid := NewRetentionSweeper(f.service, &config.Config{AlertRetentionDays: 30, AlertRetentionCron: "every day"}, zap.NewNop())
	assert.Error(t, invalid.Start())

	valid := NewRetentionSweeper(f.service, &config.Config{AlertRetentionDays: 30, AlertRetentionCron: "0 3 * * *"}, zap.NewNop())
	require.NoError(t, valid.Start())
	valid.Stop()
	valid.Stop()
}
