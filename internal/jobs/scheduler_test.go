package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScheduler_AddJob(t *testing.T) {
	t.Run("duplicate names are rejected", func(t *testing.T) {
		s := NewScheduler(zap.NewNop())

		require.NoError(t, s.AddJob("cleanup", "0 0 3 * * *", func() {}))
		err := s.AddJob("cleanup", "0 0 4 * * *", func() {})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("invalid cron expression", func(t *testing.T) {
		s := NewScheduler(zap.NewNop())

		err := s.AddJob("broken", "not a schedule", func() {})
		assert.Error(t, err)
	})
}

func TestScheduler_RunsRegisteredJob(t *testing.T) {
	s := NewScheduler(zap.NewNop())

	ran := make(chan struct{}, 1)
	require.NoError(t, s.AddJob("tick", "* * * * * *", func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	}))

	s.Start()
	defer func() { <-s.Stop().Done() }()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run within the schedule window")
	}
}
