package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartRejectsEmptyExpression(t *testing.T) {
	t.Parallel()

	s := NewCronScheduler("", time.UTC, nil)
	assert.Error(t, s.Start(context.Background(), func(time.Time) {}))
}

func TestStartRejectsInvalidExpression(t *testing.T) {
	t.Parallel()

	s := NewCronScheduler("not a cron line", time.UTC, nil)
	assert.Error(t, s.Start(context.Background(), func(time.Time) {}))
}

func TestSchedulerFiresJob(t *testing.T) {
	t.Parallel()

	var fired atomic.Int32
	s := NewCronScheduler("@every 10ms", time.UTC, nil)
	require.NoError(t, s.Start(context.Background(), func(time.Time) {
		fired.Add(1)
	}))
	defer s.Stop(context.Background())

	assert.Eventually(t, func() bool {
		return fired.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStopIsSafeWithoutStart(t *testing.T) {
	t.Parallel()

	s := NewCronScheduler("@hourly", time.UTC, nil)
	assert.NoError(t, s.Stop(context.Background()))
}
