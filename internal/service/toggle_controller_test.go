package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"croncommander/internal/domain"
	"croncommander/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleStopsRecurringJob(t *testing.T) {
	gw := newRecordingGateway(
		domain.ScheduledJob{HookID: "my_hook", DueTime: testNow, Recurrence: "hourly"},
		domain.ScheduledJob{HookID: "my_hook", DueTime: testNow + 3600, Recurrence: "hourly"},
		domain.ScheduledJob{HookID: "other_hook", DueTime: testNow + 10},
	)
	controller := NewToggleController(gw, DefaultReArmDelay, logger.NewNopLogger())

	result, err := controller.Toggle(context.Background(), "my_hook", testNow)
	require.NoError(t, err)
	assert.Equal(t, domain.ToggleStopped, result)

	snapshot, err := gw.Gateway.ListAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, snapshot.Len())
	assert.Equal(t, "other_hook", snapshot.Jobs()[0].HookID)
	assert.Equal(t, []string{"FindJob", "ClearRecurring"}, gw.Calls())
}

func TestToggleStartsOneTimeJob(t *testing.T) {
	gw := newRecordingGateway(domain.ScheduledJob{HookID: "cleanup", DueTime: testNow - 30})
	controller := NewToggleController(gw, DefaultReArmDelay, logger.NewNopLogger())

	result, err := controller.Toggle(context.Background(), "cleanup", testNow-30)
	require.NoError(t, err)
	assert.Equal(t, domain.ToggleStarted, result)

	job, err := gw.Gateway.FindJob(context.Background(), "cleanup", testNow+60)
	require.NoError(t, err)
	assert.False(t, job.IsRecurring())
	assert.Equal(t, []string{"FindJob", "ScheduleOnce"}, gw.Calls())
}

func TestToggleUnknownJob(t *testing.T) {
	gw := newRecordingGateway(domain.ScheduledJob{HookID: "my_hook", DueTime: testNow, Recurrence: "daily"})
	controller := NewToggleController(gw, DefaultReArmDelay, logger.NewNopLogger())

	_, err := controller.Toggle(context.Background(), "my_hook", testNow+1)
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
	assert.Equal(t, []string{"FindJob"}, gw.Calls())

	snapshot, err := gw.Gateway.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.Len())
}

func TestToggleTwiceAfterStopReportsNotFound(t *testing.T) {
	gw := newRecordingGateway(domain.ScheduledJob{HookID: "my_hook", DueTime: testNow, Recurrence: "hourly"})
	controller := NewToggleController(gw, DefaultReArmDelay, logger.NewNopLogger())

	result, err := controller.Toggle(context.Background(), "my_hook", testNow)
	require.NoError(t, err)
	assert.Equal(t, domain.ToggleStopped, result)

	_, err = controller.Toggle(context.Background(), "my_hook", testNow)
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestToggleGatewayFailure(t *testing.T) {
	gw := newRecordingGateway()
	controller := NewToggleController(failingGateway{gw}, DefaultReArmDelay, logger.NewNopLogger())

	_, err := controller.Toggle(context.Background(), "my_hook", testNow)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Equal(t, domain.KindUpstreamUnavailable, domain.KindOf(err))
}

func TestNewToggleControllerDefaultsDelay(t *testing.T) {
	controller := NewToggleController(newRecordingGateway(), 0, logger.NewNopLogger())
	assert.Equal(t, 60*time.Second, controller.ReArmDelay())

	controller = NewToggleController(newRecordingGateway(), 5*time.Minute, logger.NewNopLogger())
	assert.Equal(t, 5*time.Minute, controller.ReArmDelay())
}

type failingGateway struct {
	*recordingGateway
}

func (failingGateway) FindJob(context.Context, string, int64) (*domain.ScheduledJob, error) {
	return nil, fmt.Errorf("%w: connection refused", domain.ErrUpstreamUnavailable)
}
