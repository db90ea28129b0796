package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedStreamer replays a fixed event sequence and closes the stream.
type scriptedStreamer struct {
	events  []DownloadEvent
	openErr error
}

func (s *scriptedStreamer) StreamDownload(ctx context.Context, serviceID string) (<-chan DownloadEvent, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	ch := make(chan DownloadEvent)
	go func() {
		defer close(ch)
		for _, event := range s.events {
			ch <- event
		}
	}()
	return ch, nil
}

// chanStreamer hands out a channel the test feeds by hand.
type chanStreamer struct {
	ch chan DownloadEvent
}

func (s *chanStreamer) StreamDownload(ctx context.Context, serviceID string) (<-chan DownloadEvent, error) {
	return s.ch, nil
}

func TestTracker_Download_Success(t *testing.T) {
	streamer := &scriptedStreamer{events: []DownloadEvent{
		{Percentage: 0},
		{Percentage: 10},
		{Percentage: 45},
		{Percentage: 100},
		{Done: true},
	}}

	tracker := NewTracker(streamer)
	var observed []int
	tracker.SetProgressCallback(func(pct int) { observed = append(observed, pct) })

	completions := 0
	err := tracker.Download(context.Background(), "svc-1", func() { completions++ })

	require.NoError(t, err)
	assert.Equal(t, 1, completions)
	assert.Equal(t, -1, tracker.Progress())

	// Every observed value except the final idle reset is non-decreasing.
	require.NotEmpty(t, observed)
	assert.Equal(t, -1, observed[len(observed)-1])
	for i := 1; i < len(observed)-1; i++ {
		assert.GreaterOrEqual(t, observed[i], observed[i-1])
	}
}

func TestTracker_Download_IgnoresRegressions(t *testing.T) {
	streamer := &scriptedStreamer{events: []DownloadEvent{
		{Percentage: 30},
		{Percentage: 10},
		{Percentage: 60},
		{Done: true},
	}}

	tracker := NewTracker(streamer)
	var observed []int
	tracker.SetProgressCallback(func(pct int) { observed = append(observed, pct) })

	require.NoError(t, tracker.Download(context.Background(), "svc-1", nil))

	// The out-of-order 10 never surfaces.
	assert.Equal(t, []int{0, 30, 60, -1}, observed)
}

func TestTracker_Download_InterruptedStream(t *testing.T) {
	// Stream closes without an explicit done event.
	streamer := &scriptedStreamer{events: []DownloadEvent{
		{Percentage: 0},
		{Percentage: 40},
	}}

	tracker := NewTracker(streamer)
	completions := 0
	err := tracker.Download(context.Background(), "svc-1", func() { completions++ })

	assert.ErrorIs(t, err, ErrStreamInterrupted)
	assert.Zero(t, completions)
	assert.Equal(t, -1, tracker.Progress())
}

func TestTracker_Download_OpenFailure(t *testing.T) {
	streamer := &scriptedStreamer{openErr: errors.New("daemon unreachable")}

	tracker := NewTracker(streamer)
	completions := 0
	err := tracker.Download(context.Background(), "svc-1", func() { completions++ })

	require.Error(t, err)
	assert.Zero(t, completions)
	assert.Equal(t, -1, tracker.Progress())
}

func TestTracker_Download_BusyGuard(t *testing.T) {
	streamer := &chanStreamer{ch: make(chan DownloadEvent)}
	tracker := NewTracker(streamer)

	done := make(chan error, 1)
	go func() {
		done <- tracker.Download(context.Background(), "svc-1", nil)
	}()

	require.Eventually(t, func() bool {
		return tracker.Progress() == 0
	}, time.Second, time.Millisecond)

	err := tracker.Download(context.Background(), "svc-2", nil)
	assert.ErrorIs(t, err, ErrDownloadActive)

	streamer.ch <- DownloadEvent{Done: true}
	require.NoError(t, <-done)
}

func TestTracker_Download_Reinvocable(t *testing.T) {
	streamer := &scriptedStreamer{events: []DownloadEvent{
		{Percentage: 100},
		{Done: true},
	}}
	tracker := NewTracker(streamer)

	completions := 0
	require.NoError(t, tracker.Download(context.Background(), "svc-1", func() { completions++ }))
	require.NoError(t, tracker.Download(context.Background(), "svc-1", func() { completions++ }))

	assert.Equal(t, 2, completions)
	assert.Equal(t, -1, tracker.Progress())
}
