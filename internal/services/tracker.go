package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrDownloadActive    = errors.New("download already in progress")
	ErrStreamInterrupted = errors.New("download stream ended before completion")
)

// Tracker runs one service download at a time and reports its progress.
// Progress is -1 while idle and 0..100 while a download is running; it never
// decreases within one invocation (out-of-order lower values from the stream
// are ignored). The completion callback fires exactly once per successful
// stream, after which the tracker returns to idle and can be reused.
type Tracker struct {
	mu         sync.Mutex
	streamer   ProgressStreamer
	progress   int
	active     bool
	onProgress func(int)
}

func NewTracker(streamer ProgressStreamer) *Tracker {
	return &Tracker{
		streamer: streamer,
		progress: -1,
	}
}

// SetProgressCallback registers a callback invoked on every progress change,
// including the reset to -1. Must be set before Download is called.
func (t *Tracker) SetProgressCallback(fn func(int)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onProgress = fn
}

// Progress returns the current percentage, or -1 when no download is running.
func (t *Tracker) Progress() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress
}

// Download streams progress for serviceID until the daemon signals done.
// It blocks until the stream ends; callers run it on their own goroutine.
// A second Download while one is active is rejected. onComplete is invoked
// only when the stream terminates with an explicit done event; the caller is
// expected to refetch service state from its own source of truth there.
func (t *Tracker) Download(ctx context.Context, serviceID string, onComplete func()) error {
	t.mu.Lock()
	if t.active {
		t.mu.Unlock()
		return fmt.Errorf("download %s: %w", serviceID, ErrDownloadActive)
	}
	t.active = true
	t.mu.Unlock()

	events, err := t.streamer.StreamDownload(ctx, serviceID)
	if err != nil {
		t.reset()
		return err
	}

	t.setProgress(0)

	completed := false
	for event := range events {
		if event.Done {
			completed = true
			break
		}
		t.advance(event.Percentage)
	}

	if !completed {
		t.reset()
		return fmt.Errorf("download %s: %w", serviceID, ErrStreamInterrupted)
	}

	if onComplete != nil {
		onComplete()
	}
	t.reset()
	return nil
}

// advance raises progress to pct, ignoring regressions.
func (t *Tracker) advance(pct int) {
	t.mu.Lock()
	if pct <= t.progress || pct > 100 {
		t.mu.Unlock()
		return
	}
	t.progress = pct
	notify := t.onProgress
	t.mu.Unlock()

	if notify != nil {
		notify(pct)
	}
}

func (t *Tracker) setProgress(pct int) {
	t.mu.Lock()
	t.progress = pct
	notify := t.onProgress
	t.mu.Unlock()

	if notify != nil {
		notify(pct)
	}
}

func (t *Tracker) reset() {
	t.mu.Lock()
	t.progress = -1
	t.active = false
	notify := t.onProgress
	t.mu.Unlock()

	if notify != nil {
		notify(-1)
	}
}
