package extract

import (
	"sync"
	"testing"
	"time"
)

// collector records dispatched values under a lock so tests can poll.
type collector struct {
	mu     sync.Mutex
	values []string
}

func (c *collector) add(v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = append(c.values, v)
}

func (c *collector) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.values...)
}

func (c *collector) waitFor(t *testing.T, n int) []string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := c.snapshot(); len(got) >= n {
			return got
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d dispatches, have %v", n, c.snapshot())
	return nil
}

func TestDebouncerCoalescesEdits(t *testing.T) {
	var c collector
	d := NewDebouncer(30*time.Millisecond, c.add)

	// Keystroke-style edits inside the quiet period.
	d.Submit("h")
	d.Submit("ht")
	d.Submit("htt")
	d.Submit("https://example.org")

	got := c.waitFor(t, 1)
	time.Sleep(60 * time.Millisecond)
	got = c.snapshot()
	if len(got) != 1 || got[0] != "https://example.org" {
		t.Errorf("dispatches = %v, want only the final value", got)
	}
}

func TestDebouncerSkipsRepeatOfFiredValue(t *testing.T) {
	var c collector
	d := NewDebouncer(20*time.Millisecond, c.add)

	d.Submit("https://example.org")
	c.waitFor(t, 1)

	// Touching the input without changing it must not re-trigger.
	d.Submit("https://example.org")
	time.Sleep(50 * time.Millisecond)
	if got := c.snapshot(); len(got) != 1 {
		t.Errorf("dispatches = %v, want no repeat", got)
	}
}

func TestDebouncerStaleTimerDoesNotFire(t *testing.T) {
	var c collector
	d := NewDebouncer(20*time.Millisecond, c.add)

	d.Submit("old")
	time.Sleep(5 * time.Millisecond)
	d.Submit("new")

	got := c.waitFor(t, 1)
	time.Sleep(50 * time.Millisecond)
	got = c.snapshot()
	if len(got) != 1 || got[0] != "new" {
		t.Errorf("dispatches = %v, want only the superseding value", got)
	}
}

func TestDebouncerNowBypassesQuietPeriod(t *testing.T) {
	var c collector
	d := NewDebouncer(time.Hour, c.add)

	d.Submit("pending")
	d.Now("file-upload")

	got := c.snapshot()
	if len(got) != 1 || got[0] != "file-upload" {
		t.Errorf("dispatches = %v, want immediate value only", got)
	}

	// The pending timer was cancelled with it.
	time.Sleep(30 * time.Millisecond)
	if got := c.snapshot(); len(got) != 1 {
		t.Errorf("dispatches = %v, cancelled timer fired", got)
	}
}

func TestDebouncerStop(t *testing.T) {
	var c collector
	d := NewDebouncer(20*time.Millisecond, c.add)
	d.Submit("value")
	d.Stop()
	time.Sleep(50 * time.Millisecond)
	if got := c.snapshot(); len(got) != 0 {
		t.Errorf("dispatches = %v, want none after Stop", got)
	}
}
