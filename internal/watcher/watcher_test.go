package watcher

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"twitchapi/pkg/helix"
	"twitchapi/pkg/logger"
)

// fakeFetcher returns scripted stream lists, one per poll
type fakeFetcher struct {
	mu        sync.Mutex
	responses [][]helix.Stream
	calls     int
	seen      [][]string
	err       error
}

func (f *fakeFetcher) GetStreams(ctx context.Context, userLogins ...string) (*helix.StreamListResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seen = append(f.seen, userLogins)
	if f.err != nil {
		return nil, f.err
	}

	idx := f.calls
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	f.calls++

	return &helix.StreamListResponse{Data: f.responses[idx]}, nil
}

func waitForEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestWatcherEmitsTransitions(t *testing.T) {
	aliceLive := helix.Stream{UserLogin: "alice", UserName: "Alice", Type: "live"}

	fetcher := &fakeFetcher{
		responses: [][]helix.Stream{
			{aliceLive}, // first poll: alice live
			{},          // second poll: alice offline
		},
	}

	w := New(fetcher, []string{"alice", "bob"}, 20*time.Millisecond, 2, logger.NewTestLogger())
	w.Start()
	defer w.Stop()

	ev := waitForEvent(t, w.Events())
	if ev.Kind != EventWentLive || ev.Login != "alice" {
		t.Fatalf("expected alice went_live, got %+v", ev)
	}
	if ev.Stream == nil || ev.Stream.UserName != "Alice" {
		t.Errorf("expected stream payload on live event, got %+v", ev.Stream)
	}

	ev = waitForEvent(t, w.Events())
	if ev.Kind != EventWentOffline || ev.Login != "alice" {
		t.Fatalf("expected alice went_offline, got %+v", ev)
	}
	if ev.Stream != nil {
		t.Error("offline events carry no stream payload")
	}
}

func TestWatcherSkipsFailedPolls(t *testing.T) {
	fetcher := &fakeFetcher{err: fmt.Errorf("boom")}

	w := New(fetcher, []string{"alice"}, 20*time.Millisecond, 1, logger.NewTestLogger())
	w.Start()

	// No events should arrive while every poll fails
	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}

	w.Stop()
}

func TestWatcherChunksLargeSets(t *testing.T) {
	logins := make([]string, 150)
	for i := range logins {
		logins[i] = fmt.Sprintf("channel%03d", i)
	}

	fetcher := &fakeFetcher{responses: [][]helix.Stream{{}}}

	w := New(fetcher, logins, time.Hour, 2, logger.NewTestLogger())
	w.Start()

	// Wait for the initial poll to complete both chunk fetches
	deadline := time.Now().Add(2 * time.Second)
	for {
		fetcher.mu.Lock()
		n := len(fetcher.seen)
		fetcher.mu.Unlock()
		if n >= 2 || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	w.Stop()

	fetcher.mu.Lock()
	defer fetcher.mu.Unlock()

	if len(fetcher.seen) != 2 {
		t.Fatalf("expected 2 chunked requests, got %d", len(fetcher.seen))
	}
	total := len(fetcher.seen[0]) + len(fetcher.seen[1])
	if total != 150 {
		t.Errorf("expected all 150 logins across chunks, got %d", total)
	}
	for _, chunk := range fetcher.seen {
		if len(chunk) > helix.MaxLoginsPerRequest {
			t.Errorf("chunk exceeds per-request cap: %d", len(chunk))
		}
	}
}

func TestChunkLogins(t *testing.T) {
	tests := []struct {
		name  string
		count int
		size  int
		want  []int
	}{
		{"empty", 0, 100, nil},
		{"single partial chunk", 5, 100, []int{5}},
		{"exact boundary", 100, 100, []int{100}},
		{"overflow", 101, 100, []int{100, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logins := make([]string, tt.count)
			chunks := chunkLogins(logins, tt.size)
			if len(chunks) != len(tt.want) {
				t.Fatalf("expected %d chunks, got %d", len(tt.want), len(chunks))
			}
			for i, want := range tt.want {
				if len(chunks[i]) != want {
					t.Errorf("chunk %d: expected %d logins, got %d", i, want, len(chunks[i]))
				}
			}
		})
	}
}
