package watcher

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"twitchapi/pkg/helix"
	"twitchapi/pkg/logger"
)

// StreamFetcher is the part of the Helix client the watcher needs
type StreamFetcher interface {
	GetStreams(ctx context.Context, userLogins ...string) (*helix.StreamListResponse, error)
}

// EventKind describes a live-status transition
type EventKind string

const (
	EventWentLive    EventKind = "went_live"
	EventWentOffline EventKind = "went_offline"
)

// Event is emitted when a watched channel changes live status
type Event struct {
	Kind   EventKind
	Login  string
	Stream *helix.Stream // nil for offline events
	At     time.Time
}

// Watcher polls the streams endpoint for a set of channels and emits
// events on live-status transitions. All requests flow through the
// client's rate limiter, so a large channel set self-throttles.
type Watcher struct {
	client        StreamFetcher
	logins        []string
	interval      time.Duration
	maxConcurrent int
	events        chan Event
	live          map[string]bool
	logger        logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a watcher for the given channel logins
func New(client StreamFetcher, logins []string, interval time.Duration, maxConcurrent int, log logger.Logger) *Watcher {
	if log == nil {
		log = logger.GetLogger()
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Watcher{
		client:        client,
		logins:        logins,
		interval:      interval,
		maxConcurrent: maxConcurrent,
		events:        make(chan Event, len(logins)+1),
		live:          make(map[string]bool),
		logger:        log,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Events returns the channel on which transitions are delivered
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins polling. The first poll emits went_live events for every
// channel that is already streaming.
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.run()
}

// Stop cancels polling and closes the event channel
func (w *Watcher) Stop() {
	w.cancel()
	w.wg.Wait()
	close(w.events)
}

func (w *Watcher) run() {
	defer w.wg.Done()

	w.logger.InfoWithFields("watcher started", map[string]interface{}{
		"channels": len(w.logins),
		"interval": w.interval,
	})

	w.poll()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			w.logger.Info("watcher stopped")
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

// poll fetches the live set for all watched logins and emits transitions
func (w *Watcher) poll() {
	liveNow, err := w.fetchLiveSet()
	if err != nil {
		w.logger.WithError(err).Warn("poll failed, keeping previous state")
		return
	}

	now := time.Now()
	for _, login := range w.logins {
		stream, isLive := liveNow[login]
		wasLive := w.live[login]

		switch {
		case isLive && !wasLive:
			w.live[login] = true
			w.emit(Event{Kind: EventWentLive, Login: login, Stream: stream, At: now})
		case !isLive && wasLive:
			w.live[login] = false
			w.emit(Event{Kind: EventWentOffline, Login: login, At: now})
		}
	}
}

// fetchLiveSet queries the streams endpoint in chunks of at most
// MaxLoginsPerRequest logins, with chunk fetches bounded by maxConcurrent
func (w *Watcher) fetchLiveSet() (map[string]*helix.Stream, error) {
	chunks := chunkLogins(w.logins, helix.MaxLoginsPerRequest)

	var mu sync.Mutex
	liveNow := make(map[string]*helix.Stream, len(w.logins))

	g, ctx := errgroup.WithContext(w.ctx)
	g.SetLimit(w.maxConcurrent)

	for _, chunk := range chunks {
		chunk := chunk
		g.Go(func() error {
			resp, err := w.client.GetStreams(ctx, chunk...)
			if err != nil {
				return err
			}

			mu.Lock()
			for i := range resp.Data {
				s := &resp.Data[i]
				liveNow[s.UserLogin] = s
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return liveNow, nil
}

func (w *Watcher) emit(ev Event) {
	select {
	case w.events <- ev:
	case <-w.ctx.Done():
	}
}

// chunkLogins splits logins into slices of at most size entries
func chunkLogins(logins []string, size int) [][]string {
	var chunks [][]string
	for len(logins) > size {
		chunks = append(chunks, logins[:size])
		logins = logins[size:]
	}
	if len(logins) > 0 {
		chunks = append(chunks, logins)
	}
	return chunks
}
