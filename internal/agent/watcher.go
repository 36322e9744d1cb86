package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/atlanticproxy/atlantic/internal/models"
	"github.com/atlanticproxy/atlantic/internal/stream"
	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

const DefaultPollInterval = 5 * time.Second

// StatusSource is implemented by *client.Client.
type StatusSource interface {
	GetStatus(ctx context.Context) (*models.ProxyStatus, error)
	OpenStatusStream(callback func(models.ProxyStatus), opts ...stream.Option) *stream.Subscription
}

// Watcher follows the live status feed and raises notifications on
// connection and kill switch transitions. Once the feed has spent its
// reconnect budget the watcher polls GET /status and reopens the feed as
// soon as the backend answers.
type Watcher struct {
	source       StatusSource
	notifier     Notifier
	pollInterval time.Duration
	onUpdate     func(models.ProxyStatus)

	mu          sync.RWMutex
	running     bool
	last        *models.ProxyStatus
	updatedAt   time.Time
	generation  int
	streamState stream.State
	sub         *stream.Subscription
	scheduler   *gocron.Scheduler
}

type WatcherOption func(*Watcher)

func WithNotifier(notifier Notifier) WatcherOption {
	return func(w *Watcher) {
		w.notifier = notifier
	}
}

func WithPollInterval(interval time.Duration) WatcherOption {
	return func(w *Watcher) {
		if interval > 0 {
			w.pollInterval = interval
		}
	}
}

// WithUpdateHook is called with every status the watcher accepts.
func WithUpdateHook(hook func(models.ProxyStatus)) WatcherOption {
	return func(w *Watcher) {
		w.onUpdate = hook
	}
}

func NewWatcher(source StatusSource, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		source:       source,
		notifier:     LogNotifier{},
		pollInterval: DefaultPollInterval,
		streamState:  stream.StateConnecting,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Watcher) Start(ctx context.Context) error {

	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher is already running")
	}
	w.running = true
	w.mu.Unlock()

	w.openStream()

	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	_, err := scheduler.Every(w.pollInterval).WaitForSchedule().Do(func() {
		w.Poll(ctx)
	})
	if err != nil {
		w.Stop()
		return fmt.Errorf("failed to schedule status polling: %w", err)
	}

	scheduler.StartAsync()

	w.mu.Lock()
	w.scheduler = scheduler
	w.mu.Unlock()

	logrus.WithField("pollInterval", w.pollInterval).Infoln("Status watcher started")

	return nil
}

// Run blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	w.Stop()
	return nil
}

func (w *Watcher) Stop() {

	w.mu.Lock()
	scheduler := w.scheduler
	sub := w.sub
	w.scheduler = nil
	w.sub = nil
	w.running = false
	w.mu.Unlock()

	if scheduler != nil {
		scheduler.Stop()
	}
	if sub != nil {
		sub.Close()
	}

	logrus.Infoln("Status watcher stopped")
}

// Poll is the fallback used while the feed is exhausted. It does nothing
// while the feed is healthy.
func (w *Watcher) Poll(ctx context.Context) {

	if w.StreamState() != stream.StateExhausted {
		return
	}

	status, err := w.source.GetStatus(ctx)
	if err != nil {
		logrus.WithError(err).Debugln("Status poll failed")
		return
	}

	w.Observe(*status)

	w.mu.RLock()
	running := w.running
	w.mu.RUnlock()

	if running {
		logrus.Infoln("Backend reachable again, reopening status feed")
		w.openStream()
	}
}

// Observe records a status and emits any transitions against the previous
// one.
func (w *Watcher) Observe(status models.ProxyStatus) {

	now := time.Now().UTC()

	w.mu.Lock()
	previous := w.last
	w.last = &status
	w.updatedAt = now
	w.mu.Unlock()

	if w.notifier != nil {
		for _, notification := range transitions(previous, status, now) {
			w.notifier.Notify(notification)
		}
	}

	if w.onUpdate != nil {
		w.onUpdate(status)
	}
}

func (w *Watcher) StreamState() stream.State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.streamState
}

func (w *Watcher) Snapshot() models.WatchSnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	snapshot := models.WatchSnapshot{
		StreamState: w.streamState.String(),
		UpdatedAt:   w.updatedAt,
	}
	if w.last != nil {
		status := *w.last
		snapshot.Status = &status
	}
	return snapshot
}

func (w *Watcher) openStream() {

	w.mu.Lock()
	w.generation++
	generation := w.generation
	w.streamState = stream.StateConnecting
	previous := w.sub
	w.mu.Unlock()

	if previous != nil {
		previous.Close()
	}

	sub := w.source.OpenStatusStream(w.Observe, stream.WithStateHook(func(state stream.State) {
		w.setStreamState(generation, state)
	}))

	w.mu.Lock()
	if w.generation != generation || !w.running {
		w.mu.Unlock()
		sub.Close()
		return
	}
	w.sub = sub
	w.mu.Unlock()
}

// setStreamState ignores hooks from subscriptions that have been replaced.
func (w *Watcher) setStreamState(generation int, state stream.State) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if generation != w.generation {
		return
	}
	w.streamState = state
}
