package agent

import (
	"context"
	"sync"

	"github.com/atlanticproxy/atlantic/internal/config"
	"github.com/atlanticproxy/atlantic/internal/daemon"
	"github.com/atlanticproxy/atlantic/internal/sessions"
	"github.com/sirupsen/logrus"
)

// Agent runs the status watcher and, when serving, the local relay on top
// of it. It backs both "atlantic watch" and the installed service.
type Agent struct {
	config  *config.Config
	watcher *Watcher
	relay   *daemon.Server

	mu      sync.Mutex
	cancel  context.CancelFunc
	started bool
}

func NewAgent(cfg *config.Config, source StatusSource, session *sessions.Session, serve bool, opts ...WatcherOption) *Agent {

	options := []WatcherOption{
		WithPollInterval(cfg.GetPollInterval()),
	}
	if !cfg.Watch.Notify {
		options = append(options, WithNotifier(nil))
	}
	options = append(options, opts...)

	a := &Agent{
		config:  cfg,
		watcher: NewWatcher(source, options...),
	}

	if serve {
		a.relay = daemon.NewServer(cfg, a.watcher, session, cfg.GetLogger())
	}

	return a
}

func (a *Agent) Watcher() *Watcher {
	return a.watcher
}

func (a *Agent) Start(ctx context.Context) error {

	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)

	if err := a.watcher.Start(ctx); err != nil {
		cancel()
		return err
	}

	if a.relay != nil {
		if err := a.relay.Start(); err != nil {
			a.watcher.Stop()
			cancel()
			return err
		}
	}

	a.cancel = cancel
	a.started = true

	logrus.WithFields(logrus.Fields{
		"endpoint": a.config.GetAPIEndpoint(),
		"relay":    a.relay != nil,
	}).Infoln("Atlantic agent started")

	return nil
}

func (a *Agent) Stop() {

	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.started {
		return
	}

	if a.relay != nil {
		a.relay.Stop()
	}
	a.watcher.Stop()
	a.cancel()
	a.started = false
}
