package agent

import (
	"context"
	"testing"
	"time"

	"github.com/atlanticproxy/atlantic/internal/config"
	"github.com/atlanticproxy/atlantic/internal/models"
	"github.com/atlanticproxy/atlantic/internal/sessions"
	"github.com/atlanticproxy/atlantic/internal/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAgentAppliesConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Watch.PollInterval = "PT10S"
	cfg.Watch.Notify = false

	a := NewAgent(cfg, &fakeSource{}, sessions.NewSession(nil), false)

	assert.Equal(t, 10*time.Second, a.Watcher().pollInterval)
	assert.Nil(t, a.Watcher().notifier)
	assert.Nil(t, a.relay)
}

func TestAgentStartStop(t *testing.T) {
	cfg := config.DefaultConfig()
	source := &fakeSource{status: &models.ProxyStatus{Connected: true}}

	a := NewAgent(cfg, source, sessions.NewSession(nil), false, WithPollInterval(time.Hour))

	require.NoError(t, a.Start(context.Background()))
	require.Eventually(t, func() bool {
		return a.Watcher().StreamState() == stream.StateExhausted
	}, 5*time.Second, 10*time.Millisecond)

	a.Stop()
	a.Stop()

	_, streams := source.counts()
	assert.Equal(t, 1, streams)
}

func TestServiceConfig(t *testing.T) {
	svcConfig, err := getServiceConfig(config.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, ServiceName, svcConfig.Name)
	assert.Equal(t, []string{"watch", "--serve"}, svcConfig.Arguments)
	assert.NotEmpty(t, svcConfig.Executable)
}
