package config

import (
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fire(t *testing.T, l *ringLogger, level logrus.Level, msg string, at time.Time) {
	t.Helper()
	require.NoError(t, l.Fire(&logrus.Entry{
		Level:   level,
		Message: msg,
		Time:    at,
		Data:    logrus.Fields{},
	}))
}

func TestRingLoggerWrapsInOrder(t *testing.T) {
	l := NewRingLogger(3)
	now := time.Now()

	for i := 0; i < 5; i++ {
		fire(t, l, logrus.InfoLevel, fmt.Sprintf("m%d", i), now.Add(time.Duration(i)*time.Second))
	}

	events := l.GetEvents()
	require.Len(t, events, 3)
	assert.Equal(t, "m2", events[0].Message)
	assert.Equal(t, "m4", events[2].Message)

	recent := l.GetRecentEvents(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "m3", recent[0].Message)

	l.Clear()
	assert.Empty(t, l.GetEvents())
}

func TestRingLoggerFilter(t *testing.T) {
	l := NewRingLogger(10)
	base := time.Now()

	fire(t, l, logrus.InfoLevel, "info-1", base)
	fire(t, l, logrus.ErrorLevel, "error-1", base.Add(time.Second))
	fire(t, l, logrus.WarnLevel, "warn-1", base.Add(2*time.Second))
	fire(t, l, logrus.ErrorLevel, "error-2", base.Add(3*time.Second))

	errorsOnly := l.GetEventsWithFilter(LogFilter{Levels: []logrus.Level{logrus.ErrorLevel}})
	require.Len(t, errorsOnly, 2)
	assert.Equal(t, "error-1", errorsOnly[0].Message)

	since := base.Add(2 * time.Second)
	later := l.GetEventsWithFilter(LogFilter{Since: &since})
	require.Len(t, later, 2)
	assert.Equal(t, "warn-1", later[0].Message)

	limited := l.GetEventsWithFilter(LogFilter{Limit: 1})
	require.Len(t, limited, 1)
	assert.Equal(t, "error-2", limited[0].Message)
	assert.Equal(t, "error", limited[0].LevelName)
}

func TestRingLoggerStringifiesErrors(t *testing.T) {
	l := NewRingLogger(2)
	require.NoError(t, l.Fire(&logrus.Entry{
		Level: logrus.ErrorLevel,
		Data:  logrus.Fields{logrus.ErrorKey: fmt.Errorf("boom")},
	}))
	assert.Equal(t, "boom", l.GetEvents()[0].Data[logrus.ErrorKey])
}
