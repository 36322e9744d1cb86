package models

import (
	"time"

	"github.com/sirupsen/logrus"
)

type LogEntry struct {

	// Contains all the fields set by the caller.
	Data logrus.Fields `json:"data,omitempty"`

	// Time at which the log entry was created
	Time time.Time `json:"time"`

	// Level the entry was logged at. Serialised by name so the relay's
	// /logs output stays readable.
	Level logrus.Level `json:"-"`

	LevelName string `json:"level"`

	Message string `json:"message,omitempty"`
}

func NewLogEntry(entry *logrus.Entry) *LogEntry {
	data := make(logrus.Fields, len(entry.Data))
	for k, v := range entry.Data {
		// errors don't survive JSON encoding
		if err, ok := v.(error); ok {
			data[k] = err.Error()
			continue
		}
		data[k] = v
	}

	return &LogEntry{
		Data:      data,
		Time:      entry.Time,
		Level:     entry.Level,
		LevelName: entry.Level.String(),
		Message:   entry.Message,
	}
}
