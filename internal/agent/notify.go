package agent

import (
	"fmt"
	"time"

	"github.com/atlanticproxy/atlantic/internal/models"
	"github.com/sirupsen/logrus"
)

type Notifier interface {
	Notify(models.Notification)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(models.Notification)

func (f NotifierFunc) Notify(n models.Notification) {
	f(n)
}

// LogNotifier writes notifications to the log.
type LogNotifier struct{}

func (LogNotifier) Notify(n models.Notification) {
	logrus.WithFields(logrus.Fields{
		"title": n.Title,
	}).Infoln(n.Message)
}

// transitions compares two consecutive snapshots. The first snapshot never
// notifies.
func transitions(previous *models.ProxyStatus, current models.ProxyStatus, now time.Time) []models.Notification {

	if previous == nil {
		return nil
	}

	var notifications []models.Notification

	if !previous.Connected && current.Connected {
		notifications = append(notifications, models.Notification{
			Title:   "Connected",
			Message: fmt.Sprintf("Connected to %s", current.GetLocation()),
			Time:    now,
		})
	} else if previous.Connected && !current.Connected {
		notifications = append(notifications, models.Notification{
			Title:   "Disconnected",
			Message: "Proxy connection lost",
			Time:    now,
		})
	}

	if !previous.KillSwitch && current.KillSwitch {
		notifications = append(notifications, models.Notification{
			Title:   "Kill Switch",
			Message: "Kill switch activated",
			Time:    now,
		})
	}

	return notifications
}
