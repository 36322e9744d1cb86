package client

import (
	"encoding/json"

	"github.com/atlanticproxy/atlantic/internal/models"
	"github.com/atlanticproxy/atlantic/internal/stream"
	"github.com/sirupsen/logrus"
)

// SubscribeToStatus opens the live status feed and returns its teardown.
// callback runs on the subscription goroutine, once per status payload.
func (c *Client) SubscribeToStatus(callback func(models.ProxyStatus)) func() {
	return c.OpenStatusStream(callback).Close
}

// OpenStatusStream is SubscribeToStatus with access to the subscription
// state. opts are applied after the client's own stream options.
func (c *Client) OpenStatusStream(callback func(models.ProxyStatus), opts ...stream.Option) *stream.Subscription {

	handler := func(payload json.RawMessage) {
		var status models.ProxyStatus
		if err := json.Unmarshal(payload, &status); err != nil {
			logrus.WithError(err).Warnln("Dropping status payload with unexpected shape")
			return
		}
		callback(status)
	}

	options := []stream.Option{
		stream.WithTokenProvider(c.session.Token),
	}
	options = append(options, c.streamOptions...)
	options = append(options, opts...)

	return stream.Subscribe(stream.StatusURL(c.baseURL), handler, options...)
}
