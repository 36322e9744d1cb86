package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/atlanticproxy/atlantic/internal/common"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Request sends an authenticated JSON request to endpoint (a path relative
// to the base URL). Caller headers override the JSON content type; the
// bearer token is read at dispatch time. A 401 clears the session before
// the response is returned.
func (c *Client) Request(ctx context.Context, method string, endpoint string, body any, headers map[string]string) (*resty.Response, error) {
	return c.do(ctx, endpoint, common.RequestOptions{
		Method:  method,
		Body:    body,
		Headers: headers,
	})
}

func (c *Client) do(ctx context.Context, endpoint string, opts common.RequestOptions) (*resty.Response, error) {
	return c.dispatch(ctx, endpoint, opts, true)
}

// dispatch sends the request with the token held at this moment. A 401 only
// invalidates the session if that token is still current; notify controls
// whether the unauthorized handler runs.
func (c *Client) dispatch(ctx context.Context, endpoint string, opts common.RequestOptions, notify bool) (*resty.Response, error) {

	builder := common.CreateRequestBuilder(ctx, c.resty, opts)

	token := c.session.Token()
	if len(token) > 0 {
		builder.SetAuthToken(token)
	}

	url := c.baseURL + endpoint

	logrus.WithFields(logrus.Fields{
		"method": opts.Method,
		"url":    url,
	}).Debugln("Sending request")

	resp, err := common.MakeRequestFromBuilder(builder, opts.Method, url)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", opts.Method, endpoint, err)
	}

	logrus.WithFields(logrus.Fields{
		"method":   opts.Method,
		"url":      url,
		"status":   resp.StatusCode(),
		"duration": resp.Time(),
	}).Debugln("Received response")

	if resp.StatusCode() == http.StatusUnauthorized && notify {
		c.handleUnauthorized(endpoint, token)
	}

	return resp, nil
}

func (c *Client) handleUnauthorized(endpoint string, token string) {

	cleared, err := c.session.InvalidateIf(token)
	if err != nil {
		logrus.WithError(err).Errorln("Failed to clear stored session")
	}

	if !cleared {
		logrus.WithField("endpoint", endpoint).Debugln("Ignoring 401 for a token that was already replaced")
		return
	}

	logrus.WithField("endpoint", endpoint).Warnln("Session rejected by server, logging out")

	if handler := c.unauthorizedHandler(); handler != nil {
		handler()
	}
}
