package common

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// RequestOptions describes a JSON request against the backend.
type RequestOptions struct {
	Method  string
	Body    any
	Headers map[string]string
	Query   map[string]string
}

func MakeRequestFromBuilder(restBuilder *resty.Request, method string, finalUrl string) (*resty.Response, error) {

	switch strings.ToUpper(method) {
	case http.MethodGet:
		return restBuilder.Get(finalUrl)
	case http.MethodPost:
		return restBuilder.Post(finalUrl)
	case http.MethodPut:
		return restBuilder.Put(finalUrl)
	case http.MethodPatch:
		return restBuilder.Patch(finalUrl)
	case http.MethodDelete:
		return restBuilder.Delete(finalUrl)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s. Ensure you're using the http const", method)
	}

}

// CreateRequestBuilder prepares a JSON request. Caller headers are applied
// after the Content-Type default so they can override it.
func CreateRequestBuilder(ctx context.Context, client *resty.Client, opts RequestOptions) *resty.Request {

	restBuilder := client.R().
		SetContext(ctx).
		EnableTrace().
		SetHeader("Content-Type", "application/json")

	configureRequestParameters(restBuilder, opts)

	return restBuilder
}

func configureRequestParameters(restBuilder *resty.Request, opts RequestOptions) {
	if len(opts.Headers) > 0 {
		restBuilder.SetHeaders(opts.Headers)
	}

	if len(opts.Query) > 0 {
		restBuilder.SetQueryParams(opts.Query)
	}

	if opts.Body != nil {
		restBuilder.SetBody(opts.Body)
	}
}

// InvokeJSONRequest builds and sends a JSON request in one step.
func InvokeJSONRequest(ctx context.Context, client *resty.Client, url string, opts RequestOptions) (*resty.Response, error) {

	method := opts.Method
	if len(method) == 0 {
		method = http.MethodGet
	}

	builder := CreateRequestBuilder(ctx, client, opts)

	resp, err := MakeRequestFromBuilder(builder, method, url)

	if err != nil {
		logrus.WithFields(logrus.Fields{
			"url":    url,
			"method": method,
		}).WithError(err).Debugln("Request failed")
		return nil, err
	}

	return resp, nil
}
