package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/atlanticproxy/atlantic/internal/common"
	"github.com/atlanticproxy/atlantic/internal/config"
	"github.com/atlanticproxy/atlantic/internal/models"
	"github.com/atlanticproxy/atlantic/internal/sessions"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// PaymentVerifier confirms a payment reference against the payment
// callback service, which runs on its own host.
type PaymentVerifier struct {
	baseURL string
	resty   *resty.Client
	session *sessions.Session
}

// NewPaymentVerifier stores the token returned with a successful
// verification in session, if one is given.
func NewPaymentVerifier(baseURL string, session *sessions.Session) *PaymentVerifier {

	if len(baseURL) == 0 {
		baseURL = config.DefaultVerifyEndpoint
	}

	return &PaymentVerifier{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		resty: resty.New().
			SetTimeout(DefaultTimeout).
			SetHeader("User-Agent", common.GetUserAgent()),
		session: session,
	}
}

func (v *PaymentVerifier) Verify(ctx context.Context, reference string) (*models.PaymentVerification, error) {

	if len(strings.TrimSpace(reference)) == 0 {
		return nil, fmt.Errorf("payment reference is required")
	}

	endpoint := fmt.Sprintf("%s/api/billing/verify/%s", v.baseURL, url.PathEscape(reference))

	resp, err := common.InvokeJSONRequest(ctx, v.resty, endpoint, common.RequestOptions{
		Method: http.MethodGet,
	})
	if err != nil {
		return nil, fmt.Errorf("payment verification failed: %w", err)
	}

	result, err := decodeResponse[models.PaymentVerification](resp, "Payment verification failed")
	if err != nil {
		return nil, err
	}

	if !result.IsSuccessful() {
		message := result.Error
		if len(message) == 0 {
			message = "Payment verification failed"
		}
		return result, &APIError{StatusCode: resp.StatusCode(), Message: message}
	}

	if len(result.Token) > 0 && v.session != nil {
		if err := v.session.SetToken(result.Token); err != nil {
			logrus.WithError(err).Warnln("Failed to store token from payment verification")
		}
	}

	return result, nil
}
