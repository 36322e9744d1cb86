package client

import (
	"context"
	"net/http"

	"github.com/atlanticproxy/atlantic/internal/common"
	"github.com/atlanticproxy/atlantic/internal/models"
	"github.com/sirupsen/logrus"
)

// Login exchanges credentials for a token, stores it and returns the user.
func (c *Client) Login(ctx context.Context, email string, password string) (*models.User, error) {
	return c.authenticate(ctx, "/api/auth/login", email, password, "Login failed")
}

// Register creates an account and signs in as it.
func (c *Client) Register(ctx context.Context, email string, password string) (*models.User, error) {
	return c.authenticate(ctx, "/api/auth/register", email, password, "Registration failed")
}

func (c *Client) authenticate(ctx context.Context, endpoint string, email string, password string, fallback string) (*models.User, error) {

	resp, err := c.Request(ctx, http.MethodPost, endpoint, models.Credentials{
		Email:    email,
		Password: password,
	}, nil)
	if err != nil {
		return nil, err
	}

	auth, err := decodeResponse[models.AuthResponse](resp, fallback)
	if err != nil {
		return nil, err
	}

	if err := c.session.SetToken(auth.Token); err != nil {
		logrus.WithError(err).Warnln("Signed in but failed to persist token")
	}

	logrus.WithField("email", auth.User.Email).Debugln("Signed in")

	return &auth.User, nil
}

// Logout drops the local session. The server is told on a best-effort basis.
func (c *Client) Logout(ctx context.Context) error {

	if c.session.IsAuthenticated() {
		resp, err := c.dispatch(ctx, "/api/auth/logout", common.RequestOptions{
			Method: http.MethodPost,
		}, false)
		if err != nil {
			logrus.WithError(err).Debugln("Server logout failed")
		} else if !resp.IsSuccess() {
			logrus.WithField("status", resp.StatusCode()).Debugln("Server logout rejected")
		}
	}

	return c.session.Logout()
}

func (c *Client) GetMe(ctx context.Context) (*models.User, error) {
	resp, err := c.Request(ctx, http.MethodGet, "/api/auth/me", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeResponse[models.User](resp, "Failed to fetch user")
}
