package client

import (
	"context"
	"net/http"

	"github.com/atlanticproxy/atlantic/internal/models"
)

type forcedRotation struct {
	Session models.Session `json:"session"`
}

func (c *Client) GetRotationConfig(ctx context.Context) (*models.RotationConfig, error) {
	resp, err := c.Request(ctx, http.MethodGet, "/api/rotation/config", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeResponse[models.RotationConfig](resp, "Failed to fetch rotation config")
}

// SetRotationConfig posts config exactly as given.
func (c *Client) SetRotationConfig(ctx context.Context, config models.RotationConfig) error {
	resp, err := c.Request(ctx, http.MethodPost, "/api/rotation/config", config, nil)
	if err != nil {
		return err
	}
	return checkResponse(resp, "Failed to update rotation config")
}

func (c *Client) GetCurrentSession(ctx context.Context) (*models.Session, error) {
	resp, err := c.Request(ctx, http.MethodGet, "/api/rotation/session/current", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeResponse[models.Session](resp, "Failed to fetch current session")
}

// ForceRotation asks the backend for a fresh exit session.
func (c *Client) ForceRotation(ctx context.Context) (*models.Session, error) {
	resp, err := c.Request(ctx, http.MethodPost, "/api/rotation/session/new", nil, nil)
	if err != nil {
		return nil, err
	}
	out, err := decodeResponse[forcedRotation](resp, "Failed to force rotation")
	if err != nil {
		return nil, err
	}
	return &out.Session, nil
}

func (c *Client) GetRotationStats(ctx context.Context) (*models.RotationStats, error) {
	resp, err := c.Request(ctx, http.MethodGet, "/api/rotation/stats", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeResponse[models.RotationStats](resp, "Failed to fetch rotation stats")
}

func (c *Client) SetGeoTargeting(ctx context.Context, target models.GeoTarget) error {
	resp, err := c.Request(ctx, http.MethodPost, "/api/rotation/geo", target, nil)
	if err != nil {
		return err
	}
	return checkResponse(resp, "Failed to update geo targeting")
}
