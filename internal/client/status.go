package client

import (
	"context"
	"net/http"
	"strconv"

	"github.com/atlanticproxy/atlantic/internal/common"
	"github.com/atlanticproxy/atlantic/internal/models"
)

func (c *Client) GetStatus(ctx context.Context) (*models.ProxyStatus, error) {
	resp, err := c.Request(ctx, http.MethodGet, "/status", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeResponse[models.ProxyStatus](resp, "Failed to fetch status")
}

func (c *Client) GetStatistics(ctx context.Context) (*models.Statistics, error) {
	resp, err := c.Request(ctx, http.MethodGet, "/api/statistics", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeResponse[models.Statistics](resp, "Failed to fetch statistics")
}

func (c *Client) ToggleKillSwitch(ctx context.Context, enabled bool) error {
	resp, err := c.do(ctx, "/killswitch", common.RequestOptions{
		Method: http.MethodPost,
		Query:  map[string]string{"enabled": strconv.FormatBool(enabled)},
	})
	if err != nil {
		return err
	}
	return checkResponse(resp, "Failed to toggle kill switch")
}

func (c *Client) GetKillSwitch(ctx context.Context) (*models.KillSwitchState, error) {
	resp, err := c.Request(ctx, http.MethodGet, "/killswitch", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeResponse[models.KillSwitchState](resp, "Failed to fetch kill switch")
}

func (c *Client) GetSecurityStatus(ctx context.Context) (*models.SecurityStatus, error) {
	resp, err := c.Request(ctx, http.MethodGet, "/api/security/status", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeResponse[models.SecurityStatus](resp, "Failed to fetch security status")
}
