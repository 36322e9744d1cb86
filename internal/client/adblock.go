package client

import (
	"context"
	"net/http"

	"github.com/atlanticproxy/atlantic/internal/common"
	"github.com/atlanticproxy/atlantic/internal/models"
)

func (c *Client) GetWhitelist(ctx context.Context) ([]string, error) {
	resp, err := c.Request(ctx, http.MethodGet, "/adblock/whitelist", nil, nil)
	if err != nil {
		return nil, err
	}
	out, err := decodeResponse[models.WhitelistResponse](resp, "Failed to fetch whitelist")
	if err != nil {
		return nil, err
	}
	return out.Whitelist, nil
}

func (c *Client) AddToWhitelist(ctx context.Context, domain string) error {
	resp, err := c.Request(ctx, http.MethodPost, "/adblock/whitelist", models.WhitelistRequest{Domain: domain}, nil)
	if err != nil {
		return err
	}
	return checkResponse(resp, "Failed to add to whitelist")
}

func (c *Client) RemoveFromWhitelist(ctx context.Context, domain string) error {
	resp, err := c.do(ctx, "/adblock/whitelist", common.RequestOptions{
		Method: http.MethodDelete,
		Query:  map[string]string{"domain": domain},
	})
	if err != nil {
		return err
	}
	return checkResponse(resp, "Failed to remove from whitelist")
}

func (c *Client) RefreshAdblock(ctx context.Context) error {
	resp, err := c.Request(ctx, http.MethodPost, "/adblock/refresh", nil, nil)
	if err != nil {
		return err
	}
	return checkResponse(resp, "Failed to refresh blocklists")
}

func (c *Client) GetAdblockStats(ctx context.Context) (*models.AdblockStats, error) {
	resp, err := c.Request(ctx, http.MethodGet, "/adblock/stats", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeResponse[models.AdblockStats](resp, "Failed to fetch adblock stats")
}

// GetCustomRules returns an empty list when the server has none.
func (c *Client) GetCustomRules(ctx context.Context) ([]string, error) {
	resp, err := c.Request(ctx, http.MethodGet, "/adblock/custom", nil, nil)
	if err != nil {
		return nil, err
	}
	out, err := decodeResponse[models.CustomRules](resp, "Failed to fetch custom rules")
	if err != nil {
		return nil, err
	}
	if out.Rules == nil {
		return []string{}, nil
	}
	return out.Rules, nil
}

func (c *Client) SetCustomRules(ctx context.Context, rules []string) error {
	if rules == nil {
		rules = []string{}
	}
	resp, err := c.Request(ctx, http.MethodPost, "/adblock/custom", models.CustomRules{Rules: rules}, nil)
	if err != nil {
		return err
	}
	return checkResponse(resp, "Failed to update custom rules")
}
