package client

import (
	"context"
	"net/http"

	"github.com/atlanticproxy/atlantic/internal/models"
)

type plansResponse struct {
	Plans []models.Plan `json:"plans"`
}

type subscribeResponse struct {
	Subscription models.Subscription `json:"subscription"`
}

func (c *Client) GetPlans(ctx context.Context) ([]models.Plan, error) {
	resp, err := c.Request(ctx, http.MethodGet, "/api/billing/plans", nil, nil)
	if err != nil {
		return nil, err
	}
	out, err := decodeResponse[plansResponse](resp, "Failed to fetch plans")
	if err != nil {
		return nil, err
	}
	return out.Plans, nil
}

func (c *Client) GetSubscription(ctx context.Context) (*models.SubscriptionDetails, error) {
	resp, err := c.Request(ctx, http.MethodGet, "/api/billing/subscription", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeResponse[models.SubscriptionDetails](resp, "Failed to fetch subscription")
}

func (c *Client) Subscribe(ctx context.Context, planID string) (*models.Subscription, error) {
	resp, err := c.Request(ctx, http.MethodPost, "/api/billing/subscribe", models.SubscribeRequest{PlanID: planID}, nil)
	if err != nil {
		return nil, err
	}
	out, err := decodeResponse[subscribeResponse](resp, "Failed to subscribe")
	if err != nil {
		return nil, err
	}
	return &out.Subscription, nil
}

func (c *Client) GetUsage(ctx context.Context) (*models.UsageStats, error) {
	resp, err := c.Request(ctx, http.MethodGet, "/api/billing/usage", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeResponse[models.UsageStats](resp, "Failed to fetch usage stats")
}

func (c *Client) CreateCheckout(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutResponse, error) {
	resp, err := c.Request(ctx, http.MethodPost, "/api/billing/checkout", req, nil)
	if err != nil {
		return nil, err
	}
	return decodeResponse[models.CheckoutResponse](resp, "Failed to create checkout session")
}
