package client

import (
	"context"
	"net/http"

	"github.com/atlanticproxy/atlantic/internal/models"
)

func (c *Client) GetLocations(ctx context.Context) ([]models.Location, error) {
	resp, err := c.Request(ctx, http.MethodGet, "/api/locations/available", nil, nil)
	if err != nil {
		return nil, err
	}
	out, err := decodeResponse[models.LocationsResponse](resp, "Failed to fetch locations")
	if err != nil {
		return nil, err
	}
	return out.Locations, nil
}
