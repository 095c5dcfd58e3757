package client

import (
	"context"
	"net/http"
	"net/url"
)

// ListPlans fetches the catalog, optionally filtered by status.
func (c *Client) ListPlans(ctx context.Context, status string) ([]Plan, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	var plans []Plan
	if err := c.do(ctx, http.MethodGet, "/api/v1/plans", query, nil, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// GetPlan fetches a single catalog entry.
func (c *Client) GetPlan(ctx context.Context, id string) (*Plan, error) {
	var plan Plan
	if err := c.do(ctx, http.MethodGet, "/api/v1/plans/"+id, nil, nil, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}
