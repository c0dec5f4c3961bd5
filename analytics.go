package storefront

import (
	"context"

	"github.com/savorline/storefront-client/internal/gateway"
)

// AnalyticsOverview returns platform-wide totals. Admin only; analytics
// responses are returned to the caller rather than held in a store.
func (c *Client) AnalyticsOverview(ctx context.Context) (AnalyticsOverview, error) {
	var out AnalyticsOverview
	if err := c.gw.Call(ctx, gateway.EpAnalyticsOverview, nil, &out); err != nil {
		return AnalyticsOverview{}, c.fail(nil, "analytics overview", err)
	}
	return out, nil
}

// AnalyticsDaily returns per-day order and revenue figures. Admin only.
func (c *Client) AnalyticsDaily(ctx context.Context) ([]DailyStat, error) {
	var out []DailyStat
	if err := c.gw.Call(ctx, gateway.EpAnalyticsDaily, nil, &out); err != nil {
		return nil, c.fail(nil, "analytics daily", err)
	}
	return out, nil
}

// FetchRestaurantStats returns order and revenue figures for one
// restaurant.
func (c *Client) FetchRestaurantStats(ctx context.Context, restaurantID string) (RestaurantStats, error) {
	if restaurantID == "" {
		return RestaurantStats{}, validationErr("restaurant id is required")
	}
	var out RestaurantStats
	if err := c.gw.Call(ctx, gateway.EpRestaurantStats(restaurantID), nil, &out); err != nil {
		return RestaurantStats{}, c.fail(nil, "restaurant stats", err)
	}
	return out, nil
}
