package storefront

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/savorline/storefront-client/internal/gateway"
)

// RestaurantParams is the restaurant profile form payload.
type RestaurantParams struct {
	Name                  string   `json:"name"`
	Address               string   `json:"address"`
	City                  string   `json:"city"`
	Country               string   `json:"country"`
	Contact               string   `json:"contact"`
	OpeningHours          string   `json:"openingHours"`
	DeliveryPrice         int64    `json:"deliveryPrice"`
	EstimatedDeliveryTime int      `json:"estimatedDeliveryTime"`
	Cuisines              []string `json:"cuisines"`
}

func (p RestaurantParams) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return validationErr("restaurant name is required")
	}
	return nil
}

// CreateRestaurant registers the owner's restaurant. One active restaurant
// per owner.
func (c *Client) CreateRestaurant(ctx context.Context, p RestaurantParams) (Restaurant, error) {
	if err := p.validate(); err != nil {
		return Restaurant{}, err
	}

	var r Restaurant
	if err := c.gw.Call(ctx, gateway.EpCreateRestaurant, p, &r); err != nil {
		return Restaurant{}, c.fail(c.stores.Restaurant, "create restaurant", err)
	}
	c.stores.Restaurant.Set(r)
	return r, nil
}

// FetchRestaurant loads the owner's restaurant profile.
func (c *Client) FetchRestaurant(ctx context.Context) (Restaurant, error) {
	s := c.stores.Restaurant
	s.SetLoading(true)
	defer s.SetLoading(false)

	var r Restaurant
	if err := c.gw.Call(ctx, gateway.EpGetRestaurant, nil, &r); err != nil {
		return Restaurant{}, c.fail(s, "fetch restaurant", err)
	}
	s.Set(r)
	return r, nil
}

// UpdateRestaurant saves profile edits and stores the server's response.
func (c *Client) UpdateRestaurant(ctx context.Context, id string, p RestaurantParams) (Restaurant, error) {
	if id == "" {
		return Restaurant{}, validationErr("restaurant id is required")
	}
	if err := p.validate(); err != nil {
		return Restaurant{}, err
	}

	var r Restaurant
	if err := c.gw.Call(ctx, gateway.EpUpdateRestaurant(id), p, &r); err != nil {
		return Restaurant{}, c.fail(c.stores.Restaurant, "update restaurant", err)
	}
	c.stores.Restaurant.Set(r)
	return r, nil
}

// DeleteRestaurant removes the owner's restaurant and clears the profile
// store.
func (c *Client) DeleteRestaurant(ctx context.Context, id string) error {
	if id == "" {
		return validationErr("restaurant id is required")
	}
	if err := c.gw.Call(ctx, gateway.EpDeleteRestaurant(id), nil, nil); err != nil {
		return c.fail(c.stores.Restaurant, "delete restaurant", err)
	}
	c.stores.Restaurant.Clear()
	return nil
}

// SearchRestaurants queries restaurants by name, city or cuisine.
func (c *Client) SearchRestaurants(ctx context.Context, query string) ([]Restaurant, error) {
	ep := gateway.EpSearchRestaurants
	ep.Path += "?q=" + url.QueryEscape(query)

	var results []Restaurant
	if err := c.gw.Call(ctx, ep, nil, &results); err != nil {
		return nil, c.fail(nil, "search restaurants", err)
	}
	return results, nil
}

// UploadRestaurantImage uploads the restaurant's cover image and returns
// its served URL.
func (c *Client) UploadRestaurantImage(ctx context.Context, id, filename string, content io.Reader) (string, error) {
	if id == "" {
		return "", validationErr("restaurant id is required")
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := c.gw.Upload(ctx, gateway.EpUploadRestaurantImage(id), "image", filename, content, &out); err != nil {
		return "", c.fail(c.stores.Restaurant, "upload restaurant image", err)
	}
	return out.URL, nil
}
