package storefront

import (
	"context"
	"strings"

	"github.com/savorline/storefront-client/internal/gateway"
)

// AddressParams is the saved-address form payload.
type AddressParams struct {
	Line       string `json:"line"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
	Mobile     string `json:"mobile"`
}

func (p AddressParams) validate() error {
	if strings.TrimSpace(p.Line) == "" || strings.TrimSpace(p.City) == "" {
		return validationErr("address line and city are required")
	}
	return nil
}

// FetchAddresses loads the user's saved addresses into the address store.
// Disabled addresses are included; the presentation layer filters on
// Status.
func (c *Client) FetchAddresses(ctx context.Context) ([]Address, error) {
	s := c.stores.Addresses
	s.SetLoading(true)
	defer s.SetLoading(false)

	addresses, err := c.fetchAddressList(ctx)
	if err != nil {
		return nil, c.fail(s, "fetch addresses", err)
	}
	s.SetAll(addresses)
	return addresses, nil
}

func (c *Client) fetchAddressList(ctx context.Context) ([]Address, error) {
	var addresses []Address
	if err := c.gw.Call(ctx, gateway.EpListAddresses, nil, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

// AddAddress saves a new address and reconciles the store with the server.
func (c *Client) AddAddress(ctx context.Context, p AddressParams) error {
	if err := p.validate(); err != nil {
		return err
	}
	if err := c.gw.Call(ctx, gateway.EpCreateAddress, p, nil); err != nil {
		return c.fail(c.stores.Addresses, "add address", err)
	}
	return c.reconcileAddresses(ctx, "add address")
}

// UpdateAddress edits a saved address and reconciles the store.
func (c *Client) UpdateAddress(ctx context.Context, id string, p AddressParams) error {
	if id == "" {
		return validationErr("address id is required")
	}
	if err := p.validate(); err != nil {
		return err
	}
	if err := c.gw.Call(ctx, gateway.EpUpdateAddress(id), p, nil); err != nil {
		return c.fail(c.stores.Addresses, "update address", err)
	}
	return c.reconcileAddresses(ctx, "update address")
}

// DisableAddress soft-deletes an address: the server flips its status flag
// and the record stays in the collection with Status false. Nothing is ever
// hard-removed.
func (c *Client) DisableAddress(ctx context.Context, id string) error {
	if id == "" {
		return validationErr("address id is required")
	}
	if err := c.gw.Call(ctx, gateway.EpDisableAddress(id), nil, nil); err != nil {
		return c.fail(c.stores.Addresses, "disable address", err)
	}
	return c.reconcileAddresses(ctx, "disable address")
}

func (c *Client) reconcileAddresses(ctx context.Context, op string) error {
	addresses, err := c.fetchAddressList(ctx)
	if err != nil {
		return c.fail(c.stores.Addresses, op, err)
	}
	c.stores.Addresses.SetAll(addresses)
	return nil
}
