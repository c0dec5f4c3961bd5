package storefront

import (
	"context"
	"io"

	"github.com/savorline/storefront-client/internal/gateway"
)

// MenuItemParams is the menu-item form payload. Price is in the smallest
// currency unit.
type MenuItemParams struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Price           int64  `json:"price"`
	DiscountPercent int    `json:"discountPercent"`
	InStock         bool   `json:"stock"`
	Published       bool   `json:"publish"`
}

func (p MenuItemParams) validate() error {
	if p.Name == "" {
		return validationErr("menu item name is required")
	}
	if p.Price < 0 {
		return validationErr("price cannot be negative")
	}
	if p.DiscountPercent < 0 || p.DiscountPercent > 100 {
		return validationErr("discount percent must be between 0 and 100")
	}
	return nil
}

// AddMenuItem creates a menu item and reconciles the menu store with the
// server.
func (c *Client) AddMenuItem(ctx context.Context, p MenuItemParams) (MenuItem, error) {
	if err := p.validate(); err != nil {
		return MenuItem{}, err
	}

	var item MenuItem
	if err := c.gw.Call(ctx, gateway.EpAddMenuItem, p, &item); err != nil {
		return MenuItem{}, c.fail(c.stores.Menu, "add menu item", err)
	}
	c.reconcileMenu(ctx, "add menu item")
	return item, nil
}

// FetchMenu loads the menu into the menu store.
func (c *Client) FetchMenu(ctx context.Context) ([]MenuItem, error) {
	s := c.stores.Menu
	s.SetLoading(true)
	defer s.SetLoading(false)

	var items []MenuItem
	if err := c.gw.Call(ctx, gateway.EpListMenu, nil, &items); err != nil {
		return nil, c.fail(s, "fetch menu", err)
	}
	s.SetAll(items)
	return items, nil
}

// UpdateMenuItem saves menu-item edits and reconciles the menu store.
func (c *Client) UpdateMenuItem(ctx context.Context, id string, p MenuItemParams) (MenuItem, error) {
	if id == "" {
		return MenuItem{}, validationErr("menu item id is required")
	}
	if err := p.validate(); err != nil {
		return MenuItem{}, err
	}

	var item MenuItem
	if err := c.gw.Call(ctx, gateway.EpUpdateMenuItem(id), p, &item); err != nil {
		return MenuItem{}, c.fail(c.stores.Menu, "update menu item", err)
	}
	c.reconcileMenu(ctx, "update menu item")
	return item, nil
}

// RemoveMenuItem takes an item off the menu. The server keeps the record so
// past order lines still resolve; the item simply stops being listed.
func (c *Client) RemoveMenuItem(ctx context.Context, id string) error {
	if id == "" {
		return validationErr("menu item id is required")
	}
	if err := c.gw.Call(ctx, gateway.EpRemoveMenuItem(id), nil, nil); err != nil {
		return c.fail(c.stores.Menu, "remove menu item", err)
	}
	c.reconcileMenu(ctx, "remove menu item")
	return nil
}

// UploadMenuItemImage uploads an item photo and returns its served URL.
func (c *Client) UploadMenuItemImage(ctx context.Context, id, filename string, content io.Reader) (string, error) {
	if id == "" {
		return "", validationErr("menu item id is required")
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := c.gw.Upload(ctx, gateway.EpUploadMenuItemImage(id), "image", filename, content, &out); err != nil {
		return "", c.fail(c.stores.Menu, "upload menu item image", err)
	}
	return out.URL, nil
}

// reconcileMenu re-fetches the menu after a mutation so the store reflects
// server-confirmed state. The mutation already succeeded, so a failed
// re-fetch is recorded in the store but not returned.
func (c *Client) reconcileMenu(ctx context.Context, op string) {
	var items []MenuItem
	if err := c.gw.Call(ctx, gateway.EpListMenu, nil, &items); err != nil {
		c.fail(c.stores.Menu, op+": reconcile", err)
		return
	}
	c.stores.Menu.SetAll(items)
}
