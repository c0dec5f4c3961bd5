package storefront

import (
	"context"
	"sync"

	"github.com/savorline/storefront-client/internal/gateway"
)

// keyedMutex serializes operations per key. Rapid repeated mutations on the
// same cart item queue up instead of racing, so the last server write is
// also the last store write; independent items proceed concurrently.
type keyedMutex struct {
	mu   sync.Mutex
	held map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{held: make(map[string]*keyLock)}
}

// lock acquires the mutex for key and returns its release func.
func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	l := k.held[key]
	if l == nil {
		l = &keyLock{}
		k.held[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.held, key)
		}
		k.mu.Unlock()
	}
}

// FetchCart loads the authoritative cart from the server into the cart
// store.
func (c *Client) FetchCart(ctx context.Context) ([]CartItem, error) {
	s := c.stores.Cart
	s.SetLoading(true)
	defer s.SetLoading(false)

	items, err := c.fetchCartItems(ctx)
	if err != nil {
		return nil, c.fail(s, "fetch cart", err)
	}
	s.SetAll(items)
	return items, nil
}

func (c *Client) fetchCartItems(ctx context.Context) ([]CartItem, error) {
	var items []CartItem
	if err := c.gw.Call(ctx, gateway.EpGetCart, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddToCart puts quantity units of a menu item in the cart. The cart store
// reflects server-confirmed state by the time this returns.
func (c *Client) AddToCart(ctx context.Context, menuItemID string, quantity int) error {
	if menuItemID == "" {
		return validationErr("menu item id is required")
	}
	if quantity < 1 {
		return validationErr("quantity must be at least 1")
	}

	unlock := c.cartOps.lock(menuItemID)
	defer unlock()

	body := map[string]any{"itemId": menuItemID, "quantity": quantity}
	if err := c.gw.Call(ctx, gateway.EpAddToCart, body, nil); err != nil {
		return c.fail(c.stores.Cart, "add to cart", err)
	}
	return c.reconcileCart(ctx, "add to cart")
}

// UpdateCartItem sets a cart line's quantity. Quantity below 1 removes the
// line instead, matching the rule that a zero-quantity entry never exists.
func (c *Client) UpdateCartItem(ctx context.Context, itemID string, quantity int) error {
	if itemID == "" {
		return validationErr("cart item id is required")
	}
	if quantity < 1 {
		return c.DeleteCartItem(ctx, itemID)
	}

	unlock := c.cartOps.lock(itemID)
	defer unlock()

	body := map[string]any{"quantity": quantity}
	if err := c.gw.Call(ctx, gateway.EpUpdateCartItem(itemID), body, nil); err != nil {
		return c.fail(c.stores.Cart, "update cart item", err)
	}
	return c.reconcileCart(ctx, "update cart item")
}

// DeleteCartItem removes a cart line.
func (c *Client) DeleteCartItem(ctx context.Context, itemID string) error {
	if itemID == "" {
		return validationErr("cart item id is required")
	}

	unlock := c.cartOps.lock(itemID)
	defer unlock()

	if err := c.gw.Call(ctx, gateway.EpDeleteCartItem(itemID), nil, nil); err != nil {
		return c.fail(c.stores.Cart, "delete cart item", err)
	}
	return c.reconcileCart(ctx, "delete cart item")
}

// reconcileCart re-fetches the authoritative cart after a mutation, issued
// strictly after the mutation response resolved. The extra round trip buys
// the post-condition that local state equals server truth, including any
// server-side adjustments the mutation triggered (stock limits, removed
// items).
func (c *Client) reconcileCart(ctx context.Context, op string) error {
	items, err := c.fetchCartItems(ctx)
	if err != nil {
		return c.fail(c.stores.Cart, op, err)
	}
	c.stores.Cart.SetAll(items)
	return nil
}
