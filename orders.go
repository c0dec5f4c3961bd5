package storefront

import (
	"context"
	"fmt"

	"github.com/savorline/storefront-client/internal/gateway"
)

// CheckoutParams carries what the backend needs to open a payment session
// for the current cart.
type CheckoutParams struct {
	AddressID string          `json:"addressId"`
	Delivery  DeliveryDetails `json:"deliveryDetails"`
}

// Checkout creates a payment session for the current cart. The backend
// creates the order; the client only opens the returned URL.
func (c *Client) Checkout(ctx context.Context, p CheckoutParams) (CheckoutSession, error) {
	if p.AddressID == "" && p.Delivery.Address == "" {
		return CheckoutSession{}, validationErr("a delivery address is required")
	}

	var session CheckoutSession
	if err := c.gw.Call(ctx, gateway.EpCheckout, p, &session); err != nil {
		return CheckoutSession{}, c.fail(c.stores.Orders, "checkout", err)
	}
	return session, nil
}

// FetchOrders loads the customer's order history into the order store.
// This endpoint returns a bare payload rather than the success envelope;
// the gateway's decoder handles both shapes.
func (c *Client) FetchOrders(ctx context.Context) ([]Order, error) {
	s := c.stores.Orders
	s.SetLoading(true)
	defer s.SetLoading(false)

	var orders []Order
	if err := c.gw.Call(ctx, gateway.EpMyOrders, nil, &orders); err != nil {
		return nil, c.fail(s, "fetch orders", err)
	}
	s.SetAll(orders)
	return orders, nil
}

// FetchRestaurantOrders loads the incoming orders for the owner's
// restaurant into the order store.
func (c *Client) FetchRestaurantOrders(ctx context.Context) ([]Order, error) {
	s := c.stores.Orders
	s.SetLoading(true)
	defer s.SetLoading(false)

	var orders []Order
	if err := c.gw.Call(ctx, gateway.EpRestaurantOrders, nil, &orders); err != nil {
		return nil, c.fail(s, "fetch restaurant orders", err)
	}
	s.SetAll(orders)
	return orders, nil
}

// UpdateOrderStatus advances an order through its lifecycle (owner action).
// Transitions are validated locally against the order in the store before
// the call is issued: one step forward, or cancellation of any non-terminal
// order.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, next OrderStatus) error {
	if orderID == "" {
		return validationErr("order id is required")
	}
	if current, ok := c.stores.Orders.Get(orderID); ok {
		if !current.Status.CanTransitionTo(next) {
			return validationErr("order cannot move from %s to %s", current.Status, next)
		}
	}

	body := map[string]string{"status": string(next)}
	if err := c.gw.Call(ctx, gateway.EpUpdateOrderStatus(orderID), body, nil); err != nil {
		return c.fail(c.stores.Orders, "update order status", err)
	}

	orders, err := c.fetchOrderList(ctx, gateway.EpRestaurantOrders)
	if err != nil {
		return c.fail(c.stores.Orders, "update order status", err)
	}
	c.stores.Orders.SetAll(orders)
	return nil
}

func (c *Client) fetchOrderList(ctx context.Context, ep gateway.Endpoint) ([]Order, error) {
	var orders []Order
	if err := c.gw.Call(ctx, ep, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CreateReview rates a delivered order.
func (c *Client) CreateReview(ctx context.Context, orderID string, rating int, comment string) (Review, error) {
	if orderID == "" {
		return Review{}, validationErr("order id is required")
	}
	if rating < 1 || rating > 5 {
		return Review{}, validationErr("rating must be between 1 and 5")
	}

	body := map[string]any{"rating": rating, "comment": comment}
	var review Review
	if err := c.gw.Call(ctx, gateway.EpCreateReview(orderID), body, &review); err != nil {
		return Review{}, c.fail(c.stores.Reviews, "create review", err)
	}
	c.stores.Reviews.Add(review)
	return review, nil
}

// FetchReview loads the review for an order, if one exists. Like the order
// list, this endpoint returns a bare payload.
func (c *Client) FetchReview(ctx context.Context, orderID string) (Review, error) {
	if orderID == "" {
		return Review{}, validationErr("order id is required")
	}

	var review Review
	if err := c.gw.Call(ctx, gateway.EpGetReview(orderID), nil, &review); err != nil {
		return Review{}, c.fail(c.stores.Reviews, "fetch review", err)
	}
	if review.ID != "" {
		c.stores.Reviews.Add(review)
	}
	return review, nil
}

// OrderSummary renders a one-line description for logs and CLI output.
func OrderSummary(o Order) string {
	return fmt.Sprintf("order %s: %d line(s), %d minor units, %s", o.ID, len(o.Lines), o.TotalAmount, o.Status)
}
