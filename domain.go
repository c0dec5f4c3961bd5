// Package storefront is a client for the food-delivery platform's REST
// backend. It keeps a local, normalized copy of server state (session, cart,
// addresses, orders, menu, notifications) and exposes operations that fetch,
// mutate and reconcile that state against the server.
package storefront

import "time"

// Role identifies what a signed-in user is allowed to do.
type Role string

const (
	RoleUser            Role = "USER"
	RoleRestaurantOwner Role = "RESTAURANT_OWNER"
	RoleAdmin           Role = "ADMIN"
)

// User is the authenticated identity returned by the backend.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Mobile    string `json:"mobile"`
	AvatarURL string `json:"avatarUrl"`
	Role      Role   `json:"role"`
}

// MenuItem is a restaurant-managed dish. Price is in minor currency units.
type MenuItem struct {
	ID              string `json:"id"`
	RestaurantID    string `json:"restaurantId"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Price           int64  `json:"price"`
	DiscountPercent int    `json:"discountPercent,omitempty"`
	ImageURL        string `json:"imageUrl"`
	InStock         bool   `json:"stock"`
	Published       bool   `json:"publish"`
}

// UnitPrice returns the effective per-unit price after any discount,
// rounded down to whole minor units.
func (m MenuItem) UnitPrice() int64 {
	if m.DiscountPercent > 0 {
		return m.Price * int64(100-m.DiscountPercent) / 100
	}
	return m.Price
}

// CartItem is one line in a user's cart. Quantity is always >= 1; reducing
// it to zero removes the line instead of keeping a zero entry.
type CartItem struct {
	ID       string   `json:"id"`
	UserID   string   `json:"userId"`
	Item     MenuItem `json:"item"`
	Quantity int      `json:"quantity"`
}

// CartTotals are derived from the full cart line list, never tracked
// incrementally. RawSubtotal is before discounts; Subtotal is what the
// customer pays.
type CartTotals struct {
	TotalItems  int   `json:"totalItems"`
	RawSubtotal int64 `json:"rawSubtotal"`
	Subtotal    int64 `json:"subtotal"`
}

// ComputeCartTotals recomputes cart aggregates from scratch over items.
func ComputeCartTotals(items []CartItem) CartTotals {
	var t CartTotals
	for _, it := range items {
		t.TotalItems += it.Quantity
		t.RawSubtotal += it.Item.Price * int64(it.Quantity)
		t.Subtotal += it.Item.UnitPrice() * int64(it.Quantity)
	}
	return t
}

// Address is a saved delivery address. Removal is a soft disable: Status
// flips to false and the record stays in the collection.
type Address struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	Line       string `json:"line"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
	Mobile     string `json:"mobile"`
	Status     bool   `json:"status"`
}

// OrderStatus is the closed order lifecycle enum.
type OrderStatus string

const (
	OrderPlaced         OrderStatus = "placed"
	OrderPaid           OrderStatus = "paid"
	OrderInProgress     OrderStatus = "inProgress"
	OrderOutForDelivery OrderStatus = "outForDelivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
)

// Next returns the status that follows s in the normal progression, or s
// itself when s is terminal.
func (s OrderStatus) Next() OrderStatus {
	switch s {
	case OrderPlaced:
		return OrderPaid
	case OrderPaid:
		return OrderInProgress
	case OrderInProgress:
		return OrderOutForDelivery
	case OrderOutForDelivery:
		return OrderDelivered
	}
	return s
}

// Terminal reports whether no further transition is allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// CanTransitionTo reports whether an owner may move an order from s to next.
// Allowed moves are one step forward in the progression, or cancellation of
// any non-terminal order.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == OrderCancelled {
		return true
	}
	return next == s.Next()
}

// OrderLine is a snapshot of a menu item at checkout time. It is decoupled
// from the live MenuItem so historical orders stay stable when menus change.
type OrderLine struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	ImageURL string `json:"imageUrl"`
}

// DeliveryDetails is where and to whom an order ships.
type DeliveryDetails struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Mobile  string `json:"mobile"`
	Address string `json:"address"`
}

// Order is created by the backend at checkout. The client never invents
// order state; it only reflects what the server returns.
type Order struct {
	ID              string          `json:"id"`
	RestaurantID    string          `json:"restaurantId"`
	UserID          string          `json:"userId"`
	Lines           []OrderLine     `json:"items"`
	DeliveryDetails DeliveryDetails `json:"deliveryDetails"`
	TotalAmount     int64           `json:"totalAmount"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Restaurant is an owner's profile. One active restaurant per owner.
type Restaurant struct {
	ID                    string   `json:"id"`
	OwnerID               string   `json:"ownerId"`
	Name                  string   `json:"name"`
	Address               string   `json:"address"`
	City                  string   `json:"city"`
	Country               string   `json:"country"`
	Contact               string   `json:"contact"`
	OpeningHours          string   `json:"openingHours"`
	DeliveryPrice         int64    `json:"deliveryPrice"`
	EstimatedDeliveryTime int      `json:"estimatedDeliveryTime"`
	ImageURL              string   `json:"imageUrl"`
	Cuisines              []string `json:"cuisines"`
}

// Review is a customer's rating for a delivered order.
type Review struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"orderId"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notification is a server-pushed message shown to the user.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// CheckoutSession is returned by the checkout endpoint; the payment URL is
// opened by the embedding application.
type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// AnalyticsOverview is the owner dashboard headline numbers.
type AnalyticsOverview struct {
	TotalOrders      int64 `json:"totalOrders"`
	TotalRevenue     int64 `json:"totalRevenue"`
	TotalCustomers   int64 `json:"totalCustomers"`
	TotalRestaurants int64 `json:"totalRestaurants"`
}

// DailyStat is one day's order volume and revenue.
type DailyStat struct {
	Date    string `json:"date"`
	Orders  int64  `json:"orders"`
	Revenue int64  `json:"revenue"`
}

// RestaurantStats aggregates per-restaurant performance.
type RestaurantStats struct {
	RestaurantID string  `json:"restaurantId"`
	Orders       int64   `json:"orders"`
	Revenue      int64   `json:"revenue"`
	AvgRating    float64 `json:"avgRating"`
}
