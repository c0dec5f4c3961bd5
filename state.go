package storefront

import (
	"sync"

	"github.com/savorline/storefront-client/internal/state"
)

// Stores is the client's entire local state: one normalized collection per
// entity kind. It is constructed per client instance and passed explicitly;
// there is no package-level singleton, so tests can build isolated
// instances.
type Stores struct {
	Session       *SessionStore
	Cart          *CartStore
	Addresses     *state.Collection[Address]
	Orders        *state.Collection[Order]
	Menu          *state.Collection[MenuItem]
	Restaurant    *RestaurantStore
	Reviews       *state.Collection[Review]
	Notifications *NotificationStore
}

// NewStores creates an empty state container.
func NewStores() *Stores {
	return &Stores{
		Session:    NewSessionStore(),
		Cart:       NewCartStore(),
		Addresses:  state.NewCollection(func(a Address) string { return a.ID }),
		Orders:     state.NewCollection(func(o Order) string { return o.ID }),
		Menu:       state.NewCollection(func(m MenuItem) string { return m.ID }),
		Restaurant: &RestaurantStore{},
		Reviews:    state.NewCollection(func(r Review) string { return r.ID }),
		Notifications: &NotificationStore{
			Collection: state.NewCollection(func(n Notification) string { return n.ID }),
		},
	}
}

// ResetAll returns every store to its initial empty state.
func (s *Stores) ResetAll() {
	s.Session.Clear()
	s.Cart.Reset()
	s.Addresses.Reset()
	s.Orders.Reset()
	s.Menu.Reset()
	s.Restaurant.Clear()
	s.Reviews.Reset()
	s.Notifications.Reset()
	s.Notifications.SetUnread(0)
}

// SessionStore holds the current authenticated user. Owned by the session
// lifecycle controller and the profile-update flows.
type SessionStore struct {
	mu      sync.RWMutex
	user    *User
	loading bool
	err     string
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Set replaces the current user and clears the error flag.
func (s *SessionStore) Set(user User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := user
	s.user = &u
	s.err = ""
}

// User returns the current user, or false when nobody is signed in.
func (s *SessionStore) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// Clear removes the current user.
func (s *SessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.loading = false
	s.err = ""
}

// SetLoading flips the loading flag that gates dependent fetches.
func (s *SessionStore) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// Loading reports whether the current-user fetch is in flight.
func (s *SessionStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// SetError replaces the error message wholesale.
func (s *SessionStore) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = msg
}

// Err returns the current error message.
func (s *SessionStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// CartStore holds the cart line items plus their derived totals. Totals are
// recomputed from the full item list on every structural change, never by
// adjusting a running figure, so they cannot drift from the authoritative
// list.
type CartStore struct {
	col    *state.Collection[CartItem]
	mu     sync.RWMutex
	totals CartTotals
}

// NewCartStore creates an empty cart store.
func NewCartStore() *CartStore {
	return &CartStore{
		col: state.NewCollection(func(i CartItem) string { return i.ID }),
	}
}

// SetAll replaces the cart contents with the server-returned line items.
func (s *CartStore) SetAll(items []CartItem) {
	s.col.SetAll(items)
	s.recompute()
}

// Add inserts or replaces one line item.
func (s *CartStore) Add(item CartItem) {
	s.col.Add(item)
	s.recompute()
}

// UpdateQuantity sets the quantity of one line item. A quantity below 1
// removes the line; a zero-quantity entry is never retained.
func (s *CartStore) UpdateQuantity(id string, quantity int) {
	if quantity < 1 {
		s.col.RemoveOne(id)
	} else {
		s.col.UpdateOne(id, func(it CartItem) CartItem {
			it.Quantity = quantity
			return it
		})
	}
	s.recompute()
}

// Remove deletes one line item.
func (s *CartStore) Remove(id string) {
	s.col.RemoveOne(id)
	s.recompute()
}

// Items returns a copy of the current line items.
func (s *CartStore) Items() []CartItem {
	return s.col.Items()
}

// Totals returns the derived aggregates for the current items.
func (s *CartStore) Totals() CartTotals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totals
}

// Reset empties the cart and its totals.
func (s *CartStore) Reset() {
	s.col.Reset()
	s.recompute()
}

// SetLoading flips the loading flag.
func (s *CartStore) SetLoading(loading bool) { s.col.SetLoading(loading) }

// Loading reports whether a cart fetch is in flight.
func (s *CartStore) Loading() bool { return s.col.Loading() }

// SetError replaces the error message wholesale.
func (s *CartStore) SetError(msg string) { s.col.SetError(msg) }

// Err returns the current error message.
func (s *CartStore) Err() string { return s.col.Err() }

func (s *CartStore) recompute() {
	totals := ComputeCartTotals(s.col.Items())
	s.mu.Lock()
	s.totals = totals
	s.mu.Unlock()
}

// RestaurantStore holds the single restaurant profile for an owner session.
type RestaurantStore struct {
	mu      sync.RWMutex
	value   *Restaurant
	loading bool
	err     string
}

// Set replaces the profile and clears the error flag.
func (s *RestaurantStore) Set(r Restaurant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := r
	s.value = &v
	s.err = ""
}

// Get returns the profile, or false when none is loaded.
func (s *RestaurantStore) Get() (Restaurant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.value == nil {
		return Restaurant{}, false
	}
	return *s.value, true
}

// Clear removes the profile.
func (s *RestaurantStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = nil
	s.loading = false
	s.err = ""
}

// SetLoading flips the loading flag.
func (s *RestaurantStore) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// Loading reports whether a profile fetch is in flight.
func (s *RestaurantStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// SetError replaces the error message wholesale.
func (s *RestaurantStore) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = msg
}

// Err returns the current error message.
func (s *RestaurantStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// NotificationStore is the notification list plus the unread counter the
// badge renders from.
type NotificationStore struct {
	*state.Collection[Notification]
	mu     sync.RWMutex
	unread int
}

// SetUnread replaces the unread count.
func (s *NotificationStore) SetUnread(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unread = n
}

// Unread returns the unread count.
func (s *NotificationStore) Unread() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread
}
