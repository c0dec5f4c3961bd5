package storefront_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storefront "github.com/savorline/storefront-client"
	"github.com/savorline/storefront-client/internal/credentials"
	"github.com/savorline/storefront-client/internal/devserver"
	"github.com/savorline/storefront-client/pkg/logger"
)

type fixture struct {
	srv     *devserver.Server
	client  *storefront.Client
	creds   *credentials.MemoryStore
	expired *int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	srv := devserver.New()
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	srv.SeedUser("Dana", "dana@example.com", "secret123", storefront.RoleUser)
	srv.SeedUser("Omar", "omar@example.com", "secret123", storefront.RoleRestaurantOwner)
	srv.SeedMenu([]storefront.MenuItem{
		{ID: "menu-a", RestaurantID: "rest-1", Name: "Margherita", Price: 1000, InStock: true, Published: true},
		{ID: "menu-b", RestaurantID: "rest-1", Name: "Tiramisu", Price: 500, DiscountPercent: 10, InStock: true, Published: true},
	})

	creds := credentials.NewMemoryStore()
	expired := 0
	client, err := storefront.NewClient(storefront.Options{
		BaseURL:          ts.URL,
		Credentials:      creds,
		Logger:           logger.Discard(),
		OnSessionExpired: func() { expired++ },
	})
	require.NoError(t, err)

	return &fixture{srv: srv, client: client, creds: creds, expired: &expired}
}

func (f *fixture) login(t *testing.T, email string) storefront.User {
	t.Helper()
	user, err := f.client.Login(context.Background(), email, "secret123")
	require.NoError(t, err)
	return user
}

func cartTotals(c *storefront.Client) storefront.CartTotals {
	return c.Stores().Cart.Totals()
}

func TestCartLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, "dana@example.com")

	require.NoError(t, f.client.AddToCart(ctx, "menu-a", 1))
	assert.Equal(t, storefront.CartTotals{TotalItems: 1, RawSubtotal: 1000, Subtotal: 1000}, cartTotals(f.client))

	items := f.client.Stores().Cart.Items()
	require.Len(t, items, 1)
	lineA := items[0].ID

	require.NoError(t, f.client.UpdateCartItem(ctx, lineA, 3))
	assert.Equal(t, storefront.CartTotals{TotalItems: 3, RawSubtotal: 3000, Subtotal: 3000}, cartTotals(f.client))

	require.NoError(t, f.client.AddToCart(ctx, "menu-b", 2))
	assert.Equal(t, storefront.CartTotals{TotalItems: 5, RawSubtotal: 4000, Subtotal: 3900}, cartTotals(f.client))

	require.NoError(t, f.client.DeleteCartItem(ctx, lineA))
	assert.Equal(t, storefront.CartTotals{TotalItems: 2, RawSubtotal: 1000, Subtotal: 900}, cartTotals(f.client))

	// The store always matches a from-scratch recomputation of its lines.
	assert.Equal(t, storefront.ComputeCartTotals(f.client.Stores().Cart.Items()), cartTotals(f.client))
}

func TestUpdateCartItemToZeroRemovesLine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, "dana@example.com")

	require.NoError(t, f.client.AddToCart(ctx, "menu-a", 2))
	items := f.client.Stores().Cart.Items()
	require.Len(t, items, 1)

	require.NoError(t, f.client.UpdateCartItem(ctx, items[0].ID, 0))

	assert.Empty(t, f.client.Stores().Cart.Items())
	assert.Equal(t, storefront.CartTotals{}, cartTotals(f.client))
}

func TestDisableAddressIsSoft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, "dana@example.com")

	require.NoError(t, f.client.AddAddress(ctx, storefront.AddressParams{
		Line: "1 Main St", City: "Springfield",
	}))
	addresses := f.client.Stores().Addresses.Items()
	require.Len(t, addresses, 1)
	require.True(t, addresses[0].Status)

	require.NoError(t, f.client.DisableAddress(ctx, addresses[0].ID))

	addresses = f.client.Stores().Addresses.Items()
	require.Len(t, addresses, 1, "disabled address must stay in the collection")
	assert.False(t, addresses[0].Status)
	assert.Equal(t, "1 Main St", addresses[0].Line)
}

func TestLogoutClearsEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, "dana@example.com")

	require.NoError(t, f.client.AddToCart(ctx, "menu-a", 2))
	require.NoError(t, f.client.AddAddress(ctx, storefront.AddressParams{
		Line: "1 Main St", City: "Springfield",
	}))

	require.NoError(t, f.client.Logout())

	assert.False(t, f.client.HasSession())
	access, refresh := f.creds.Tokens()
	assert.Empty(t, access)
	assert.Empty(t, refresh)

	stores := f.client.Stores()
	_, ok := stores.Session.User()
	assert.False(t, ok, "session user survived logout")
	assert.Empty(t, stores.Cart.Items())
	assert.Equal(t, storefront.CartTotals{}, stores.Cart.Totals())
	assert.Zero(t, stores.Addresses.Len())
}

func TestCheckoutAndOrderHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, "dana@example.com")

	require.NoError(t, f.client.AddToCart(ctx, "menu-a", 2))
	require.NoError(t, f.client.AddToCart(ctx, "menu-b", 1))

	session, err := f.client.Checkout(ctx, storefront.CheckoutParams{
		Delivery: storefront.DeliveryDetails{Name: "Dana", Address: "1 Main St"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.URL)

	// The order-history endpoint answers with a bare array; the gateway
	// must decode it all the same.
	orders, err := f.client.FetchOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, storefront.OrderPlaced, orders[0].Status)
	assert.Equal(t, int64(2450), orders[0].TotalAmount)
	assert.Len(t, orders[0].Lines, 2)
}

func TestSessionRestoreHappyPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	access, refresh, ok := f.srv.IssueTokens("dana@example.com")
	require.True(t, ok)
	require.NoError(t, f.creds.SetTokens(access, refresh))

	var transitions []storefront.SessionState
	controller := storefront.NewSessionController(f.client, func(s storefront.SessionState) {
		transitions = append(transitions, s)
	})

	state := controller.Start(ctx)

	assert.Equal(t, storefront.StateAuthenticated, state)
	assert.Equal(t, []storefront.SessionState{storefront.StateLoading, storefront.StateAuthenticated}, transitions)

	user, ok := f.client.Stores().Session.User()
	require.True(t, ok)
	assert.Equal(t, "dana@example.com", user.Email)

	assert.Equal(t, 1, f.srv.Hits("GET /api/cart"), "cart fetched once after restore")
	assert.Equal(t, 1, f.srv.Hits("GET /api/address"), "addresses fetched once after restore")
	assert.Zero(t, f.srv.Hits("GET /api/restaurant/orders"), "customer restore must not fetch owner orders")
}

func TestSessionRestoreOwnerFetchesRestaurantOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	access, refresh, ok := f.srv.IssueTokens("omar@example.com")
	require.True(t, ok)
	require.NoError(t, f.creds.SetTokens(access, refresh))

	state := storefront.NewSessionController(f.client, nil).Start(ctx)

	require.Equal(t, storefront.StateAuthenticated, state)
	assert.Equal(t, 1, f.srv.Hits("GET /api/restaurant/orders"))
}

func TestSessionRestoreRejectedToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.creds.SetTokens("acc-bogus", "ref-bogus"))

	state := storefront.NewSessionController(f.client, nil).Start(ctx)

	assert.Equal(t, storefront.StateUnauthenticated, state)
	access, refresh := f.creds.Tokens()
	assert.Empty(t, access, "rejected token must be cleared")
	assert.Empty(t, refresh)
	assert.Zero(t, f.srv.Hits("GET /api/cart"), "no dependent fetch on failed restore")
	assert.Zero(t, f.srv.Hits("GET /api/address"))
}

func TestExpiredTokenRefreshesTransparently(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, "dana@example.com")

	f.srv.RevokeAccessTokens()

	_, err := f.client.FetchCart(ctx)
	require.NoError(t, err, "expired access token must refresh and retry transparently")
	assert.Equal(t, 1, f.srv.Hits("POST /api/auth/refresh-token"))
	assert.Zero(t, *f.expired)

	// The rotated pair keeps working without further refreshes.
	_, err = f.client.FetchCart(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.srv.Hits("POST /api/auth/refresh-token"))
}

func TestFailedRefreshEndsSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, "dana@example.com")
	require.NoError(t, f.client.AddToCart(ctx, "menu-a", 1))

	f.srv.RevokeAccessTokens()
	f.srv.SetFailRefresh(true)

	_, err := f.client.FetchCart(ctx)
	require.Error(t, err)
	assert.True(t, storefront.IsUnauthenticated(err))

	assert.False(t, f.client.HasSession())
	assert.Equal(t, 1, *f.expired, "session-expired hook fires once")
	assert.Empty(t, f.client.Stores().Cart.Items(), "stores reset on terminal auth failure")
}

func TestOwnerOrderStatusFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Owner sets up shop.
	f.login(t, "omar@example.com")
	rest, err := f.client.CreateRestaurant(ctx, storefront.RestaurantParams{Name: "Trattoria Omar"})
	require.NoError(t, err)

	item, err := f.client.AddMenuItem(ctx, storefront.MenuItemParams{
		Name: "Carbonara", Price: 1400, InStock: true, Published: true,
	})
	require.NoError(t, err)
	require.NoError(t, f.client.Logout())

	// Customer orders it.
	f.login(t, "dana@example.com")
	require.NoError(t, f.client.AddToCart(ctx, item.ID, 1))
	_, err = f.client.Checkout(ctx, storefront.CheckoutParams{
		Delivery: storefront.DeliveryDetails{Name: "Dana", Address: "1 Main St"},
	})
	require.NoError(t, err)
	require.NoError(t, f.client.Logout())

	// Owner advances the order, one legal step at a time.
	f.login(t, "omar@example.com")
	orders, err := f.client.FetchRestaurantOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, rest.ID, orders[0].RestaurantID)

	orderID := orders[0].ID
	err = f.client.UpdateOrderStatus(ctx, orderID, storefront.OrderOutForDelivery)
	require.Error(t, err, "skipping stages is rejected locally")

	require.NoError(t, f.client.UpdateOrderStatus(ctx, orderID, storefront.OrderPaid))
	require.NoError(t, f.client.UpdateOrderStatus(ctx, orderID, storefront.OrderInProgress))

	orders = f.client.Stores().Orders.Items()
	require.Len(t, orders, 1)
	assert.Equal(t, storefront.OrderInProgress, orders[0].Status)
}

func TestReviewRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, "dana@example.com")

	require.NoError(t, f.client.AddToCart(ctx, "menu-a", 1))
	_, err := f.client.Checkout(ctx, storefront.CheckoutParams{
		Delivery: storefront.DeliveryDetails{Name: "Dana", Address: "1 Main St"},
	})
	require.NoError(t, err)

	orders, err := f.client.FetchOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	created, err := f.client.CreateReview(ctx, orders[0].ID, 5, "excellent")
	require.NoError(t, err)

	// Review fetch is the other bare-payload endpoint.
	fetched, err := f.client.FetchReview(ctx, orders[0].ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, 5, fetched.Rating)
}

func TestNotificationsFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.login(t, "dana@example.com")

	f.srv.PushNotification(user.ID, "Order update", "Your order is on its way")
	f.srv.PushNotification(user.ID, "Promo", "Free delivery this weekend")

	list, err := f.client.FetchNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 2, f.client.Stores().Notifications.Unread())

	require.NoError(t, f.client.MarkNotificationRead(ctx, list[0].ID))
	assert.Equal(t, 1, f.client.Stores().Notifications.Unread())

	require.NoError(t, f.client.MarkAllNotificationsRead(ctx))
	assert.Zero(t, f.client.Stores().Notifications.Unread())

	require.NoError(t, f.client.DeleteReadNotifications(ctx))
	assert.Empty(t, f.client.Stores().Notifications.Items())
}

func TestSignUpVerifyLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.client.SignUp(ctx, storefront.SignUpParams{
		Name: "New User", Email: "new@example.com", Password: "pw123456",
	}))

	// Login before verification is rejected.
	_, err := f.client.Login(ctx, "new@example.com", "pw123456")
	require.Error(t, err)

	require.NoError(t, f.client.VerifyEmail(ctx, "new@example.com", devserver.VerifyCode))

	user, err := f.client.Login(ctx, "new@example.com", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, storefront.RoleUser, user.Role)
}
