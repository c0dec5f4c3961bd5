package gateway

import "net/http"

// Endpoint describes one backend route. NoAuth endpoints are called without
// a bearer token and are never retried on 401.
type Endpoint struct {
	Method string
	Path   string
	NoAuth bool
}

// Auth.
var (
	EpSignUp       = Endpoint{Method: http.MethodPost, Path: "/api/auth/signup", NoAuth: true}
	EpVerifyEmail  = Endpoint{Method: http.MethodPost, Path: "/api/auth/verify-email", NoAuth: true}
	EpLogin        = Endpoint{Method: http.MethodPost, Path: "/api/auth/login", NoAuth: true}
	EpLogout       = Endpoint{Method: http.MethodPost, Path: "/api/auth/logout"}
	EpRefreshToken = Endpoint{Method: http.MethodPost, Path: "/api/auth/refresh-token", NoAuth: true}
)

// Password recovery.
var (
	EpForgotPassword = Endpoint{Method: http.MethodPost, Path: "/api/auth/forgot-password", NoAuth: true}
	EpVerifyOTP      = Endpoint{Method: http.MethodPost, Path: "/api/auth/verify-otp", NoAuth: true}
	EpResetPassword  = Endpoint{Method: http.MethodPost, Path: "/api/auth/reset-password", NoAuth: true}
)

// User profile.
var (
	EpGetUser      = Endpoint{Method: http.MethodGet, Path: "/api/user"}
	EpUpdateUser   = Endpoint{Method: http.MethodPut, Path: "/api/user"}
	EpUploadAvatar = Endpoint{Method: http.MethodPost, Path: "/api/user/avatar"}
)

// Addresses. Deleting an address is a soft disable on the server.
var (
	EpCreateAddress = Endpoint{Method: http.MethodPost, Path: "/api/address"}
	EpListAddresses = Endpoint{Method: http.MethodGet, Path: "/api/address"}
)

func EpUpdateAddress(id string) Endpoint {
	return Endpoint{Method: http.MethodPut, Path: "/api/address/" + id}
}

func EpDisableAddress(id string) Endpoint {
	return Endpoint{Method: http.MethodDelete, Path: "/api/address/" + id}
}

// Cart.
var (
	EpAddToCart = Endpoint{Method: http.MethodPost, Path: "/api/cart"}
	EpGetCart   = Endpoint{Method: http.MethodGet, Path: "/api/cart"}
)

func EpUpdateCartItem(id string) Endpoint {
	return Endpoint{Method: http.MethodPut, Path: "/api/cart/" + id}
}

func EpDeleteCartItem(id string) Endpoint {
	return Endpoint{Method: http.MethodDelete, Path: "/api/cart/" + id}
}

// Orders, customer side. The my-orders and review fetch endpoints return
// bare payloads instead of the success envelope; the decoder handles both.
var (
	EpCheckout = Endpoint{Method: http.MethodPost, Path: "/api/order/checkout-session"}
	EpMyOrders = Endpoint{Method: http.MethodGet, Path: "/api/order/my"}
)

func EpCreateReview(orderID string) Endpoint {
	return Endpoint{Method: http.MethodPost, Path: "/api/order/" + orderID + "/review"}
}

func EpGetReview(orderID string) Endpoint {
	return Endpoint{Method: http.MethodGet, Path: "/api/order/" + orderID + "/review"}
}

// Orders, restaurant-owner side.
var EpRestaurantOrders = Endpoint{Method: http.MethodGet, Path: "/api/restaurant/orders"}

func EpUpdateOrderStatus(orderID string) Endpoint {
	return Endpoint{Method: http.MethodPut, Path: "/api/order/" + orderID + "/status"}
}

// Restaurant management.
var (
	EpCreateRestaurant  = Endpoint{Method: http.MethodPost, Path: "/api/restaurant"}
	EpGetRestaurant     = Endpoint{Method: http.MethodGet, Path: "/api/restaurant"}
	EpSearchRestaurants = Endpoint{Method: http.MethodGet, Path: "/api/restaurant/search"}
)

func EpUpdateRestaurant(id string) Endpoint {
	return Endpoint{Method: http.MethodPut, Path: "/api/restaurant/" + id}
}

func EpDeleteRestaurant(id string) Endpoint {
	return Endpoint{Method: http.MethodDelete, Path: "/api/restaurant/" + id}
}

func EpUploadRestaurantImage(id string) Endpoint {
	return Endpoint{Method: http.MethodPost, Path: "/api/restaurant/" + id + "/image"}
}

// Menu items. Deletion is a soft delete on the server.
var (
	EpAddMenuItem = Endpoint{Method: http.MethodPost, Path: "/api/menu-item"}
	EpListMenu    = Endpoint{Method: http.MethodGet, Path: "/api/menu-item"}
)

func EpUpdateMenuItem(id string) Endpoint {
	return Endpoint{Method: http.MethodPut, Path: "/api/menu-item/" + id}
}

func EpRemoveMenuItem(id string) Endpoint {
	return Endpoint{Method: http.MethodDelete, Path: "/api/menu-item/" + id}
}

func EpUploadMenuItemImage(id string) Endpoint {
	return Endpoint{Method: http.MethodPost, Path: "/api/menu-item/" + id + "/image"}
}

// Analytics dashboards.
var (
	EpAnalyticsOverview = Endpoint{Method: http.MethodGet, Path: "/api/analytics/overview"}
	EpAnalyticsDaily    = Endpoint{Method: http.MethodGet, Path: "/api/analytics/daily"}
)

func EpRestaurantStats(id string) Endpoint {
	return Endpoint{Method: http.MethodGet, Path: "/api/analytics/restaurant/" + id}
}

// Notifications.
var (
	EpListNotifications = Endpoint{Method: http.MethodGet, Path: "/api/notification"}
	EpMarkAllRead       = Endpoint{Method: http.MethodPut, Path: "/api/notification/read-all"}
	EpUnreadCount       = Endpoint{Method: http.MethodGet, Path: "/api/notification/unread-count"}
	EpDeleteReadNotifs  = Endpoint{Method: http.MethodDelete, Path: "/api/notification/read"}
)

func EpMarkNotificationRead(id string) Endpoint {
	return Endpoint{Method: http.MethodPut, Path: "/api/notification/" + id + "/read"}
}

func EpDeleteNotification(id string) Endpoint {
	return Endpoint{Method: http.MethodDelete, Path: "/api/notification/" + id}
}
