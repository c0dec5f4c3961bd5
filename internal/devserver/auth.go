package devserver

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	storefront "github.com/savorline/storefront-client"
)

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()

	// Auth
	r.HandleFunc("/api/auth/signup", s.handleSignUp).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/verify-email", s.handleVerifyEmail).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/logout", s.handleLogout).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/refresh-token", s.handleRefresh).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/forgot-password", s.handleForgotPassword).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/verify-otp", s.handleVerifyOTP).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/reset-password", s.handleResetPassword).Methods(http.MethodPost)

	// Profile
	r.HandleFunc("/api/user", s.handleGetUser).Methods(http.MethodGet)
	r.HandleFunc("/api/user", s.handleUpdateUser).Methods(http.MethodPut)
	r.HandleFunc("/api/user/avatar", s.handleUploadAvatar).Methods(http.MethodPost)

	// Addresses
	r.HandleFunc("/api/address", s.handleCreateAddress).Methods(http.MethodPost)
	r.HandleFunc("/api/address", s.handleListAddresses).Methods(http.MethodGet)
	r.HandleFunc("/api/address/{id}", s.handleUpdateAddress).Methods(http.MethodPut)
	r.HandleFunc("/api/address/{id}", s.handleDisableAddress).Methods(http.MethodDelete)

	// Cart
	r.HandleFunc("/api/cart", s.handleAddToCart).Methods(http.MethodPost)
	r.HandleFunc("/api/cart", s.handleGetCart).Methods(http.MethodGet)
	r.HandleFunc("/api/cart/{id}", s.handleUpdateCartItem).Methods(http.MethodPut)
	r.HandleFunc("/api/cart/{id}", s.handleDeleteCartItem).Methods(http.MethodDelete)

	// Orders and reviews
	r.HandleFunc("/api/order/checkout-session", s.handleCheckout).Methods(http.MethodPost)
	r.HandleFunc("/api/order/my", s.handleMyOrders).Methods(http.MethodGet)
	r.HandleFunc("/api/order/{orderId}/review", s.handleCreateReview).Methods(http.MethodPost)
	r.HandleFunc("/api/order/{orderId}/review", s.handleGetReview).Methods(http.MethodGet)
	r.HandleFunc("/api/restaurant/orders", s.handleRestaurantOrders).Methods(http.MethodGet)
	r.HandleFunc("/api/order/{orderId}/status", s.handleUpdateOrderStatus).Methods(http.MethodPut)

	// Restaurant
	r.HandleFunc("/api/restaurant", s.handleCreateRestaurant).Methods(http.MethodPost)
	r.HandleFunc("/api/restaurant", s.handleGetRestaurant).Methods(http.MethodGet)
	r.HandleFunc("/api/restaurant/search", s.handleSearchRestaurants).Methods(http.MethodGet)
	r.HandleFunc("/api/restaurant/{id}", s.handleUpdateRestaurant).Methods(http.MethodPut)
	r.HandleFunc("/api/restaurant/{id}", s.handleDeleteRestaurant).Methods(http.MethodDelete)
	r.HandleFunc("/api/restaurant/{id}/image", s.handleUploadImage).Methods(http.MethodPost)

	// Menu
	r.HandleFunc("/api/menu-item", s.handleAddMenuItem).Methods(http.MethodPost)
	r.HandleFunc("/api/menu-item", s.handleListMenu).Methods(http.MethodGet)
	r.HandleFunc("/api/menu-item/{id}", s.handleUpdateMenuItem).Methods(http.MethodPut)
	r.HandleFunc("/api/menu-item/{id}", s.handleRemoveMenuItem).Methods(http.MethodDelete)
	r.HandleFunc("/api/menu-item/{id}/image", s.handleUploadImage).Methods(http.MethodPost)

	// Analytics
	r.HandleFunc("/api/analytics/overview", s.handleAnalyticsOverview).Methods(http.MethodGet)
	r.HandleFunc("/api/analytics/daily", s.handleAnalyticsDaily).Methods(http.MethodGet)
	r.HandleFunc("/api/analytics/restaurant/{id}", s.handleRestaurantStats).Methods(http.MethodGet)

	// Notifications
	r.HandleFunc("/api/notification", s.handleListNotifications).Methods(http.MethodGet)
	r.HandleFunc("/api/notification/read-all", s.handleMarkAllRead).Methods(http.MethodPut)
	r.HandleFunc("/api/notification/unread-count", s.handleUnreadCount).Methods(http.MethodGet)
	r.HandleFunc("/api/notification/read", s.handleDeleteRead).Methods(http.MethodDelete)
	r.HandleFunc("/api/notification/{id}/read", s.handleMarkRead).Methods(http.MethodPut)
	r.HandleFunc("/api/notification/{id}", s.handleDeleteNotification).Methods(http.MethodDelete)

	return r
}

// =============================================================================
// Auth handlers
// =============================================================================

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeErr(w, http.StatusBadRequest, "email and password are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[req.Email]; exists {
		writeErr(w, http.StatusConflict, "account already exists")
		return
	}
	s.accounts[req.Email] = &account{
		user: storefront.User{
			ID:     uuid.NewString(),
			Name:   req.Name,
			Email:  req.Email,
			Mobile: req.Mobile,
			Role:   storefront.RoleUser,
		},
		password: req.Password,
	}
	writeData(w, http.StatusCreated, map[string]string{"message": "verification code sent"})
}

func (s *Server) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[req.Email]
	if !ok {
		writeErr(w, http.StatusNotFound, "no such account")
		return
	}
	if req.Code != VerifyCode {
		writeErr(w, http.StatusBadRequest, "incorrect verification code")
		return
	}
	acct.verified = true
	writeData(w, http.StatusOK, map[string]string{"message": "email verified"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[req.Email]
	if !ok || acct.password != req.Password {
		writeErr(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if !acct.verified {
		writeErr(w, http.StatusForbidden, "email not verified")
		return
	}

	access, refresh := s.issueLocked(acct.user.ID)
	writeData(w, http.StatusOK, map[string]any{
		"accessToken":  access,
		"refreshToken": refresh,
		"user":         acct.user,
	})
}

// handleLogout revokes the presented access token only. Other sessions of
// the same account stay valid, and a logout that arrives late cannot kill
// a newer login.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authedUser(w, r); !ok {
		return
	}

	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.mu.Lock()
	delete(s.access, token)
	s.mu.Unlock()
	writeData(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failRefresh {
		writeErr(w, http.StatusUnauthorized, "refresh token rejected")
		return
	}
	rec, ok := s.refresh[req.RefreshToken]
	if !ok || rec.used {
		writeErr(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	rec.used = true

	access, refresh := s.issueLocked(rec.userID)
	writeData(w, http.StatusOK, map[string]string{
		"accessToken":  access,
		"refreshToken": refresh,
	})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[req.Email]; !ok {
		writeErr(w, http.StatusNotFound, "no such account")
		return
	}
	writeData(w, http.StatusOK, map[string]string{"message": "reset code sent"})
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Code != VerifyCode {
		writeErr(w, http.StatusBadRequest, "incorrect code")
		return
	}
	writeData(w, http.StatusOK, map[string]string{"message": "code verified"})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Code     string `json:"code"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Code != VerifyCode {
		writeErr(w, http.StatusBadRequest, "incorrect code")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[req.Email]
	if !ok {
		writeErr(w, http.StatusNotFound, "no such account")
		return
	}
	acct.password = req.Password
	writeData(w, http.StatusOK, map[string]string{"message": "password reset"})
}
