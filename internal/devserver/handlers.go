package devserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	storefront "github.com/savorline/storefront-client"
)

// =============================================================================
// Profile
// =============================================================================

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authedUser(w, r)
	if !ok {
		return
	}
	writeData(w, http.StatusOK, user)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authedUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Name   string `json:"name"`
		Mobile string `json:"mobile"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct := s.accounts[user.Email]
	if req.Name != "" {
		acct.user.Name = req.Name
	}
	if req.Mobile != "" {
		acct.user.Mobile = req.Mobile
	}
	writeData(w, http.StatusOK, acct.user)
}

func (s *Server) handleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authedUser(w, r)
	if !ok {
		return
	}
	url := "https://cdn.savorline.test/avatars/" + user.ID + ".png"

	s.mu.Lock()
	s.accounts[user.Email].user.AvatarURL = url
	s.mu.Unlock()
	writeData(w, http.StatusOK, map[string]string{"url": url})
}

// =============================================================================
// Addresses
// =============================================================================

type addressRequest struct {
	Line       string `json:"line"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
	Mobile     string `json:"mobile"`
}

func (s *Server) handleCreateAddress(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authedUser(w, r)
	if !ok {
		return
	}
	var req addressRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Line == "" || req.City == "" {
		writeErr(w, http.StatusBadRequest, "line and city are required")
		return
	}

	addr := storefront.Address{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		Line:       req.Line,
		City:       req.City,
		State:      req.State,
		Country:    req.Country,
		PostalCode: req.PostalCode,
		Mobile:     req.Mobile,
		Status:     true,
	}
	s.mu.Lock()
	s.addresses[user.ID] = append(s.addresses[user.ID], addr)
	s.mu.Unlock()
	writeData(w, http.StatusCreated, addr)
}

func (s *Server) handleListAddresses(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authedUser(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	list := append([]storefront.Address(nil), s.addresses[user.ID]...)
	s.mu.Unlock()
	writeData(w, http.StatusOK, list)
}

func (s *Server) handleUpdateAddress(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authedUser(w, r)
	if !ok {
		return
	}
	var req addressRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, addr := range s.addresses[user.ID] {
		if addr.ID == id {
			addr.Line, addr.City, addr.State = req.Line, req.City, req.State
			addr.Country, addr.PostalCode, addr.Mobile = req.Country, req.PostalCode, req.Mobile
			s.addresses[user.ID][i] = addr
			writeData(w, http.StatusOK, addr)
			return
		}
	}
	writeErr(w, http.StatusNotFound, "address not found")
}

// handleDisableAddress flips the status flag. The record is retained so
// past orders keep a resolvable address.
func (s *Server) handleDisableAddress(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authedUser(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, addr := range s.addresses[user.ID] {
		if addr.ID == id {
			s.addresses[user.ID][i].Status = false
			writeData(w, http.StatusOK, s.addresses[user.ID][i])
			return
		}
	}
	writeErr(w, http.StatusNotFound, "address not found")
}

// =============================================================================
// Cart
// =============================================================================

func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authedUser(w, r)
	if !ok {
		return
	}
	var req struct {
		ItemID   string `json:"itemId"`
		Quantity int    `json:"quantity"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity < 1 {
		writeErr(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var menuItem *storefront.MenuItem
	for i := range s.menu {
		if s.menu[i].ID == req.ItemID {
			menuItem = &s.menu[i]
			break
		}
	}
	if menuItem == nil {
		writeErr(w, http.StatusNotFound, "menu item not found")
		return
	}

	// Adding an item already in the cart bumps its quantity.
	for i, line := range s.carts[user.ID] {
		if line.Item.ID == req.ItemID {
			s.carts[user.ID][i].Quantity += req.Quantity
			writeData(w, http.StatusOK, s.carts[user.ID][i])
			return
		}
	}
	line := storefront.CartItem{
		ID:       uuid.NewString(),
		UserID:   user.ID,
		Item:     *menuItem,
		Quantity: req.Quantity,
	}
	s.carts[user.ID] = append(s.carts[user.ID], line)
	writeData(w, http.StatusCreated, line)
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authedUser(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	list := append([]storefront.CartItem(nil), s.carts[user.ID]...)
	s.mu.Unlock()
	writeData(w, http.StatusOK, list)
}

func (s *Server) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authedUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity < 1 {
		writeErr(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, line := range s.carts[user.ID] {
		if line.ID == id {
			s.carts[user.ID][i].Quantity = req.Quantity
			writeData(w, http.StatusOK, s.carts[user.ID][i])
			return
		}
	}
	writeErr(w, http.StatusNotFound, "cart item not found")
}

func (s *Server) handleDeleteCartItem(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authedUser(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.carts[user.ID]
	for i, line := range lines {
		if line.ID == id {
			s.carts[user.ID] = append(lines[:i], lines[i+1:]...)
			writeData(w, http.StatusOK, map[string]string{"message": "removed"})
			return
		}
	}
	writeErr(w, http.StatusNotFound, "cart item not found")
}

// =============================================================================
// Orders and reviews
// =============================================================================

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authedUser(w, r)
	if !ok {
		return
	}
	var req struct {
		AddressID string                     `json:"addressId"`
		Delivery  storefront.DeliveryDetails `json:"deliveryDetails"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.carts[user.ID]
	if len(lines) == 0 {
		writeErr(w, http.StatusBadRequest, "cart is empty")
		return
	}

	order := storefront.Order{
		ID:              uuid.NewString(),
		RestaurantID:    lines[0].Item.RestaurantID,
		UserID:          user.ID,
		DeliveryDetails: req.Delivery,
		Status:          storefront.OrderPlaced,
		CreatedAt:       time.Now().UTC(),
	}
	for _, line := range lines {
		order.Lines = append(order.Lines, storefront.OrderLine{
			Name:     line.Item.Name,
			Price:    line.Item.UnitPrice(),
			Quantity: line.Quantity,
			ImageURL: line.Item.ImageURL,
		})
		order.TotalAmount += line.Item.UnitPrice() * int64(line.Quantity)
	}
	s.orders = append(s.orders, order)
	s.carts[user.ID] = nil

	writeData(w, http.StatusCreated, storefront.CheckoutSession{
		SessionID: uuid.NewString(),
		URL:       "https://pay.savorline.test/session/" + order.ID,
	})
}

// handleMyOrders responds with a bare array, not the success envelope.
func (s *Server) handleMyOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authedUser(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []storefront.Order{}
	for _, o := range s.orders {
		if o.UserID == user.ID {
			list = append(list, o)
		}
	}
	writeBare(w, http.StatusOK, list)
}

func (s *Server) handleRestaurantOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authedUser(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rest, hasRestaurant := s.restaurants[user.ID]
	list := []storefront.Order{}
	if hasRestaurant {
		for _, o := range s.orders {
			if o.RestaurantID == rest.ID {
				list = append(list, o)
			}
		}
	}
	writeData(w, http.StatusOK, list)
}

func (s *Server) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authedUser(w, r); !ok {
		return
	}
	var req struct {
		Status storefront.OrderStatus `json:"status"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id := mux.Vars(r)["orderId"]

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.orders {
		if o.ID != id {
			continue
		}
		if !o.Status.CanTransitionTo(req.Status) {
			writeErr(w, http.StatusConflict, "illegal status transition")
			return
		}
		s.orders[i].Status = req.Status
		writeData(w, http.StatusOK, s.orders[i])
		return
	}
	writeErr(w, http.StatusNotFound, "order not found")
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authedUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		writeErr(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}
	orderID := mux.Vars(r)["orderId"]

	s.mu.Lock()
	defer s.mu.Unlock()
	found := false
	for _, o := range s.orders {
		if o.ID == orderID && o.UserID == user.ID {
			found = true
			break
		}
	}
	if !found {
		writeErr(w, http.StatusNotFound, "order not found")
		return
	}
	review := storefront.Review{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		UserID:    user.ID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now().UTC(),
	}
	s.reviews[orderID] = review
	writeData(w, http.StatusCreated, review)
}

// handleGetReview responds with a bare payload, not the success envelope.
func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authedUser(w, r); !ok {
		return
	}
	orderID := mux.Vars(r)["orderId"]

	s.mu.Lock()
	defer s.mu.Unlock()
	review, ok := s.reviews[orderID]
	if !ok {
		writeErr(w, http.StatusNotFound, "no review for this order")
		return
	}
	writeBare(w, http.StatusOK, review)
}

// =============================================================================
// Restaurant
// =============================================================================

type restaurantRequest struct {
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

func (req restaurantRequest) apply(rest *storefront.Restaurant) {
	rest.Name = req.Name
	rest.Address = req.Address
	rest.City = req.City
	rest.Country = req.Country
	rest.Contact = req.Contact
	rest.OpeningHours = req.OpeningHours
	rest.DeliveryPrice = req.DeliveryPrice
	rest.EstimatedDeliveryTime = req.EstimatedDeliveryTime
	rest.Cuisines = req.Cuisines
}

func (s *Server) handleCreateRestaurant(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authedUser(w, r)
	if !ok {
		return
	}
	var req restaurantRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.restaurants[user.ID]; exists {
		writeErr(w, http.StatusConflict, "owner already has a restaurant")
		return
	}
	rest := storefront.Restaurant{ID: uuid.NewString(), OwnerID: user.ID}
	req.apply(&rest)
	s.restaurants[user.ID] = rest
	writeData(w, http.StatusCreated, rest)
}

func (s *Server) handleGetRestaurant(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authedUser(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rest, exists := s.restaurants[user.ID]
	if !exists {
		writeErr(w, http.StatusNotFound, "no restaurant for this owner")
		return
	}
	writeData(w, http.StatusOK, rest)
}

func (s *Server) handleUpdateRestaurant(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authedUser(w, r)
	if !ok {
		return
	}
	var req restaurantRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	rest, exists := s.restaurants[user.ID]
	if !exists || rest.ID != id {
		writeErr(w, http.StatusNotFound, "restaurant not found")
		return
	}
	req.apply(&rest)
	s.restaurants[user.ID] = rest
	writeData(w, http.StatusOK, rest)
}

func (s *Server) handleDeleteRestaurant(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authedUser(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	rest, exists := s.restaurants[user.ID]
	if !exists || rest.ID != id {
		writeErr(w, http.StatusNotFound, "restaurant not found")
		return
	}
	delete(s.restaurants, user.ID)
	writeData(w, http.StatusOK, map[string]string{"message": "deleted"})
}

func (s *Server) handleSearchRestaurants(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authedUser(w, r); !ok {
		return
	}
	q := strings.ToLower(r.URL.Query().Get("q"))

	s.mu.Lock()
	defer s.mu.Unlock()
	results := []storefront.Restaurant{}
	for _, rest := range s.restaurants {
		if q == "" || matchesRestaurant(rest, q) {
			results = append(results, rest)
		}
	}
	writeData(w, http.StatusOK, results)
}

func matchesRestaurant(rest storefront.Restaurant, q string) bool {
	if strings.Contains(strings.ToLower(rest.Name), q) ||
		strings.Contains(strings.ToLower(rest.City), q) {
		return true
	}
	for _, cuisine := range rest.Cuisines {
		if strings.Contains(strings.ToLower(cuisine), q) {
			return true
		}
	}
	return false
}

// handleUploadImage serves both restaurant and menu-item image uploads; the
// mock does not store the bytes, it just hands back a URL.
func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authedUser(w, r); !ok {
		return
	}
	id := mux.Vars(r)["id"]
	writeData(w, http.StatusOK, map[string]string{
		"url": "https://cdn.savorline.test/images/" + id + ".png",
	})
}

// =============================================================================
// Menu
// =============================================================================

type menuItemRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Price           int64  `json:"price"`
	DiscountPercent int    `json:"discountPercent"`
	InStock         bool   `json:"stock"`
	Published       bool   `json:"publish"`
}

func (s *Server) handleAddMenuItem(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authedUser(w, r)
	if !ok {
		return
	}
	var req menuItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeErr(w, http.StatusBadRequest, "name is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	item := storefront.MenuItem{
		ID:              uuid.NewString(),
		RestaurantID:    s.restaurants[user.ID].ID,
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DiscountPercent: req.DiscountPercent,
		InStock:         req.InStock,
		Published:       req.Published,
	}
	s.menu = append(s.menu, item)
	writeData(w, http.StatusCreated, item)
}

func (s *Server) handleListMenu(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authedUser(w, r); !ok {
		return
	}
	s.mu.Lock()
	list := append([]storefront.MenuItem(nil), s.menu...)
	s.mu.Unlock()
	writeData(w, http.StatusOK, list)
}

func (s *Server) handleUpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authedUser(w, r); !ok {
		return
	}
	var req menuItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.menu {
		if s.menu[i].ID == id {
			s.menu[i].Name = req.Name
			s.menu[i].Description = req.Description
			s.menu[i].Price = req.Price
			s.menu[i].DiscountPercent = req.DiscountPercent
			s.menu[i].InStock = req.InStock
			s.menu[i].Published = req.Published
			writeData(w, http.StatusOK, s.menu[i])
			return
		}
	}
	writeErr(w, http.StatusNotFound, "menu item not found")
}

// handleRemoveMenuItem unpublishes the item. The record is kept so past
// order lines keep resolving.
func (s *Server) handleRemoveMenuItem(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authedUser(w, r); !ok {
		return
	}
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.menu {
		if s.menu[i].ID == id {
			s.menu[i].Published = false
			writeData(w, http.StatusOK, map[string]string{"message": "removed"})
			return
		}
	}
	writeErr(w, http.StatusNotFound, "menu item not found")
}

// =============================================================================
// Analytics
// =============================================================================

func (s *Server) handleAnalyticsOverview(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authedUser(w, r); !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	overview := storefront.AnalyticsOverview{
		TotalOrders:      int64(len(s.orders)),
		TotalCustomers:   int64(len(s.accounts)),
		TotalRestaurants: int64(len(s.restaurants)),
	}
	for _, o := range s.orders {
		overview.TotalRevenue += o.TotalAmount
	}
	writeData(w, http.StatusOK, overview)
}

func (s *Server) handleAnalyticsDaily(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authedUser(w, r); !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	byDay := make(map[string]*storefront.DailyStat)
	for _, o := range s.orders {
		day := o.CreatedAt.Format("2006-01-02")
		stat := byDay[day]
		if stat == nil {
			stat = &storefront.DailyStat{Date: day}
			byDay[day] = stat
		}
		stat.Orders++
		stat.Revenue += o.TotalAmount
	}
	list := []storefront.DailyStat{}
	for _, stat := range byDay {
		list = append(list, *stat)
	}
	writeData(w, http.StatusOK, list)
}

func (s *Server) handleRestaurantStats(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authedUser(w, r); !ok {
		return
	}
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	stats := storefront.RestaurantStats{RestaurantID: id}
	var ratingSum, ratingCount int64
	for _, o := range s.orders {
		if o.RestaurantID != id {
			continue
		}
		stats.Orders++
		stats.Revenue += o.TotalAmount
		if review, ok := s.reviews[o.ID]; ok {
			ratingSum += int64(review.Rating)
			ratingCount++
		}
	}
	if ratingCount > 0 {
		stats.AvgRating = float64(ratingSum) / float64(ratingCount)
	}
	writeData(w, http.StatusOK, stats)
}

// =============================================================================
// Notifications
// =============================================================================

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authedUser(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	list := append([]storefront.Notification(nil), s.notifications[user.ID]...)
	s.mu.Unlock()
	writeData(w, http.StatusOK, list)
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authedUser(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.notifications[user.ID] {
		if n.ID == id {
			s.notifications[user.ID][i].Read = true
			writeData(w, http.StatusOK, s.notifications[user.ID][i])
			return
		}
	}
	writeErr(w, http.StatusNotFound, "notification not found")
}

func (s *Server) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authedUser(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications[user.ID] {
		s.notifications[user.ID][i].Read = true
	}
	writeData(w, http.StatusOK, map[string]string{"message": "all read"})
}

func (s *Server) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authedUser(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.notifications[user.ID] {
		if !n.Read {
			count++
		}
	}
	writeData(w, http.StatusOK, map[string]int{"count": count})
}

func (s *Server) handleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authedUser(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.notifications[user.ID]
	for i, n := range list {
		if n.ID == id {
			s.notifications[user.ID] = append(list[:i], list[i+1:]...)
			writeData(w, http.StatusOK, map[string]string{"message": "deleted"})
			return
		}
	}
	writeErr(w, http.StatusNotFound, "notification not found")
}

func (s *Server) handleDeleteRead(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authedUser(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := []storefront.Notification{}
	for _, n := range s.notifications[user.ID] {
		if !n.Read {
			kept = append(kept, n)
		}
	}
	s.notifications[user.ID] = kept
	writeData(w, http.StatusOK, map[string]string{"message": "cleared"})
}
