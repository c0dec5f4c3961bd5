package storefront

import "testing"

func TestMenuItemUnitPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    int64
		discount int
		want     int64
	}{
		{"no discount", 1000, 0, 1000},
		{"ten percent off", 500, 10, 450},
		{"rounds down", 999, 10, 899},
		{"full discount", 1000, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MenuItem{Price: tt.price, DiscountPercent: tt.discount}
			if got := m.UnitPrice(); got != tt.want {
				t.Errorf("UnitPrice() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestComputeCartTotals(t *testing.T) {
	itemA := MenuItem{ID: "a", Price: 1000}
	itemB := MenuItem{ID: "b", Price: 500, DiscountPercent: 10}

	// 1×A = 1000/1, then 3×A = 3000/3, then plus 2×B at 450 each = 3900/5,
	// then without A = 900/2.
	steps := []struct {
		name  string
		items []CartItem
		want  CartTotals
	}{
		{
			"single unit",
			[]CartItem{{ID: "l1", Item: itemA, Quantity: 1}},
			CartTotals{TotalItems: 1, RawSubtotal: 1000, Subtotal: 1000},
		},
		{
			"quantity raised",
			[]CartItem{{ID: "l1", Item: itemA, Quantity: 3}},
			CartTotals{TotalItems: 3, RawSubtotal: 3000, Subtotal: 3000},
		},
		{
			"second discounted line",
			[]CartItem{
				{ID: "l1", Item: itemA, Quantity: 3},
				{ID: "l2", Item: itemB, Quantity: 2},
			},
			CartTotals{TotalItems: 5, RawSubtotal: 4000, Subtotal: 3900},
		},
		{
			"first line removed",
			[]CartItem{{ID: "l2", Item: itemB, Quantity: 2}},
			CartTotals{TotalItems: 2, RawSubtotal: 1000, Subtotal: 900},
		},
		{
			"empty cart",
			nil,
			CartTotals{},
		},
	}
	for _, tt := range steps {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeCartTotals(tt.items); got != tt.want {
				t.Errorf("ComputeCartTotals() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{OrderPlaced, OrderPaid, true},
		{OrderPaid, OrderInProgress, true},
		{OrderInProgress, OrderOutForDelivery, true},
		{OrderOutForDelivery, OrderDelivered, true},
		{OrderPlaced, OrderInProgress, false},
		{OrderPaid, OrderDelivered, false},
		{OrderPlaced, OrderCancelled, true},
		{OrderOutForDelivery, OrderCancelled, true},
		{OrderDelivered, OrderCancelled, false},
		{OrderCancelled, OrderPaid, false},
		{OrderDelivered, OrderDelivered, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	for _, s := range []OrderStatus{OrderPlaced, OrderPaid, OrderInProgress, OrderOutForDelivery} {
		if s.Terminal() {
			t.Errorf("%s.Terminal() = true, want false", s)
		}
		if s.Next() == s {
			t.Errorf("%s.Next() did not advance", s)
		}
	}
	for _, s := range []OrderStatus{OrderDelivered, OrderCancelled} {
		if !s.Terminal() {
			t.Errorf("%s.Terminal() = false, want true", s)
		}
		if s.Next() != s {
			t.Errorf("%s.Next() = %s, want itself", s, s.Next())
		}
	}
}
