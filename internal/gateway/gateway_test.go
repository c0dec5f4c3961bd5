package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/savorline/storefront-client/internal/credentials"
	"github.com/savorline/storefront-client/pkg/logger"
)

func newTestClient(t *testing.T, baseURL string, creds credentials.Store) *Client {
	t.Helper()
	c, err := New(Config{
		BaseURL:     baseURL,
		Credentials: creds,
		Logger:      logger.Discard(),
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return c
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{Credentials: credentials.NewMemoryStore()}); err == nil {
		t.Error("New() without BaseURL should error")
	}
	if _, err := New(Config{BaseURL: "http://localhost"}); err == nil {
		t.Error("New() without Credentials should error")
	}
}

func TestCall_EnvelopeSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"name":"margherita"}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, credentials.NewMemoryStore())

	var out struct {
		Name string `json:"name"`
	}
	if err := c.Call(context.Background(), EpGetCart, nil, &out); err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	if out.Name != "margherita" {
		t.Errorf("out.Name = %q, want margherita", out.Name)
	}
}

func TestCall_EnvelopeBusinessFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"item out of stock"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, credentials.NewMemoryStore())

	err := c.Call(context.Background(), EpAddToCart, map[string]string{"itemId": "m1"}, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Call() error = %v, want *APIError", err)
	}
	if apiErr.Message != "item out of stock" {
		t.Errorf("Message = %q, want %q", apiErr.Message, "item out of stock")
	}
}

func TestCall_BarePayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"o1"},{"id":"o2"}]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, credentials.NewMemoryStore())

	var out []struct {
		ID string `json:"id"`
	}
	if err := c.Call(context.Background(), EpMyOrders, nil, &out); err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	if len(out) != 2 || out[0].ID != "o1" {
		t.Errorf("out = %+v, want two orders starting with o1", out)
	}
}

func TestCall_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"success":false,"message":"quantity must be positive"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, credentials.NewMemoryStore())

	err := c.Call(context.Background(), EpAddToCart, nil, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Call() error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("StatusCode = %d, want 422", apiErr.StatusCode)
	}
	if apiErr.Message != "quantity must be positive" {
		t.Errorf("Message = %q, want server message", apiErr.Message)
	}
}

func TestCall_RefreshRetryOnce(t *testing.T) {
	creds := credentials.NewMemoryStore()
	creds.SetTokens("stale-access", "good-refresh")

	var cartCalls, refreshCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case EpRefreshToken.Path:
			refreshCalls.Add(1)
			w.Write([]byte(`{"success":true,"data":{"accessToken":"fresh-access","refreshToken":"fresh-refresh"}}`))
		case EpGetCart.Path:
			cartCalls.Add(1)
			if r.Header.Get("Authorization") != "Bearer fresh-access" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"success":false,"message":"token expired"}`))
				return
			}
			w.Write([]byte(`{"success":true,"data":[]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, creds)

	if err := c.Call(context.Background(), EpGetCart, nil, nil); err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	if got := cartCalls.Load(); got != 2 {
		t.Errorf("cart endpoint hit %d times, want 2 (original + retry)", got)
	}
	if got := refreshCalls.Load(); got != 1 {
		t.Errorf("refresh endpoint hit %d times, want 1", got)
	}

	access, refresh := creds.Tokens()
	if access != "fresh-access" || refresh != "fresh-refresh" {
		t.Errorf("Tokens() = (%q, %q), want refreshed pair", access, refresh)
	}
}

func TestCall_SecondUnauthorizedIsTerminal(t *testing.T) {
	creds := credentials.NewMemoryStore()
	creds.SetTokens("stale-access", "good-refresh")

	var torndown atomic.Bool
	var cartCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == EpRefreshToken.Path {
			w.Write([]byte(`{"success":true,"data":{"accessToken":"new-but-rejected"}}`))
			return
		}
		cartCalls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"token expired"}`))
	}))
	defer srv.Close()

	c, err := New(Config{
		BaseURL:          srv.URL,
		Credentials:      creds,
		Logger:           logger.Discard(),
		OnSessionExpired: func() { torndown.Store(true) },
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	err = c.Call(context.Background(), EpGetCart, nil, nil)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("Call() error = %v, want ErrUnauthenticated", err)
	}
	if got := cartCalls.Load(); got != 2 {
		t.Errorf("cart endpoint hit %d times, want exactly 2 (no retry loop)", got)
	}
	if !torndown.Load() {
		t.Error("OnSessionExpired was not invoked")
	}
	if access, refresh := creds.Tokens(); access != "" || refresh != "" {
		t.Errorf("Tokens() = (%q, %q), want cleared", access, refresh)
	}
}

func TestCall_RefreshFailureClearsSession(t *testing.T) {
	creds := credentials.NewMemoryStore()
	creds.SetTokens("stale-access", "bad-refresh")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == EpRefreshToken.Path {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"success":false,"message":"refresh token revoked"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, creds)

	err := c.Call(context.Background(), EpGetCart, nil, nil)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("Call() error = %v, want ErrUnauthenticated", err)
	}
	if access, _ := creds.Tokens(); access != "" {
		t.Error("access token should be cleared after refresh failure")
	}
	if c.gate.State() != tokenInvalid {
		t.Errorf("gate state = %v, want invalid", c.gate.State())
	}
}

func TestCall_NoAuthEndpointNeverRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"bad credentials"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, credentials.NewMemoryStore())

	err := c.Call(context.Background(), EpLogin, map[string]string{"email": "x"}, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Call() error = %v, want *APIError", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("login endpoint hit %d times, want 1", got)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"api error with message", &APIError{Message: "cart is empty"}, "cart is empty"},
		{"api error without message", &APIError{StatusCode: 500}, FallbackMessage},
		{"transport error", errors.New("connection refused"), FallbackMessage},
		{"unauthenticated", ErrUnauthenticated, "your session has expired, please log in again"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTokenGate_SingleFlight(t *testing.T) {
	var exchanges atomic.Int32
	var startOnce sync.Once
	started := make(chan struct{})
	release := make(chan struct{})
	gate := newTokenGate(func(ctx context.Context) error {
		exchanges.Add(1)
		startOnce.Do(func() { close(started) })
		<-release
		return nil
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		gate.Refresh(context.Background())
	}()
	<-started

	// Pile further callers onto the in-flight exchange. The pause gives
	// them time to reach the gate before the exchange is released; a
	// straggler would start a second exchange and fail the count below.
	for i := 0; i < 9; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			gate.Refresh(context.Background())
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := exchanges.Load(); got != 1 {
		t.Errorf("exchange ran %d times, want 1", got)
	}
	if gate.State() != tokenValid {
		t.Errorf("gate state = %v, want valid", gate.State())
	}
}

func TestTokenGate_FailureThenReset(t *testing.T) {
	gate := newTokenGate(func(ctx context.Context) error {
		return errors.New("refresh rejected")
	})

	if err := gate.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh() should propagate exchange error")
	}
	if gate.State() != tokenInvalid {
		t.Errorf("gate state = %v, want invalid", gate.State())
	}

	gate.Reset()
	if gate.State() != tokenValid {
		t.Errorf("gate state after Reset = %v, want valid", gate.State())
	}
}
