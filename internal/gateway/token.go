package gateway

import (
	"context"
	"sync"
)

// tokenState tracks the access token through its refresh lifecycle:
// valid -> expired (observed 401) -> refreshing -> valid or invalid.
type tokenState int

const (
	tokenValid tokenState = iota
	tokenRefreshing
	tokenInvalid
)

func (s tokenState) String() string {
	switch s {
	case tokenValid:
		return "valid"
	case tokenRefreshing:
		return "refreshing"
	case tokenInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// tokenGate serializes token refreshes: however many calls observe a 401
// concurrently, exactly one refresh exchange runs and the rest await its
// outcome.
type tokenGate struct {
	mu       sync.Mutex
	state    tokenState
	inflight chan struct{}
	err      error
	exchange func(context.Context) error
}

func newTokenGate(exchange func(context.Context) error) *tokenGate {
	return &tokenGate{state: tokenValid, exchange: exchange}
}

// Refresh performs or joins a single token refresh. Callers arriving while
// an exchange is in flight wait for it and share its result.
func (g *tokenGate) Refresh(ctx context.Context) error {
	g.mu.Lock()
	if g.state == tokenRefreshing {
		inflight := g.inflight
		g.mu.Unlock()
		select {
		case <-inflight:
		case <-ctx.Done():
			return ctx.Err()
		}
		g.mu.Lock()
		defer g.mu.Unlock()
		return g.err
	}
	g.state = tokenRefreshing
	inflight := make(chan struct{})
	g.inflight = inflight
	g.mu.Unlock()

	err := g.exchange(ctx)

	g.mu.Lock()
	if err != nil {
		g.state = tokenInvalid
	} else {
		g.state = tokenValid
	}
	g.err = err
	g.inflight = nil
	g.mu.Unlock()
	close(inflight)

	return err
}

// Reset marks the token pair valid again, after a fresh login or an
// explicit logout.
func (g *tokenGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = tokenValid
	g.err = nil
}

// State returns the current lifecycle state.
func (g *tokenGate) State() tokenState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}
