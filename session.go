package storefront

import (
	"context"
	"sync"
)

// SessionState is where the app is in the auth lifecycle. It changes only
// through the controller, and always in the order Unauthenticated ->
// Loading -> Authenticated (or back to Unauthenticated on failure).
type SessionState int

const (
	StateUnauthenticated SessionState = iota
	StateLoading
	StateAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// SessionController drives app startup: it decides from the persisted
// tokens whether a session exists, restores the user profile, and kicks
// off the dependent fetches once identity is confirmed. Dependent data is
// never fetched while the session is unresolved.
type SessionController struct {
	client   *Client
	onChange func(SessionState)

	mu    sync.Mutex
	state SessionState
}

// NewSessionController wires a controller to a client. onChange is invoked
// on every state transition and may be nil.
func NewSessionController(client *Client, onChange func(SessionState)) *SessionController {
	return &SessionController{client: client, onChange: onChange}
}

// State returns the current lifecycle state.
func (sc *SessionController) State() SessionState {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.state
}

func (sc *SessionController) transition(next SessionState) {
	sc.mu.Lock()
	sc.state = next
	sc.mu.Unlock()
	if sc.onChange != nil {
		sc.onChange(next)
	}
}

// Start resolves the session at startup.
//
// With no persisted token the controller settles in Unauthenticated
// immediately and nothing is fetched. With a token it enters Loading,
// validates the session by fetching the user profile, then transitions to
// Authenticated and loads the dependent data (cart, addresses, and for
// restaurant owners their incoming orders). A rejected token clears the
// stored credentials and lands in Unauthenticated without any dependent
// fetches.
//
// Dependent fetch failures do not fail the transition; each store records
// its own error and the view retries from there.
func (sc *SessionController) Start(ctx context.Context) SessionState {
	if !sc.client.HasSession() {
		sc.transition(StateUnauthenticated)
		return StateUnauthenticated
	}

	sc.transition(StateLoading)

	user, err := sc.client.CurrentUser(ctx)
	if err != nil {
		// CurrentUser already tore the session down if the token was
		// rejected; make sure stale tokens never survive a failed restore.
		sc.client.gw.ClearSession()
		sc.client.stores.ResetAll()
		sc.transition(StateUnauthenticated)
		return StateUnauthenticated
	}

	sc.transition(StateAuthenticated)
	sc.loadDependent(ctx, user)
	return StateAuthenticated
}

// loadDependent fetches the data every authenticated view needs. Failures
// stay in the individual stores.
func (sc *SessionController) loadDependent(ctx context.Context, user User) {
	if _, err := sc.client.FetchCart(ctx); err != nil {
		sc.client.log.WithError(err).Warn("session restore: cart fetch failed")
	}
	if _, err := sc.client.FetchAddresses(ctx); err != nil {
		sc.client.log.WithError(err).Warn("session restore: address fetch failed")
	}
	if user.Role == RoleRestaurantOwner {
		if _, err := sc.client.FetchRestaurantOrders(ctx); err != nil {
			sc.client.log.WithError(err).Warn("session restore: restaurant orders fetch failed")
		}
	}
}
