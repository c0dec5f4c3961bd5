package storefront

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/savorline/storefront-client/internal/credentials"
	"github.com/savorline/storefront-client/internal/gateway"
	"github.com/savorline/storefront-client/pkg/logger"
)

// ValidationError is a local input failure caught before any network call.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErr(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Options configures a Client.
type Options struct {
	BaseURL     string
	Credentials credentials.Store
	HTTPClient  *http.Client
	Logger      *logger.Logger
	// Registerer receives the gateway request counters; nil disables
	// scraping.
	Registerer prometheus.Registerer
	// OnSessionExpired runs after a terminal auth failure, once tokens and
	// stores have been cleared. Embedding applications typically redirect
	// to their landing route here.
	OnSessionExpired func()
}

// Client is the single access point the presentation layer talks to. It
// bundles the remote gateway with the local entity stores and guarantees
// that after every mutating call resolves, the affected store reflects
// server-confirmed state.
type Client struct {
	gw      *gateway.Client
	stores  *Stores
	log     *logger.Logger
	cartOps *keyedMutex
}

// NewClient creates a storefront client.
func NewClient(opts Options) (*Client, error) {
	log := opts.Logger
	if log == nil {
		log = logger.NewDefault("storefront")
	}

	stores := NewStores()
	gw, err := gateway.New(gateway.Config{
		BaseURL:     opts.BaseURL,
		Credentials: opts.Credentials,
		HTTPClient:  opts.HTTPClient,
		Logger:      log.WithField("layer", "gateway"),
		Registerer:  opts.Registerer,
		OnSessionExpired: func() {
			stores.ResetAll()
			if opts.OnSessionExpired != nil {
				opts.OnSessionExpired()
			}
		},
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		gw:      gw,
		stores:  stores,
		log:     log,
		cartOps: newKeyedMutex(),
	}, nil
}

// Stores exposes the local entity state for the presentation layer to
// render from.
func (c *Client) Stores() *Stores {
	return c.stores
}

// errorSink is the slice of a store an operation records failures into.
type errorSink interface {
	SetError(string)
}

// fail records a user-facing message in the store, logs the underlying
// error and returns it for the caller to react to.
func (c *Client) fail(sink errorSink, op string, err error) error {
	if sink != nil {
		sink.SetError(gateway.UserMessage(err))
	}
	c.log.WithField("op", op).WithError(err).Error("operation failed")
	return err
}

// =============================================================================
// Auth
// =============================================================================

// SignUpParams is the registration form payload.
type SignUpParams struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

// SignUp registers a new account. The account stays inactive until the
// emailed code is confirmed via VerifyEmail.
func (c *Client) SignUp(ctx context.Context, p SignUpParams) error {
	if p.Email == "" || p.Password == "" {
		return validationErr("email and password are required")
	}
	if err := c.gw.Call(ctx, gateway.EpSignUp, p, nil); err != nil {
		return c.fail(nil, "sign up", err)
	}
	return nil
}

// VerifyEmail confirms the emailed verification code.
func (c *Client) VerifyEmail(ctx context.Context, email, code string) error {
	if code == "" {
		return validationErr("verification code is required")
	}
	body := map[string]string{"email": email, "code": code}
	if err := c.gw.Call(ctx, gateway.EpVerifyEmail, body, nil); err != nil {
		return c.fail(nil, "verify email", err)
	}
	return nil
}

type loginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

// Login authenticates, persists the issued token pair and seeds the session
// store.
func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	if email == "" || password == "" {
		return User{}, validationErr("email and password are required")
	}

	s := c.stores.Session
	s.SetLoading(true)
	defer s.SetLoading(false)

	var out loginResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.gw.Call(ctx, gateway.EpLogin, body, &out); err != nil {
		return User{}, c.fail(s, "login", err)
	}
	if err := c.gw.SetSession(out.AccessToken, out.RefreshToken); err != nil {
		return User{}, c.fail(s, "login", err)
	}

	s.Set(out.User)
	c.log.WithField("user_id", out.User.ID).Info("logged in")
	return out.User, nil
}

// Logout ends the session. It is synchronous from the caller's
// perspective: tokens and local stores are cleared before it returns, and
// the backend logout call happens in the background on a best-effort basis.
func (c *Client) Logout() error {
	if access := c.gw.AccessToken(); access != "" {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := c.gw.BestEffort(ctx, gateway.EpLogout, access); err != nil {
				c.log.WithError(err).Debug("background logout call failed")
			}
		}()
	}

	err := c.gw.ClearSession()
	c.stores.ResetAll()
	c.log.Info("logged out")
	return err
}

// HasSession reports whether a persisted access token exists.
func (c *Client) HasSession() bool {
	return c.gw.HasSession()
}

// =============================================================================
// Password recovery
// =============================================================================

// ForgotPassword requests a reset code for the account's email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return validationErr("email is required")
	}
	body := map[string]string{"email": email}
	if err := c.gw.Call(ctx, gateway.EpForgotPassword, body, nil); err != nil {
		return c.fail(nil, "forgot password", err)
	}
	return nil
}

// VerifyResetCode checks the emailed reset code.
func (c *Client) VerifyResetCode(ctx context.Context, email, code string) error {
	if code == "" {
		return validationErr("reset code is required")
	}
	body := map[string]string{"email": email, "code": code}
	if err := c.gw.Call(ctx, gateway.EpVerifyOTP, body, nil); err != nil {
		return c.fail(nil, "verify reset code", err)
	}
	return nil
}

// ResetPassword sets a new password using a verified reset code.
func (c *Client) ResetPassword(ctx context.Context, email, code, password, confirm string) error {
	if password == "" {
		return validationErr("password is required")
	}
	if password != confirm {
		return validationErr("passwords do not match")
	}
	body := map[string]string{"email": email, "code": code, "password": password}
	if err := c.gw.Call(ctx, gateway.EpResetPassword, body, nil); err != nil {
		return c.fail(nil, "reset password", err)
	}
	return nil
}

// =============================================================================
// User profile
// =============================================================================

// CurrentUser fetches the authenticated user and seeds the session store.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	s := c.stores.Session
	s.SetLoading(true)
	defer s.SetLoading(false)

	var user User
	if err := c.gw.Call(ctx, gateway.EpGetUser, nil, &user); err != nil {
		return User{}, c.fail(s, "fetch current user", err)
	}
	s.Set(user)
	return user, nil
}

// ProfileParams are the editable user fields.
type ProfileParams struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
}

// UpdateProfile saves profile edits and refreshes the session store from
// the server's response.
func (c *Client) UpdateProfile(ctx context.Context, p ProfileParams) (User, error) {
	if strings.TrimSpace(p.Name) == "" {
		return User{}, validationErr("name is required")
	}

	s := c.stores.Session
	var user User
	if err := c.gw.Call(ctx, gateway.EpUpdateUser, p, &user); err != nil {
		return User{}, c.fail(s, "update profile", err)
	}
	s.Set(user)
	return user, nil
}

// UploadAvatar uploads a profile image and returns its served URL.
func (c *Client) UploadAvatar(ctx context.Context, filename string, content io.Reader) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	if err := c.gw.Upload(ctx, gateway.EpUploadAvatar, "avatar", filename, content, &out); err != nil {
		return "", c.fail(c.stores.Session, "upload avatar", err)
	}
	return out.URL, nil
}

// IsUnauthenticated reports whether err is the terminal auth failure that
// already tore the session down.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, gateway.ErrUnauthenticated)
}

// UserMessage extracts the message an operation stored for display.
func UserMessage(err error) string {
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Msg
	}
	return gateway.UserMessage(err)
}
