package gateway

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jvillano/hookgate"
	"github.com/jvillano/hookgate/store"
)

// Auth service errors.
var (
	// ErrUserExists is returned by Register for an already-taken username.
	ErrUserExists = errors.New("gateway: user already exists")

	// ErrInvalidCredentials is returned by Login for a bad username/password
	// pair. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("gateway: invalid credentials")

	// ErrNoSession is returned by operations requiring a live token.
	ErrNoSession = errors.New("gateway: no active session")
)

// Action names for the auth services. Plugins hook individual operations via
// the derived names, e.g. hookgate.HookName(ActionLogin, hookgate.PhaseBefore).
const (
	ActionLogin           = "login"
	ActionLogout          = "logout"
	ActionRegister        = "register"
	ActionGetUserInfo     = "getUserInfo"
	ActionRefreshUserInfo = "refreshUserInfo"
)

// userRecord is the persisted shape of one account.
type userRecord struct {
	PasswordHash string         `json:"password_hash"`
	Info         map[string]any `json:"info,omitempty"`
}

// Auth is the thin authentication service: each operation resolves records
// against a [store.Store] and runs through the gateway's action-extended
// pipeline under its action name.
type Auth struct {
	gw    *Gateway
	store store.Store
	log   *zap.Logger
}

// AuthOption configures the service.
type AuthOption func(*Auth)

// WithLogger sets the service logger. The default discards everything.
func WithLogger(log *zap.Logger) AuthOption {
	return func(a *Auth) {
		a.log = log
	}
}

// NewAuth creates the auth service over st. All five actions are bound at
// construction.
func NewAuth(st store.Store, opts ...AuthOption) *Auth {
	a := &Auth{
		store: st,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.gw = New(ServiceMap{
		ActionLogin:           a.login,
		ActionLogout:          a.logout,
		ActionRegister:        a.register,
		ActionGetUserInfo:     a.getUserInfo,
		ActionRefreshUserInfo: a.refreshUserInfo,
	})
	return a
}

// Use registers plugins on the underlying gateway.
func (a *Auth) Use(plugins ...*hookgate.Plugin[Params]) *Auth {
	a.gw.Use(plugins...)
	return a
}

// Gateway exposes the underlying gateway, e.g. to run custom actions against
// the same plugin list.
func (a *Auth) Gateway() *Gateway {
	return a.gw
}

// -----------------------------------------------------------------------------
// Public Operations
// -----------------------------------------------------------------------------

// Register creates an account. The password is stored hashed; info is an
// optional free-form record returned by UserInfo.
func (a *Auth) Register(ctx context.Context, username, password string, info map[string]any) error {
	ec := hookgate.NewExecutionContext(ActionRegister, Params{
		"username": username,
		"password": password,
		"info":     info,
	})
	_, err := a.gw.Exec(ctx, ActionRegister, ec)
	return err
}

// Login verifies credentials and returns a fresh session token.
func (a *Auth) Login(ctx context.Context, username, password string) (string, error) {
	ec := hookgate.NewExecutionContext(ActionLogin, Params{
		"username": username,
		"password": password,
	})
	v, err := a.gw.Exec(ctx, ActionLogin, ec)
	if err != nil {
		return "", err
	}
	token, _ := v.(string)
	return token, nil
}

// Logout removes the user's session token. Logging out without a session is
// not an error.
func (a *Auth) Logout(ctx context.Context, username string) error {
	ec := hookgate.NewExecutionContext(ActionLogout, Params{
		"username": username,
	})
	_, err := a.gw.Exec(ctx, ActionLogout, ec)
	return err
}

// UserInfo returns the user's info record. Requires a live session.
func (a *Auth) UserInfo(ctx context.Context, username string) (map[string]any, error) {
	ec := hookgate.NewExecutionContext(ActionGetUserInfo, Params{
		"username": username,
	})
	v, err := a.gw.Exec(ctx, ActionGetUserInfo, ec)
	if err != nil {
		return nil, err
	}
	info, _ := v.(map[string]any)
	return info, nil
}

// RefreshUserInfo shallow-merges patch into the user's info record and
// returns the merged record. Requires a live session.
func (a *Auth) RefreshUserInfo(ctx context.Context, username string, patch map[string]any) (map[string]any, error) {
	ec := hookgate.NewExecutionContext(ActionRefreshUserInfo, Params{
		"username": username,
		"patch":    patch,
	})
	v, err := a.gw.Exec(ctx, ActionRefreshUserInfo, ec)
	if err != nil {
		return nil, err
	}
	info, _ := v.(map[string]any)
	return info, nil
}

// -----------------------------------------------------------------------------
// Task Bodies
// -----------------------------------------------------------------------------

func userKey(username string) string {
	return "user:" + username
}

func tokenKey(username string) string {
	return "token:" + username
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func (a *Auth) register(ctx context.Context, ec *Context) (any, error) {
	p := ec.Params()
	username, _ := p["username"].(string)
	password, _ := p["password"].(string)
	info, _ := p["info"].(map[string]any)
	if username == "" {
		return nil, fmt.Errorf("gateway: username is required")
	}

	if _, err := a.store.Get(ctx, userKey(username)); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	rec := userRecord{
		PasswordHash: hashPassword(password),
		Info:         info,
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode user record: %w", err)
	}
	if err := a.store.Set(ctx, userKey(username), string(raw)); err != nil {
		return nil, err
	}

	a.log.Info("user registered",
		zap.String("username", username),
		zap.String("call_id", ec.ID()))
	return nil, nil
}

func (a *Auth) login(ctx context.Context, ec *Context) (any, error) {
	p := ec.Params()
	username, _ := p["username"].(string)
	password, _ := p["password"].(string)

	rec, err := a.loadUser(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if rec.PasswordHash != hashPassword(password) {
		return nil, ErrInvalidCredentials
	}

	token := uuid.NewString()
	if err := a.store.Set(ctx, tokenKey(username), token); err != nil {
		return nil, err
	}

	a.log.Info("user logged in",
		zap.String("username", username),
		zap.String("call_id", ec.ID()))
	return token, nil
}

func (a *Auth) logout(ctx context.Context, ec *Context) (any, error) {
	username, _ := ec.Params()["username"].(string)
	if err := a.store.Delete(ctx, tokenKey(username)); err != nil {
		return nil, err
	}
	a.log.Info("user logged out",
		zap.String("username", username),
		zap.String("call_id", ec.ID()))
	return nil, nil
}

func (a *Auth) getUserInfo(ctx context.Context, ec *Context) (any, error) {
	username, _ := ec.Params()["username"].(string)
	if err := a.requireSession(ctx, username); err != nil {
		return nil, err
	}
	rec, err := a.loadUser(ctx, username)
	if err != nil {
		return nil, err
	}
	return rec.Info, nil
}

func (a *Auth) refreshUserInfo(ctx context.Context, ec *Context) (any, error) {
	p := ec.Params()
	username, _ := p["username"].(string)
	patch, _ := p["patch"].(map[string]any)

	if err := a.requireSession(ctx, username); err != nil {
		return nil, err
	}
	rec, err := a.loadUser(ctx, username)
	if err != nil {
		return nil, err
	}

	if rec.Info == nil {
		rec.Info = make(map[string]any, len(patch))
	}
	for k, v := range patch {
		rec.Info[k] = v
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode user record: %w", err)
	}
	if err := a.store.Set(ctx, userKey(username), string(raw)); err != nil {
		return nil, err
	}
	return rec.Info, nil
}

func (a *Auth) loadUser(ctx context.Context, username string) (*userRecord, error) {
	raw, err := a.store.Get(ctx, userKey(username))
	if err != nil {
		return nil, err
	}
	var rec userRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("failed to decode user record for %s: %w", username, err)
	}
	return &rec, nil
}

func (a *Auth) requireSession(ctx context.Context, username string) error {
	_, err := a.store.Get(ctx, tokenKey(username))
	if errors.Is(err, store.ErrNotFound) {
		return ErrNoSession
	}
	return err
}
