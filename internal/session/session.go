// Package session owns the client's authentication state: the bearer token,
// the signed-in user and the transitions between them.
//
// Every mutating operation runs under a single operation mutex, so login,
// logout, refresh and profile updates never interleave. The state itself is
// guarded by a separate RW lock; readers such as the API client's bearer
// interceptor never wait for an in-flight network call.
package session

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Skotchmaster/food_client/internal/credstore"
	"github.com/Skotchmaster/food_client/internal/events"
	"github.com/Skotchmaster/food_client/internal/models"
	"github.com/Skotchmaster/food_client/pkg/apierr"
	"github.com/Skotchmaster/food_client/pkg/logging"
)

var (
	ErrNoToken          = errors.New("login response carried no token")
	ErrNotAuthenticated = errors.New("not authenticated")
)

type State int

const (
	StateUninitialized State = iota
	StateRestoring
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRestoring:
		return "restoring"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	}
	return "unknown"
}

// Session is a point-in-time copy of the manager's state.
type Session struct {
	State   State
	Token   string
	User    *models.User
	Loading bool
}

// API is the part of the backend client the session needs.
type API interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
}

type Manager struct {
	api    API
	store  credstore.Store
	events events.Publisher

	opMu     sync.Mutex
	bootOnce sync.Once

	mu      sync.RWMutex
	state   State
	token   string
	user    *models.User
	loading bool
}

func NewManager(api API, store credstore.Store, pub events.Publisher) *Manager {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Manager{
		api:     api,
		store:   store,
		events:  pub,
		state:   StateUninitialized,
		loading: true,
	}
}

func logger(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx).With("component", "session")
}

// Bootstrap restores the previous session from the credential store. Only the
// first call does any work.
func (m *Manager) Bootstrap(ctx context.Context) {
	m.bootOnce.Do(func() {
		m.opMu.Lock()
		defer m.opMu.Unlock()

		m.mu.Lock()
		m.state = StateRestoring
		m.loading = true
		m.mu.Unlock()

		token, hasToken := m.store.Token(ctx)
		user, hasUser := m.store.UserInfo(ctx)

		m.mu.Lock()
		defer m.mu.Unlock()
		if hasToken && hasUser {
			m.token = token
			m.user = user
			m.state = StateAuthenticated
		} else {
			m.token = ""
			m.user = nil
			m.state = StateUnauthenticated
		}
		m.loading = false

		logger(ctx).Info("session_restored", "state", m.state.String())
	})
}

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	m.loading = v
	m.mu.Unlock()
}

func (m *Manager) Login(ctx context.Context, identifier, secret string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || secret == "" {
		return nil, apierr.Invalid("login identifier and password are required")
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.setLoading(true)
	defer m.setLoading(false)

	l := logger(ctx)

	var resp models.LoginResponse
	err := m.api.Post(ctx, "/auth/login", models.LoginRequest{
		LoginIdentifier: identifier,
		Password:        secret,
	}, &resp)
	if err != nil {
		l.Warn("login_error", "error", err)
		return nil, err
	}
	if resp.Token == "" {
		l.Warn("login_error", "error", ErrNoToken)
		return nil, ErrNoToken
	}

	user := resp.User()
	m.store.PutToken(ctx, resp.Token)
	m.store.PutUserInfo(ctx, user)

	m.mu.Lock()
	m.token = resp.Token
	m.user = &user
	m.state = StateAuthenticated
	m.mu.Unlock()

	l.Info("login_ok", "user_id", user.UserID)
	events.Emit(ctx, m.events, events.New("session_login", user.UserID, map[string]any{
		"username": user.Username,
	}))

	out := user
	return &out, nil
}

// Register creates an account. It never signs the user in.
func (m *Manager) Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, apierr.Invalid("username, email and password are required")
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.setLoading(true)
	defer m.setLoading(false)

	var resp models.RegisterResponse
	if err := m.api.Post(ctx, "/auth/register", req, &resp); err != nil {
		logger(ctx).Warn("register_error", "error", err)
		return nil, err
	}
	return &resp, nil
}

func (m *Manager) Logout(ctx context.Context) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	uid := m.logoutLocked(ctx)
	events.Emit(ctx, m.events, events.New("session_logout", uid, nil))
}

// logoutLocked clears the store and memory. The caller holds opMu.
func (m *Manager) logoutLocked(ctx context.Context) int64 {
	m.setLoading(true)

	m.store.DeleteToken(ctx)
	m.store.DeleteUserInfo(ctx)

	m.mu.Lock()
	var uid int64
	if m.user != nil {
		uid = m.user.UserID
	}
	m.token = ""
	m.user = nil
	m.state = StateUnauthenticated
	m.loading = false
	m.mu.Unlock()

	logger(ctx).Info("logout_ok", "user_id", uid)
	return uid
}

// expireLocked ends a session the backend no longer accepts.
func (m *Manager) expireLocked(ctx context.Context, cause error) {
	uid := m.logoutLocked(ctx)
	logger(ctx).Warn("session_expired", "user_id", uid, "error", cause)
	events.Emit(ctx, m.events, events.New("session_expired", uid, nil))
}

// RefreshUserInfo reloads the profile from the backend. A 401 ends the session.
func (m *Manager) RefreshUserInfo(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if !m.Authenticated() {
		return nil
	}

	var user models.User
	if err := m.api.Get(ctx, "/users/me", nil, &user); err != nil {
		if apierr.IsUnauthorized(err) {
			m.expireLocked(ctx, err)
			return err
		}
		logger(ctx).Error("refresh_user_info_error", "error", err)
		return err
	}

	m.store.PutUserInfo(ctx, user)
	m.mu.Lock()
	m.user = &user
	m.mu.Unlock()
	return nil
}

// UpdateCurrentUserContext merges p into the signed-in user and persists the
// result. It does not talk to the backend.
func (m *Manager) UpdateCurrentUserContext(ctx context.Context, p models.ProfileUpdate) {
	m.opMu.Lock()
	defer m.opMu.Unlock()
	m.mergeLocked(ctx, p)
}

func (m *Manager) mergeLocked(ctx context.Context, p models.ProfileUpdate) {
	m.mu.Lock()
	if m.user == nil {
		m.mu.Unlock()
		return
	}
	merged := *m.user
	p.Apply(&merged)
	m.user = &merged
	m.mu.Unlock()

	m.store.PutUserInfo(ctx, merged)
}

// UpdateProfile writes the profile fields to the backend and then merges them
// into the local session.
func (m *Manager) UpdateProfile(ctx context.Context, p models.ProfileUpdate) (*models.User, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if !m.Authenticated() {
		return nil, ErrNotAuthenticated
	}

	var updated models.User
	if err := m.api.Put(ctx, "/users/me", p, &updated); err != nil {
		if apierr.IsUnauthorized(err) {
			m.expireLocked(ctx, err)
		} else {
			logger(ctx).Error("update_profile_error", "error", err)
		}
		return nil, err
	}

	m.mergeLocked(ctx, p)
	return m.Snapshot().User, nil
}

// Invalidate ends the session when err is a 401 for a request sent with the
// current token. A 401 for an older or missing token leaves a newer session
// alone. It reports whether the session was cleared.
func (m *Manager) Invalidate(ctx context.Context, err error) bool {
	e, ok := apierr.As(err)
	if !ok || e.Kind != apierr.KindUnauthorized {
		return false
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	if !m.Authenticated() {
		return false
	}
	if e.Token != m.Token() {
		logger(ctx).Info("stale_unauthorized_ignored", "user_id", m.UserID())
		return false
	}
	m.expireLocked(ctx, err)
	return true
}

// Token implements apiclient.TokenSource.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == StateAuthenticated
}

func (m *Manager) UserID() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return 0
	}
	return m.user.UserID
}

func (m *Manager) Snapshot() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Session{State: m.state, Token: m.token, Loading: m.loading}
	if m.user != nil {
		u := *m.user
		u.Roles = append([]string(nil), m.user.Roles...)
		s.User = &u
	}
	return s
}

// TokenExpiry reads the exp claim of the current token without verifying the
// signature. Opaque tokens report no expiry.
func (m *Manager) TokenExpiry() (time.Time, bool) {
	tok := m.Token()
	if tok == "" {
		return time.Time{}, false
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
