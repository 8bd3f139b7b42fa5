package sessions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jrsteele09/go-dashboard/internal/clock"
	"github.com/jrsteele09/go-dashboard/internal/errors"
	"github.com/jrsteele09/go-dashboard/oauth2"
	"github.com/jrsteele09/go-dashboard/token"
	"github.com/jrsteele09/go-dashboard/users"
	"github.com/rs/zerolog/log"
	xoauth2 "golang.org/x/oauth2"
)

// Authenticator is the part of the REST API the manager needs.
type Authenticator interface {
	Refresh(ctx context.Context, accessToken string) (*oauth2.TokenResponse, error)
	Me(ctx context.Context, accessToken string) (*users.User, error)
}

// Manager owns the access token, its expiry and the single refresh timer.
// It is safe for concurrent use.
type Manager struct {
	auth      Authenticator
	store     token.Repo
	now       clock.NowFunc
	afterFunc clock.AfterFunc
	leadTime  time.Duration
	listener  func(from, to State)

	baseCtx context.Context
	cancel  context.CancelFunc

	lock       sync.Mutex
	state      State
	token      *xoauth2.Token
	user       *users.User
	timer      clock.Timer
	generation uint64 // bumped whenever the token is replaced or cleared
	inflight   *refreshCall
	closed     bool
}

// refreshCall is a refresh in progress. Concurrent callers wait on done.
// Only callers holding the token of the same generation may join it.
type refreshCall struct {
	generation uint64
	done       chan struct{}
	err        error
}

func New(auth Authenticator, store token.Repo, options ...Option) *Manager {
	m := &Manager{
		auth:      auth,
		store:     store,
		now:       time.Now,
		afterFunc: clock.RealAfterFunc,
		leadTime:  DefaultRefreshLeadTime,
	}
	for _, opt := range options {
		opt(m)
	}
	m.baseCtx, m.cancel = context.WithCancel(context.Background())
	return m
}

// Login replaces any prior session with the token from resp and persists it.
// When the server sent no expires_in the expiry is read from the token's exp
// claim. A nil user leaves the profile empty.
func (m *Manager) Login(ctx context.Context, resp *oauth2.TokenResponse, user *users.User) error {
	if resp == nil || resp.AccessToken == "" {
		return errors.Wrapf(errors.ErrInvalidToken, "login")
	}
	tok, err := m.tokenFrom(resp)
	if err != nil {
		return errors.Wrapf(err, "login")
	}

	m.lock.Lock()
	from := m.state
	m.setTokenLocked(tok)
	m.user = user
	m.save(ctx, tok)
	m.lock.Unlock()

	log.Info().Time("expires_at", tok.Expiry).Msg("session started")
	m.notify(from, Authenticated)
	return nil
}

// Logout clears the session from memory and storage and disarms the
// refresh timer. Logging out an anonymous manager does nothing.
func (m *Manager) Logout(ctx context.Context) error {
	m.lock.Lock()
	if m.state == Anonymous && m.token == nil {
		m.lock.Unlock()
		return nil
	}
	from := m.state
	m.clearLocked()
	err := m.store.Clear(ctx)
	m.lock.Unlock()

	log.Info().Msg("session ended")
	m.notify(from, Anonymous)
	if err != nil {
		return errors.Wrapf(err, "clear stored token")
	}
	return nil
}

// RefreshToken exchanges the current token for a new one. Callers arriving
// while a refresh is running wait for it instead of starting another. Any
// failure ends the session.
func (m *Manager) RefreshToken(ctx context.Context) error {
	m.lock.Lock()
	call := m.inflight
	if call != nil && call.generation != m.generation {
		// Started for a token that has since been replaced.
		call = nil
	}
	if call == nil {
		if m.token == nil {
			m.lock.Unlock()
			_ = m.Logout(ctx)
			return errors.ErrNotAuthenticated
		}
		generation := m.generation
		call = &refreshCall{generation: generation, done: make(chan struct{})}
		m.inflight = call
		from := m.state
		m.state = Refreshing
		accessToken := m.token.AccessToken
		m.lock.Unlock()

		m.notify(from, Refreshing)
		go m.refresh(call, accessToken, generation)
	} else {
		m.lock.Unlock()
	}

	select {
	case <-call.done:
		return call.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// refresh runs on the manager's own context so a caller giving up does not
// abandon the refresh for everyone else waiting on it.
func (m *Manager) refresh(call *refreshCall, accessToken string, generation uint64) {
	defer close(call.done)

	resp, err := m.auth.Refresh(m.baseCtx, accessToken)
	var tok *xoauth2.Token
	if err == nil {
		tok, err = m.tokenFrom(resp)
	}

	m.lock.Lock()
	if m.inflight == call {
		m.inflight = nil
	}

	if err != nil && m.closed {
		// Closed mid-refresh; keep the persisted token for the next run.
		if m.state == Refreshing {
			m.state = Authenticated
		}
		m.lock.Unlock()
		call.err = m.baseCtx.Err()
		return
	}

	if generation != m.generation {
		// Logged out or logged in again while the request was running.
		state := m.state
		m.lock.Unlock()
		if state == Anonymous {
			call.err = errors.ErrNotAuthenticated
		}
		return
	}

	if err != nil {
		m.clearLocked()
		clearErr := m.store.Clear(m.baseCtx)
		m.lock.Unlock()

		if clearErr != nil {
			log.Error().Err(clearErr).Msg("failed to clear stored token")
		}
		log.Warn().Err(err).Msg("token refresh failed, session ended")
		m.notify(Refreshing, Anonymous)
		call.err = fmt.Errorf("%w: %v", errors.ErrRefreshFailed, err)
		return
	}

	m.setTokenLocked(tok)
	m.save(m.baseCtx, tok)
	m.lock.Unlock()

	log.Info().Time("expires_at", tok.Expiry).Msg("token refreshed")
	m.notify(Refreshing, Authenticated)
}

// Restore resumes a session persisted by an earlier run. An expired or
// missing token leaves the manager anonymous and storage cleared. Fetching
// the user profile is best effort.
func (m *Manager) Restore(ctx context.Context) error {
	stored, err := m.store.Load(ctx)
	if errors.Is(err, errors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "load stored token")
	}

	if stored.Expired(m.now()) {
		log.Debug().Msg("stored token expired, discarding")
		return errors.Wrapf(m.store.Clear(ctx), "clear stored token")
	}

	tok := &xoauth2.Token{AccessToken: stored.AccessToken, TokenType: "Bearer", Expiry: stored.ExpiresAt}

	m.lock.Lock()
	from := m.state
	m.setTokenLocked(tok)
	generation := m.generation
	m.lock.Unlock()

	log.Info().Time("expires_at", tok.Expiry).Msg("session restored")
	m.notify(from, Authenticated)

	user, err := m.auth.Me(ctx, tok.AccessToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to fetch user profile")
		return nil
	}

	m.lock.Lock()
	if m.generation == generation {
		m.user = user
	}
	m.lock.Unlock()
	return nil
}

// Do runs a protected call with the current token. When the call fails with
// an authorization error the token is refreshed and the call is made exactly
// once more. A failed refresh returns errors.ErrSessionExpired.
func (m *Manager) Do(ctx context.Context, fn func(accessToken string) error) error {
	accessToken := m.AccessToken()
	if accessToken == "" {
		return errors.ErrNotAuthenticated
	}

	err := fn(accessToken)
	if !errors.Is(err, errors.ErrUnauthorized) {
		return err
	}

	// Another caller may already have replaced the rejected token.
	if current := m.AccessToken(); current == "" || current == accessToken {
		if err := m.RefreshToken(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.ErrSessionExpired
		}
	}

	accessToken = m.AccessToken()
	if accessToken == "" {
		return errors.ErrSessionExpired
	}
	return fn(accessToken)
}

// AccessToken returns the current bearer token, or "" when anonymous.
func (m *Manager) AccessToken() string {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.state == Anonymous || m.token == nil {
		return ""
	}
	return m.token.AccessToken
}

func (m *Manager) State() State {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.state
}

func (m *Manager) Authenticated() bool {
	return m.Snapshot().Authenticated(m.now())
}

func (m *Manager) User() *users.User {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.user
}

func (m *Manager) Snapshot() Session {
	m.lock.Lock()
	defer m.lock.Unlock()

	s := Session{State: m.state, User: m.user}
	if m.token != nil {
		s.AccessToken = m.token.AccessToken
		s.ExpiresAt = m.token.Expiry
	}
	return s
}

// Close disarms the refresh timer and abandons any running refresh. The
// persisted token is left in place and no timer is armed afterwards.
func (m *Manager) Close() {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.closed = true
	m.stopTimerLocked()
	m.cancel()
}

func (m *Manager) tokenFrom(resp *oauth2.TokenResponse) (*xoauth2.Token, error) {
	tok := resp.Token(m.now())
	if tok.Expiry.IsZero() {
		expiry, err := token.ExpiryFromJWT(resp.AccessToken)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidToken, "no expiry")
		}
		tok.Expiry = expiry
	}
	return tok, nil
}

func (m *Manager) setTokenLocked(tok *xoauth2.Token) {
	m.generation++
	m.token = tok
	m.state = Authenticated
	m.armLocked(tok.Expiry)
}

func (m *Manager) clearLocked() {
	m.generation++
	m.stopTimerLocked()
	m.token = nil
	m.user = nil
	m.state = Anonymous
}

// armLocked replaces the refresh timer. A token already inside the lead
// window is refreshed immediately.
func (m *Manager) armLocked(expiry time.Time) {
	m.stopTimerLocked()
	if m.closed {
		return
	}

	delay := expiry.Sub(m.now()) - m.leadTime
	if delay < 0 {
		delay = 0
	}
	generation := m.generation
	m.timer = m.afterFunc(delay, func() {
		m.onTimer(generation)
	})
	log.Debug().Dur("delay", delay).Msg("token refresh scheduled")
}

func (m *Manager) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// onTimer ignores timers armed for a token that has since been replaced.
func (m *Manager) onTimer(generation uint64) {
	m.lock.Lock()
	stale := m.closed || generation != m.generation || m.state != Authenticated
	if !stale {
		m.timer = nil
	}
	m.lock.Unlock()
	if stale {
		return
	}

	if err := m.RefreshToken(m.baseCtx); err != nil {
		log.Debug().Err(err).Msg("scheduled refresh did not complete")
	}
}

func (m *Manager) save(ctx context.Context, tok *xoauth2.Token) {
	stored := token.Stored{AccessToken: tok.AccessToken, ExpiresAt: tok.Expiry}
	if err := m.store.Save(ctx, stored); err != nil {
		log.Error().Err(err).Msg("failed to persist token")
	}
}

func (m *Manager) notify(from, to State) {
	if m.listener != nil && from != to {
		m.listener(from, to)
	}
}
