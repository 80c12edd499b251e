// Package session owns the lifecycle of an authenticated DevLink session:
// the stored credential, the derived session state, and the single renewal
// timer. It is the only place credential state transitions happen, so the
// rest of the client never duplicates teardown logic.
package session

import (
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/devlinkhq/devlink-go/credential"
)

// State is the session state derived from the stored credential. It is
// computed on demand and never cached: server-side revocation is invisible
// until a request fails, so a cached "valid" would be a lie waiting to
// happen.
type State string

const (
	// StateAbsent means no credential is stored.
	StateAbsent State = "absent"
	// StateValid means a credential is stored and its exp claim is in the future.
	StateValid State = "valid"
	// StateExpired means a credential is stored but expired or undecodable.
	StateExpired State = "expired"
)

// EndReason describes why a session ended.
type EndReason string

const (
	// EndReasonLogout is an explicit user-initiated logout.
	EndReasonLogout EndReason = "logout"
	// EndReasonRejected means the backend answered 401/403 to a request.
	EndReasonRejected EndReason = "session_expired"
	// EndReasonRenewalFailed means a background renewal attempt failed.
	EndReasonRenewalFailed EndReason = "renewal_failed"
)

// Event signals that the session has ended. RedirectURL, when non-empty, is
// the re-authentication entry point a navigation-capable consumer should
// send the user to. The manager only decides; the consumer navigates.
type Event struct {
	Reason      EndReason
	RedirectURL string
}

// Manager owns the credential slot and the renewal timer handle. All state
// transitions (establish, renew, teardown) go through it.
type Manager struct {
	store        credential.Store
	renew        RenewFunc
	authEntryURL string
	interval     time.Duration
	nowTime      func() time.Time

	mu        sync.Mutex
	stopTimer func()
	events    chan Event
}

// Option modifies a Manager at construction time.
type Option func(*Manager)

// WithRenewFunc sets the network call used to obtain a fresh credential.
// Without one, renewal operations fail and tear the session down.
func WithRenewFunc(fn RenewFunc) Option {
	return func(m *Manager) { m.renew = fn }
}

// WithAuthEntryURL sets the re-authentication entry point carried on
// session-ended events.
func WithAuthEntryURL(u string) Option {
	return func(m *Manager) { m.authEntryURL = u }
}

// WithRenewalInterval sets the proactive renewal firing interval.
func WithRenewalInterval(d time.Duration) Option {
	return func(m *Manager) { m.interval = d }
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(m *Manager) { m.nowTime = nowFunc }
}

// New creates a session manager around the given credential store.
func New(store credential.Store, options ...Option) *Manager {
	m := &Manager{
		store:    store,
		interval: 25 * time.Minute,
		nowTime:  time.Now,
		events:   make(chan Event, 1),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// State derives the current session state from the stored credential.
func (m *Manager) State() State {
	cred, ok := m.loadCredential()
	if !ok {
		return StateAbsent
	}
	if !credential.IsValid(cred) {
		return StateExpired
	}
	return StateValid
}

// Credential returns the stored credential when it is present and valid.
func (m *Manager) Credential() (credential.Credential, bool) {
	cred, ok := m.loadCredential()
	if !ok || !credential.IsValid(cred) {
		return "", false
	}
	return cred, true
}

// Establish stores a freshly issued credential, replacing any prior one.
func (m *Manager) Establish(cred credential.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Save(cred)
}

// Logout clears the credential, stops the renewal timer, and emits a
// logout event. Logging out with no session at all is a silent no-op; a
// user who was never logged in gets no navigation signal.
func (m *Manager) Logout() {
	if m.State() == StateAbsent {
		return
	}
	m.Teardown(EndReasonLogout)
}

// Teardown clears stored credential state and stops any renewal timer,
// then emits a session-ended event. Rejected sessions carry the re-auth
// entry point with an error marker so a consumer can navigate; renewal
// failures carry no redirect, the next real request will force one.
func (m *Manager) Teardown(reason EndReason) {
	m.mu.Lock()
	if err := m.store.Clear(); err != nil {
		log.Err(err).Msg("Failed to clear credential store during teardown")
	}
	m.stopTimerLocked()
	m.mu.Unlock()

	m.emit(Event{Reason: reason, RedirectURL: m.redirectFor(reason)})
}

// Events exposes the session-ended event stream. The channel is buffered
// with the latest event winning, so an absent consumer never blocks a
// teardown.
func (m *Manager) Events() <-chan Event {
	return m.events
}

func (m *Manager) emit(ev Event) {
	for {
		select {
		case m.events <- ev:
			return
		default:
			// Drop the stale event so the latest one lands.
			select {
			case <-m.events:
			default:
			}
		}
	}
}

func (m *Manager) redirectFor(reason EndReason) string {
	if m.authEntryURL == "" {
		return ""
	}
	switch reason {
	case EndReasonRejected:
		return m.authEntryURL + "?error=" + url.QueryEscape(string(EndReasonRejected))
	case EndReasonLogout:
		return m.authEntryURL
	default:
		return ""
	}
}

func (m *Manager) loadCredential() (credential.Credential, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cred, ok, err := m.store.Load()
	if err != nil {
		log.Err(err).Msg("Failed to load credential, treating session as absent")
		return "", false
	}
	return cred, ok
}
