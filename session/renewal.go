package session

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/devlinkhq/devlink-go/credential"
)

// RenewFunc performs the renewal network call and returns the freshly
// issued credential. It is injected so the session layer stays independent
// of the request pipeline that actually dispatches the call.
type RenewFunc func(ctx context.Context) (credential.Credential, error)

// SetRenewFunc wires the renewal network call after construction. The
// facade that provides the call dispatches through a pipeline that itself
// needs the manager, so the binding happens late.
func (m *Manager) SetRenewFunc(fn RenewFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.renew = fn
}

// StartRenewal starts the proactive renewal timer, firing at the configured
// interval. Starting always cancels any prior timer first, so at most one
// timer exists system-wide. Each firing renews through RenewFunc; on
// success the timer keeps running, on failure the session is torn down and
// the timer stops. No redirect is forced on renewal failure, the next real
// request will trigger one if the user acts.
func (m *Manager) StartRenewal(ctx context.Context) {
	m.mu.Lock()
	m.stopTimerLocked()
	timerCtx, cancel := context.WithCancel(ctx)
	m.stopTimer = cancel
	interval := m.interval
	m.mu.Unlock()

	go m.renewLoop(timerCtx, interval)
}

// StopRenewal cancels any active renewal timer. Idempotent. Cancellation
// stops future firings; an in-flight renewal call still applies its result.
func (m *Manager) StopRenewal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTimerLocked()
}

// Renew performs an on-demand renewal for reactive deployments. On success
// the new credential is stored and true is returned; on failure the session
// is fully torn down and false is returned.
func (m *Manager) Renew(ctx context.Context) bool {
	if m.renewOnce(ctx) {
		return true
	}
	m.Teardown(EndReasonRenewalFailed)
	return false
}

func (m *Manager) renewLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !m.renewOnce(ctx) {
				// A cancelled timer aborts the in-flight call too; that
				// is a stop, not a renewal failure.
				if ctx.Err() == nil {
					m.Teardown(EndReasonRenewalFailed)
				}
				return
			}
			log.Debug().Msg("Session renewed")
		}
	}
}

// renewOnce runs one renewal attempt. A renewal that fails at the network
// level is treated the same as a rejected renewal: the session ends either
// way, and conflating the two here is the conservative choice.
func (m *Manager) renewOnce(ctx context.Context) bool {
	m.mu.Lock()
	renew := m.renew
	m.mu.Unlock()
	if renew == nil {
		log.Warn().Msg("Renewal requested but no renew function configured")
		return false
	}

	cred, err := renew(ctx)
	if err != nil {
		log.Err(err).Msg("Session renewal failed")
		return false
	}

	if err := m.Establish(cred); err != nil {
		log.Err(err).Msg("Failed to store renewed credential")
		return false
	}
	return true
}

func (m *Manager) stopTimerLocked() {
	if m.stopTimer != nil {
		m.stopTimer()
		m.stopTimer = nil
	}
}
