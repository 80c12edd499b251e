package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/devlinkhq/devlink-go/api"
	"github.com/devlinkhq/devlink-go/callback"
	"github.com/devlinkhq/devlink-go/credential"
	"github.com/devlinkhq/devlink-go/internal/config"
	"github.com/devlinkhq/devlink-go/session"
	"github.com/devlinkhq/devlink-go/transport"
)

// app is the top-level controller of the demo: it wires the SDK together
// and performs the navigation-level effects (rendering the login redirect)
// that the session layer only signals.
type app struct {
	cfg     config.Config
	store   credential.Store
	session *session.Manager
	client  *api.Client

	mu             sync.Mutex
	renewalRunning bool
}

func newApp(cfg config.Config) (*app, error) {
	store := newStore(cfg)

	sess := session.New(store,
		session.WithAuthEntryURL(cfg.GetBaseURL()+cfg.GetAuthEntryPath()),
		session.WithRenewalInterval(cfg.GetRenewalInterval()),
	)
	pipeline := transport.New(sess, cfg.GetBaseURL())
	client, err := api.New(sess, pipeline, cfg.GetBaseURL(),
		api.WithRequestTimeout(cfg.GetRequestTimeout()),
		api.WithAuthEntryPath(cfg.GetAuthEntryPath()),
	)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		store:   store,
		session: sess,
		client:  client,
	}, nil
}

// newStore prefers file-backed persistence and degrades to an in-memory,
// single-run session when the storage directory is unusable.
func newStore(cfg config.Config) credential.Store {
	store, err := credential.NewFileStore(cfg.GetStorageDir(), cfg.GetBaseURL())
	if err != nil {
		log.Err(err).Msg("Credential file storage unavailable, session will be ephemeral")
		return credential.NewMemoryStore()
	}
	return store
}

func (a *app) routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/login", a.loginHandler).Methods(http.MethodGet)
	r.HandleFunc("/logout", a.logoutHandler).Methods(http.MethodGet)
	r.PathPrefix("/").Handler(callback.HandleRedirect(a.store, http.HandlerFunc(a.statusHandler)))
	return r
}

// statusHandler is the post-redirect landing and the default page. Runs the
// callback extraction implicitly (HandleRedirect wraps it), then reports
// session state and the current profile.
func (a *app) statusHandler(w http.ResponseWriter, r *http.Request) {
	state := a.session.State()
	if state != session.StateValid {
		fmt.Fprintf(w, "session: %s\nvisit /login to authenticate\n", state)
		return
	}

	a.ensureRenewal()

	user, err := a.client.CurrentUser(r.Context())
	if err != nil {
		fmt.Fprintf(w, "session: %s\nfailed to load profile: %v\n", state, err)
		return
	}
	fmt.Fprintf(w, "session: %s\nuser: %s (%s)\nprofession: %s\ntechnologies: %v\n",
		state, user.Username, user.Name, user.Profession, user.Technologies)
}

func (a *app) loginHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, a.client.LoginURL(), http.StatusSeeOther)
}

func (a *app) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.client.Logout(r.Context()); err != nil {
		log.Err(err).Msg("Logout failed")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ensureRenewal arms the proactive renewal timer once per established
// session. Reactive deployments skip the timer entirely; renewal happens
// only when Renew is invoked.
func (a *app) ensureRenewal() {
	if a.cfg.GetRenewalMode() != config.RenewalModeProactive {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.renewalRunning {
		return
	}
	a.session.StartRenewal(context.Background())
	a.renewalRunning = true
}

// consumeSessionEvents performs the navigation effect the session layer
// only decides on: here that means logging where a browser frontend would
// redirect, and re-arming renewal for the next login.
func (a *app) consumeSessionEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-a.session.Events():
			a.mu.Lock()
			a.renewalRunning = false
			a.mu.Unlock()
			if ev.RedirectURL != "" {
				log.Info().
					Str("reason", string(ev.Reason)).
					Str("redirect", ev.RedirectURL).
					Msg("Session ended, re-authentication required")
			} else {
				log.Info().Str("reason", string(ev.Reason)).Msg("Session ended")
			}
		}
	}
}
