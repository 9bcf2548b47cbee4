package auth

import (
	"context"
	"sync"

	"github.com/embodywellness/member-api/internal/metrics"
	"github.com/embodywellness/member-api/internal/models"
	"github.com/embodywellness/member-api/internal/services/identity"
	"go.uber.org/zap"
)

// State is the orchestrator's authentication state
type State string

// Orchestrator states. StateError is transient: it is always followed by
// StateUnauthenticated.
const (
	StateUnknown         State = "unknown"
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticating  State = "authenticating"
	StateAuthenticated   State = "authenticated"
	StateError           State = "error"
)

// SessionStore is the slice of the identity layer the orchestrator
// drives. Implementations emit a notification on Changes whenever the
// provider's session state moves, including changes initiated outside
// this process (token refresh, another client).
type SessionStore interface {
	CurrentSession(ctx context.Context) (*identity.Session, error)
	SignUp(ctx context.Context, email, password, name string) (*identity.Session, error)
	SignIn(ctx context.Context, email, password string) (*identity.Session, error)
	SignOut(ctx context.Context) error
	Changes() <-chan identity.SessionChange
}

// Orchestrator coordinates sign-up, sign-in, sign-out, and session
// restoration, and owns the single process-wide current user. It is the
// only writer of that value; everything else reads it.
type Orchestrator struct {
	store    SessionStore
	resolver *Resolver
	log      *zap.Logger
	stats    *metrics.Collector

	mu    sync.RWMutex
	state State
	user  *models.User
	subs  []chan *models.User
}

// NewOrchestrator creates an auth orchestrator in the Unknown state. Call
// Run to start consuming session-changed notifications.
func NewOrchestrator(store SessionStore, resolver *Resolver, log *zap.Logger, stats *metrics.Collector) *Orchestrator {
	return &Orchestrator{
		store:    store,
		resolver: resolver,
		log:      log,
		stats:    stats,
		state:    StateUnknown,
	}
}

// Run restores any existing session and then consumes session-changed
// notifications until ctx is cancelled. Notifications are processed
// strictly in emission order by this single consumer, so at most one
// profile resolution is in flight per change; the resolver's idempotent
// insert is the backstop against rapid repeated notifications.
func (o *Orchestrator) Run(ctx context.Context) {
	o.restore(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-o.store.Changes():
			if !ok {
				return
			}
			o.handleChange(ctx, change)
		}
	}
}

// SignUp creates an identity and session via the provider, resolves the
// new profile, and publishes the authenticated user. The returned error
// carries the provider's human-readable message on rejection.
func (o *Orchestrator) SignUp(ctx context.Context, email, password, name string) (*models.User, *identity.Session, error) {
	o.setState(StateAuthenticating)

	session, err := o.store.SignUp(ctx, email, password, name)
	if err != nil {
		o.stats.RecordAuthFailure()
		o.failAuth("sign_up_failed", err)
		return nil, nil, err
	}

	profile, err := o.resolver.Resolve(ctx, session.Identity)
	if err != nil {
		o.failAuth("sign_up_profile_resolution_failed", err)
		return nil, nil, err
	}

	user := models.UserFromProfile(profile)
	o.setAuthenticated(user)
	o.stats.RecordSignUp()

	return user, session, nil
}

// SignIn authenticates via the provider. Profile resolution is not done
// here: the session-changed notification path resolves it, so a login
// resolves the profile exactly once.
func (o *Orchestrator) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	o.setState(StateAuthenticating)

	session, err := o.store.SignIn(ctx, email, password)
	if err != nil {
		o.stats.RecordAuthFailure()
		o.failAuth("sign_in_failed", err)
		return nil, err
	}

	o.stats.RecordSignIn()
	return session, nil
}

// SignOut invalidates the provider session and clears the current user.
// Sign-out is always locally successful: provider-side errors are logged,
// never surfaced.
func (o *Orchestrator) SignOut(ctx context.Context) {
	if err := o.store.SignOut(ctx); err != nil {
		o.log.Warn("provider_sign_out_failed", zap.Error(err))
	}

	o.clearUser()
	o.stats.RecordSignOut()
}

// State returns the orchestrator's current state
func (o *Orchestrator) State() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// CurrentUser returns the process-wide current user, or nil. The value is
// either fully populated or nil, never partial.
func (o *Orchestrator) CurrentUser() *models.User {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.user
}

// Subscribe registers a read-only observer of current-user changes. Slow
// observers miss intermediate values rather than block the orchestrator.
func (o *Orchestrator) Subscribe() <-chan *models.User {
	ch := make(chan *models.User, 1)
	o.mu.Lock()
	o.subs = append(o.subs, ch)
	o.mu.Unlock()
	return ch
}

// restore performs the initial session check: Unknown moves to
// Authenticated when a valid session and resolvable profile exist,
// otherwise to Unauthenticated.
func (o *Orchestrator) restore(ctx context.Context) {
	session, err := o.store.CurrentSession(ctx)
	if err != nil || session == nil {
		if err != nil {
			o.log.Warn("session_check_failed", zap.Error(err))
		}
		o.clearUser()
		return
	}

	o.resolveAndPublish(ctx, session)
}

func (o *Orchestrator) handleChange(ctx context.Context, change identity.SessionChange) {
	if change.Session == nil {
		o.clearUser()
		return
	}

	o.resolveAndPublish(ctx, change.Session)
}

func (o *Orchestrator) resolveAndPublish(ctx context.Context, session *identity.Session) {
	profile, err := o.resolver.Resolve(ctx, session.Identity)
	if err != nil {
		// Treated as a full auth failure: clear and return to
		// unauthenticated.
		o.log.Error("profile_resolution_failed",
			zap.String("identity_id", session.Identity.ID.String()),
			zap.Error(err),
		)
		o.clearUser()
		return
	}

	o.setAuthenticated(models.UserFromProfile(profile))
}

func (o *Orchestrator) setAuthenticated(user *models.User) {
	o.mu.Lock()
	o.state = StateAuthenticated
	o.user = user
	subs := o.subs
	o.mu.Unlock()

	o.notify(subs, user)
}

func (o *Orchestrator) clearUser() {
	o.mu.Lock()
	o.state = StateUnauthenticated
	o.user = nil
	subs := o.subs
	o.mu.Unlock()

	o.notify(subs, nil)
}

// failAuth passes through the transient Error state before settling on
// Unauthenticated. The current user is left untouched by credential
// rejections; profile failures clear it via clearUser upstream.
func (o *Orchestrator) failAuth(event string, err error) {
	o.log.Warn(event, zap.Error(err))

	o.mu.Lock()
	o.state = StateError
	o.mu.Unlock()

	o.mu.Lock()
	o.state = StateUnauthenticated
	o.mu.Unlock()
}

func (o *Orchestrator) setState(state State) {
	o.mu.Lock()
	o.state = state
	o.mu.Unlock()
}

func (o *Orchestrator) notify(subs []chan *models.User, user *models.User) {
	for _, ch := range subs {
		select {
		case ch <- user:
		default:
			// Drop stale value so the latest one can be delivered.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- user:
			default:
			}
		}
	}
}
