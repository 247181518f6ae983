package dashboard

import (
	"context"
	"sync"

	"portfolio/auth"
	"portfolio/models"
)

// State of the dashboard session gate.
type State int

const (
	Unauthenticated State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// EventSource is where the gate receives session events from.
type EventSource interface {
	Subscribe(fn func(auth.Event)) (unsubscribe func())
}

// Authenticator checks dashboard credentials.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (models.User, error)
}

// Gate tracks whether one dashboard view is signed in. It follows the
// session events published while it is mounted and calls OnChange after
// every transition.
type Gate struct {
	mu          sync.Mutex
	state       State
	user        models.User
	unsubscribe func()

	OnChange func(State, models.User)
}

// NewGate returns an unmounted gate. When user is non-nil the gate starts
// authenticated, as for a view opened with a live session.
func NewGate(user *models.User) *Gate {
	g := &Gate{}
	if user != nil {
		g.state = Authenticated
		g.user = *user
	}
	return g
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Gate) User() models.User {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.user
}

// Mount subscribes the gate to src. A mounted gate is unmounted first.
func (g *Gate) Mount(src EventSource) {
	g.Unmount()
	unsub := src.Subscribe(g.handle)
	g.mu.Lock()
	g.unsubscribe = unsub
	g.mu.Unlock()
}

// Unmount drops the subscription. Events published afterwards are not seen.
func (g *Gate) Unmount() {
	g.mu.Lock()
	unsub := g.unsubscribe
	g.unsubscribe = nil
	g.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// Mounted reports whether the gate currently holds a subscription.
func (g *Gate) Mounted() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.unsubscribe != nil
}

// Login submits credentials. The gate is Authenticating while a checks them
// and Unauthenticated again when they are rejected. On success the SignedIn
// event published by a moves a mounted gate to Authenticated; an unmounted
// gate is moved directly.
func (g *Gate) Login(ctx context.Context, a Authenticator, email, password string) (models.User, error) {
	g.transition(Authenticating, models.User{})
	user, err := a.SignIn(ctx, email, password)
	if err != nil {
		g.transition(Unauthenticated, models.User{})
		return models.User{}, err
	}
	if g.State() != Authenticated {
		g.transition(Authenticated, user)
	}
	return user, nil
}

func (g *Gate) handle(ev auth.Event) {
	switch e := ev.(type) {
	case auth.SignedIn:
		g.transition(Authenticated, e.User)
	case auth.SignedOut:
		g.mu.Lock()
		mine := g.state != Unauthenticated && (e.UserID == "" || e.UserID == g.user.ID)
		g.mu.Unlock()
		if mine {
			g.transition(Unauthenticated, models.User{})
		}
	}
}

func (g *Gate) transition(s State, user models.User) {
	g.mu.Lock()
	g.state = s
	g.user = user
	onChange := g.OnChange
	g.mu.Unlock()
	if onChange != nil {
		onChange(s, user)
	}
}
