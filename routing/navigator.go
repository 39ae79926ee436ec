package routing

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/athena-gateway/console/session"
)

// maxRedirects bounds a single navigation. The default table resolves every
// fragment in at most two hops; hitting the bound means the table is
// misconfigured, and the navigator stops rather than loop.
const maxRedirects = 8

// RenderFunc receives the screen the guard selected and its route parameter.
type RenderFunc func(screen Screen, param string)

// Navigator owns the current fragment and re-runs the guard whenever the
// fragment changes or the session store notifies. Redirects go back through
// Go, so every hop is re-evaluated against the freshest session state
// instead of trusting the caller's.
type Navigator struct {
	table    *Table
	sessions *session.Store
	render   RenderFunc

	mu       sync.Mutex
	fragment string
}

func NewNavigator(table *Table, sessions *session.Store, render RenderFunc) *Navigator {
	return &Navigator{table: table, sessions: sessions, render: render}
}

// Start subscribes to session changes and dispatches the initial fragment.
func (n *Navigator) Start() {
	n.sessions.Subscribe(func(session.Snapshot) {
		n.Go(n.Current())
	})
	n.Go(n.Current())
}

// Go navigates to a fragment: it records it as current, asks the guard, and
// follows redirects until a screen renders.
func (n *Navigator) Go(fragment string) {
	for hop := 0; ; hop++ {
		if hop >= maxRedirects {
			log.Warn().Str("fragment", fragment).Msg("redirect bound reached, navigation stopped")
			return
		}

		n.setCurrent(fragment)
		decision := n.table.Dispatch(fragment, n.sessions.State())
		if decision.Action == ActionRedirect {
			fragment = decision.Target
			continue
		}

		log.Debug().Str("fragment", fragment).Str("screen", decision.Screen.String()).Msg("rendering screen")
		n.render(decision.Screen, decision.Param)
		return
	}
}

// Current returns the fragment the console is on.
func (n *Navigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.fragment
}

func (n *Navigator) setCurrent(fragment string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.fragment = fragment
}
