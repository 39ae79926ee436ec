package routing

import "github.com/athena-gateway/console/session"

// Action distinguishes the two dispatch outcomes.
type Action int

const (
	ActionRender Action = iota
	ActionRedirect
)

// Decision is the guard's verdict for one fragment: either render a screen
// (with its captured parameter) or redirect to another fragment. Redirects
// must be fed back through the dispatcher, never rendered directly.
type Decision struct {
	Action Action
	Screen Screen
	Param  string
	Target string
}

func render(screen Screen, param string) Decision {
	return Decision{Action: ActionRender, Screen: screen, Param: param}
}

func redirect(target string) Decision {
	return Decision{Action: ActionRedirect, Target: target}
}

// Dispatch applies the guard's precedence rules to a fragment and a session
// snapshot. The order of checks is the contract:
//
//  1. an empty fragment defaults to the login route
//  2. an unmatched fragment redirects to login
//  3. unauthenticated: private routes redirect to login, public ones render
//  4. authenticated:
//     a. grace mode forces the profile screen over everything else
//     b. admin-only routes bounce non-admins to the dashboard
//     c. private routes render
//     d. public routes redirect to the dashboard (profile while in grace)
//
// Dispatch is a pure function of its inputs and never fails.
func (t *Table) Dispatch(fragment string, snapshot session.Snapshot) Decision {
	if fragment == "" {
		fragment = FragmentLogin
	}

	route, param, ok := t.match(fragment)
	if !ok {
		return redirect(FragmentLogin)
	}

	if !snapshot.Authenticated() {
		if route.Private {
			return redirect(FragmentLogin)
		}
		return render(route.Screen, param)
	}

	if snapshot.Grace() && route.Screen != ScreenProfile {
		return redirect(FragmentProfile)
	}

	if route.AdminOnly && !snapshot.Admin() {
		return redirect(FragmentDashboard)
	}

	if route.Private {
		return render(route.Screen, param)
	}

	if snapshot.Grace() {
		return redirect(FragmentProfile)
	}
	return redirect(FragmentDashboard)
}
