package routing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/athena-gateway/console/routing"
	"github.com/athena-gateway/console/session"
)

func defaultTable() *routing.Table {
	return routing.NewTable(routing.DefaultRoutes()...)
}

func anonymous() session.Snapshot {
	return session.Snapshot{}
}

func authenticated(isAdmin bool) session.Snapshot {
	return session.Snapshot{
		Token:  "token",
		Claims: &session.Claims{UserID: "user-1", IsAdmin: isAdmin},
	}
}

func graceSession() session.Snapshot {
	s := authenticated(false)
	s.GraceRequired = true
	return s
}

func TestDispatch_Unauthenticated(t *testing.T) {
	table := defaultTable()

	t.Run("private route redirects to login", func(t *testing.T) {
		d := table.Dispatch(routing.FragmentDashboard, anonymous())
		require.Equal(t, routing.ActionRedirect, d.Action)
		require.Equal(t, routing.FragmentLogin, d.Target)
	})

	t.Run("public route renders", func(t *testing.T) {
		d := table.Dispatch(routing.FragmentLogin, anonymous())
		require.Equal(t, routing.ActionRender, d.Action)
		require.Equal(t, routing.ScreenLogin, d.Screen)
	})

	t.Run("never renders a private screen", func(t *testing.T) {
		fragments := []string{
			routing.FragmentDashboard,
			routing.FragmentProfile,
			routing.FragmentAdminProfile,
			routing.ProjectFragment("p-1"),
			"#/unknown",
			"",
		}
		for _, fragment := range fragments {
			d := table.Dispatch(fragment, anonymous())
			if d.Action == routing.ActionRender {
				require.Contains(t, []routing.Screen{routing.ScreenLogin, routing.ScreenRegister}, d.Screen,
					"fragment %q rendered a private screen", fragment)
			}
		}
	})
}

func TestDispatch_Normalization(t *testing.T) {
	table := defaultTable()

	t.Run("empty fragment defaults to login", func(t *testing.T) {
		d := table.Dispatch("", anonymous())
		require.Equal(t, routing.ActionRender, d.Action)
		require.Equal(t, routing.ScreenLogin, d.Screen)
	})

	t.Run("unmatched fragment redirects to login", func(t *testing.T) {
		d := table.Dispatch("#/no/such/route", anonymous())
		require.Equal(t, routing.ActionRedirect, d.Action)
		require.Equal(t, routing.FragmentLogin, d.Target)
	})

	t.Run("project route captures the id segment", func(t *testing.T) {
		d := table.Dispatch(routing.ProjectFragment("p-99"), authenticated(false))
		require.Equal(t, routing.ActionRender, d.Action)
		require.Equal(t, routing.ScreenProjectDetail, d.Screen)
		require.Equal(t, "p-99", d.Param)
	})
}

func TestDispatch_Grace(t *testing.T) {
	table := defaultTable()

	t.Run("every non-profile fragment is forced to the profile screen", func(t *testing.T) {
		fragments := []string{
			routing.FragmentDashboard,
			routing.FragmentAdminProfile,
			routing.FragmentLogin,
			routing.FragmentRegister,
			routing.ProjectFragment("p-1"),
		}
		for _, fragment := range fragments {
			d := table.Dispatch(fragment, graceSession())
			require.Equal(t, routing.ActionRedirect, d.Action, "fragment %q", fragment)
			require.Equal(t, routing.FragmentProfile, d.Target, "fragment %q", fragment)
		}
	})

	t.Run("grace overrides admin status", func(t *testing.T) {
		admin := authenticated(true)
		admin.GraceRequired = true
		d := table.Dispatch(routing.FragmentAdminProfile, admin)
		require.Equal(t, routing.ActionRedirect, d.Action)
		require.Equal(t, routing.FragmentProfile, d.Target)
	})

	t.Run("the profile screen itself renders", func(t *testing.T) {
		d := table.Dispatch(routing.FragmentProfile, graceSession())
		require.Equal(t, routing.ActionRender, d.Action)
		require.Equal(t, routing.ScreenProfile, d.Screen)
	})
}

func TestDispatch_Authenticated(t *testing.T) {
	table := defaultTable()

	t.Run("admin-only route bounces non-admins to the dashboard", func(t *testing.T) {
		d := table.Dispatch(routing.FragmentAdminProfile, authenticated(false))
		require.Equal(t, routing.ActionRedirect, d.Action)
		require.Equal(t, routing.FragmentDashboard, d.Target)
	})

	t.Run("admin-only route renders for admins", func(t *testing.T) {
		d := table.Dispatch(routing.FragmentAdminProfile, authenticated(true))
		require.Equal(t, routing.ActionRender, d.Action)
		require.Equal(t, routing.ScreenAdminProfile, d.Screen)
	})

	t.Run("malformed-token session is not admin", func(t *testing.T) {
		snapshot := session.Snapshot{Token: "garbage"}
		d := table.Dispatch(routing.FragmentAdminProfile, snapshot)
		require.Equal(t, routing.ActionRedirect, d.Action)
		require.Equal(t, routing.FragmentDashboard, d.Target)
	})

	t.Run("private route renders", func(t *testing.T) {
		d := table.Dispatch(routing.FragmentDashboard, authenticated(false))
		require.Equal(t, routing.ActionRender, d.Action)
		require.Equal(t, routing.ScreenDashboard, d.Screen)
	})

	t.Run("public route redirects to the dashboard", func(t *testing.T) {
		d := table.Dispatch(routing.FragmentLogin, authenticated(false))
		require.Equal(t, routing.ActionRedirect, d.Action)
		require.Equal(t, routing.FragmentDashboard, d.Target)
	})
}
