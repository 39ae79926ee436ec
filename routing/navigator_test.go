package routing_test

import (
	"testing"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/athena-gateway/console/routing"
	"github.com/athena-gateway/console/scope"
	"github.com/athena-gateway/console/session"
	"github.com/athena-gateway/console/session/storagefakes"
)

type rendered struct {
	screen routing.Screen
	param  string
}

func navigatorFixture(t *testing.T) (*routing.Navigator, *session.Store, *[]rendered) {
	t.Helper()
	sessions := session.New(storagefakes.NewFakeStorage(), scope.New())
	var renders []rendered
	nav := routing.NewNavigator(defaultTable(), sessions, func(screen routing.Screen, param string) {
		renders = append(renders, rendered{screen: screen, param: param})
	})
	return nav, sessions, &renders
}

func userToken(t *testing.T) string {
	t.Helper()
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{"user_id": "user-1"})
	raw, err := token.SignedString([]byte("key"))
	require.NoError(t, err)
	return raw
}

func TestNavigator_Start(t *testing.T) {
	nav, _, renders := navigatorFixture(t)

	nav.Start()

	require.Equal(t, []rendered{{screen: routing.ScreenLogin}}, *renders)
	require.Equal(t, routing.FragmentLogin, nav.Current())
}

func TestNavigator_RedirectsReenterDispatch(t *testing.T) {
	nav, _, renders := navigatorFixture(t)

	nav.Go(routing.FragmentDashboard)

	// Private route without a session: dashboard redirects to login, and the
	// login hop is dispatched again rather than rendered directly.
	require.Equal(t, []rendered{{screen: routing.ScreenLogin}}, *renders)
	require.Equal(t, routing.FragmentLogin, nav.Current())
}

func TestNavigator_SessionChangeRedispatches(t *testing.T) {
	nav, sessions, renders := navigatorFixture(t)
	nav.Start()

	// Login while sitting on the login screen: the session notification must
	// push the console onto the dashboard without an explicit Go.
	sessions.Set(userToken(t), session.Extras{})
	require.Equal(t, routing.FragmentDashboard, nav.Current())
	require.Equal(t, routing.ScreenDashboard, (*renders)[len(*renders)-1].screen)

	// Logout from the dashboard drops straight back to login.
	sessions.Clear()
	require.Equal(t, routing.FragmentLogin, nav.Current())
	require.Equal(t, routing.ScreenLogin, (*renders)[len(*renders)-1].screen)
}

func TestNavigator_GraceForcedToProfile(t *testing.T) {
	nav, sessions, renders := navigatorFixture(t)
	sessions.Set(userToken(t), session.Extras{Force2FASetupRequired: true})

	nav.Go(routing.FragmentDashboard)

	require.Equal(t, routing.FragmentProfile, nav.Current())
	require.Equal(t, routing.ScreenProfile, (*renders)[len(*renders)-1].screen)
}

func TestNavigator_RouteParam(t *testing.T) {
	nav, sessions, renders := navigatorFixture(t)
	sessions.Set(userToken(t), session.Extras{})

	nav.Go(routing.ProjectFragment("p-7"))

	require.Equal(t, rendered{screen: routing.ScreenProjectDetail, param: "p-7"}, (*renders)[len(*renders)-1])
}
