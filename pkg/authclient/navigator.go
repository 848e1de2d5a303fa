package authclient

import (
	"net/url"
	"strings"

	"github.com/storefront/backoffice/internal/core/domain"
	"github.com/storefront/backoffice/internal/core/guard"
	"github.com/storefront/backoffice/internal/core/policy"
)

// Errors re-exported for callers outside this module.
var (
	ErrInvalidCredentials = domain.ErrInvalidCredentials
	ErrUnauthenticated    = domain.ErrUnauthenticated
	ErrForbidden          = domain.ErrForbidden
	ErrNotFound           = domain.ErrNotFound
	ErrDuplicateUsername  = domain.ErrDuplicateUsername
)

// Action is what the client should do with a screen request.
type Action int

const (
	Render Action = iota
	ShowLoading
	RedirectLogin
	RedirectLanding
)

func (a Action) String() string {
	switch a {
	case Render:
		return "render"
	case ShowLoading:
		return "loading"
	case RedirectLogin:
		return "redirect_login"
	case RedirectLanding:
		return "redirect_landing"
	default:
		return "unknown"
	}
}

// Outcome is the resolution of a screen request. Target is set for redirects.
type Outcome struct {
	Action Action
	Target string
}

// Navigator applies the shared route guard to client screens.
type Navigator struct {
	auth  *AuthContext
	guard *guard.Guard
}

func NewNavigator(auth *AuthContext, g *guard.Guard) *Navigator {
	return &Navigator{auth: auth, guard: g}
}

// GuardFrom rebuilds the API's guard from its published route table.
func GuardFrom(t *RouteTable) *guard.Guard {
	return guard.New(policy.New(t.StaffCapabilities), guard.FromEntries(t.Routes))
}

// Resolve decides what requesting path leads to. Nothing protected renders
// while the session is still being restored.
func (n *Navigator) Resolve(path string) Outcome {
	screen := screenPath(path)
	rule := n.guard.Rule(screen)
	if rule.Public {
		return Outcome{Action: Render}
	}

	switch n.auth.Status() {
	case StatusLoading:
		return Outcome{Action: ShowLoading}
	case StatusAnonymous:
		return Outcome{Action: RedirectLogin, Target: loginTarget(path)}
	}

	sess := n.auth.Session()
	if sess == nil {
		return Outcome{Action: RedirectLogin, Target: loginTarget(path)}
	}
	switch n.guard.Check(&domain.Session{Role: sess.Role}, screen) {
	case guard.Allow:
		return Outcome{Action: Render}
	case guard.Unauthenticated:
		return Outcome{Action: RedirectLogin, Target: loginTarget(path)}
	default:
		return Outcome{Action: RedirectLanding, Target: n.guard.Landing(sess.Role)}
	}
}

// AfterLogin returns where to go once logged in: the remembered path when
// the new session may open it, the role's landing screen otherwise.
func (n *Navigator) AfterLogin(next string) string {
	sess := n.auth.Session()
	if sess == nil {
		return guard.LoginScreen
	}
	landing := n.guard.Landing(sess.Role)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return landing
	}
	if n.guard.Check(&domain.Session{Role: sess.Role}, screenPath(next)) != guard.Allow {
		return landing
	}
	return next
}

// NextParam extracts the remembered path from a login screen URL.
func NextParam(loginURL string) string {
	u, err := url.Parse(loginURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("next")
}

// screenPath reduces a requested location to the path the route table is
// keyed by: no query, no fragment, no trailing slash except on the root.
func screenPath(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		p = u.Path
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}

func loginTarget(path string) string {
	screen, p := guard.LoginScreen, screenPath(path)
	if p == guard.StaffLanding || strings.HasPrefix(p, guard.StaffLanding+"/") || strings.HasPrefix(p, "/staff-") {
		screen = guard.StaffLoginScreen
	}
	return screen + "?next=" + url.QueryEscape(path)
}
