// Package accessgate holds the pure routing decision evaluated on every
// navigation request. It has no I/O and no failure modes; the hosting
// middleware supplies the route and the viewer facts and acts on the result.
package accessgate

import (
	"strings"

	"github.com/fromwithin/fromwithin/internal/pkg/entitlements"
)

// Decision is the outcome for one navigation request. The zero value
// allows the request through; otherwise Target holds the redirect path.
type Decision struct {
	Target string
}

// Allowed reports whether the request may pass to page rendering.
func (d Decision) Allowed() bool {
	return d.Target == ""
}

// RedirectTo builds a redirect decision.
func RedirectTo(target string) Decision {
	return Decision{Target: target}
}

// Config is the route table the gate compares against. The paths are
// configuration supplied by the hosting application, not gate logic.
type Config struct {
	// ExemptPrefixes lists path prefixes (API, framework internals) that
	// bypass gating entirely. Paths containing a dot are always exempt,
	// they are treated as asset requests.
	ExemptPrefixes []string

	Welcome    string
	Onboarding string
	Home       string
}

// DefaultConfig mirrors the route table of the hosting app.
func DefaultConfig() Config {
	return Config{
		// Logout is exempt so a viewer stuck mid-onboarding can always
		// leave instead of being bounced back to the onboarding page.
		ExemptPrefixes: []string{"/api", "/_", "/logout"},
		Welcome:        "/welcome",
		Onboarding:     "/onboarding",
		Home:           "/home",
	}
}

// Exempt reports whether the path skips gating without consulting the viewer.
func (cfg Config) Exempt(path string) bool {
	for _, prefix := range cfg.ExemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return strings.Contains(path, ".")
}

// Decide evaluates the gate for a requested route. Rules are checked in
// order and the first match wins:
//
//  1. exempt routes always pass
//  2. anonymous viewers requesting "/" land on the welcome page
//  3. authenticated viewers missing a wearable link or an entitling
//     subscription are forced to onboarding from every route except
//     the onboarding page itself
//  4. fully entitled viewers requesting "/" land on home
//
// Anonymous viewers on any other route pass unchanged; there is no
// generic auth wall.
func Decide(cfg Config, route string, v entitlements.Viewer) Decision {
	if cfg.Exempt(route) {
		return Decision{}
	}

	if route == "/" && !v.Authenticated {
		return RedirectTo(cfg.Welcome)
	}

	if v.Authenticated {
		if (v.NeedsWearable() || !v.HasAccess()) && route != cfg.Onboarding {
			return RedirectTo(cfg.Onboarding)
		}
		if route == "/" {
			return RedirectTo(cfg.Home)
		}
	}

	return Decision{}
}
