package accessgate

import (
	"testing"

	"github.com/fromwithin/fromwithin/internal/pkg/entitlements"
)

func anonymous() entitlements.Viewer {
	return entitlements.Viewer{}
}

func onboarding() entitlements.Viewer {
	return entitlements.Viewer{Authenticated: true, SubscriptionStatus: entitlements.StatusNone}
}

func entitled() entitlements.Viewer {
	return entitlements.Viewer{
		Authenticated:      true,
		WearableConnected:  true,
		SubscriptionStatus: entitlements.StatusTrialing,
	}
}

func TestDecide_ExemptRoutesAlwaysPass(t *testing.T) {
	cfg := DefaultConfig()
	routes := []string{
		"/api/wearables/fitbit/callback",
		"/api/mentor",
		"/_internal/health",
		"/favicon.ico",
		"/assets/app.css",
	}
	viewers := []entitlements.Viewer{anonymous(), onboarding(), entitled()}

	for _, route := range routes {
		for _, v := range viewers {
			if d := Decide(cfg, route, v); !d.Allowed() {
				t.Fatalf("Decide(%q) = redirect to %q, want allow", route, d.Target)
			}
		}
	}
}

func TestDecide_AnonymousRootRedirectsToWelcome(t *testing.T) {
	d := Decide(DefaultConfig(), "/", anonymous())
	if d.Target != "/welcome" {
		t.Fatalf("Decide(\"/\") = %+v, want redirect to /welcome", d)
	}
}

func TestDecide_AnonymousNonRootPassesUnchanged(t *testing.T) {
	// Only "/" is special-cased for anonymous viewers; there is no
	// generic auth wall.
	for _, route := range []string{"/welcome", "/insights", "/onboarding", "/legal"} {
		if d := Decide(DefaultConfig(), route, anonymous()); !d.Allowed() {
			t.Fatalf("Decide(%q, anonymous) = redirect to %q, want allow", route, d.Target)
		}
	}
}

func TestDecide_ForcedOnboarding(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		v    entitlements.Viewer
	}{
		{
			name: "no wearable, no subscription",
			v:    entitlements.Viewer{Authenticated: true},
		},
		{
			name: "wearable linked but subscription canceled",
			v: entitlements.Viewer{
				Authenticated:      true,
				WearableConnected:  true,
				SubscriptionStatus: entitlements.StatusCanceled,
			},
		},
		{
			name: "subscription active but no wearable",
			v: entitlements.Viewer{
				Authenticated:      true,
				SubscriptionStatus: entitlements.StatusActive,
			},
		},
		{
			name: "missing subscription status defaults to none",
			v: entitlements.Viewer{
				Authenticated:     true,
				WearableConnected: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, route := range []string{"/", "/insights", "/home", "/mentor"} {
				d := Decide(cfg, route, tt.v)
				if d.Target != "/onboarding" {
					t.Fatalf("Decide(%q) = %+v, want redirect to /onboarding", route, d)
				}
			}
		})
	}
}

func TestDecide_NoOnboardingLoop(t *testing.T) {
	// The onboarding page itself must stay reachable for every
	// authenticated viewer, whatever their wearable/subscription state.
	viewers := []entitlements.Viewer{
		onboarding(),
		{Authenticated: true, WearableConnected: true},
		{Authenticated: true, SubscriptionStatus: entitlements.StatusActive},
		entitled(),
	}
	for _, v := range viewers {
		if d := Decide(DefaultConfig(), "/onboarding", v); !d.Allowed() {
			t.Fatalf("Decide(\"/onboarding\", %+v) = redirect to %q, want allow", v, d.Target)
		}
	}
}

func TestDecide_MidOnboardingViewerCanReachCheckoutAndLogout(t *testing.T) {
	// The viewer who still has to subscribe is exactly the one the gate
	// forces to onboarding; checkout and logout must stay reachable for
	// them or onboarding can never complete.
	v := entitlements.Viewer{
		Authenticated:      true,
		WearableConnected:  true,
		SubscriptionStatus: entitlements.StatusNone,
	}
	for _, route := range []string{"/api/billing/checkout", "/logout"} {
		if d := Decide(DefaultConfig(), route, v); !d.Allowed() {
			t.Fatalf("Decide(%q) = redirect to %q, want allow", route, d.Target)
		}
	}
}

func TestDecide_EntitledRootRedirectsHome(t *testing.T) {
	for _, status := range []string{entitlements.StatusTrialing, entitlements.StatusActive} {
		v := entitlements.Viewer{
			Authenticated:      true,
			WearableConnected:  true,
			SubscriptionStatus: status,
		}
		d := Decide(DefaultConfig(), "/", v)
		if d.Target != "/home" {
			t.Fatalf("Decide(\"/\", status=%s) = %+v, want redirect to /home", status, d)
		}
	}
}

func TestDecide_EntitledNonRootAllowed(t *testing.T) {
	for _, route := range []string{"/insights", "/onboarding", "/mentor", "/home"} {
		if d := Decide(DefaultConfig(), route, entitled()); !d.Allowed() {
			t.Fatalf("Decide(%q, entitled) = redirect to %q, want allow", route, d.Target)
		}
	}
}
