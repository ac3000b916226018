package entitlements

import "testing"

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "trialing", want: StatusTrialing},
		{in: "active", want: StatusActive},
		{in: "ACTIVE", want: StatusActive},
		{in: " canceled ", want: StatusCanceled},
		{in: "incomplete", want: StatusIncomplete},
		{in: "", want: StatusNone},
		{in: "past_due", want: StatusNone},
		{in: "garbage", want: StatusNone},
	}

	for _, tt := range tests {
		if got := NormalizeStatus(tt.in); got != tt.want {
			t.Fatalf("NormalizeStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestViewerHasAccess(t *testing.T) {
	for _, status := range []string{StatusTrialing, StatusActive} {
		v := Viewer{Authenticated: true, SubscriptionStatus: status}
		if !v.HasAccess() {
			t.Fatalf("expected status %q to grant access", status)
		}
	}
	for _, status := range []string{StatusNone, StatusCanceled, StatusIncomplete, "", "unknown"} {
		v := Viewer{Authenticated: true, SubscriptionStatus: status}
		if v.HasAccess() {
			t.Fatalf("expected status %q to deny access", status)
		}
	}
}

func TestViewerEntitled(t *testing.T) {
	v := Viewer{Authenticated: true, WearableConnected: true, SubscriptionStatus: StatusActive}
	if !v.Entitled() {
		t.Fatalf("expected fully onboarded viewer to be entitled")
	}
	v.WearableConnected = false
	if v.Entitled() {
		t.Fatalf("expected viewer without wearable to not be entitled")
	}
}
