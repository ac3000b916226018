package constants

// Static route constants
const (
	PublicRoute     = "/"
	WelcomeRoute    = "/welcome"
	OnboardingRoute = "/onboarding"
	HomeRoute       = "/home"
	InsightsRoute   = "/insights"
	LoginRoute      = "/login"
	RegisterRoute   = "/register"
	LogoutRoute     = "/logout"
	APIPrefix       = "/api"
)
