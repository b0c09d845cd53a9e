package constants

// Static route constants
const (
	PublicRoute       = "/"
	AboutRoute        = "/about"
	HowItWorksRoute   = "/how-it-works"
	ForCreatorsRoute  = "/for-creators"
	ForLearnersRoute  = "/for-learners"
	PricingRoute      = "/pricing"
	TermsRoute        = "/terms"
	BlogRoute         = "/blog"
	LoginRoute        = "/login"
	LogoutRoute       = "/logout"
	PolarWebhookRoute = "/webhooks/polar"
	UserBillingRoute  = "/user/billing"
	AdminLeadsRoute   = "/admin/leads"
)
