package entities

// RateLimitDecision is the outcome of an admission check
type RateLimitDecision struct {
	Allowed      bool
	Limit        int
	Remaining    int
	ResetSeconds int
}
