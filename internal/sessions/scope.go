package sessions

import "fmt"

// RateLimitScope names the throttling bucket for an action performed by one session.
func RateLimitScope(action, sessionID string) string {
	return fmt.Sprintf("%s:session:%s", action, sessionID)
}

// IPRateLimitScope names the throttling bucket for an action performed from one address.
func IPRateLimitScope(action, ip string) string {
	return fmt.Sprintf("%s:ip:%s", action, ip)
}
