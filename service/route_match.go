package service

import "strings"

// RouteMatcher decides whether a pass endpoint covers a ride endpoint.
type RouteMatcher func(passEndpoint, rideEndpoint string) bool

// FuzzyEndpointMatch accepts the pair when either name contains the other,
// ignoring case, so "Chitkara" covers "Chitkara University" and vice versa.
// It is a name heuristic, not a geographic one: similarly named places match.
func FuzzyEndpointMatch(passEndpoint, rideEndpoint string) bool {
	p := strings.ToLower(strings.TrimSpace(passEndpoint))
	r := strings.ToLower(strings.TrimSpace(rideEndpoint))
	if p == "" || r == "" {
		return false
	}
	return strings.Contains(p, r) || strings.Contains(r, p)
}
