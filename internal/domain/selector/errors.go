package selector

import "errors"

// Sentinel kinds for selection errors. Both map to a client-facing not-found
// condition: there is either no such bounty or no candidate to rank.
var (
	ErrBountyNotFound = errors.New("bounty not found")
	ErrNoTeams        = errors.New("no teams available")
)
