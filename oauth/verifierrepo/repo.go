// Package verifierrepo stores the pending PKCE verifier for each in-flight
// login attempt, bridging the redirect-out and callback-in halves of one
// OAuth flow.
package verifierrepo

// Repo maps a flow key to its pending verifier. Implementations must be
// safe for concurrent request tasks.
type Repo interface {
	// Put stores the verifier for a key, overwriting any pending entry.
	// Last write wins.
	Put(key, verifier string)

	// Take returns the verifier for a key and removes it. A verifier can
	// be redeemed at most once; a replayed callback finds nothing.
	Take(key string) (string, bool)
}
