// Package metadata is the key/value partition of the local store. It holds
// the session, the offline-login verifier, push keys and background-sync
// registrations.
package metadata
