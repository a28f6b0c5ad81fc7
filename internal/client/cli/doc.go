// Package cli provides the Journify command-line client.
//
// It wires configuration, the local store, the API gateway and the services,
// and exposes them as cobra subcommands. One-shot commands check reachability
// once and work offline when the API is down; "watch" stays connected to the
// notification relay and drains the outbox on every reconnect. "shell" runs
// the same commands in an interactive loop.
//
// Key features:
//   - register / login / logout, with offline login from cached credentials
//   - story add / list / show / delete / sync
//   - favorites kept locally
//   - deferred notifications and push subscription
package cli
