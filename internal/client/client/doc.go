// Package client is the remote gateway: the typed HTTP client for the story
// API.
//
// # Overview
//
// HTTPClient wraps every call to the API and turns transport and HTTP
// failures into sentinel errors that callers match with errors.Is:
//
//   - ErrNotAuthenticated: no session token is stored locally.
//   - ErrAuthExpired: the API rejected the token (401, and 405 on reads) or
//     the token's exp claim has passed. The stored session is cleared.
//   - ErrUnavailable: the API or a gateway in front of it timed out (504).
//   - ErrRequestFailed: any other non-2xx status or an {"error":true} body.
//
// # Reads
//
// List reads prefer a degraded result over an error. The location listing
// is cached by request URL (see ResponseCache); when a read fails for a
// reason other than authentication, the cached body is served, and when
// there is nothing cached and the device is offline the result is empty.
// A network failure also registers the "sync-stories" background sync.
//
// # Writes
//
// SubmitStory never degrades: every failure is returned to the caller.
package client
