// Package devapi is an in-memory stand-in for the remote story API. It speaks
// the same JSON envelope and routes under /v1 so the client can be run and
// tested end to end without network access to the real service.
package devapi
