// Package notifications is the offline-notifications partition: push
// payloads that arrived while no client was active, kept until they have
// been shown in-app.
package notifications
