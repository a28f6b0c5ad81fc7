// Package services contains the application services of the Journify
// client: the sync coordinator that drains the pending queue, the
// notification reconciliation, story and favorite management, login, and
// push subscription.
package services
