// Package service implements the membership business flows on top of the
// store, signer and mailer abstractions. Handlers translate the sentinel
// errors defined here into HTTP responses.
package service

import "strings"

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
