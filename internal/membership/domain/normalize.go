package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// emailPattern is intentionally permissive: anything of the shape
// local@domain.tld passes, deliverability is the mailer's problem.
var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// MinPasswordLength is the floor enforced at registration and reset.
const MinPasswordLength = 8

// NormalizeUser applies the canonical-form rules every user record must
// satisfy before it is persisted. It is pure: callers get a copy back.
//
// Email is trimmed and lowercased so the uniqueness constraint and login
// lookups are case-insensitive. An unknown or empty woreda is silently
// coerced to the default rather than rejected. Missing enum fields get
// their zero-tier defaults.
func NormalizeUser(u User) User {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Name = strings.TrimSpace(u.Name)

	if !ValidWoreda(u.Woreda) {
		u.Woreda = DefaultWoreda
	}
	if !ValidLanguage(u.Language) {
		u.Language = DefaultLanguage
	}
	if !u.Role.Valid() {
		u.Role = RoleMember
	}
	if !u.Membership.Tier.Valid() {
		u.Membership.Tier = TierNone
	}
	if !u.Membership.Status.Valid() {
		u.Membership.Status = StatusPending
	}
	return u
}

// FormatMembershipID renders the human-facing membership identifier.
// seq is 1-based within the issuing year.
func FormatMembershipID(year int, seq int64) string {
	return fmt.Sprintf("SLMA-%d-%04d", year, seq)
}

// NextMembershipID derives the identifier for a newly registered member
// from the current member count.
func NextMembershipID(now time.Time, memberCount int64) string {
	return FormatMembershipID(now.Year(), memberCount+1)
}
