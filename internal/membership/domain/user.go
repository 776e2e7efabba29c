package domain

import "time"

// Role is the closed set of user roles.
type Role string

const (
	RoleMember      Role = "member"
	RoleWoredaAdmin Role = "woreda_admin"
	RoleSuperAdmin  Role = "super_admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleWoredaAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// DefaultWoreda is the region applied whenever a record arrives with a
// missing or unknown woreda. Coercion rather than rejection is a
// load-bearing contract: clients rely on always-valid output.
const DefaultWoreda = "worabe"

// Woredas is the closed enumeration of administrative regions.
var Woredas = []string{
	"worabe",
	"hulbarag",
	"sankura",
	"alicho",
	"silti",
	"dalocha",
	"lanforo",
	"east-azernet-berbere",
	"west-azernet-berbere",
}

func ValidWoreda(w string) bool {
	for _, valid := range Woredas {
		if w == valid {
			return true
		}
	}
	return false
}

// DefaultLanguage applies when registration omits a language.
const DefaultLanguage = "en"

// Languages supported by the community frontend.
var Languages = []string{"en", "am", "silt"}

func ValidLanguage(l string) bool {
	for _, valid := range Languages {
		if l == valid {
			return true
		}
	}
	return false
}

// MembershipTier is the subscription tier enumeration.
type MembershipTier string

const (
	TierNone      MembershipTier = "none"
	TierBasic     MembershipTier = "basic"
	TierPremium   MembershipTier = "premium"
	TierExecutive MembershipTier = "executive"
)

func (t MembershipTier) Valid() bool {
	switch t {
	case TierNone, TierBasic, TierPremium, TierExecutive:
		return true
	}
	return false
}

// MembershipStatus is the subscription status enumeration.
type MembershipStatus string

const (
	StatusActive    MembershipStatus = "active"
	StatusExpired   MembershipStatus = "expired"
	StatusPending   MembershipStatus = "pending"
	StatusCancelled MembershipStatus = "cancelled"
)

func (s MembershipStatus) Valid() bool {
	switch s {
	case StatusActive, StatusExpired, StatusPending, StatusCancelled:
		return true
	}
	return false
}

// Membership is the subscription record nested in the user entity.
// MembershipID is assigned exactly once at creation for member-role users
// and never mutated afterwards.
type Membership struct {
	Tier         MembershipTier
	Status       MembershipStatus
	MembershipID string
	StartDate    *time.Time
	EndDate      *time.Time
}

// Profile holds the free-form member profile fields.
type Profile struct {
	Bio        string
	Photo      string
	Occupation string
	Location   string
}

type User struct {
	ID           string
	Name         string
	Email        string // stored lowercase; the login key
	PasswordHash string // argon2 encoded, never serialized outward
	Phone        string
	Role         Role
	Woreda       string
	Language     string
	Membership   Membership
	Profile      Profile

	EmailVerified     bool
	VerificationToken *string // nullable, cleared on verification

	ResetTokenHash *string    // SHA-256 digest of the mailed reset token
	ResetExpiry    *time.Time // both-or-neither with ResetTokenHash

	LastLogin *time.Time
	IsActive  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
