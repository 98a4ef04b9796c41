package domain

import "time"

// Admin panel roles. Master is not a stored role: it only exists on sessions
// created through the master-key gate.
const (
	RoleAdmin    = "admin"
	RoleCrewmate = "crewmate"
	RoleImposter = "imposter"
	RoleMaster   = "master"
)

// Capabilities grantable to the imposter (limited) role. Admin and crewmate
// hold all of them implicitly.
const (
	CapRegistrations = "registrations"
	CapCheckIn       = "checkin"
	CapEvents        = "events"
	CapUsers         = "users"
)

// AllCapabilities in stable order.
var AllCapabilities = []string{CapRegistrations, CapCheckIn, CapEvents, CapUsers}

// ValidAdminRole reports whether role is a storable admin role.
func ValidAdminRole(role string) bool {
	return role == RoleAdmin || role == RoleCrewmate || role == RoleImposter
}

// ValidCapability reports whether cap names a known capability.
func ValidCapability(cap string) bool {
	for _, c := range AllCapabilities {
		if c == cap {
			return true
		}
	}
	return false
}

type AdminUser struct {
	AdminID       string     `json:"id" dynamodbav:"admin_id"`
	Email         string     `json:"email" dynamodbav:"email"`
	PasswordHash  string     `json:"-" dynamodbav:"password_hash"`
	Role          string     `json:"role" dynamodbav:"role"`
	Permissions   []string   `json:"permissions" dynamodbav:"permissions"`
	InvitedBy     string     `json:"invited_by" dynamodbav:"invited_by"`
	PasswordSetAt *time.Time `json:"password_set_at,omitempty" dynamodbav:"password_set_at"`
	CreatedAt     time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// AdminSession is the decoded payload of a signed admin session token.
type AdminSession struct {
	AdminID     string
	Email       string
	Role        string
	Permissions []string
	Master      bool
}

// Authorize is the single role/permission decision point for the admin panel.
// Master sessions and the two top role tiers hold every capability; the
// imposter tier holds only capabilities explicitly granted to it.
func Authorize(s *AdminSession, capability string) bool {
	if s == nil {
		return false
	}
	if s.Master || s.Role == RoleMaster {
		return true
	}
	switch s.Role {
	case RoleAdmin, RoleCrewmate:
		return true
	case RoleImposter:
		for _, p := range s.Permissions {
			if p == capability {
				return true
			}
		}
	}
	return false
}
