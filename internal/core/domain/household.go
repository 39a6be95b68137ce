package domain

import "time"

// Household is the tenant boundary. Every financial and inventory entity belongs to exactly one.
type Household struct {
	HouseholdID string `json:"householdID"`
	Name        string `json:"name"`
	AuditFields
}

// MemberRole is the role a user holds inside a household.
type MemberRole string

const (
	RoleMaster MemberRole = "MASTER"
	RoleMember MemberRole = "MEMBER"
)

// Member is the (user, household) pair. Memberships are administered outside this service.
type Member struct {
	HouseholdID string     `json:"householdID"`
	UserID      string     `json:"userID"`
	Role        MemberRole `json:"role"`
	JoinedAt    time.Time  `json:"joinedAt"`
}
