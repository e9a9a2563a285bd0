package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent RoleType = "STUDENT"
	RoleTeacher RoleType = "TEACHER"
	RoleHead    RoleType = "HEAD" // Department head, sees program-wide reports
)

// Edge weight bounds shared by LO->PO and Assessment->LO links.
const (
	MinLinkWeight = 1
	MaxLinkWeight = 5
)

// IsValidLinkWeight reports whether a stored weight is usable by the rollup.
// Zero is tolerated and treated as "no contribution".
func IsValidLinkWeight(weight int) bool {
	return weight >= 0 && weight <= MaxLinkWeight
}
