package constants

const (
	ProjectStatusActive    = "active"
	ProjectStatusOnHold    = "on_hold"
	ProjectStatusCompleted = "completed"
)

// Roles a user can hold inside a project.
const (
	ProjectRoleOwner  = "owner"
	ProjectRoleMember = "member"
)

func ValidProjectStatus(s string) bool {
	return s == ProjectStatusActive || s == ProjectStatusOnHold || s == ProjectStatusCompleted
}
