package constants

const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusRejected = "rejected"
)

const (
	AssignmentStatusPending  = "pending"
	AssignmentStatusApproved = "approved"
	AssignmentStatusRejected = "rejected"
)
