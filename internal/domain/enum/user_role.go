package enum

// Role names carried in access tokens
const (
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
	RoleMember = "member"
)

// StaffRoles may call money-mutating endpoints.
var StaffRoles = []string{RoleAdmin, RoleStaff}
