package workflow

import "coopattend/database"

// Actor is the authenticated user performing a workflow operation. It is
// built by the calling layer from the session context; BranchID is nil
// only for super admins, who may act without a fixed branch.
type Actor struct {
	ID       uint
	Role     string
	BranchID *uint
}

// IsSuperAdmin reports whether the actor holds the super_admin role.
func (a Actor) IsSuperAdmin() bool {
	return a.Role == database.RoleSuperAdmin
}
