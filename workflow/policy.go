package workflow

import "coopattend/database"

// CanDecide reports whether the actor may approve or reject an attendance
// record whose member belongs to originBranchID. Decision rights stay with
// the member's home branch: an approver or branch admin must be assigned
// to that branch. Staff can never decide, regardless of branch.
func CanDecide(actor Actor, originBranchID uint) bool {
	if actor.IsSuperAdmin() {
		return true
	}
	if actor.Role != database.RoleApprover && actor.Role != database.RoleBranchAdmin {
		return false
	}
	return actor.BranchID != nil && *actor.BranchID == originBranchID
}

// CanCancel reports whether the actor may cancel an attendance record.
// Cancellation is a self-service undo for the original creator; super
// admins may cancel anything.
func CanCancel(actor Actor, createdByID uint) bool {
	return actor.IsSuperAdmin() || actor.ID == createdByID
}
