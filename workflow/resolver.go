package workflow

import (
	"errors"

	"gorm.io/gorm"

	"coopattend/database"
)

// ResolveBranches determines the origin (member's home) branch and the
// visited (actor's) branch for an attendance submission. A super admin
// without a branch assignment gets a nil visited branch; auto-approval
// for super admins comes from the role rule, not a branch match.
func ResolveBranches(db *gorm.DB, actor Actor, memberID uint) (origin uint, visited *uint, err error) {
	var member database.Member
	if err := db.First(&member, memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil, ErrNotFound
		}
		return 0, nil, err
	}

	if member.BranchID == 0 {
		return 0, nil, ErrMissingBranch
	}

	if actor.BranchID == nil && !actor.IsSuperAdmin() {
		return 0, nil, ErrMissingBranch
	}

	return member.BranchID, actor.BranchID, nil
}
