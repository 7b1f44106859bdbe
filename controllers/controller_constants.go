package controllers

import (
	"coopattend/database"
)

// User role constants
const (
	RoleSuperAdmin  = database.RoleSuperAdmin
	RoleBranchAdmin = database.RoleBranchAdmin
	RoleStaff       = database.RoleStaff
	RoleApprover    = database.RoleApprover
)

// Attendance status constants
const (
	AttendanceStatusPending   = database.AttendanceStatusPending
	AttendanceStatusApproved  = database.AttendanceStatusApproved
	AttendanceStatusRejected  = database.AttendanceStatusRejected
	AttendanceStatusCancelled = database.AttendanceStatusCancelled
)

// Member status constants
const (
	MemberStatusActive   = database.MemberStatusActive
	MemberStatusInactive = database.MemberStatusInactive
)
