package database

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// User represents a system user (staff, approver, admin)
type User struct {
	gorm.Model
	Name         string  `json:"name"`
	Email        string  `json:"email" gorm:"uniqueIndex"`
	PasswordHash string  `json:"-"`
	Role         string  `json:"role"`
	BranchID     *uint   `json:"branch_id"` // nil only for super_admin
	Phone        string  `json:"phone"`
	IsActive     bool    `json:"is_active" gorm:"default:true"`
	Branch       *Branch `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
}

// Branch represents a cooperative branch office
type Branch struct {
	gorm.Model
	Name     string `json:"name"`
	Code     string `json:"code" gorm:"uniqueIndex"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	IsActive bool   `json:"is_active" gorm:"default:true"`
}

// Member represents a cooperative member. The member's BranchID is the
// home ("origin") branch that owns approval rights over the member's
// attendance.
type Member struct {
	gorm.Model
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	MemberNo  string `json:"member_no" gorm:"uniqueIndex"`
	BranchID  uint   `json:"branch_id"`
	Status    string `json:"status" gorm:"default:active"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	Branch    Branch `gorm:"foreignKey:BranchID" json:"branch"`
}

// JSONMap is an opaque metadata column stored as serialized JSON text,
// so callers can attach forward-compatible key/value data to a record.
type JSONMap map[string]any

// Value implements driver.Valuer
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New("unsupported type for JSONMap")
	}
}

// Attendance represents one member visit and its approval lifecycle.
// OriginBranchID is captured at creation time and never rewritten, even
// if the member later transfers to another branch. VisitedBranchID is
// nil when a super_admin without a branch assignment logged the visit.
type Attendance struct {
	gorm.Model
	MemberID        uint       `json:"member_id" gorm:"index"`
	OriginBranchID  uint       `json:"origin_branch_id" gorm:"index"`
	VisitedBranchID *uint      `json:"visited_branch_id"`
	AttendanceDate  string     `json:"attendance_date" gorm:"size:10;index"` // YYYY-MM-DD, server-local
	LoggedAt        time.Time  `json:"logged_at"`
	Status          string     `json:"status" gorm:"size:20;index"`
	CreatedByID     uint       `json:"created_by_id"`
	ApprovedByID    *uint      `json:"approved_by_id"`
	ApprovedAt      *time.Time `json:"approved_at"`
	RejectionReason string     `json:"rejection_reason"`
	CancelledByID   *uint      `json:"cancelled_by_id"`
	CancelledAt     *time.Time `json:"cancelled_at"`
	Notes           string     `json:"notes"`
	Metadata        JSONMap    `json:"metadata" gorm:"type:text"`
	Member          Member     `gorm:"foreignKey:MemberID" json:"member"`
	CreatedBy       User       `gorm:"foreignKey:CreatedByID" json:"created_by"`
	ApprovedBy      *User      `gorm:"foreignKey:ApprovedByID" json:"approved_by,omitempty"`
}

// AuditLog represents an append-only audit trail entry. OldValue and
// NewValue carry JSON snapshots of the affected entity.
type AuditLog struct {
	gorm.Model
	UserID     uint   `json:"user_id" gorm:"index"`
	Action     string `json:"action" gorm:"size:50;not null"`
	EntityType string `json:"entity_type" gorm:"size:50;not null;index"`
	EntityID   uint   `json:"entity_id" gorm:"index"`
	OldValue   string `json:"old_value" gorm:"type:text"`
	NewValue   string `json:"new_value" gorm:"type:text"`
	IP         string `json:"ip" gorm:"size:50"`
	UserAgent  string `json:"user_agent" gorm:"size:255"`
}

// Constants for status values
const (
	AttendanceStatusPending   = "pending"
	AttendanceStatusApproved  = "approved"
	AttendanceStatusRejected  = "rejected"
	AttendanceStatusCancelled = "cancelled"

	MemberStatusActive   = "active"
	MemberStatusInactive = "inactive"

	// User roles
	RoleSuperAdmin  = "super_admin"
	RoleBranchAdmin = "branch_admin"
	RoleStaff       = "staff"
	RoleApprover    = "approver"

	// Audit actions
	ActionCreateAttendance  = "CREATE_ATTENDANCE"
	ActionApproveAttendance = "APPROVE_ATTENDANCE"
	ActionRejectAttendance  = "REJECT_ATTENDANCE"
	ActionCancelAttendance  = "CANCEL_ATTENDANCE"

	EntityAttendance = "attendance"
)
