package workflow

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"coopattend/database"
)

// dateLayout is the calendar-day format used by the duplicate guard.
// Days are computed in server-local time, not UTC.
const dateLayout = "2006-01-02"

// Engine owns the attendance approval lifecycle: creation with the
// one-open-record-per-member-per-day guard, the auto-approval rule, and
// the approve/reject/cancel transitions. Only the engine mutates
// attendance status.
type Engine struct {
	db  *gorm.DB
	now func() time.Time
}

// NewEngine creates an engine backed by db using the wall clock.
func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db, now: time.Now}
}

// NewEngineWithClock creates an engine with an injected time source.
func NewEngineWithClock(db *gorm.DB, clock func() time.Time) *Engine {
	return &Engine{db: db, now: clock}
}

// openStatuses are the non-terminal statuses that block a second
// submission for the same member and day.
var openStatuses = []string{
	database.AttendanceStatusPending,
	database.AttendanceStatusApproved,
}

// Submit logs a visit for the member and decides its initial status:
// approved immediately when the actor's branch matches the member's home
// branch or the actor is a super admin, pending otherwise. The created
// record and its audit entry commit together or not at all.
func (e *Engine) Submit(actor Actor, memberID uint, notes string, metadata database.JSONMap) (*database.Attendance, error) {
	now := e.now()
	day := now.Format(dateLayout)

	var created database.Attendance
	err := e.db.Transaction(func(tx *gorm.DB) error {
		origin, visited, err := ResolveBranches(tx, actor, memberID)
		if err != nil {
			return err
		}

		var open int64
		if err := tx.Model(&database.Attendance{}).
			Where("member_id = ? AND attendance_date = ? AND status IN ?", memberID, day, openStatuses).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return ErrDuplicateAttendance
		}

		att := database.Attendance{
			MemberID:        memberID,
			OriginBranchID:  origin,
			VisitedBranchID: visited,
			AttendanceDate:  day,
			LoggedAt:        now,
			Status:          database.AttendanceStatusPending,
			CreatedByID:     actor.ID,
			Notes:           notes,
			Metadata:        metadata,
		}

		if actor.IsSuperAdmin() || (visited != nil && *visited == origin) {
			approvedAt := now
			att.Status = database.AttendanceStatusApproved
			att.ApprovedByID = &actor.ID
			att.ApprovedAt = &approvedAt
		}

		if err := tx.Create(&att).Error; err != nil {
			// Unique partial index backstop for concurrent submissions
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateAttendance
			}
			return err
		}

		if err := appendAudit(tx, actor.ID, database.ActionCreateAttendance, att.ID, nil, &att); err != nil {
			return err
		}

		created = att
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Approve transitions a pending record to approved. The status check is a
// conditional update, so two concurrent decisions on the same record
// yield exactly one success.
func (e *Engine) Approve(actor Actor, id uint) (*database.Attendance, error) {
	now := e.now()
	return e.decide(actor, id, database.ActionApproveAttendance, map[string]any{
		"status":         database.AttendanceStatusApproved,
		"approved_by_id": actor.ID,
		"approved_at":    now,
	})
}

// Reject transitions a pending record to rejected. A non-blank reason is
// required; ApprovedAt doubles as the decision timestamp.
func (e *Engine) Reject(actor Actor, id uint, reason string) (*database.Attendance, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", ErrValidation)
	}
	now := e.now()
	return e.decide(actor, id, database.ActionRejectAttendance, map[string]any{
		"status":           database.AttendanceStatusRejected,
		"approved_by_id":   actor.ID,
		"approved_at":      now,
		"rejection_reason": reason,
	})
}

func (e *Engine) decide(actor Actor, id uint, action string, updates map[string]any) (*database.Attendance, error) {
	var decided database.Attendance
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var att database.Attendance
		if err := tx.First(&att, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if !CanDecide(actor, att.OriginBranchID) {
			return ErrForbidden
		}

		res := tx.Model(&database.Attendance{}).
			Where("id = ? AND status = ?", id, database.AttendanceStatusPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidState
		}

		before := att
		if err := tx.First(&att, id).Error; err != nil {
			return err
		}

		if err := appendAudit(tx, actor.ID, action, att.ID, &before, &att); err != nil {
			return err
		}

		decided = att
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &decided, nil
}

// Cancel is the self-service undo: the original creator or a super admin
// may cancel a record that is still pending or approved. Cancelled
// records never block a fresh submission for the same member and day.
func (e *Engine) Cancel(actor Actor, id uint) (*database.Attendance, error) {
	now := e.now()

	var cancelled database.Attendance
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var att database.Attendance
		if err := tx.First(&att, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if !CanCancel(actor, att.CreatedByID) {
			return ErrForbidden
		}

		res := tx.Model(&database.Attendance{}).
			Where("id = ? AND status IN ?", id, openStatuses).
			Updates(map[string]any{
				"status":          database.AttendanceStatusCancelled,
				"cancelled_by_id": actor.ID,
				"cancelled_at":    now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidState
		}

		before := att
		if err := tx.First(&att, id).Error; err != nil {
			return err
		}

		if err := appendAudit(tx, actor.ID, database.ActionCancelAttendance, att.ID, &before, &att); err != nil {
			return err
		}

		cancelled = att
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cancelled, nil
}

// ListPending returns pending records awaiting a decision. Super admins
// see every branch; everyone else sees only records whose origin branch
// is their own, the same home-branch rule CanDecide enforces.
func (e *Engine) ListPending(actor Actor) ([]database.Attendance, error) {
	q := e.db.
		Where("status = ?", database.AttendanceStatusPending).
		Preload("Member").
		Order("created_at DESC")

	if !actor.IsSuperAdmin() {
		if actor.BranchID == nil {
			return nil, ErrMissingBranch
		}
		q = q.Where("origin_branch_id = ?", *actor.BranchID)
	}

	var rows []database.Attendance
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Get returns one record, branch-scoped for non-admin actors.
func (e *Engine) Get(actor Actor, id uint) (*database.Attendance, error) {
	var att database.Attendance
	if err := e.db.Preload("Member").First(&att, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !actor.IsSuperAdmin() {
		if actor.BranchID == nil || *actor.BranchID != att.OriginBranchID {
			return nil, ErrForbidden
		}
	}
	return &att, nil
}

// ListFilter narrows List results; zero values mean no filter.
type ListFilter struct {
	MemberID uint
	Date     string // YYYY-MM-DD
	Status   string
}

// List returns records matching the filter, branch-scoped for non-admin
// actors the same way as ListPending.
func (e *Engine) List(actor Actor, filter ListFilter) ([]database.Attendance, error) {
	q := e.db.Preload("Member").Order("created_at DESC")

	if !actor.IsSuperAdmin() {
		if actor.BranchID == nil {
			return nil, ErrMissingBranch
		}
		q = q.Where("origin_branch_id = ?", *actor.BranchID)
	}
	if filter.MemberID != 0 {
		q = q.Where("member_id = ?", filter.MemberID)
	}
	if filter.Date != "" {
		q = q.Where("attendance_date = ?", filter.Date)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var rows []database.Attendance
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// appendAudit writes one audit row inside the caller's transaction so the
// entity change and its trail commit together.
func appendAudit(tx *gorm.DB, actorID uint, action string, entityID uint, before, after *database.Attendance) error {
	entry := database.AuditLog{
		UserID:     actorID,
		Action:     action,
		EntityType: database.EntityAttendance,
		EntityID:   entityID,
	}

	if before != nil {
		b, err := json.Marshal(before)
		if err != nil {
			return err
		}
		entry.OldValue = string(b)
	}
	if after != nil {
		b, err := json.Marshal(after)
		if err != nil {
			return err
		}
		entry.NewValue = string(b)
	}

	return tx.Create(&entry).Error
}
