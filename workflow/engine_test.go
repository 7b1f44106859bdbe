package workflow

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"coopattend/database"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// The in-memory database exists per connection; keep the pool at one
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&database.Branch{},
		&database.User{},
		&database.Member{},
		&database.Attendance{},
		&database.AuditLog{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_attendance_member_day_open
		 ON attendances (member_id, attendance_date)
		 WHERE status IN ('pending', 'approved') AND deleted_at IS NULL`,
	).Error; err != nil {
		t.Fatalf("failed to create uniqueness index: %v", err)
	}

	return db
}

var memberSeq int

func seedBranch(t *testing.T, db *gorm.DB, code string) database.Branch {
	t.Helper()
	branch := database.Branch{Name: "Branch " + code, Code: code, IsActive: true}
	if err := db.Create(&branch).Error; err != nil {
		t.Fatalf("failed to seed branch: %v", err)
	}
	return branch
}

func seedUser(t *testing.T, db *gorm.DB, role string, branchID *uint) database.User {
	t.Helper()
	memberSeq++
	user := database.User{
		Name:     fmt.Sprintf("User %d", memberSeq),
		Email:    fmt.Sprintf("user%d@test.local", memberSeq),
		Role:     role,
		BranchID: branchID,
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedMember(t *testing.T, db *gorm.DB, branchID uint) database.Member {
	t.Helper()
	memberSeq++
	member := database.Member{
		FirstName: "Member",
		LastName:  fmt.Sprintf("Test%d", memberSeq),
		MemberNo:  fmt.Sprintf("M-%04d", memberSeq),
		BranchID:  branchID,
		Status:    database.MemberStatusActive,
	}
	if err := db.Create(&member).Error; err != nil {
		t.Fatalf("failed to seed member: %v", err)
	}
	return member
}

func actorFor(u database.User) Actor {
	return Actor{ID: u.ID, Role: u.Role, BranchID: u.BranchID}
}

func auditCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&database.AuditLog{}).Count(&n).Error; err != nil {
		t.Fatalf("failed to count audit logs: %v", err)
	}
	return n
}

func TestSubmitSameBranchAutoApproved(t *testing.T) {
	db := newTestDB(t)
	clock := &fakeClock{now: time.Date(2026, 3, 10, 9, 30, 0, 0, time.Local)}
	engine := NewEngineWithClock(db, clock.Now)

	branch := seedBranch(t, db, "A")
	staff := seedUser(t, db, database.RoleStaff, &branch.ID)
	member := seedMember(t, db, branch.ID)

	att, err := engine.Submit(actorFor(staff), member.ID, "walk-in", nil)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if att.Status != database.AttendanceStatusApproved {
		t.Fatalf("expected status approved, got %s", att.Status)
	}
	if att.ApprovedByID == nil || *att.ApprovedByID != staff.ID {
		t.Fatalf("expected approver %d, got %v", staff.ID, att.ApprovedByID)
	}
	if att.ApprovedAt == nil || !att.ApprovedAt.Equal(clock.now) {
		t.Fatalf("expected approval timestamp %v, got %v", clock.now, att.ApprovedAt)
	}
	if att.OriginBranchID != branch.ID {
		t.Fatalf("expected origin branch %d, got %d", branch.ID, att.OriginBranchID)
	}
	if att.VisitedBranchID == nil || *att.VisitedBranchID != branch.ID {
		t.Fatalf("expected visited branch %d, got %v", branch.ID, att.VisitedBranchID)
	}
	if att.AttendanceDate != "2026-03-10" {
		t.Fatalf("expected attendance date 2026-03-10, got %s", att.AttendanceDate)
	}
}

func TestSubmitCrossBranchPending(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	branchA := seedBranch(t, db, "A")
	branchB := seedBranch(t, db, "B")
	staffA := seedUser(t, db, database.RoleStaff, &branchA.ID)
	member := seedMember(t, db, branchB.ID)

	att, err := engine.Submit(actorFor(staffA), member.ID, "", nil)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if att.Status != database.AttendanceStatusPending {
		t.Fatalf("expected status pending, got %s", att.Status)
	}
	if att.ApprovedByID != nil {
		t.Fatalf("expected no approver, got %v", *att.ApprovedByID)
	}
	if att.OriginBranchID != branchB.ID {
		t.Fatalf("expected origin branch %d, got %d", branchB.ID, att.OriginBranchID)
	}
	if att.VisitedBranchID == nil || *att.VisitedBranchID != branchA.ID {
		t.Fatalf("expected visited branch %d, got %v", branchA.ID, att.VisitedBranchID)
	}
}

func TestSubmitSuperAdminAutoApproved(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	branch := seedBranch(t, db, "A")
	admin := seedUser(t, db, database.RoleSuperAdmin, nil)
	member := seedMember(t, db, branch.ID)

	att, err := engine.Submit(actorFor(admin), member.ID, "", nil)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if att.Status != database.AttendanceStatusApproved {
		t.Fatalf("expected status approved, got %s", att.Status)
	}
	if att.ApprovedByID == nil || *att.ApprovedByID != admin.ID {
		t.Fatalf("expected approver %d, got %v", admin.ID, att.ApprovedByID)
	}
	if att.VisitedBranchID != nil {
		t.Fatalf("expected nil visited branch for super admin, got %v", *att.VisitedBranchID)
	}
}

func TestSubmitDuplicateSameDay(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	branchA := seedBranch(t, db, "A")
	branchB := seedBranch(t, db, "B")
	staffA := seedUser(t, db, database.RoleStaff, &branchA.ID)
	staffB := seedUser(t, db, database.RoleStaff, &branchB.ID)
	member := seedMember(t, db, branchB.ID)

	// First submission leaves the record pending
	if _, err := engine.Submit(actorFor(staffA), member.ID, "", nil); err != nil {
		t.Fatalf("first Submit failed: %v", err)
	}

	audits := auditCount(t, db)

	_, err := engine.Submit(actorFor(staffB), member.ID, "", nil)
	if !errors.Is(err, ErrDuplicateAttendance) {
		t.Fatalf("expected ErrDuplicateAttendance, got %v", err)
	}

	var rows int64
	if err := db.Model(&database.Attendance{}).Where("member_id = ?", member.ID).Count(&rows).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected exactly one attendance row, got %d", rows)
	}
	if got := auditCount(t, db); got != audits {
		t.Fatalf("rejected duplicate must not write audit entries: had %d, now %d", audits, got)
	}
}

func TestSubmitDuplicateWhenFirstApproved(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	branch := seedBranch(t, db, "A")
	staff := seedUser(t, db, database.RoleStaff, &branch.ID)
	member := seedMember(t, db, branch.ID)

	// Same-branch submission auto-approves, which still blocks a re-submit
	if _, err := engine.Submit(actorFor(staff), member.ID, "", nil); err != nil {
		t.Fatalf("first Submit failed: %v", err)
	}

	_, err := engine.Submit(actorFor(staff), member.ID, "", nil)
	if !errors.Is(err, ErrDuplicateAttendance) {
		t.Fatalf("expected ErrDuplicateAttendance, got %v", err)
	}
}

func TestSubmitAllowedNextDay(t *testing.T) {
	db := newTestDB(t)
	clock := &fakeClock{now: time.Date(2026, 3, 10, 23, 50, 0, 0, time.Local)}
	engine := NewEngineWithClock(db, clock.Now)

	branch := seedBranch(t, db, "A")
	staff := seedUser(t, db, database.RoleStaff, &branch.ID)
	member := seedMember(t, db, branch.ID)

	if _, err := engine.Submit(actorFor(staff), member.ID, "", nil); err != nil {
		t.Fatalf("first Submit failed: %v", err)
	}

	// 20 minutes later but a new calendar day: the guard compares dates,
	// not a rolling 24h window
	clock.now = time.Date(2026, 3, 11, 0, 10, 0, 0, time.Local)
	att, err := engine.Submit(actorFor(staff), member.ID, "", nil)
	if err != nil {
		t.Fatalf("next-day Submit failed: %v", err)
	}
	if att.AttendanceDate != "2026-03-11" {
		t.Fatalf("expected attendance date 2026-03-11, got %s", att.AttendanceDate)
	}
}

func TestResubmitAfterCancelAndReject(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	branchA := seedBranch(t, db, "A")
	branchB := seedBranch(t, db, "B")
	staffA := seedUser(t, db, database.RoleStaff, &branchA.ID)
	approverB := seedUser(t, db, database.RoleApprover, &branchB.ID)
	member := seedMember(t, db, branchB.ID)

	first, err := engine.Submit(actorFor(staffA), member.ID, "", nil)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if _, err := engine.Cancel(actorFor(staffA), first.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	second, err := engine.Submit(actorFor(staffA), member.ID, "", nil)
	if err != nil {
		t.Fatalf("resubmit after cancel failed: %v", err)
	}

	if _, err := engine.Reject(actorFor(approverB), second.ID, "wrong member"); err != nil {
		t.Fatalf("Reject failed: %v", err)
	}

	if _, err := engine.Submit(actorFor(staffA), member.ID, "", nil); err != nil {
		t.Fatalf("resubmit after reject failed: %v", err)
	}
}

func TestSubmitMemberNotFound(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	branch := seedBranch(t, db, "A")
	staff := seedUser(t, db, database.RoleStaff, &branch.ID)

	_, err := engine.Submit(actorFor(staff), 9999, "", nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitActorWithoutBranch(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	branch := seedBranch(t, db, "A")
	staff := seedUser(t, db, database.RoleStaff, nil)
	member := seedMember(t, db, branch.ID)

	_, err := engine.Submit(actorFor(staff), member.ID, "", nil)
	if !errors.Is(err, ErrMissingBranch) {
		t.Fatalf("expected ErrMissingBranch, got %v", err)
	}
}

func TestApproveByHomeBranchApprover(t *testing.T) {
	db := newTestDB(t)
	clock := &fakeClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)}
	engine := NewEngineWithClock(db, clock.Now)

	branchA := seedBranch(t, db, "A")
	branchB := seedBranch(t, db, "B")
	staffA := seedUser(t, db, database.RoleStaff, &branchA.ID)
	approverB := seedUser(t, db, database.RoleApprover, &branchB.ID)
	member := seedMember(t, db, branchB.ID)

	pending, err := engine.Submit(actorFor(staffA), member.ID, "", nil)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	clock.now = clock.now.Add(time.Hour)
	approved, err := engine.Approve(actorFor(approverB), pending.ID)
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	if approved.Status != database.AttendanceStatusApproved {
		t.Fatalf("expected status approved, got %s", approved.Status)
	}
	if approved.ApprovedByID == nil || *approved.ApprovedByID != approverB.ID {
		t.Fatalf("expected approver %d, got %v", approverB.ID, approved.ApprovedByID)
	}
	if approved.ApprovedAt == nil || !approved.ApprovedAt.Equal(clock.now) {
		t.Fatalf("expected decision timestamp %v, got %v", clock.now, approved.ApprovedAt)
	}
}

func TestApproveWrongBranchForbidden(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	branchA := seedBranch(t, db, "A")
	branchB := seedBranch(t, db, "B")
	staffA := seedUser(t, db, database.RoleStaff, &branchA.ID)
	approverA := seedUser(t, db, database.RoleApprover, &branchA.ID)
	member := seedMember(t, db, branchB.ID)

	pending, err := engine.Submit(actorFor(staffA), member.ID, "", nil)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	// Decision rights live at the member's home branch, not the visited one
	if _, err := engine.Approve(actorFor(approverA), pending.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden from approve, got %v", err)
	}
	if _, err := engine.Reject(actorFor(approverA), pending.ID, "nope"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden from reject, got %v", err)
	}
}

func TestStaffCannotDecide(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	branchA := seedBranch(t, db, "A")
	branchB := seedBranch(t, db, "B")
	staffA := seedUser(t, db, database.RoleStaff, &branchA.ID)
	staffB := seedUser(t, db, database.RoleStaff, &branchB.ID)
	member := seedMember(t, db, branchB.ID)

	pending, err := engine.Submit(actorFor(staffA), member.ID, "", nil)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if _, err := engine.Approve(actorFor(staffB), pending.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for staff even at home branch, got %v", err)
	}
}

func TestApproveNonPendingNoMutation(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	branchA := seedBranch(t, db, "A")
	branchB := seedBranch(t, db, "B")
	staffA := seedUser(t, db, database.RoleStaff, &branchA.ID)
	approverB := seedUser(t, db, database.RoleApprover, &branchB.ID)
	member := seedMember(t, db, branchB.ID)

	pending, err := engine.Submit(actorFor(staffA), member.ID, "", nil)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	approved, err := engine.Approve(actorFor(approverB), pending.ID)
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	audits := auditCount(t, db)

	if _, err := engine.Approve(actorFor(approverB), approved.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState from second approve, got %v", err)
	}
	if _, err := engine.Reject(actorFor(approverB), approved.ID, "too late"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState from reject, got %v", err)
	}

	var after database.Attendance
	if err := db.First(&after, approved.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if after.Status != database.AttendanceStatusApproved {
		t.Fatalf("status changed by failed transition: %s", after.Status)
	}
	if after.RejectionReason != "" {
		t.Fatalf("rejection reason set by failed transition: %q", after.RejectionReason)
	}
	if got := auditCount(t, db); got != audits {
		t.Fatalf("failed transitions must not write audit entries: had %d, now %d", audits, got)
	}
}

func TestApproveNotFound(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	admin := seedUser(t, db, database.RoleSuperAdmin, nil)

	if _, err := engine.Approve(actorFor(admin), 4242); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	branchA := seedBranch(t, db, "A")
	branchB := seedBranch(t, db, "B")
	staffA := seedUser(t, db, database.RoleStaff, &branchA.ID)
	approverB := seedUser(t, db, database.RoleApprover, &branchB.ID)
	member := seedMember(t, db, branchB.ID)

	pending, err := engine.Submit(actorFor(staffA), member.ID, "", nil)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if _, err := engine.Reject(actorFor(approverB), pending.ID, "   "); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for blank reason, got %v", err)
	}

	rejected, err := engine.Reject(actorFor(approverB), pending.ID, "member not present")
	if err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	if rejected.Status != database.AttendanceStatusRejected {
		t.Fatalf("expected status rejected, got %s", rejected.Status)
	}
	if rejected.RejectionReason != "member not present" {
		t.Fatalf("unexpected rejection reason: %q", rejected.RejectionReason)
	}
	if rejected.ApprovedByID == nil || *rejected.ApprovedByID != approverB.ID {
		t.Fatalf("expected decider %d, got %v", approverB.ID, rejected.ApprovedByID)
	}
}

func TestCancelRules(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	branchA := seedBranch(t, db, "A")
	branchB := seedBranch(t, db, "B")
	staffA := seedUser(t, db, database.RoleStaff, &branchA.ID)
	otherStaff := seedUser(t, db, database.RoleStaff, &branchA.ID)
	admin := seedUser(t, db, database.RoleSuperAdmin, nil)
	member := seedMember(t, db, branchB.ID)

	pending, err := engine.Submit(actorFor(staffA), member.ID, "", nil)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	// Only the creator or a super admin may cancel
	if _, err := engine.Cancel(actorFor(otherStaff), pending.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-creator, got %v", err)
	}

	cancelled, err := engine.Cancel(actorFor(staffA), pending.ID)
	if err != nil {
		t.Fatalf("Cancel by creator failed: %v", err)
	}
	if cancelled.Status != database.AttendanceStatusCancelled {
		t.Fatalf("expected status cancelled, got %s", cancelled.Status)
	}
	if cancelled.CancelledByID == nil || *cancelled.CancelledByID != staffA.ID {
		t.Fatalf("expected canceller %d, got %v", staffA.ID, cancelled.CancelledByID)
	}

	// Cancelled is terminal
	if _, err := engine.Cancel(actorFor(admin), pending.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState cancelling a cancelled record, got %v", err)
	}
}

func TestCancelApprovedRecord(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	branch := seedBranch(t, db, "A")
	staff := seedUser(t, db, database.RoleStaff, &branch.ID)
	member := seedMember(t, db, branch.ID)

	// Auto-approved on creation; the undo still applies
	approved, err := engine.Submit(actorFor(staff), member.ID, "", nil)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	cancelled, err := engine.Cancel(actorFor(staff), approved.ID)
	if err != nil {
		t.Fatalf("Cancel of approved record failed: %v", err)
	}
	if cancelled.Status != database.AttendanceStatusCancelled {
		t.Fatalf("expected status cancelled, got %s", cancelled.Status)
	}
}

func TestListPendingScoping(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	branchA := seedBranch(t, db, "A")
	branchB := seedBranch(t, db, "B")
	staffA := seedUser(t, db, database.RoleStaff, &branchA.ID)
	staffB := seedUser(t, db, database.RoleStaff, &branchB.ID)
	approverA := seedUser(t, db, database.RoleApprover, &branchA.ID)
	approverB := seedUser(t, db, database.RoleApprover, &branchB.ID)
	admin := seedUser(t, db, database.RoleSuperAdmin, nil)
	memberA := seedMember(t, db, branchA.ID)
	memberB := seedMember(t, db, branchB.ID)

	// Cross-branch submissions so both stay pending
	if _, err := engine.Submit(actorFor(staffB), memberA.ID, "", nil); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if _, err := engine.Submit(actorFor(staffA), memberB.ID, "", nil); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	all, err := engine.ListPending(actorFor(admin))
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected super admin to see 2 pending, got %d", len(all))
	}

	forA, err := engine.ListPending(actorFor(approverA))
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(forA) != 1 || forA[0].OriginBranchID != branchA.ID {
		t.Fatalf("expected one branch-A pending record, got %+v", forA)
	}

	forB, err := engine.ListPending(actorFor(approverB))
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(forB) != 1 || forB[0].OriginBranchID != branchB.ID {
		t.Fatalf("expected one branch-B pending record, got %+v", forB)
	}
}

func TestOriginBranchImmutableAfterTransfer(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	branchA := seedBranch(t, db, "A")
	branchB := seedBranch(t, db, "B")
	staffA := seedUser(t, db, database.RoleStaff, &branchA.ID)
	member := seedMember(t, db, branchB.ID)

	pending, err := engine.Submit(actorFor(staffA), member.ID, "", nil)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	// Transfer the member; the existing record keeps its origin branch
	if err := db.Model(&database.Member{}).Where("id = ?", member.ID).Update("branch_id", branchA.ID).Error; err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	var reloaded database.Attendance
	if err := db.First(&reloaded, pending.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.OriginBranchID != branchB.ID {
		t.Fatalf("origin branch changed after transfer: %d", reloaded.OriginBranchID)
	}
}

func TestAuditTrailWritten(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	branchA := seedBranch(t, db, "A")
	branchB := seedBranch(t, db, "B")
	staffA := seedUser(t, db, database.RoleStaff, &branchA.ID)
	approverB := seedUser(t, db, database.RoleApprover, &branchB.ID)
	member := seedMember(t, db, branchB.ID)

	pending, err := engine.Submit(actorFor(staffA), member.ID, "", nil)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if _, err := engine.Approve(actorFor(approverB), pending.ID); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	var logs []database.AuditLog
	if err := db.Where("entity_type = ? AND entity_id = ?", database.EntityAttendance, pending.ID).
		Order("id ASC").Find(&logs).Error; err != nil {
		t.Fatalf("audit query failed: %v", err)
	}

	if len(logs) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(logs))
	}
	if logs[0].Action != database.ActionCreateAttendance || logs[0].UserID != staffA.ID {
		t.Fatalf("unexpected create audit entry: %+v", logs[0])
	}
	if logs[0].NewValue == "" || logs[0].OldValue != "" {
		t.Fatalf("create entry should have only an after snapshot: %+v", logs[0])
	}
	if logs[1].Action != database.ActionApproveAttendance || logs[1].UserID != approverB.ID {
		t.Fatalf("unexpected approve audit entry: %+v", logs[1])
	}
	if logs[1].OldValue == "" || logs[1].NewValue == "" {
		t.Fatalf("approve entry should carry before and after snapshots: %+v", logs[1])
	}
}
