package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"coopattend/database"
	"coopattend/workflow"
)

// AttendanceRequest contains the data for logging a member visit
type AttendanceRequest struct {
	MemberID uint             `json:"member_id" binding:"required"`
	Notes    string           `json:"notes"`
	Metadata database.JSONMap `json:"metadata"`
}

// RejectRequest contains the data for rejecting an attendance record
type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// actorFromContext builds the workflow actor from the authenticated
// session values set by the auth middleware.
func actorFromContext(c *gin.Context) (workflow.Actor, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		return workflow.Actor{}, false
	}
	id, ok := userID.(uint)
	if !ok {
		return workflow.Actor{}, false
	}

	role, exists := c.Get("role")
	if !exists {
		return workflow.Actor{}, false
	}

	actor := workflow.Actor{ID: id, Role: role.(string)}
	if branchID, exists := c.Get("branchID"); exists {
		if b, ok := branchID.(uint); ok {
			actor.BranchID = &b
		}
	}
	return actor, true
}

// respondWorkflowError maps workflow errors to the reference HTTP codes:
// 409 duplicate, 422 wrong state, 403 forbidden, 404 absent, 400 input.
func respondWorkflowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, workflow.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
	case errors.Is(err, workflow.ErrDuplicateAttendance):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, workflow.ErrInvalidState):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, workflow.ErrMissingBranch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, workflow.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("Workflow error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}
}

// LogAttendance logs a visit for a member. Same-branch visits and super
// admin submissions are approved immediately; visits at another branch
// wait for a decision from the member's home branch.
func LogAttendance(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	engine := workflow.NewEngine(database.DB)
	att, err := engine.Submit(actor, req.MemberID, req.Notes, req.Metadata)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Attendance logged successfully",
		"attendance": att,
	})
}

// ApproveAttendance approves a pending record (home branch approvers only)
func ApproveAttendance(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attendance ID"})
		return
	}

	engine := workflow.NewEngine(database.DB)
	att, err := engine.Approve(actor, id)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Attendance approved successfully",
		"attendance": att,
	})
}

// RejectAttendance rejects a pending record with a reason
func RejectAttendance(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attendance ID"})
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rejection reason is required"})
		return
	}

	engine := workflow.NewEngine(database.DB)
	att, err := engine.Reject(actor, id, req.Reason)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Attendance rejected",
		"attendance": att,
	})
}

// CancelAttendance cancels a record as a self-service undo by its creator
// or a super admin
func CancelAttendance(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attendance ID"})
		return
	}

	engine := workflow.NewEngine(database.DB)
	att, err := engine.Cancel(actor, id)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Attendance cancelled",
		"attendance": att,
	})
}

// GetPendingAttendance lists records awaiting a decision, scoped to the
// actor's branch unless the actor is a super admin
func GetPendingAttendance(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	engine := workflow.NewEngine(database.DB)
	rows, err := engine.ListPending(actor)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":      len(rows),
		"attendance": rows,
	})
}

// GetAttendanceByID returns one record, branch-scoped for non-admin roles
func GetAttendanceByID(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attendance ID"})
		return
	}

	engine := workflow.NewEngine(database.DB)
	att, err := engine.Get(actor, id)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, att)
}

// GetAttendance lists records filtered by member, date and status
func GetAttendance(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	filter := workflow.ListFilter{
		Date:   c.Query("date"),
		Status: c.Query("status"),
	}
	if memberIDStr := c.Query("member_id"); memberIDStr != "" {
		memberID, err := strconv.ParseUint(memberIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
			return
		}
		filter.MemberID = uint(memberID)
	}

	engine := workflow.NewEngine(database.DB)
	rows, err := engine.List(actor, filter)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":      len(rows),
		"attendance": rows,
	})
}

func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
