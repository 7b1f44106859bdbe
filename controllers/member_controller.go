package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"coopattend/database"
)

// MemberRequest contains the data for member creation and update
type MemberRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	MemberNo  string `json:"member_no" binding:"required"`
	BranchID  uint   `json:"branch_id" binding:"required"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Address   string `json:"address"`
}

// CreateMember registers a new cooperative member
func CreateMember(c *gin.Context) {
	var req MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	var branch database.Branch
	if err := database.DB.First(&branch, req.BranchID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Branch not found"})
		return
	}

	var count int64
	database.DB.Model(&database.Member{}).Where("member_no = ?", req.MemberNo).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Member number already registered"})
		return
	}

	member := database.Member{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		MemberNo:  req.MemberNo,
		BranchID:  req.BranchID,
		Status:    MemberStatusActive,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
	}

	if err := database.DB.Create(&member).Error; err != nil {
		log.Printf("Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating member"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Member created successfully",
		"member":  member,
	})
}

// GetMembers lists members. Non-admin users only see their own branch.
func GetMembers(c *gin.Context) {
	role, _ := c.Get("role")

	query := database.DB.Preload("Branch").Order("last_name ASC")

	if role != RoleSuperAdmin {
		branchID, exists := c.Get("branchID")
		if !exists {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Branch assignment missing"})
			return
		}
		query = query.Where("branch_id = ?", branchID)
	}

	if search := c.Query("q"); search != "" {
		like := "%" + search + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ? OR member_no LIKE ?", like, like, like)
	}

	var members []database.Member
	if err := query.Find(&members).Error; err != nil {
		log.Printf("Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, members)
}

// GetMemberByID returns one member
func GetMemberByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}

	var member database.Member
	if err := database.DB.Preload("Branch").First(&member, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		log.Printf("Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, member)
}

// UpdateMember updates member profile data. Changing the home branch only
// affects future attendance; existing records keep the origin branch
// captured at creation time.
func UpdateMember(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}

	var member database.Member
	if err := database.DB.First(&member, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		log.Printf("Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	var req MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	if req.BranchID != member.BranchID {
		var branch database.Branch
		if err := database.DB.First(&branch, req.BranchID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Branch not found"})
			return
		}
	}

	member.FirstName = req.FirstName
	member.LastName = req.LastName
	member.MemberNo = req.MemberNo
	member.BranchID = req.BranchID
	member.Phone = req.Phone
	member.Email = req.Email
	member.Address = req.Address

	if err := database.DB.Save(&member).Error; err != nil {
		log.Printf("Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member updated successfully",
		"member":  member,
	})
}

// ToggleMemberStatus activates or deactivates a member
func ToggleMemberStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required,oneof=active inactive"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	result := database.DB.Model(&database.Member{}).
		Where("id = ?", id).
		Update("status", input.Status)
	if result.Error != nil {
		log.Printf("Database error: %v", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member status"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member status updated"})
}
