package database

import (
	"log"

	"golang.org/x/crypto/bcrypt"
)

// RunMigrations runs all database migrations
func RunMigrations() error {
	log.Println("Running database migrations...")

	// AutoMigrate will create tables if they don't exist
	if err := DB.AutoMigrate(
		&Branch{},
		&User{},
		&Member{},
		&Attendance{},
		&AuditLog{},
	); err != nil {
		log.Printf("Migration failed: %v", err)
		return err
	}

	// One open (pending/approved) attendance per member per calendar day.
	// Partial index syntax is shared by PostgreSQL and SQLite.
	if err := DB.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_attendance_member_day_open
		 ON attendances (member_id, attendance_date)
		 WHERE status IN ('pending', 'approved') AND deleted_at IS NULL`,
	).Error; err != nil {
		log.Printf("Failed to create attendance uniqueness index: %v", err)
		return err
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultAdmin creates a default super admin if none exists
func SeedDefaultAdmin() {
	var count int64
	if err := DB.Model(&User{}).Where("role = ?", RoleSuperAdmin).Count(&count).Error; err != nil {
		log.Printf("Failed to check existing super admin: %v", err)
		return
	}

	if count > 0 {
		log.Println("Super admin user already exists.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash default admin password: %v", err)
		return
	}

	admin := User{
		Name:         "Super Admin",
		Email:        "admin@coopattend.local",
		PasswordHash: string(hash),
		Role:         RoleSuperAdmin,
		IsActive:     true,
	}

	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("Failed to create super admin: %v", err)
	} else {
		log.Println("Default super admin user created successfully.")
	}
}
