package mysql

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// --- SQLite-friendly schema only for tests (no ENUM, no JSON) ---

type applicationSQLite struct {
	ID            uint64    `gorm:"primaryKey;column:id"`
	DocumentID    string    `gorm:"size:32;column:document_id;uniqueIndex"`
	ApplicationID string    `gorm:"size:32;column:application_id"`
	UserID        string    `gorm:"size:64;column:user_id"`
	UserEmail     string    `gorm:"column:user_email"`
	Status        string    `gorm:"type:text;column:status;default:pending"` // ← no enum
	SchemaVersion int       `gorm:"column:schema_version;default:3"`
	Payload       string    `gorm:"type:text;column:payload"`
	Version       uint64    `gorm:"column:version;default:1"`
	SubmittedAt   time.Time `gorm:"column:submitted_at"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (applicationSQLite) TableName() string { return "incorporation_applications" }

type statusChangeSQLite struct {
	ID         uint64    `gorm:"primaryKey;column:id"`
	DocumentID string    `gorm:"size:32;column:document_id"`
	FromStatus string    `gorm:"column:from_status"`
	ToStatus   string    `gorm:"column:to_status"`
	Version    uint64    `gorm:"column:version"`
	ChangedBy  string    `gorm:"column:changed_by"`
	ChangedAt  time.Time `gorm:"column:changed_at"`
}

func (statusChangeSQLite) TableName() string { return "application_status_changes" }

type userSQLite struct {
	ID           uint64    `gorm:"primaryKey;column:id"`
	UID          string    `gorm:"size:36;column:uid;uniqueIndex"`
	Name         string    `gorm:"column:name"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	Phone        string    `gorm:"column:phone"`
	Company      string    `gorm:"column:company"`
	Role         string    `gorm:"type:text;column:role;default:user"`
	PasswordHash string    `gorm:"column:password_hash"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (userSQLite) TableName() string { return "users" }

// openTestDB creates an in-memory sqlite DB and migrates ONLY the sqlite-safe schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// IMPORTANT: migrate the sqlite-safe models, NOT the domain models.
	if err := db.AutoMigrate(&applicationSQLite{}, &statusChangeSQLite{}, &userSQLite{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
