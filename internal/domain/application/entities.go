package application

import (
	"time"

	"gorm.io/datatypes"
)

// Application is one incorporation request as persisted. Payload holds the raw
// form in whichever schema produced it; use Canonicalize to read it.
type Application struct {
	ID            uint64         `gorm:"primaryKey;column:id" json:"-"`
	DocumentID    string         `gorm:"column:document_id;size:32;uniqueIndex:ux_applications_document_id" json:"document_id"`
	ApplicationID string         `gorm:"column:application_id;size:32;index:idx_applications_application_id" json:"application_id"`
	UserID        string         `gorm:"column:user_id;size:64;index:idx_applications_user" json:"user_id,omitempty"`
	UserEmail     string         `gorm:"column:user_email;size:255" json:"user_email,omitempty"`
	Status        Status         `gorm:"column:status;type:enum('pending','in-progress','approved','rejected','completed');default:'pending'" json:"status"`
	SchemaVersion int            `gorm:"column:schema_version;not null;default:3" json:"schema_version"`
	Payload       datatypes.JSON `gorm:"column:payload;type:json" json:"payload"`
	Version       uint64         `gorm:"column:version;not null;default:1" json:"version"`
	SubmittedAt   time.Time      `gorm:"column:submitted_at;index:idx_applications_submitted" json:"submitted_at"`
	CreatedAt     time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at" json:"updated_at"`
}

func (Application) TableName() string { return "incorporation_applications" }

// StatusChange records one status mutation. Rows are written in the same
// transaction as the mutation itself.
type StatusChange struct {
	ID         uint64    `gorm:"primaryKey;column:id" json:"-"`
	DocumentID string    `gorm:"column:document_id;size:32;index:idx_status_changes_document" json:"document_id"`
	FromStatus Status    `gorm:"column:from_status;size:16" json:"from_status"`
	ToStatus   Status    `gorm:"column:to_status;size:16" json:"to_status"`
	Version    uint64    `gorm:"column:version" json:"version"`
	ChangedBy  string    `gorm:"column:changed_by;size:64" json:"changed_by"`
	ChangedAt  time.Time `gorm:"column:changed_at" json:"changed_at"`
}

func (StatusChange) TableName() string { return "application_status_changes" }
