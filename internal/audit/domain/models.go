// Package domain contains the audit trail model.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// AuditLog is an append-only record of a state-changing action. Rows are
// never updated or deleted.
type AuditLog struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID      `gorm:"not null;index" json:"company_id"`
	ActorID   snowflake.ID      `gorm:"" json:"actor_id,omitempty"`
	Action    string            `gorm:"type:text;not null;index" json:"action"`
	Entity    string            `gorm:"type:text;not null" json:"entity"`
	EntityID  snowflake.ID      `gorm:"" json:"entity_id,omitempty"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

// TableName sets the database table name.
func (AuditLog) TableName() string { return "audit_logs" }
