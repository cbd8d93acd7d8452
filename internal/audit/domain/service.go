package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/hrplane/hrplane/pkg/db/pagination"
	"gorm.io/datatypes"
)

type Entry struct {
	CompanyID snowflake.ID
	ActorID   snowflake.ID
	Action    string
	Entity    string
	EntityID  snowflake.ID
	Metadata  datatypes.JSONMap
}

type ListFilter struct {
	Action string `form:"action"`
	Entity string `form:"entity"`
	pagination.Pagination
}

type ListResponse struct {
	Logs     []AuditLog          `json:"logs"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

// Service records and queries the audit trail. Record failures are logged
// by callers but never abort the action being audited.
type Service interface {
	Record(ctx context.Context, entry Entry) error
	List(ctx context.Context, filter ListFilter) (ListResponse, error)
}
