package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/hrplane/hrplane/internal/audit/domain"
	"github.com/hrplane/hrplane/internal/tenantctx"
	"github.com/hrplane/hrplane/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Record(ctx context.Context, entry domain.Entry) error {
	log := domain.AuditLog{
		ID:        s.genID.Generate(),
		CompanyID: entry.CompanyID,
		ActorID:   entry.ActorID,
		Action:    entry.Action,
		Entity:    entry.Entity,
		EntityID:  entry.EntityID,
		Metadata:  entry.Metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, s.db, &log); err != nil {
		s.log.Error("audit record failed",
			zap.String("action", entry.Action),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResponse, error) {
	companyID, ok := tenantctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.ListResponse{}, domain.ErrInvalidCompany
	}

	logs, err := s.repo.List(ctx, s.db, companyID, filter)
	if err != nil {
		return domain.ListResponse{}, err
	}

	resp := domain.ListResponse{Logs: logs}
	limit := filter.Limit()
	if len(logs) > limit {
		resp.Logs = logs[:limit]
		last := resp.Logs[len(resp.Logs)-1]
		token, err := pagination.EncodeCursor(pagination.Cursor{ID: last.ID.String()})
		if err != nil {
			return domain.ListResponse{}, err
		}
		resp.PageInfo = pagination.PageInfo{NextPageToken: token, HasMore: true}
	}
	return resp, nil
}
