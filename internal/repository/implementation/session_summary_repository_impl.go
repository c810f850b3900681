package implementation

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/entity"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/mapper"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/model"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/repository/contract"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/repository/specification"
)

type SessionSummaryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SummaryMapper
}

func NewSessionSummaryRepository(db *gorm.DB) contract.SessionSummaryRepository {
	return &SessionSummaryRepositoryImpl{
		db:     db,
		mapper: mapper.NewSummaryMapper(),
	}
}

func (r *SessionSummaryRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SessionSummaryRepositoryImpl) Upsert(ctx context.Context, summary *entity.SessionSummary) error {
	m := r.mapper.ToModel(summary)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"summary", "created_at", "expires_at"}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*summary = *r.mapper.ToEntity(m)
	return nil
}

func (r *SessionSummaryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SessionSummary, error) {
	var models []*model.SessionSummary
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.SessionSummary, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *SessionSummaryRepositoryImpl) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	result := specification.ExpiresBefore{Cutoff: cutoff}.
		Apply(r.db.WithContext(ctx)).
		Delete(&model.SessionSummary{})
	return result.RowsAffected, result.Error
}
