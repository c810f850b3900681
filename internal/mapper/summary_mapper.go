package mapper

import (
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/entity"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/model"
)

type SummaryMapper struct{}

func NewSummaryMapper() *SummaryMapper {
	return &SummaryMapper{}
}

func (m *SummaryMapper) ToEntity(s *model.SessionSummary) *entity.SessionSummary {
	if s == nil {
		return nil
	}

	return &entity.SessionSummary{
		Id:        s.Id,
		UserId:    s.UserId,
		SessionId: s.SessionId,
		Summary:   s.Summary,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}

func (m *SummaryMapper) ToModel(s *entity.SessionSummary) *model.SessionSummary {
	if s == nil {
		return nil
	}

	return &model.SessionSummary{
		Id:        s.Id,
		UserId:    s.UserId,
		SessionId: s.SessionId,
		Summary:   s.Summary,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}
