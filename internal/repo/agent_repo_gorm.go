package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"metra-backend/internal/domain"
)

// AgentRepo is the GORM-backed domain.AgentRepository.
type AgentRepo struct{ db *gorm.DB }

func NewAgentRepo(db *gorm.DB) *AgentRepo { return &AgentRepo{db: db} }

func (r *AgentRepo) Create(ctx context.Context, a *domain.Agent) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AgentRepo) List(ctx context.Context, offset, limit int) ([]domain.Agent, error) {
	if limit <= 0 {
		limit = 100
	}
	var agents []domain.Agent
	err := r.db.WithContext(ctx).Offset(offset).Limit(limit).Find(&agents).Error
	return agents, err
}

func (r *AgentRepo) FindByID(ctx context.Context, id uint) (*domain.Agent, error) {
	var a domain.Agent
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AgentRepo) FindBySlug(ctx context.Context, slug string) (*domain.Agent, error) {
	var a domain.Agent
	err := r.db.WithContext(ctx).First(&a, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AgentRepo) FindByEmail(ctx context.Context, email string) (*domain.Agent, error) {
	var a domain.Agent
	err := r.db.WithContext(ctx).First(&a, "email = ?", domain.NormalizeEmail(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AgentRepo) Update(ctx context.Context, a *domain.Agent) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *AgentRepo) Delete(ctx context.Context, a *domain.Agent) error {
	return r.db.WithContext(ctx).Delete(a).Error
}
