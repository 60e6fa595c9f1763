package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"metra-backend/internal/domain"
)

// PropertyRepo is the GORM-backed domain.PropertyRepository.
type PropertyRepo struct{ db *gorm.DB }

func NewPropertyRepo(db *gorm.DB) *PropertyRepo { return &PropertyRepo{db: db} }

func (r *PropertyRepo) Create(ctx context.Context, p *domain.Property) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PropertyRepo) FindByID(ctx context.Context, id uint) (*domain.Property, error) {
	var p domain.Property
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List applies the filter and returns listings newest first. Agent filters
// join through the owning user to the backing agent profile.
func (r *PropertyRepo) List(ctx context.Context, f domain.PropertyFilter) ([]domain.Property, error) {
	q := r.db.WithContext(ctx).Model(&domain.Property{})

	if f.Category != "" {
		q = q.Where("properties.category = ?", f.Category)
	}
	if f.Status != "" {
		q = q.Where("properties.status = ?", strings.ToLower(f.Status))
	}
	if f.Featured != nil {
		q = q.Where("properties.featured = ?", *f.Featured)
	}
	if f.AgentSlug != "" || f.AgentEmail != "" {
		q = q.
			Joins("JOIN users ON users.id = properties.user_id").
			Joins("JOIN agents ON agents.id = users.agent_id")
		if f.AgentSlug != "" {
			q = q.Where("agents.slug = ?", f.AgentSlug)
		}
		if f.AgentEmail != "" {
			q = q.Where("agents.email = ?", domain.NormalizeEmail(f.AgentEmail))
		}
	}
	if f.OwnerID != nil {
		q = q.Where("properties.user_id = ?", *f.OwnerID)
	}

	var properties []domain.Property
	err := q.Order("properties.created_at DESC").Find(&properties).Error
	return properties, err
}

func (r *PropertyRepo) Update(ctx context.Context, p *domain.Property) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PropertyRepo) Delete(ctx context.Context, p *domain.Property) error {
	return r.db.WithContext(ctx).Delete(p).Error
}
