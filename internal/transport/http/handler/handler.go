// Package handler orchestrates session resolution, authorization rules and
// storage for every HTTP operation, and projects stored entities into their
// public views.
package handler

import (
	"time"

	"go.uber.org/zap"

	"metra-backend/internal/core/cache"
	"metra-backend/internal/core/session"
	"metra-backend/internal/domain"
	"metra-backend/internal/media"
	"metra-backend/internal/notify"
)

// Handler carries every collaborator the endpoints need. Repositories are
// interfaces so tests can run against in-memory fakes.
type Handler struct {
	log        *zap.Logger
	agents     domain.AgentRepository
	users      domain.UserRepository
	properties domain.PropertyRepository
	sessions   *session.Store
	uploader   media.Uploader
	notifier   notify.Notifier
	cache      *cache.Cache

	// frontendBaseURL overrides request-derived URL detection when set.
	frontendBaseURL string
}

// Options bundles the Handler dependencies.
type Options struct {
	Log             *zap.Logger
	Agents          domain.AgentRepository
	Users           domain.UserRepository
	Properties      domain.PropertyRepository
	Sessions        *session.Store
	Uploader        media.Uploader
	Notifier        notify.Notifier
	Cache           *cache.Cache
	FrontendBaseURL string
}

// New wires a Handler.
func New(o Options) *Handler {
	log := o.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		log:             log,
		agents:          o.Agents,
		users:           o.Users,
		properties:      o.Properties,
		sessions:        o.Sessions,
		uploader:        o.Uploader,
		notifier:        o.Notifier,
		cache:           o.Cache,
		frontendBaseURL: o.FrontendBaseURL,
	}
}

// userView is the public projection of a user account.
type userView struct {
	ID      uint    `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
	AgentID *uint   `json:"agent_id"`
}

func newUserView(u *domain.User) userView {
	return userView{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Phone:   u.Phone,
		Company: u.Company,
		AgentID: u.AgentID,
	}
}

// propertyView is the public projection of a listing, with the stored spec
// blob decoded back into a list.
type propertyView struct {
	ID           uint     `json:"id"`
	UserID       uint     `json:"user_id"`
	Title        string   `json:"title"`
	Status       string   `json:"status"`
	Category     string   `json:"category"`
	Price        *string  `json:"price"`
	Location     *string  `json:"location"`
	Description  *string  `json:"description"`
	Tagline      *string  `json:"tagline"`
	ImageURL     *string  `json:"image_url"`
	Area         *string  `json:"area"`
	Rooms        *string  `json:"rooms"`
	ZoningStatus *string  `json:"zoning_status"`
	Floor        *string  `json:"floor"`
	BuildingAge  *string  `json:"building_age"`
	Featured     bool     `json:"featured"`
	Specs        []string `json:"specs"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

func newPropertyView(p *domain.Property) propertyView {
	return propertyView{
		ID:           p.ID,
		UserID:       p.UserID,
		Title:        p.Title,
		Status:       p.Status,
		Category:     p.Category,
		Price:        p.Price,
		Location:     p.Location,
		Description:  p.Description,
		Tagline:      p.Tagline,
		ImageURL:     p.ImageURL,
		Area:         p.Area,
		Rooms:        p.Rooms,
		ZoningStatus: p.ZoningStatus,
		Floor:        p.Floor,
		BuildingAge:  p.BuildingAge,
		Featured:     p.Featured,
		Specs:        domain.DecodeSpecs(p.Specs),
		CreatedAt:    p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
