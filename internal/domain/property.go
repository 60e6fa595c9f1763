package domain

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// ErrInvalidCategory signals a category outside the closed set.
var ErrInvalidCategory = errors.New("property: invalid category")

// Allowed property categories. The set is closed: land, commercial, flat.
const (
	CategoryArsa   = "arsa"
	CategoryIsyeri = "isyeri"
	CategoryDaire  = "daire"
)

// Property is a listing owned by exactly one user. Specs is the raw encoded
// form stored in the database; use DecodeSpecs for the list view.
type Property struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index;not null" json:"user_id"`
	Title        string    `gorm:"size:191;not null" json:"title"`
	Status       string    `gorm:"size:64;not null" json:"status"`
	Category     string    `gorm:"size:32;not null" json:"category"`
	Price        *string   `gorm:"size:64" json:"price"`
	Location     *string   `gorm:"size:191" json:"location"`
	Description  *string   `gorm:"type:text" json:"description"`
	Tagline      *string   `gorm:"size:191" json:"tagline"`
	ImageURL     *string   `gorm:"size:512" json:"image_url"`
	Area         *string   `gorm:"size:64" json:"area"`
	Rooms        *string   `gorm:"size:64" json:"rooms"`
	ZoningStatus *string   `gorm:"size:64" json:"zoning_status"`
	Floor        *string   `gorm:"size:64" json:"floor"`
	BuildingAge  *string   `gorm:"size:64" json:"building_age"`
	Specs        *string   `gorm:"type:text" json:"-"`
	Featured     bool      `gorm:"not null;default:false" json:"featured"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Property) TableName() string { return "properties" }

// NormalizeCategory lowercases and validates a category against the closed
// set.
func NormalizeCategory(category string) (string, error) {
	switch c := strings.ToLower(strings.TrimSpace(category)); c {
	case CategoryArsa, CategoryIsyeri, CategoryDaire:
		return c, nil
	default:
		return "", ErrInvalidCategory
	}
}

// EncodeSpecs serializes a spec list for storage. Elements are trimmed and
// empties dropped; an effectively empty list encodes to nil.
func EncodeSpecs(specs []string) *string {
	cleaned := make([]string, 0, len(specs))
	for _, item := range specs {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return nil
	}
	raw, err := json.Marshal(cleaned)
	if err != nil {
		return nil
	}
	encoded := string(raw)
	return &encoded
}

// DecodeSpecs parses the stored spec blob back into a list. Malformed or
// non-list storage decodes to an empty list, never an error.
func DecodeSpecs(raw *string) []string {
	if raw == nil || *raw == "" {
		return []string{}
	}
	var specs []string
	if err := json.Unmarshal([]byte(*raw), &specs); err != nil {
		return []string{}
	}
	if specs == nil {
		return []string{}
	}
	return specs
}

// PropertyUpdate is a partial patch for a listing. Nil means leave
// unchanged; Specs set to an empty slice clears the stored blob.
type PropertyUpdate struct {
	Title        *string   `json:"title"`
	Status       *string   `json:"status"`
	Category     *string   `json:"category"`
	Price        *string   `json:"price"`
	Location     *string   `json:"location"`
	Description  *string   `json:"description"`
	Tagline      *string   `json:"tagline"`
	ImageURL     *string   `json:"image_url"`
	Area         *string   `json:"area"`
	Rooms        *string   `json:"rooms"`
	ZoningStatus *string   `json:"zoning_status"`
	Floor        *string   `json:"floor"`
	BuildingAge  *string   `json:"building_age"`
	Featured     *bool     `json:"featured"`
	Specs        *[]string `json:"specs"`
}

// Apply copies the set fields of the patch onto the property. Category must
// already be validated by the caller; status is case-normalized here.
func (u PropertyUpdate) Apply(p *Property) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Status != nil {
		p.Status = strings.ToLower(*u.Status)
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Price != nil {
		p.Price = u.Price
	}
	if u.Location != nil {
		p.Location = u.Location
	}
	if u.Description != nil {
		p.Description = u.Description
	}
	if u.Tagline != nil {
		p.Tagline = u.Tagline
	}
	if u.ImageURL != nil {
		p.ImageURL = u.ImageURL
	}
	if u.Area != nil {
		p.Area = u.Area
	}
	if u.Rooms != nil {
		p.Rooms = u.Rooms
	}
	if u.ZoningStatus != nil {
		p.ZoningStatus = u.ZoningStatus
	}
	if u.Floor != nil {
		p.Floor = u.Floor
	}
	if u.BuildingAge != nil {
		p.BuildingAge = u.BuildingAge
	}
	if u.Featured != nil {
		p.Featured = *u.Featured
	}
	if u.Specs != nil {
		p.Specs = EncodeSpecs(*u.Specs)
	}
}

// PropertyFilter narrows a listing query. Zero values mean "no constraint";
// OwnerID is set only for authenticated only-mine listings.
type PropertyFilter struct {
	Category   string
	Status     string
	Featured   *bool
	AgentSlug  string
	AgentEmail string
	OwnerID    *uint
}

// PropertyRepository is the storage contract for listings. List always
// returns newest first.
type PropertyRepository interface {
	Create(ctx context.Context, p *Property) error
	FindByID(ctx context.Context, id uint) (*Property, error)
	List(ctx context.Context, f PropertyFilter) ([]Property, error)
	Update(ctx context.Context, p *Property) error
	Delete(ctx context.Context, p *Property) error
}
