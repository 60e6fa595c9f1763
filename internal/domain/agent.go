package domain

import "context"

// Agent is a published real-estate professional profile. It exists
// independently of any login account; the premium flag gates whether a User
// may ever be registered against it.
type Agent struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"size:191;index" json:"name"`
	Email           string `gorm:"uniqueIndex;size:191" json:"email"`
	Phone           string `gorm:"size:32" json:"phone"`
	Company         string `gorm:"size:191" json:"company"`
	Experience      string `gorm:"size:64" json:"experience"`
	ProfilePhotoURL *string `gorm:"size:512" json:"profile_photo_url"`
	City            string `gorm:"size:64" json:"city"`
	HappyCustomers  int    `json:"happy_customers"`
	SuccessfulSales int    `json:"successful_sales"`
	InstagramURL    *string `gorm:"size:512" json:"instagram_url"`
	FacebookURL     *string `gorm:"size:512" json:"facebook_url"`
	Slug            string `gorm:"uniqueIndex;size:191" json:"slug"`
	IsPremium       bool   `gorm:"not null;default:false" json:"is_premium"`
}

func (Agent) TableName() string { return "agents" }

// AgentUpdate is a partial patch for an agent. Nil fields are left
// unchanged; a set-but-empty field clears the column.
type AgentUpdate struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	Company         *string `json:"company"`
	Experience      *string `json:"experience"`
	ProfilePhotoURL *string `json:"profile_photo_url"`
	City            *string `json:"city"`
	HappyCustomers  *int    `json:"happy_customers"`
	SuccessfulSales *int    `json:"successful_sales"`
	InstagramURL    *string `json:"instagram_url"`
	FacebookURL     *string `json:"facebook_url"`
	IsPremium       *bool   `json:"is_premium"`
}

// Apply copies the set fields of the patch onto the agent.
func (u AgentUpdate) Apply(a *Agent) {
	if u.Name != nil {
		a.Name = *u.Name
	}
	if u.Email != nil {
		a.Email = normalizeEmail(*u.Email)
	}
	if u.Phone != nil {
		a.Phone = *u.Phone
	}
	if u.Company != nil {
		a.Company = *u.Company
	}
	if u.Experience != nil {
		a.Experience = *u.Experience
	}
	if u.ProfilePhotoURL != nil {
		a.ProfilePhotoURL = u.ProfilePhotoURL
	}
	if u.City != nil {
		a.City = *u.City
	}
	if u.HappyCustomers != nil {
		a.HappyCustomers = *u.HappyCustomers
	}
	if u.SuccessfulSales != nil {
		a.SuccessfulSales = *u.SuccessfulSales
	}
	if u.InstagramURL != nil {
		a.InstagramURL = u.InstagramURL
	}
	if u.FacebookURL != nil {
		a.FacebookURL = u.FacebookURL
	}
	if u.IsPremium != nil {
		a.IsPremium = *u.IsPremium
	}
}

// AgentRepository is the storage contract for agents.
type AgentRepository interface {
	Create(ctx context.Context, a *Agent) error
	List(ctx context.Context, offset, limit int) ([]Agent, error)
	FindByID(ctx context.Context, id uint) (*Agent, error)
	FindBySlug(ctx context.Context, slug string) (*Agent, error)
	FindByEmail(ctx context.Context, email string) (*Agent, error)
	Update(ctx context.Context, a *Agent) error
	Delete(ctx context.Context, a *Agent) error
}
