package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"metra-backend/internal/core/auth"
	"metra-backend/internal/domain"
	"metra-backend/internal/transport/http/middleware"
	"metra-backend/internal/transport/http/response"
)

const msgInvalidCategory = "Kategori arsa, isyeri veya daire olmalıdır."

type createPropertyRequest struct {
	Title        string   `json:"title" binding:"required"`
	Status       string   `json:"status" binding:"required"`
	Category     string   `json:"category" binding:"required"`
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
}

// CreateProperty creates a listing owned by the session user. Only
// premium-backed accounts may list.
func (h *Handler) CreateProperty(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if !auth.CanCreateProperty(user) {
		response.Forbidden(c, "Premium yetkiniz olmadan ilan ekleyemezsiniz.")
		return
	}

	var req createPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Geçersiz ilan isteği.")
		return
	}
	category, err := domain.NormalizeCategory(req.Category)
	if err != nil {
		response.BadRequest(c, msgInvalidCategory)
		return
	}

	property := domain.Property{
		UserID:       user.ID,
		Title:        req.Title,
		Status:       strings.ToLower(req.Status),
		Category:     category,
		Price:        req.Price,
		Location:     req.Location,
		Description:  req.Description,
		Tagline:      req.Tagline,
		ImageURL:     req.ImageURL,
		Area:         req.Area,
		Rooms:        req.Rooms,
		ZoningStatus: req.ZoningStatus,
		Floor:        req.Floor,
		BuildingAge:  req.BuildingAge,
		Featured:     req.Featured,
		Specs:        domain.EncodeSpecs(req.Specs),
	}
	if err := h.properties.Create(c.Request.Context(), &property); err != nil {
		response.Internal(c, "İlan kaydedilemedi.")
		return
	}

	response.OK(c, newPropertyView(&property))
}

// ListProperties is the public read path with filters. Category values are
// validated before storage is touched; only_mine demands a live session.
func (h *Handler) ListProperties(c *gin.Context) {
	var filter domain.PropertyFilter

	if category := c.Query("category"); category != "" {
		normalized, err := domain.NormalizeCategory(category)
		if err != nil {
			response.BadRequest(c, msgInvalidCategory)
			return
		}
		filter.Category = normalized
	}
	filter.Status = c.Query("status")
	if raw := c.Query("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(c, "featured alanı true veya false olmalıdır.")
			return
		}
		filter.Featured = &featured
	}
	filter.AgentSlug = c.Query("agent_slug")
	filter.AgentEmail = c.Query("agent_email")

	if raw := c.Query("only_mine"); raw != "" {
		onlyMine, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(c, "only_mine alanı true veya false olmalıdır.")
			return
		}
		if onlyMine {
			user := middleware.CurrentUser(c)
			if user == nil {
				response.Unauthorized(c, "Kendi portföyünüzü görmek için giriş yapmalısınız.")
				return
			}
			filter.OwnerID = &user.ID
		}
	}

	properties, err := h.properties.List(c.Request.Context(), filter)
	if err != nil {
		response.Internal(c, "İlanlar listelenemedi.")
		return
	}

	views := make([]propertyView, 0, len(properties))
	for i := range properties {
		views = append(views, newPropertyView(&properties[i]))
	}
	response.OK(c, views)
}

// GetProperty is the public single-listing fetch.
func (h *Handler) GetProperty(c *gin.Context) {
	property, ok := h.propertyByParam(c)
	if !ok {
		return
	}
	response.OK(c, newPropertyView(property))
}

// UpdateProperty applies a partial patch to an owned listing.
func (h *Handler) UpdateProperty(c *gin.Context) {
	property, ok := h.propertyByParam(c)
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	if !auth.CanMutateProperty(user, property) {
		response.Forbidden(c, "Bu ilan üzerinde değişiklik yapma yetkiniz yok.")
		return
	}

	var patch domain.PropertyUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, "Geçersiz güncelleme isteği.")
		return
	}
	if patch.Category != nil {
		normalized, err := domain.NormalizeCategory(*patch.Category)
		if err != nil {
			response.BadRequest(c, msgInvalidCategory)
			return
		}
		patch.Category = &normalized
	}

	patch.Apply(property)
	if err := h.properties.Update(c.Request.Context(), property); err != nil {
		response.Internal(c, "İlan güncellenemedi.")
		return
	}
	response.OK(c, newPropertyView(property))
}

// DeleteProperty removes an owned listing.
func (h *Handler) DeleteProperty(c *gin.Context) {
	property, ok := h.propertyByParam(c)
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	if !auth.CanMutateProperty(user, property) {
		response.Forbidden(c, "Bu ilanı silme yetkiniz yok.")
		return
	}

	if err := h.properties.Delete(c.Request.Context(), property); err != nil {
		response.Internal(c, "İlan silinemedi.")
		return
	}
	response.Message(c, "İlan silindi.")
}

// propertyByParam parses the :id parameter and loads the listing, writing
// the error response itself when either step fails.
func (h *Handler) propertyByParam(c *gin.Context) (*domain.Property, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFound(c, "Mülk bulunamadı.")
		return nil, false
	}
	property, err := h.properties.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		response.Internal(c, "Mülk sorgulanamadı.")
		return nil, false
	}
	if property == nil {
		response.NotFound(c, "Mülk bulunamadı.")
		return nil, false
	}
	return property, true
}
