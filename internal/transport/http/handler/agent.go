package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"metra-backend/internal/core/cache"
	"metra-backend/internal/domain"
	"metra-backend/internal/transport/http/response"
)

// Agent mutations are deliberately left without a session check: the
// current public surface allows any caller to update or delete any agent by
// slug. This is inconsistent with the property ownership model and is
// tracked as a likely oversight; see DESIGN.md before relying on it.

type createAgentRequest struct {
	Name            string  `json:"name" binding:"required"`
	Email           string  `json:"email" binding:"required,email"`
	Phone           string  `json:"phone"`
	Company         string  `json:"company"`
	Experience      string  `json:"experience"`
	ProfilePhotoURL *string `json:"profile_photo_url"`
	City            string  `json:"city"`
	HappyCustomers  int     `json:"happy_customers"`
	SuccessfulSales int     `json:"successful_sales"`
	InstagramURL    *string `json:"instagram_url"`
	FacebookURL     *string `json:"facebook_url"`
	Slug            string  `json:"slug" binding:"required"`
	IsPremium       bool    `json:"is_premium"`
}

// CreateAgent is the direct JSON creation endpoint.
func (h *Handler) CreateAgent(c *gin.Context) {
	var req createAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Geçersiz danışman isteği.")
		return
	}

	agent := domain.Agent{
		Name:            req.Name,
		Email:           domain.NormalizeEmail(req.Email),
		Phone:           req.Phone,
		Company:         req.Company,
		Experience:      req.Experience,
		ProfilePhotoURL: req.ProfilePhotoURL,
		City:            req.City,
		HappyCustomers:  req.HappyCustomers,
		SuccessfulSales: req.SuccessfulSales,
		InstagramURL:    req.InstagramURL,
		FacebookURL:     req.FacebookURL,
		Slug:            req.Slug,
		IsPremium:       req.IsPremium,
	}
	if err := h.agents.Create(c.Request.Context(), &agent); err != nil {
		response.BadRequest(c, "Danışman kaydedilemedi.")
		return
	}
	response.OK(c, agent)
}

// ListAgents returns a page of agent profiles.
func (h *Handler) ListAgents(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	agents, err := h.agents.List(c.Request.Context(), skip, limit)
	if err != nil {
		response.Internal(c, "Danışmanlar listelenemedi.")
		return
	}
	response.OK(c, agents)
}

// GetAgentBySlug serves both /agents/:slug and /agents/slug/:slug. Lookups
// go through the read-through cache when one is configured.
func (h *Handler) GetAgentBySlug(c *gin.Context) {
	slug := c.Param("slug")

	agent, err := cache.GetOrLoadJSON(h.cache, c.Request.Context(), agentCacheKey(slug),
		func(ctx context.Context) (*domain.Agent, error) {
			return h.agents.FindBySlug(ctx, slug)
		})
	if err != nil {
		response.Internal(c, "Danışman sorgulanamadı.")
		return
	}
	if agent == nil {
		response.NotFound(c, "Danışman bulunamadı.")
		return
	}
	response.OK(c, agent)
}

// UpdateAgent applies a partial patch to the agent found by slug.
func (h *Handler) UpdateAgent(c *gin.Context) {
	slug := c.Param("slug")
	agent, err := h.agents.FindBySlug(c.Request.Context(), slug)
	if err != nil {
		response.Internal(c, "Danışman sorgulanamadı.")
		return
	}
	if agent == nil {
		response.NotFound(c, "Danışman bulunamadı.")
		return
	}

	var patch domain.AgentUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, "Geçersiz güncelleme isteği.")
		return
	}

	patch.Apply(agent)
	if err := h.agents.Update(c.Request.Context(), agent); err != nil {
		response.Internal(c, "Danışman güncellenemedi.")
		return
	}
	h.cache.Invalidate(c.Request.Context(), agentCacheKey(slug))
	response.OK(c, agent)
}

// DeleteAgent removes the agent found by slug.
func (h *Handler) DeleteAgent(c *gin.Context) {
	slug := c.Param("slug")
	agent, err := h.agents.FindBySlug(c.Request.Context(), slug)
	if err != nil {
		response.Internal(c, "Danışman sorgulanamadı.")
		return
	}
	if agent == nil {
		response.NotFound(c, "Danışman bulunamadı.")
		return
	}

	if err := h.agents.Delete(c.Request.Context(), agent); err != nil {
		response.Internal(c, "Danışman silinemedi.")
		return
	}
	h.cache.Invalidate(c.Request.Context(), agentCacheKey(slug))
	response.Message(c, "Danışman silindi.")
}

func agentCacheKey(slug string) string { return "agent:slug:" + slug }
