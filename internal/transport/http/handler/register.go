package handler

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"metra-backend/internal/domain"
	"metra-backend/internal/transport/http/response"
	"metra-backend/pkg/utils"
)

const defaultFrontendBaseURL = "https://metra-ai-monorepo.vercel.app"

type agentRegisteredPayload struct {
	Message string         `json:"message"`
	Agent   map[string]any `json:"agent"`
}

// RegisterAgent handles the public multipart onboarding form, served on
// both /api/register and /api/agent/register. It uploads the optional
// profile photo, generates and de-duplicates the slug, persists the agent
// and fires the best-effort webhook notification.
func (h *Handler) RegisterAgent(c *gin.Context) {
	ctx := c.Request.Context()

	name := c.PostForm("name")
	email := c.PostForm("email")
	phone := c.PostForm("phone")
	company := c.PostForm("company")
	experience := c.PostForm("experience")
	city := c.PostForm("city")
	if name == "" || email == "" {
		response.BadRequest(c, "name ve email alanları zorunludur.")
		return
	}

	happyCustomers, err1 := strconv.Atoi(c.PostForm("happy_customers"))
	successfulSales, err2 := strconv.Atoi(c.PostForm("successful_sales"))
	if err1 != nil || err2 != nil {
		response.BadRequest(c, "happy_customers ve successful_sales sayısal olmalıdır.")
		return
	}

	// Photo upload is fatal when the media host rejects it, but a missing
	// configuration just skips the upload for local runs.
	var photoURL *string
	if file, header, err := c.Request.FormFile("profilePhoto"); err == nil {
		uploaded, uploadErr := h.uploadProfilePhoto(ctx, file, header)
		if uploadErr != nil {
			response.Internal(c, fmt.Sprintf("Fotoğraf yüklenemedi: %v", uploadErr))
			return
		}
		photoURL = uploaded
	}

	slug := strings.TrimSpace(c.PostForm("slug"))
	if slug == "" {
		generated, err := h.uniqueSlug(ctx, utils.Slugify(name))
		if err != nil {
			response.Internal(c, "Kayıt işlemi başarısız oldu.")
			return
		}
		slug = generated
	}

	normalizedEmail := domain.NormalizeEmail(email)
	if existing, err := h.agents.FindByEmail(ctx, normalizedEmail); err != nil {
		response.Internal(c, "Kayıt işlemi başarısız oldu.")
		return
	} else if existing != nil {
		response.BadRequest(c, "Bu e-posta adresiyle daha önce kayıt yapılmış. Lütfen farklı bir e-posta deneyin.")
		return
	}
	if existing, err := h.agents.FindBySlug(ctx, slug); err != nil {
		response.Internal(c, "Kayıt işlemi başarısız oldu.")
		return
	} else if existing != nil {
		response.BadRequest(c, "Bu isimle daha önce kayıt yapılmış. Lütfen farklı bir isim/slug seçin.")
		return
	}

	instagram := c.PostForm("instagram_url")
	facebook := c.PostForm("facebook_url")
	agent := domain.Agent{
		Name:            name,
		Email:           normalizedEmail,
		Phone:           phone,
		Company:         company,
		Experience:      experience,
		ProfilePhotoURL: photoURL,
		City:            city,
		HappyCustomers:  happyCustomers,
		SuccessfulSales: successfulSales,
		InstagramURL:    &instagram,
		FacebookURL:     &facebook,
		Slug:            slug,
	}
	if err := h.agents.Create(ctx, &agent); err != nil {
		response.Internal(c, "Kayıt işlemi başarısız oldu.")
		return
	}

	baseURL := h.resolveFrontendBaseURL(c)
	landingURL := buildLandingPageURL(baseURL, agent.Slug)
	agentURL := buildAgentSubdomainURL(baseURL, agent.Slug)
	if agentURL == "" {
		agentURL = landingURL
	}

	h.notifyAgentRegistered(ctx, &agent, landingURL, agentURL)

	response.OK(c, gin.H{
		"message":           "Agent registered successfully",
		"agent_id":          agent.ID,
		"name":              agent.Name,
		"email":             agent.Email,
		"profile_photo_url": agent.ProfilePhotoURL,
		"slug":              agent.Slug,
		"landing_url":       landingURL,
		"agent_url":         agentURL,
	})
}

func (h *Handler) uploadProfilePhoto(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*string, error) {
	defer file.Close()
	if h.uploader == nil || !h.uploader.Configured() {
		h.log.Info("media host not configured; skipping profile photo upload")
		return nil, nil
	}
	uploaded, err := h.uploader.Upload(ctx, file, header.Filename)
	if err != nil {
		return nil, err
	}
	return &uploaded, nil
}

// uniqueSlug suffixes -1, -2, … until the generated slug is free.
func (h *Handler) uniqueSlug(ctx context.Context, base string) (string, error) {
	existing, err := h.agents.FindBySlug(ctx, base)
	if err != nil {
		return "", err
	}
	if existing == nil {
		return base, nil
	}
	for count := 1; ; count++ {
		candidate := fmt.Sprintf("%s-%d", base, count)
		existing, err := h.agents.FindBySlug(ctx, candidate)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
	}
}

func (h *Handler) notifyAgentRegistered(ctx context.Context, agent *domain.Agent, landingURL, agentURL string) {
	if h.notifier == nil || !h.notifier.Enabled() {
		return
	}
	payload := agentRegisteredPayload{
		Message: "Yeni emlakçı kaydı!",
		Agent: map[string]any{
			"id":                agent.ID,
			"name":              agent.Name,
			"email":             agent.Email,
			"phone":             agent.Phone,
			"company":           agent.Company,
			"experience":        agent.Experience,
			"city":              agent.City,
			"happy_customers":   agent.HappyCustomers,
			"successful_sales":  agent.SuccessfulSales,
			"instagram_url":     agent.InstagramURL,
			"facebook_url":      agent.FacebookURL,
			"profile_photo_url": agent.ProfilePhotoURL,
			"slug":              agent.Slug,
			"landing_url":       landingURL,
			"agent_url":         agentURL,
		},
	}
	if err := h.notifier.Notify(ctx, payload); err != nil {
		// Best effort: the caller's registration already succeeded.
		h.log.Warn("agent registration webhook failed", zap.Error(err), zap.String("slug", agent.Slug))
	}
}

// resolveFrontendBaseURL picks the frontend origin to build shareable URLs
// against: config override, then Origin, then Referer, then the Host
// header, then a fixed default.
func (h *Handler) resolveFrontendBaseURL(c *gin.Context) string {
	if h.frontendBaseURL != "" {
		return strings.TrimRight(h.frontendBaseURL, "/")
	}
	for _, header := range []string{"Origin", "Referer"} {
		if base := extractBaseURL(c.GetHeader(header)); base != "" {
			return base
		}
	}
	if host := c.Request.Host; host != "" {
		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
		return scheme + "://" + host
	}
	return defaultFrontendBaseURL
}

func extractBaseURL(headerValue string) string {
	if headerValue == "" {
		return ""
	}
	parsed, err := url.Parse(headerValue)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	return strings.TrimRight(parsed.Scheme+"://"+parsed.Host, "/")
}

func buildLandingPageURL(baseURL, slug string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		return "/landing/main.html?agent=" + slug
	}
	return base + "/landing/main.html?agent=" + slug
}

// buildAgentSubdomainURL derives https://{slug}.example.com when the
// frontend runs on a custom domain with wildcard subdomains. Localhost and
// shared PaaS hosts get no subdomain.
func buildAgentSubdomainURL(baseURL, slug string) string {
	if baseURL == "" || slug == "" {
		return ""
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	scheme := parsed.Scheme
	if scheme == "" {
		scheme = "https"
	}

	host, port, _ := strings.Cut(parsed.Host, ":")
	host = strings.TrimPrefix(host, "www.")
	if host == "" || strings.HasPrefix(host, "localhost") || strings.HasPrefix(host, "127.0.0.1") || strings.HasSuffix(host, ".vercel.app") {
		return ""
	}

	netloc := slug + "." + host
	if port != "" {
		netloc += ":" + port
	}
	return scheme + "://" + netloc
}
