package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"metra-backend/internal/core/auth"
	"metra-backend/internal/domain"
	"metra-backend/internal/transport/http/middleware"
	"metra-backend/internal/transport/http/response"
	"metra-backend/pkg/utils"
)

type registerUserRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required"`
	Phone    *string `json:"phone"`
	Company  *string `json:"company"`
}

// RegisterUser creates a login account. Accounts exist only for premium
// agents: the registration email must match an agent profile whose premium
// flag is set, and the agent link is fixed here for good.
func (h *Handler) RegisterUser(c *gin.Context) {
	var req registerUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Geçersiz kayıt isteği.")
		return
	}
	if len(req.Password) < 8 {
		response.BadRequest(c, "Şifre en az 8 karakter olmalı.")
		return
	}

	ctx := c.Request.Context()
	email := domain.NormalizeEmail(req.Email)

	existing, err := h.users.FindByEmail(ctx, email)
	if err != nil {
		response.Internal(c, "Kayıt işlemi başarısız oldu.")
		return
	}
	if existing != nil {
		response.BadRequest(c, "Bu e-posta ile zaten bir kullanıcı kayıtlı.")
		return
	}

	agent, err := h.agents.FindByEmail(ctx, email)
	if err != nil {
		response.Internal(c, "Kayıt işlemi başarısız oldu.")
		return
	}
	if !auth.CanRegisterAccount(agent) {
		response.Forbidden(c, "Bu danışman için premium yetkisi bulunmuyor.")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		response.BadRequest(c, "Şifre boş olamaz.")
		return
	}

	user := domain.User{
		Name:           req.Name,
		Email:          email,
		HashedPassword: hashed,
		Phone:          req.Phone,
		Company:        req.Company,
		AgentID:        &agent.ID,
		IsActive:       true,
	}
	if err := h.users.Create(ctx, &user); err != nil {
		response.Internal(c, "Kayıt işlemi başarısız oldu.")
		return
	}

	response.OK(c, newUserView(&user))
}

type loginResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	User        userView `json:"user"`
}

// Login authenticates form credentials and opens a session. Premium is
// re-checked against the linked agent on every login; an account whose
// agent lost premium can no longer sign in.
func (h *Handler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	ctx := c.Request.Context()
	user, err := h.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		response.Internal(c, "Giriş işlemi başarısız oldu.")
		return
	}
	if user == nil || !utils.VerifyPassword(password, user.HashedPassword) {
		response.Unauthorized(c, "Geçersiz e-posta veya şifre.")
		return
	}

	var agent *domain.Agent
	if user.AgentID != nil {
		agent, err = h.agents.FindByID(ctx, *user.AgentID)
		if err != nil {
			response.Internal(c, "Giriş işlemi başarısız oldu.")
			return
		}
	}
	if !auth.CanLogin(user, agent) {
		response.Forbidden(c, "Premium yetkiniz bulunmuyor.")
		return
	}

	token, err := h.sessions.Create(user.ID)
	if err != nil {
		h.log.Error("session create failed", zap.Error(err))
		response.Internal(c, "Oturum açılamadı.")
		return
	}

	response.OK(c, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        newUserView(user),
	})
}

// Logout drops the presented session token. Always succeeds, even for
// unknown tokens.
func (h *Handler) Logout(c *gin.Context) {
	if token := c.GetHeader(middleware.HeaderSessionToken); token != "" {
		h.sessions.Invalidate(token)
	}
	response.Message(c, "Oturum sonlandırıldı.")
}

// Me returns the caller's account view. RequireSession has already placed
// the user in context.
func (h *Handler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Geçersiz veya süresi dolmuş oturum anahtarı.")
		return
	}
	response.OK(c, newUserView(user))
}
