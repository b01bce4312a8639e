package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoiceau-api/internal/application/service"
	"github.com/sangkips/invoiceau-api/internal/presentation/http/dto/request"
	"github.com/sangkips/invoiceau-api/internal/presentation/http/dto/response"
	"github.com/sangkips/invoiceau-api/internal/presentation/http/middleware"
	"github.com/sangkips/invoiceau-api/pkg/apperror"
	"go.uber.org/zap"
)

// LoginRedirects builds the frontend URLs a browser lands on after the
// Google callback
type LoginRedirects interface {
	SuccessRedirect(accessToken, refreshToken string) string
	ErrorRedirect(reason string) string
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService   *service.AuthService
	redirects     LoginRedirects
	generateState func() (string, error)
	logger        *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, redirects LoginRedirects, generateState func() (string, error), logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		redirects:     redirects,
		generateState: generateState,
		logger:        logger,
	}
}

func tokenPayload(output *service.LoginOutput) gin.H {
	return gin.H{
		"user":          output.User,
		"access_token":  output.AccessToken,
		"refresh_token": output.RefreshToken,
		"token_type":    "Bearer",
	}
}

// GoogleAuth redirects to Google OAuth consent page
// @Summary Google OAuth Login
// @Description Redirect to Google OAuth consent page
// @Tags auth
// @Success 307
// @Router /auth/google [get]
func (h *AuthHandler) GoogleAuth(c *gin.Context) {
	state, err := h.generateState()
	if err != nil {
		response.Error(c, apperror.ErrInternalServer)
		return
	}

	authURL, err := h.authService.GoogleAuthURL(state)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := middleware.SetOAuthState(c, state); err != nil {
		h.logger.Error("failed to store oauth state", zap.Error(err))
		response.Error(c, apperror.ErrInternalServer)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// GoogleCallback handles the OAuth callback from Google
// @Summary Google OAuth Callback
// @Description Handle Google OAuth callback and redirect to frontend with tokens
// @Tags auth
// @Param code query string true "Authorization code from Google"
// @Param state query string true "State parameter for CSRF protection"
// @Success 307
// @Router /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if reason := c.Query("error"); reason != "" {
		c.Redirect(http.StatusTemporaryRedirect, h.redirects.ErrorRedirect(reason))
		return
	}

	expected, err := middleware.PopOAuthState(c)
	if err != nil {
		h.logger.Warn("failed to clear oauth state", zap.Error(err))
	}
	state := c.Query("state")
	if state == "" || state != expected {
		c.Redirect(http.StatusTemporaryRedirect, h.redirects.ErrorRedirect("invalid_state"))
		return
	}

	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusTemporaryRedirect, h.redirects.ErrorRedirect("missing_code"))
		return
	}

	output, err := h.authService.GoogleLogin(c.Request.Context(), code)
	if err != nil {
		h.logger.Warn("google login failed", zap.Error(err))
		c.Redirect(http.StatusTemporaryRedirect, h.redirects.ErrorRedirect("login_failed"))
		return
	}

	if err := middleware.SetSessionUser(c, output.User.ID); err != nil {
		h.logger.Error("failed to store session user", zap.Error(err))
		c.Redirect(http.StatusTemporaryRedirect, h.redirects.ErrorRedirect("session_error"))
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, h.redirects.SuccessRedirect(output.AccessToken, output.RefreshToken))
}

// RefreshToken handles token refresh
// @Summary Refresh Token
// @Description Get new access token using refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req request.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Token refreshed successfully", tokenPayload(output))
}

// Me returns the signed in user with their companies
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthorized)
		return
	}

	user, err := h.authService.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "User retrieved", user)
}

// Logout signs the browser session out. Bearer tokens simply expire.
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := middleware.ClearSessionUser(c); err != nil {
		h.logger.Error("failed to clear session user", zap.Error(err))
		response.Error(c, apperror.ErrInternalServer)
		return
	}
	response.OK(c, "Logged out successfully", nil)
}
