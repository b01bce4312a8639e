package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoiceau-api/internal/application/service"
	"github.com/sangkips/invoiceau-api/internal/presentation/http/dto/response"
	"github.com/sangkips/invoiceau-api/pkg/apperror"
)

// maxWebhookBody bounds the Stripe event payload
const maxWebhookBody = 64 << 10

// PremiumHandler handles premium checkout and Stripe notifications
type PremiumHandler struct {
	premiumService *service.PremiumService
}

// NewPremiumHandler creates a new premium handler
func NewPremiumHandler(premiumService *service.PremiumService) *PremiumHandler {
	return &PremiumHandler{premiumService: premiumService}
}

// Checkout starts a premium payment
// @Summary Premium checkout
// @Tags premium
// @Produce json
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /premium/checkout [post]
func (h *PremiumHandler) Checkout(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthorized)
		return
	}

	output, err := h.premiumService.Checkout(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Checkout session created", output)
}

// Success confirms a finished checkout
// @Param session_id query string true "Checkout session id"
// @Failure 402 {object} response.APIResponse
// @Router /premium/success [get]
func (h *PremiumHandler) Success(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthorized)
		return
	}

	if err := h.premiumService.ConfirmCheckout(c.Request.Context(), userID, c.Query("session_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Premium activated", gin.H{"is_premium": true})
}

// Webhook receives Stripe events
// @Router /stripe/webhook [post]
func (h *PremiumHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		response.BadRequest(c, "Could not read request body")
		return
	}

	if err := h.premiumService.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
