package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"design-campaign-backend/internal/sivi"
)

// GetRequestStatus godoc
// @Summary     Check a generation request
// @Description Forwards to the upstream get-request-status endpoint. The requestId is passed through as given.
// @Tags        designs
// @Produce     json
// @Param       requestId query    string true "Request ID returned by designs-from-prompt"
// @Success     200       {object} models.Envelope
// @Failure     500       {object} models.ErrorResponse
// @Router      /get-request-status [get]
func (h *DesignsHandler) GetRequestStatus(c *gin.Context) {
	requestID := c.Query("requestId")
	h.forward(c, "get-request-status", func(ctx context.Context) (*sivi.Response, error) {
		return h.client.GetRequestStatus(ctx, requestID)
	})
}

// GetDesignVariants godoc
// @Summary     List the variants of a design
// @Description Forwards to the upstream get-design-variants endpoint.
// @Tags        designs
// @Produce     json
// @Param       designId query    string true "Design ID"
// @Success     200      {object} models.Envelope
// @Failure     500      {object} models.ErrorResponse
// @Router      /get-design-variants [get]
func (h *DesignsHandler) GetDesignVariants(c *gin.Context) {
	designID := c.Query("designId")
	h.forward(c, "get-design-variants", func(ctx context.Context) (*sivi.Response, error) {
		return h.client.GetDesignVariants(ctx, designID)
	})
}
