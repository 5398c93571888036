package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"design-campaign-backend/internal/logger"
	"design-campaign-backend/internal/models"
	"design-campaign-backend/internal/sivi"
)

const jsonContentType = "application/json; charset=utf-8"

// DesignsHandler forwards design calls to the upstream API. It adds the
// credential header and otherwise passes requests and responses through
// unchanged.
type DesignsHandler struct {
	client *sivi.Client
	log    *logger.Logger
}

func NewDesignsHandler(client *sivi.Client, log *logger.Logger) *DesignsHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &DesignsHandler{
		client: client,
		log:    log,
	}
}

// SubmitDesign godoc
// @Summary     Generate designs from a prompt
// @Description Forwards the generation request to the upstream design API and mirrors its status code and JSON body.
// @Tags        designs
// @Accept      json
// @Produce     json
// @Param       request body     models.GenerationRequest true "Generation request"
// @Success     200     {object} models.Envelope
// @Failure     500     {object} models.ErrorResponse
// @Router      /designs-from-prompt [post]
func (h *DesignsHandler) SubmitDesign(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.log.Error("failed to read request body", "error", err)
		internalError(c)
		return
	}

	h.forward(c, "designs-from-prompt", func(ctx context.Context) (*sivi.Response, error) {
		return h.client.SubmitDesign(ctx, payload)
	})
}

func (h *DesignsHandler) forward(c *gin.Context, endpoint string, call func(ctx context.Context) (*sivi.Response, error)) {
	start := time.Now()
	resp, err := call(c.Request.Context())
	elapsed := time.Since(start)

	if err != nil {
		h.log.Error("upstream call failed",
			"endpoint", endpoint,
			"duration_ms", elapsed.Milliseconds(),
			"error", err,
		)
		internalError(c)
		return
	}

	h.log.Info("upstream call completed",
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"duration_ms", elapsed.Milliseconds(),
	)
	c.Data(resp.StatusCode, jsonContentType, resp.Body)
}

func internalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal Server Error"})
}
