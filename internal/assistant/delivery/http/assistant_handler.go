package http

import (
	"errors"
	"net/http"

	"ai-crypto-assistant/internal/assistant/dto"
	"ai-crypto-assistant/internal/assistant/service"
	"ai-crypto-assistant/internal/entity"
	"ai-crypto-assistant/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AssistantHandler handles HTTP requests for the assistant.
type AssistantHandler struct {
	assistantService service.AssistantService
	logger           *logger.Logger
}

// NewAssistantHandler creates a new AssistantHandler.
func NewAssistantHandler(assistantService service.AssistantService, logger *logger.Logger) *AssistantHandler {
	return &AssistantHandler{assistantService: assistantService, logger: logger}
}

// RegisterRoutes registers the assistant routes to the Echo group.
func (h *AssistantHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/ask", h.Ask)
	g.GET("/assets", h.GetAssets)
}

// Ask godoc
// @Summary Ask about a cryptocurrency
// @Description Resolve the asset named in the query, gather price, market and news data and return an AI-written answer. Degraded answers are still 200.
// @Tags assistant
// @Accept  json
// @Produce  json
// @Param   request  body    dto.AskRequest   true    "Question"
// @Success 200 {object} dto.AskResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.AskResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /ask [post]
func (h *AssistantHandler) Ask(c echo.Context) error {
	var req dto.AskRequest
	if errs := bindAndValidate(c, &req); errs != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request payload", Details: errs})
	}

	mode, err := entity.ParseAnalysisMode(req.Mode)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}
	opts := service.AskOptions{
		Model:    req.Model,
		Language: entity.Language(req.Language),
	}
	if req.Mode != "" {
		opts.Mode = mode
	}

	ctx := c.Request().Context()
	answer, err := h.assistantService.Ask(ctx, req.Query, opts)
	switch {
	case errors.Is(err, entity.ErrAssetNotRecognized):
		return c.JSON(http.StatusNotFound, toAskResponse(answer))
	case errors.Is(err, entity.ErrEmptyQuery):
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case err != nil:
		h.logger.ErrorContext(ctx, "Failed to answer query", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to answer query"})
	}

	return c.JSON(http.StatusOK, toAskResponse(answer))
}

// GetAssets godoc
// @Summary List supported assets
// @Description List every asset the assistant can recognize as "Name (TICKER)"
// @Tags assistant
// @Produce  json
// @Success 200 {object} dto.AssetsResponse
// @Router /assets [get]
func (h *AssistantHandler) GetAssets(c echo.Context) error {
	assets := h.assistantService.SupportedAssets()
	return c.JSON(http.StatusOK, dto.AssetsResponse{Count: len(assets), Assets: assets})
}

func toAskResponse(answer *service.Answer) dto.AskResponse {
	if answer == nil {
		return dto.AskResponse{}
	}

	resp := dto.AskResponse{
		Answer:      answer.Formatted.Text,
		Language:    string(answer.Formatted.Language),
		Sections:    answer.Formatted.Sections,
		Suggestions: answer.Suggestions,
	}
	if q := answer.Query; q != nil {
		resp.QueryID = q.ID.String()
		resp.Asset = q.Asset
		if q.Asset != nil {
			resp.Mode = string(q.Mode)
		}
	}
	if a := answer.Analysis; a != nil {
		resp.AISucceeded = a.AISucceeded
		resp.Provider = a.Provider
		resp.Model = a.Model
		if a.Aggregate != nil {
			resp.Failures = a.Aggregate.Failures
		}
	}
	return resp
}
