package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Envapa08241978/soynexo-servidor-final/models"
	"github.com/Envapa08241978/soynexo-servidor-final/utils"
)

// AuditRunner executes one audit request end to end.
type AuditRunner interface {
	Run(ctx context.Context, req models.AuditRequest) (models.AuditOutcome, error)
}

type AuditHandler struct {
	runner AuditRunner
}

func NewAuditHandler(runner AuditRunner) *AuditHandler {
	return &AuditHandler{runner: runner}
}

// ChatResponse answers free text that did not name a business.
type ChatResponse struct {
	Success    bool   `json:"success"`
	Found      bool   `json:"found"`
	AIAnalysis string `json:"ai_analysis"`
	IsChat     bool   `json:"is_chat"`
}

type NotFoundResponse struct {
	Found   bool   `json:"found"`
	Message string `json:"message"`
}

// ReportResponse is the full audit. Findings and Verdict are the structured
// data behind the narrative in AIAnalysis.
type ReportResponse struct {
	Success    bool                   `json:"success"`
	Found      bool                   `json:"found"`
	Data       models.BusinessProfile `json:"data"`
	Findings   []models.LeakFinding   `json:"findings"`
	Verdict    models.LossVerdict     `json:"verdict"`
	AIAnalysis string                 `json:"ai_analysis"`
}

// AuditHandler handles POST /api/audit.
func (h *AuditHandler) AuditHandler(c *gin.Context) {
	logger := getLogger(c)

	var req models.AuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid audit request body", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Solicitud inválida.", err.Error())
		return
	}

	outcome, err := h.runner.Run(c.Request.Context(), req)
	if err != nil {
		var inputErr *models.ClientInputError
		if errors.As(err, &inputErr) {
			utils.JSONError(c, http.StatusBadRequest, "Falta el nombre del negocio.", inputErr.Error())
			return
		}
		logger.Error("Audit failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, utils.InternalErrorMessage, "")
		return
	}

	switch o := outcome.(type) {
	case models.OutcomeChat:
		c.JSON(http.StatusOK, ChatResponse{Success: true, Found: false, AIAnalysis: o.Reply, IsChat: true})
	case models.OutcomeNotFound:
		c.JSON(http.StatusOK, NotFoundResponse{Found: false, Message: o.Message})
	case models.OutcomeReport:
		c.JSON(http.StatusOK, ReportResponse{
			Success:    true,
			Found:      true,
			Data:       o.Profile,
			Findings:   o.Findings,
			Verdict:    o.Verdict,
			AIAnalysis: o.Narrative,
		})
	default:
		logger.Error("Unknown audit outcome", zap.Any("outcome", outcome))
		utils.JSONError(c, http.StatusInternalServerError, utils.InternalErrorMessage, "")
	}
}
