package api

import (
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LogHandler struct {
	logService service.LogService
	now        func() time.Time
}

func NewLogHandler(logService service.LogService) *LogHandler {
	return &LogHandler{logService: logService, now: time.Now}
}

// CreateLog godoc
// @Summary Check in a scheduled session
// @Description Records whether the client did the session of the given day. A missed session notifies the trainer.
// @Tags Logs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param log body LogRequest true "Check-in"
// @Success 201 {object} domain.TrainingLog
// @Failure 400 {object} gin.H "Invalid check-in (no session that day, outside plan, future date)"
// @Failure 404 {object} gin.H "Plan not found"
// @Failure 409 {object} gin.H "Session already logged"
// @Router /client/logs [post]
func (h *LogHandler) CreateLog(c *gin.Context) {
	requester, ok := getRequester(c)
	if !ok {
		return
	}

	var req LogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	input, err := ToLogInput(req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.logService.CreateLog(c.Request.Context(), requester.ID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// GetClientLogs godoc
// @Summary List the caller's check-ins
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year (with month)"
// @Param month query int false "Month 1-12 (with year)"
// @Param from query string false "First day, YYYY-MM-DD (with to)"
// @Param to query string false "Last day, inclusive (with from)"
// @Success 200 {array} domain.TrainingLog
// @Failure 400 {object} gin.H "Invalid window"
// @Router /client/logs [get]
func (h *LogHandler) GetClientLogs(c *gin.Context) {
	requester, ok := getRequester(c)
	if !ok {
		return
	}
	window, err := h.windowFromQuery(c, nil)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logs, err := h.logService.GetClientLogs(c.Request.Context(), requester.ID, window)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// GetClientStats godoc
// @Summary Completion stats for the caller
// @Description Defaults to the current month.
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year"
// @Param month query int false "Month 1-12"
// @Success 200 {object} domain.LogStats
// @Router /client/stats [get]
func (h *LogHandler) GetClientStats(c *gin.Context) {
	requester, ok := getRequester(c)
	if !ok {
		return
	}
	now := h.now().UTC()
	current := domain.MonthWindow(now.Year(), now.Month())
	window, err := h.windowFromQuery(c, &current)
	if err != nil {
		respondWithError(c, err)
		return
	}

	stats, err := h.logService.GetClientStats(c.Request.Context(), requester.ID, window)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetClientLogsForTrainer godoc
// @Summary List a managed client's check-ins
// @Description Proof images stored in object storage are returned as short-lived download URLs.
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Param from query string false "First day, YYYY-MM-DD"
// @Param to query string false "Last day, inclusive"
// @Success 200 {array} domain.TrainingLog
// @Failure 403 {object} gin.H "Not this client's trainer"
// @Router /trainer/clients/{clientId}/logs [get]
func (h *LogHandler) GetClientLogsForTrainer(c *gin.Context) {
	requester, ok := getRequester(c)
	if !ok {
		return
	}
	clientID, err := primitive.ObjectIDFromHex(c.Param("clientId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format.")
		return
	}
	window, err := h.windowFromQuery(c, nil)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logs, err := h.logService.GetLogsForClient(c.Request.Context(), requester.ID, clientID, window)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

type ProofUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

// RequestProofUpload godoc
// @Summary Get a presigned URL for uploading a proof image
// @Description The returned objectKey is then sent as proofImage when checking in.
// @Tags Logs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProofUploadRequest true "Image content type"
// @Success 200 {object} service.ProofUpload
// @Failure 400 {object} gin.H "Unsupported content type or storage not configured"
// @Router /client/logs/proof-upload-url [post]
func (h *LogHandler) RequestProofUpload(c *gin.Context) {
	requester, ok := getRequester(c)
	if !ok {
		return
	}
	var req ProofUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	upload, err := h.logService.RequestProofUpload(c.Request.Context(), requester.ID, req.ContentType)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, upload)
}

func (h *LogHandler) windowFromQuery(c *gin.Context, fallback *domain.DayWindow) (*domain.DayWindow, error) {
	return parseLogWindow(c.Query("year"), c.Query("month"), c.Query("from"), c.Query("to"), fallback)
}
