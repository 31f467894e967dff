package api

import (
	"alcyxob/fitcoach/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ScanHandler exposes manual triggers for the daily compliance sweeps.
type ScanHandler struct {
	scanner service.ComplianceScanner
}

func NewScanHandler(scanner service.ComplianceScanner) *ScanHandler {
	return &ScanHandler{scanner: scanner}
}

// CheckToday godoc
// @Summary Send trainers today's workout summary
// @Tags WorkoutCheck
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.ScanResult
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workout-check/check-today [post]
func (h *ScanHandler) CheckToday(c *gin.Context) {
	result, err := h.scanner.ScanToday(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CheckMissed godoc
// @Summary Alert trainers about sessions nobody logged yesterday
// @Tags WorkoutCheck
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.ScanResult
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workout-check/check-missed [post]
func (h *ScanHandler) CheckMissed(c *gin.Context) {
	result, err := h.scanner.ScanMissedYesterday(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
