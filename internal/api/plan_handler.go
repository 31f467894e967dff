package api

import (
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/service"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PlanHandler struct {
	planService service.PlanService
}

func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// CreatePlan godoc
// @Summary Create a weekly training plan for a client
// @Description Validates the plan, assigns an unassigned client to the trainer and replaces the client's active plan.
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body PlanRequest true "Plan details"
// @Success 201 {object} domain.TrainingPlan
// @Failure 400 {object} gin.H "Invalid plan"
// @Failure 403 {object} gin.H "Client belongs to another trainer"
// @Failure 404 {object} gin.H "Client not found"
// @Failure 409 {object} gin.H "Concurrent plan creation"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	requester, ok := getRequester(c)
	if !ok {
		return
	}

	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	input, err := ToPlanInput(req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), requester.ID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// ListPlans godoc
// @Summary List training plans visible to the caller
// @Description Clients see their active plans, trainers their own plans, admins everything.
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param clientId query string false "Client ID"
// @Param dayOfWeek query int false "Only plans with a session on this weekday (0=Sunday)"
// @Success 200 {array} domain.TrainingPlan
// @Failure 400 {object} gin.H "Invalid filter"
// @Failure 403 {object} gin.H "Not allowed to view this client's plans"
// @Router /plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	requester, ok := getRequester(c)
	if !ok {
		return
	}

	var query service.PlanQuery
	if raw := c.Query("clientId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid client ID format.")
			return
		}
		query.ClientID = &id
	}
	if raw := c.Query("dayOfWeek"); raw != "" {
		day, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(c, domain.ErrDayOutOfRange)
			return
		}
		query.DayOfWeek = &day
	}

	plans, err := h.planService.ListPlans(c.Request.Context(), requester, query)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// GetActivePlan godoc
// @Summary Get the caller's active weekly plan
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.TrainingPlan
// @Failure 404 {object} gin.H "No active plan"
// @Router /plans/active [get]
func (h *PlanHandler) GetActivePlan(c *gin.Context) {
	requester, ok := getRequester(c)
	if !ok {
		return
	}

	plan, err := h.planService.GetActiveWeeklyPlan(c.Request.Context(), requester.ID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}
