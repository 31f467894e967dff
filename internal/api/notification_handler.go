package api

import (
	"alcyxob/fitcoach/internal/service"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List godoc
// @Summary List the caller's notifications, newest first
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param unread query bool false "Only unread notifications"
// @Success 200 {array} domain.Notification
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	requester, ok := getRequester(c)
	if !ok {
		return
	}
	unreadOnly, _ := strconv.ParseBool(c.DefaultQuery("unread", "false"))

	items, err := h.notificationService.List(c.Request.Context(), requester.ID, unreadOnly)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// MarkRead godoc
// @Summary Mark one notification as read
// @Tags Notifications
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 204
// @Failure 404 {object} gin.H "Notification not found"
// @Router /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	requester, ok := getRequester(c)
	if !ok {
		return
	}
	id, ok := notificationIDParam(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), requester.ID, id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllRead godoc
// @Summary Mark every notification of the caller as read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "updated count"
// @Router /notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	requester, ok := getRequester(c)
	if !ok {
		return
	}

	n, err := h.notificationService.MarkAllRead(c.Request.Context(), requester.ID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

// Delete godoc
// @Summary Delete one notification
// @Tags Notifications
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 204
// @Failure 404 {object} gin.H "Notification not found"
// @Router /notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	requester, ok := getRequester(c)
	if !ok {
		return
	}
	id, ok := notificationIDParam(c)
	if !ok {
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), requester.ID, id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func notificationIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid notification ID format.")
		return primitive.NilObjectID, false
	}
	return id, true
}
