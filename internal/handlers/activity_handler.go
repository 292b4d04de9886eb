package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/courseware-service/internal/controllers"
	"github.com/SAP-F-2025/courseware-service/internal/models"
	"github.com/SAP-F-2025/courseware-service/internal/repositories"
	"github.com/SAP-F-2025/courseware-service/internal/utils"
	"github.com/SAP-F-2025/courseware-service/internal/validator"
	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	BaseHandler
	activities *controllers.ActivityController
	validator  *validator.Validator
}

func NewActivityHandler(activities *controllers.ActivityController, v *validator.Validator, logger utils.Logger) *ActivityHandler {
	return &ActivityHandler{
		BaseHandler: NewBaseHandler(logger),
		activities:  activities,
		validator:   v,
	}
}

// CreateActivity creates an activity inside a category
// @Summary Create activity
// @Tags activities
// @Accept json
// @Produce json
// @Success 201 {object} models.Activity
// @Failure 400 {object} ErrorResponse
// @Router /activities [post]
func (h *ActivityHandler) CreateActivity(c *gin.Context) {
	var activity models.Activity
	if err := c.ShouldBindJSON(&activity); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.validator.Validate(&activity); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
		return
	}

	created, err := h.activities.Create(c.Request.Context(), &activity)
	if err != nil {
		h.RespondOperationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetActivities lists a course's activities
// @Summary List activities
// @Tags activities
// @Router /courses/{id}/activities [get]
func (h *ActivityHandler) GetActivities(c *gin.Context) {
	courseID := ParseStringIDParam(c, "id")
	if courseID == "" {
		return
	}

	force := c.Query("force") == "true"
	if err := h.activities.Load(c.Request.Context(), courseID, force); err != nil {
		h.RespondOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.activities.Snapshot().ByCourse[courseID])
}

// UpdateActivity patches an activity; flipping reviewing on opens peer
// review
// @Summary Update activity
// @Tags activities
// @Router /activities/{id} [put]
func (h *ActivityHandler) UpdateActivity(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var patch repositories.ActivityUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	updated, err := h.activities.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.RespondOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}
