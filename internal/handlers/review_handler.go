package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/courseware-service/internal/controllers"
	"github.com/SAP-F-2025/courseware-service/internal/models"
	"github.com/SAP-F-2025/courseware-service/internal/services"
	"github.com/SAP-F-2025/courseware-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	BaseHandler
	assessments *controllers.AssessmentController
	exporter    services.ExportService
}

func NewReviewHandler(assessments *controllers.AssessmentController, exporter services.ExportService, logger utils.Logger) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler: NewBaseHandler(logger),
		assessments: assessments,
		exporter:    exporter,
	}
}

// SubmitAssessment records one peer rating
// @Summary Submit peer rating
// @Tags reviews
// @Accept json
// @Produce json
// @Param assessment body models.Assessment true "Rating"
// @Success 201 {object} models.Assessment
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /reviews [post]
func (h *ReviewHandler) SubmitAssessment(c *gin.Context) {
	var assessment models.Assessment
	if err := c.ShouldBindJSON(&assessment); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	created, err := h.assessments.Submit(c.Request.Context(), &assessment)
	if err != nil {
		h.RespondOperationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetMyAssessments lists the reviewer's submissions for an activity
// @Summary List own ratings
// @Tags reviews
// @Router /activities/{id}/reviews/{reviewer_id} [get]
func (h *ReviewHandler) GetMyAssessments(c *gin.Context) {
	activityID := ParseStringIDParam(c, "id")
	if activityID == "" {
		return
	}
	reviewerID := ParseStringIDParam(c, "reviewer_id")
	if reviewerID == "" {
		return
	}

	force := c.Query("force") == "true"
	if err := h.assessments.LoadByReviewer(c.Request.Context(), activityID, reviewerID, force); err != nil {
		h.RespondOperationError(c, err)
		return
	}

	key := controllers.ReviewerKey(activityID, reviewerID)
	c.JSON(http.StatusOK, h.assessments.Snapshot().ByReviewer[key])
}

// GetPendingPeers lists the groupmates not yet rated by the reviewer
// @Summary Pending peers
// @Tags reviews
// @Router /activities/{id}/pending/{reviewer_id} [get]
func (h *ReviewHandler) GetPendingPeers(c *gin.Context) {
	activityID := ParseStringIDParam(c, "id")
	if activityID == "" {
		return
	}
	reviewerID := ParseStringIDParam(c, "reviewer_id")
	if reviewerID == "" {
		return
	}

	pending, err := h.assessments.PendingPeers(c.Request.Context(), activityID, reviewerID)
	if err != nil {
		h.RespondOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, pending)
}

// GetGroupStats aggregates one group's ratings on an activity
// @Summary Group statistics
// @Tags reviews
// @Router /activities/{id}/groups/{group_id}/stats [get]
func (h *ReviewHandler) GetGroupStats(c *gin.Context) {
	activityID := ParseStringIDParam(c, "id")
	if activityID == "" {
		return
	}
	groupID := ParseStringIDParam(c, "group_id")
	if groupID == "" {
		return
	}

	stats, err := h.assessments.GroupStats(c.Request.Context(), activityID, groupID)
	if err != nil {
		h.RespondOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetCourseSummary returns the weighted cross-activity summary
// @Summary Course peer-review summary
// @Tags reviews
// @Router /courses/{id}/review-summary [get]
func (h *ReviewHandler) GetCourseSummary(c *gin.Context) {
	courseID := ParseStringIDParam(c, "id")
	if courseID == "" {
		return
	}

	force := c.Query("force") == "true"
	summary, err := h.assessments.CourseSummary(c.Request.Context(), courseID, force)
	if err != nil {
		h.RespondOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ExportCourseSummary downloads the summary as CSV or XLSX
// @Summary Export peer-review summary
// @Tags reviews
// @Param format query string false "csv or xlsx" default(xlsx)
// @Router /courses/{id}/review-summary/export [get]
func (h *ReviewHandler) ExportCourseSummary(c *gin.Context) {
	courseID := ParseStringIDParam(c, "id")
	if courseID == "" {
		return
	}

	summary, err := h.assessments.CourseSummary(c.Request.Context(), courseID, false)
	if err != nil {
		h.RespondOperationError(c, err)
		return
	}

	switch c.DefaultQuery("format", "xlsx") {
	case "csv":
		data, err := h.exporter.ExportSummaryToCSV(c.Request.Context(), summary)
		if err != nil {
			h.RespondWithError(c, http.StatusInternalServerError, "Export failed", err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="peer-review-`+courseID+`.csv"`)
		c.Data(http.StatusOK, "text/csv", data)
	case "xlsx":
		data, err := h.exporter.ExportSummaryToExcel(c.Request.Context(), summary)
		if err != nil {
			h.RespondWithError(c, http.StatusInternalServerError, "Export failed", err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="peer-review-`+courseID+`.xlsx"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Unsupported export format"})
	}
}
