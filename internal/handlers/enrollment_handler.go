package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/courseware-service/internal/controllers"
	"github.com/SAP-F-2025/courseware-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type EnrollmentHandler struct {
	BaseHandler
	enrollments *controllers.EnrollmentController
	memberships *controllers.MembershipController
}

func NewEnrollmentHandler(
	enrollments *controllers.EnrollmentController,
	memberships *controllers.MembershipController,
	logger utils.Logger,
) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler: NewBaseHandler(logger),
		enrollments: enrollments,
		memberships: memberships,
	}
}

type JoinCourseRequest struct {
	JoinCode  string `json:"join_code" binding:"required"`
	StudentID string `json:"student_id" binding:"required"`
}

type LeaveCourseRequest struct {
	CourseID  string `json:"course_id" binding:"required"`
	StudentID string `json:"student_id" binding:"required"`
}

type JoinGroupRequest struct {
	GroupID   string `json:"group_id" binding:"required"`
	StudentID string `json:"student_id" binding:"required"`
}

// JoinCourse enrolls a student via join code
// @Summary Join course
// @Tags enrollments
// @Accept json
// @Produce json
// @Param request body JoinCourseRequest true "Join request"
// @Success 201 {object} models.Enrollment
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /enrollments/join [post]
func (h *EnrollmentHandler) JoinCourse(c *gin.Context) {
	var req JoinCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	enrollment, err := h.enrollments.JoinByCode(c.Request.Context(), req.JoinCode, req.StudentID)
	if err != nil {
		h.RespondOperationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, enrollment)
}

// LeaveCourse drops a student's enrollment
// @Summary Leave course
// @Tags enrollments
// @Router /enrollments/leave [post]
func (h *EnrollmentHandler) LeaveCourse(c *gin.Context) {
	var req LeaveCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.enrollments.Leave(c.Request.Context(), req.CourseID, req.StudentID); err != nil {
		h.RespondOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Left course"})
}

// GetRoster lists a course's enrollments
// @Summary Course roster
// @Tags enrollments
// @Router /courses/{id}/enrollments [get]
func (h *EnrollmentHandler) GetRoster(c *gin.Context) {
	courseID := ParseStringIDParam(c, "id")
	if courseID == "" {
		return
	}

	force := c.Query("force") == "true"
	if err := h.enrollments.Load(c.Request.Context(), courseID, force); err != nil {
		h.RespondOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.enrollments.Snapshot().ByCourse[courseID])
}

// JoinGroup adds a student to a group
// @Summary Join group
// @Tags memberships
// @Router /memberships/join [post]
func (h *EnrollmentHandler) JoinGroup(c *gin.Context) {
	var req JoinGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	membership, err := h.memberships.Join(c.Request.Context(), req.GroupID, req.StudentID)
	if err != nil {
		h.RespondOperationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, membership)
}
