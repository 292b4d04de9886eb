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

type CourseHandler struct {
	BaseHandler
	courses    *controllers.CourseController
	categories *controllers.CategoryController
	groups     *controllers.GroupController
	validator  *validator.Validator
}

func NewCourseHandler(
	courses *controllers.CourseController,
	categories *controllers.CategoryController,
	groups *controllers.GroupController,
	v *validator.Validator,
	logger utils.Logger,
) *CourseHandler {
	return &CourseHandler{
		BaseHandler: NewBaseHandler(logger),
		courses:     courses,
		categories:  categories,
		groups:      groups,
		validator:   v,
	}
}

// ===== COURSES =====

// CreateCourse creates a new course
// @Summary Create course
// @Tags courses
// @Accept json
// @Produce json
// @Success 201 {object} models.Course
// @Failure 400 {object} ErrorResponse
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var course models.Course
	if err := c.ShouldBindJSON(&course); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.validator.Validate(&course); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
		return
	}

	created, err := h.courses.Create(c.Request.Context(), &course)
	if err != nil {
		h.RespondOperationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetCoursesByTeacher lists a teacher's courses
// @Summary List teacher courses
// @Tags courses
// @Router /courses/teacher/{teacher_id} [get]
func (h *CourseHandler) GetCoursesByTeacher(c *gin.Context) {
	teacherID := ParseStringIDParam(c, "teacher_id")
	if teacherID == "" {
		return
	}

	force := c.Query("force") == "true"
	if err := h.courses.LoadByTeacher(c.Request.Context(), teacherID, force); err != nil {
		h.RespondOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.courses.Snapshot().ByTeacher[teacherID])
}

// GetEnrolledCourses lists a student's active courses
// @Summary List enrolled courses
// @Tags courses
// @Router /courses/student/{student_id} [get]
func (h *CourseHandler) GetEnrolledCourses(c *gin.Context) {
	studentID := ParseStringIDParam(c, "student_id")
	if studentID == "" {
		return
	}

	force := c.Query("force") == "true"
	if err := h.courses.LoadEnrolled(c.Request.Context(), studentID, force); err != nil {
		h.RespondOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.courses.Snapshot().ByStudent[studentID])
}

// UpdateCourse patches a course
// @Summary Update course
// @Tags courses
// @Router /courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var patch repositories.CourseUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	updated, err := h.courses.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.RespondOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// ===== CATEGORIES =====

// CreateCategory adds a category to a course
// @Summary Create category
// @Tags categories
// @Router /categories [post]
func (h *CourseHandler) CreateCategory(c *gin.Context) {
	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	created, err := h.categories.Create(c.Request.Context(), &category)
	if err != nil {
		h.RespondOperationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetCategories lists a course's categories
// @Summary List categories
// @Tags categories
// @Router /courses/{id}/categories [get]
func (h *CourseHandler) GetCategories(c *gin.Context) {
	courseID := ParseStringIDParam(c, "id")
	if courseID == "" {
		return
	}

	force := c.Query("force") == "true"
	if err := h.categories.Load(c.Request.Context(), courseID, force); err != nil {
		h.RespondOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.categories.Snapshot().ByCourse[courseID])
}

// UpdateCategory patches a category
// @Summary Update category
// @Tags categories
// @Router /categories/{id} [put]
func (h *CourseHandler) UpdateCategory(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var patch repositories.CategoryUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	updated, err := h.categories.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.RespondOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// ===== GROUPS =====

// CreateGroup adds a group to a category
// @Summary Create group
// @Tags groups
// @Router /groups [post]
func (h *CourseHandler) CreateGroup(c *gin.Context) {
	var group models.Group
	if err := c.ShouldBindJSON(&group); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	created, err := h.groups.Create(c.Request.Context(), &group)
	if err != nil {
		h.RespondOperationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetGroups lists a category's groups with member counts
// @Summary List groups
// @Tags groups
// @Router /categories/{id}/groups [get]
func (h *CourseHandler) GetGroups(c *gin.Context) {
	categoryID := ParseStringIDParam(c, "id")
	if categoryID == "" {
		return
	}

	force := c.Query("force") == "true"
	if err := h.groups.Load(c.Request.Context(), categoryID, force); err != nil {
		h.RespondOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.groups.Snapshot().ByCategory[categoryID])
}

// GetGroupMembers lists a group's member student ids
// @Summary List group members
// @Tags groups
// @Router /groups/{id}/members [get]
func (h *CourseHandler) GetGroupMembers(c *gin.Context) {
	groupID := ParseStringIDParam(c, "id")
	if groupID == "" {
		return
	}

	members, err := h.groups.Members(c.Request.Context(), groupID)
	if err != nil {
		h.RespondOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}
