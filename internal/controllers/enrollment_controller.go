package controllers

import (
	"context"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/courseware-service/internal/events"
	"github.com/SAP-F-2025/courseware-service/internal/models"
	"github.com/SAP-F-2025/courseware-service/internal/repositories"
	"github.com/SAP-F-2025/courseware-service/internal/state"
)

// EnrollmentState caches course rosters keyed by course id.
type EnrollmentState struct {
	IsLoading bool
	Err       string
	ByCourse  map[string][]models.Enrollment
}

type EnrollmentController struct {
	store   *state.Store[EnrollmentState]
	repo    repositories.Repository
	refresh *state.RefreshManager
	bus     *events.Bus
	logger  *slog.Logger
	ttl     time.Duration
}

func NewEnrollmentController(repo repositories.Repository, refresh *state.RefreshManager, bus *events.Bus, logger *slog.Logger, ttl time.Duration) *EnrollmentController {
	return &EnrollmentController{
		store: state.NewStore("enrollments", EnrollmentState{
			ByCourse: map[string][]models.Enrollment{},
		}, logger),
		repo:    repo,
		refresh: refresh,
		bus:     bus,
		logger:  logger,
		ttl:     ttl,
	}
}

func (c *EnrollmentController) Subscribe(fn state.Listener[EnrollmentState]) func() {
	return c.store.Subscribe(fn)
}

func (c *EnrollmentController) Snapshot() EnrollmentState {
	return c.store.Snapshot()
}

func (c *EnrollmentController) Load(ctx context.Context, courseID string, force bool) error {
	c.begin()

	_, err := c.refresh.Do(ctx, "enrollments/course/"+courseID, c.ttl, force, func(ctx context.Context) error {
		enrollments, err := c.repo.Enrollment().GetByCourse(ctx, courseID)
		if err != nil {
			return err
		}
		c.store.Mutate(func(s EnrollmentState) EnrollmentState {
			next := cloneEnrollmentState(s)
			next.ByCourse[courseID] = enrollments
			return next
		})
		return nil
	})
	if err != nil {
		c.fail(err)
		return err
	}

	c.finish()
	return nil
}

// JoinByCode enrolls a student into the course matching the join code.
// A dropped enrollment reactivates instead of inserting a second row; an
// active one fails with ErrAlreadyEnrolled.
func (c *EnrollmentController) JoinByCode(ctx context.Context, code, studentID string) (*models.Enrollment, error) {
	c.begin()

	course, err := c.repo.Course().GetByJoinCode(ctx, code)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			err = ErrInvalidJoinCode
		}
		c.fail(err)
		return nil, err
	}

	existing, err := c.repo.Enrollment().GetByCourseAndStudent(ctx, course.ID, studentID)
	switch {
	case err == nil && existing.Status == models.EnrollmentActive:
		c.fail(ErrAlreadyEnrolled)
		return nil, ErrAlreadyEnrolled
	case err == nil:
		reactivated, err := c.repo.Enrollment().UpdateStatus(ctx, existing.ID, models.EnrollmentActive)
		if err != nil {
			c.fail(err)
			return nil, err
		}
		c.applyAndPublish(course.ID, studentID, reactivated)
		return reactivated, nil
	case !repositories.IsNotFoundError(err):
		c.fail(err)
		return nil, err
	}

	created, err := c.repo.Enrollment().Create(ctx, &models.Enrollment{
		CourseID:  course.ID,
		StudentID: studentID,
		Status:    models.EnrollmentActive,
		JoinedAt:  time.Now().UTC(),
	})
	if err != nil {
		c.fail(err)
		return nil, err
	}

	c.applyAndPublish(course.ID, studentID, created)
	return created, nil
}

// Leave marks the student's enrollment as dropped. The row survives so a
// later join with the same code reactivates it.
func (c *EnrollmentController) Leave(ctx context.Context, courseID, studentID string) error {
	c.begin()

	existing, err := c.repo.Enrollment().GetByCourseAndStudent(ctx, courseID, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			err = ErrNotEnrolled
		}
		c.fail(err)
		return err
	}
	if existing.Status == models.EnrollmentDropped {
		c.fail(ErrNotEnrolled)
		return ErrNotEnrolled
	}

	dropped, err := c.repo.Enrollment().UpdateStatus(ctx, existing.ID, models.EnrollmentDropped)
	if err != nil {
		c.fail(err)
		return err
	}

	c.store.Mutate(func(s EnrollmentState) EnrollmentState {
		next := cloneEnrollmentState(s)
		next.ByCourse[courseID] = replaceEnrollment(s.ByCourse[courseID], *dropped)
		next.IsLoading = false
		return next
	})
	c.bus.Publish(events.EnrollmentDroppedEvent{CourseID: courseID, StudentID: studentID})
	return nil
}

// Delete surfaces the backend's missing delete endpoint as a typed
// Unsupported error.
func (c *EnrollmentController) Delete(ctx context.Context, id string) error {
	c.begin()

	if err := c.repo.Enrollment().Delete(ctx, id); err != nil {
		c.fail(err)
		return err
	}
	c.finish()
	return nil
}

func (c *EnrollmentController) applyAndPublish(courseID, studentID string, enrollment *models.Enrollment) {
	c.store.Mutate(func(s EnrollmentState) EnrollmentState {
		next := cloneEnrollmentState(s)
		next.ByCourse[courseID] = replaceEnrollment(s.ByCourse[courseID], *enrollment)
		next.IsLoading = false
		return next
	})
	c.bus.Publish(events.EnrollmentJoinedEvent{CourseID: courseID, StudentID: studentID})
}

func (c *EnrollmentController) begin() {
	c.store.Mutate(func(s EnrollmentState) EnrollmentState {
		next := cloneEnrollmentState(s)
		next.IsLoading = true
		next.Err = ""
		return next
	})
}

func (c *EnrollmentController) finish() {
	c.store.Mutate(func(s EnrollmentState) EnrollmentState {
		next := cloneEnrollmentState(s)
		next.IsLoading = false
		return next
	})
}

func (c *EnrollmentController) fail(err error) {
	c.logger.Error("Enrollment operation failed", "error", err)
	c.store.Mutate(func(s EnrollmentState) EnrollmentState {
		next := cloneEnrollmentState(s)
		next.IsLoading = false
		next.Err = errMessage(err)
		return next
	})
}

// replaceEnrollment swaps the matching row by id, appending when absent.
func replaceEnrollment(list []models.Enrollment, e models.Enrollment) []models.Enrollment {
	out := append([]models.Enrollment{}, list...)
	for i := range out {
		if out[i].ID == e.ID {
			out[i] = e
			return out
		}
	}
	return append(out, e)
}

func cloneEnrollmentState(s EnrollmentState) EnrollmentState {
	next := EnrollmentState{
		IsLoading: s.IsLoading,
		Err:       s.Err,
		ByCourse:  make(map[string][]models.Enrollment, len(s.ByCourse)),
	}
	for k, v := range s.ByCourse {
		next.ByCourse[k] = v
	}
	return next
}
