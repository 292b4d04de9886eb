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

// CourseState caches course lists keyed by the owning teacher and by the
// enrolled student. Snapshots are replaced wholesale on every mutation.
type CourseState struct {
	IsLoading bool
	Err       string
	ByTeacher map[string][]models.Course
	ByStudent map[string][]models.Course
}

type CourseController struct {
	store   *state.Store[CourseState]
	repo    repositories.Repository
	refresh *state.RefreshManager
	bus     *events.Bus
	logger  *slog.Logger
	ttl     time.Duration
}

func NewCourseController(repo repositories.Repository, refresh *state.RefreshManager, bus *events.Bus, logger *slog.Logger, ttl time.Duration) *CourseController {
	c := &CourseController{
		store: state.NewStore("courses", CourseState{
			ByTeacher: map[string][]models.Course{},
			ByStudent: map[string][]models.Course{},
		}, logger),
		repo:    repo,
		refresh: refresh,
		bus:     bus,
		logger:  logger,
		ttl:     ttl,
	}

	// An enrollment change elsewhere invalidates the affected student's
	// course list so the next load re-fetches it.
	bus.Subscribe(func(event events.Event) {
		switch e := event.(type) {
		case events.EnrollmentJoinedEvent:
			c.refresh.Invalidate("courses/student/" + e.StudentID)
		case events.EnrollmentDroppedEvent:
			c.refresh.Invalidate("courses/student/" + e.StudentID)
		case events.SessionExpiredEvent:
			c.refresh.InvalidatePrefix("courses/")
		}
	})

	return c
}

func (c *CourseController) Subscribe(fn state.Listener[CourseState]) func() {
	return c.store.Subscribe(fn)
}

func (c *CourseController) Snapshot() CourseState {
	return c.store.Snapshot()
}

// LoadByTeacher fetches the teacher's courses unless a fresh result is
// cached. Failures are returned and also stored in state.Err.
func (c *CourseController) LoadByTeacher(ctx context.Context, teacherID string, force bool) error {
	c.begin()

	_, err := c.refresh.Do(ctx, "courses/teacher/"+teacherID, c.ttl, force, func(ctx context.Context) error {
		courses, err := c.repo.Course().GetByTeacher(ctx, teacherID)
		if err != nil {
			return err
		}
		c.store.Mutate(func(s CourseState) CourseState {
			next := cloneCourseState(s)
			next.ByTeacher[teacherID] = courses
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

// LoadEnrolled resolves a student's active enrollments to their courses.
func (c *CourseController) LoadEnrolled(ctx context.Context, studentID string, force bool) error {
	c.begin()

	_, err := c.refresh.Do(ctx, "courses/student/"+studentID, c.ttl, force, func(ctx context.Context) error {
		enrollments, err := c.repo.Enrollment().GetByStudent(ctx, studentID)
		if err != nil {
			return err
		}

		courses := make([]models.Course, 0, len(enrollments))
		for _, e := range enrollments {
			if e.Status == models.EnrollmentDropped {
				continue
			}
			course, err := c.repo.Course().GetByID(ctx, e.CourseID)
			if err != nil {
				if repositories.IsNotFoundError(err) {
					c.logger.Warn("Enrollment points at missing course", "course_id", e.CourseID)
					continue
				}
				return err
			}
			courses = append(courses, *course)
		}

		c.store.Mutate(func(s CourseState) CourseState {
			next := cloneCourseState(s)
			next.ByStudent[studentID] = courses
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

// Create inserts a course and publishes CourseCreatedEvent.
func (c *CourseController) Create(ctx context.Context, course *models.Course) (*models.Course, error) {
	c.begin()

	created, err := c.repo.Course().Create(ctx, course)
	if err != nil {
		c.fail(err)
		return nil, err
	}

	c.store.Mutate(func(s CourseState) CourseState {
		next := cloneCourseState(s)
		next.ByTeacher[created.TeacherID] = append(append([]models.Course{}, s.ByTeacher[created.TeacherID]...), *created)
		next.IsLoading = false
		return next
	})

	c.bus.Publish(events.CourseCreatedEvent{CourseID: created.ID, TeacherID: created.TeacherID})
	return created, nil
}

// Update patches a course and refreshes the cached teacher list entry.
func (c *CourseController) Update(ctx context.Context, id string, patch repositories.CourseUpdate) (*models.Course, error) {
	c.begin()

	updated, err := c.repo.Course().Update(ctx, id, patch)
	if err != nil {
		c.fail(err)
		return nil, err
	}

	c.store.Mutate(func(s CourseState) CourseState {
		next := cloneCourseState(s)
		list := append([]models.Course{}, s.ByTeacher[updated.TeacherID]...)
		for i := range list {
			if list[i].ID == updated.ID {
				list[i] = *updated
			}
		}
		next.ByTeacher[updated.TeacherID] = list
		next.IsLoading = false
		return next
	})
	return updated, nil
}

func (c *CourseController) begin() {
	c.store.Mutate(func(s CourseState) CourseState {
		next := cloneCourseState(s)
		next.IsLoading = true
		next.Err = ""
		return next
	})
}

func (c *CourseController) finish() {
	c.store.Mutate(func(s CourseState) CourseState {
		next := cloneCourseState(s)
		next.IsLoading = false
		return next
	})
}

func (c *CourseController) fail(err error) {
	c.logger.Error("Course operation failed", "error", err)
	c.store.Mutate(func(s CourseState) CourseState {
		next := cloneCourseState(s)
		next.IsLoading = false
		next.Err = errMessage(err)
		return next
	})
}

// cloneCourseState copies the map headers so updaters never mutate a
// snapshot already handed out.
func cloneCourseState(s CourseState) CourseState {
	next := CourseState{
		IsLoading: s.IsLoading,
		Err:       s.Err,
		ByTeacher: make(map[string][]models.Course, len(s.ByTeacher)),
		ByStudent: make(map[string][]models.Course, len(s.ByStudent)),
	}
	for k, v := range s.ByTeacher {
		next.ByTeacher[k] = v
	}
	for k, v := range s.ByStudent {
		next.ByStudent[k] = v
	}
	return next
}
