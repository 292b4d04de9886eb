package controllers

import (
	"context"
	"testing"
	"time"

	"github.com/SAP-F-2025/courseware-service/internal/events"
	"github.com/SAP-F-2025/courseware-service/internal/models"
	"github.com/SAP-F-2025/courseware-service/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnrollmentFixture(t *testing.T) (*fakeRepo, *events.Bus, *EnrollmentController, *models.Course) {
	t.Helper()

	repo := newFakeRepo()
	course, err := repo.Course().Create(context.Background(), &models.Course{
		Name:      "Algorithms",
		JoinCode:  "ABC123",
		Status:    models.CourseActive,
		TeacherID: "t1",
	})
	require.NoError(t, err)

	logger := testLogger()
	bus := events.NewBus(logger)
	controller := NewEnrollmentController(repo, state.NewRefreshManager(), bus, logger, time.Minute)
	return repo, bus, controller, course
}

func TestEnrollmentController_JoinByCode(t *testing.T) {
	_, bus, controller, course := newEnrollmentFixture(t)

	var joined []events.EnrollmentJoinedEvent
	bus.Subscribe(func(e events.Event) {
		if ev, ok := e.(events.EnrollmentJoinedEvent); ok {
			joined = append(joined, ev)
		}
	})

	enrollment, err := controller.JoinByCode(context.Background(), "ABC123", "s1")
	require.NoError(t, err)

	require.NotNil(t, enrollment)
	assert.Equal(t, course.ID, enrollment.CourseID)
	assert.Equal(t, models.EnrollmentActive, enrollment.Status)
	require.Len(t, joined, 1)
	assert.Equal(t, "s1", joined[0].StudentID)

	snap := controller.Snapshot()
	assert.False(t, snap.IsLoading, "a completed join must clear the loading flag")
	assert.Empty(t, snap.Err)
}

func TestEnrollmentController_JoinInvalidCode(t *testing.T) {
	_, _, controller, _ := newEnrollmentFixture(t)

	enrollment, err := controller.JoinByCode(context.Background(), "XXXXXX", "s1")

	assert.Nil(t, enrollment)
	assert.ErrorIs(t, err, ErrInvalidJoinCode)
	assert.Equal(t, ErrInvalidJoinCode.Error(), controller.Snapshot().Err)
}

func TestEnrollmentController_JoinTwiceFails(t *testing.T) {
	_, _, controller, _ := newEnrollmentFixture(t)
	ctx := context.Background()

	first, err := controller.JoinByCode(ctx, "ABC123", "s1")
	require.NoError(t, err)
	require.NotNil(t, first)

	duplicate, err := controller.JoinByCode(ctx, "ABC123", "s1")
	assert.Nil(t, duplicate)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
	assert.Equal(t, ErrAlreadyEnrolled.Error(), controller.Snapshot().Err)
}

func TestEnrollmentController_LeaveAndRejoinReactivates(t *testing.T) {
	_, bus, controller, course := newEnrollmentFixture(t)
	ctx := context.Background()

	var dropped int
	bus.Subscribe(func(e events.Event) {
		if _, ok := e.(events.EnrollmentDroppedEvent); ok {
			dropped++
		}
	})

	first, err := controller.JoinByCode(ctx, "ABC123", "s1")
	require.NoError(t, err)
	require.NotNil(t, first)

	require.NoError(t, controller.Leave(ctx, course.ID, "s1"))
	assert.Equal(t, 1, dropped)
	assert.False(t, controller.Snapshot().IsLoading)

	rejoined, err := controller.JoinByCode(ctx, "ABC123", "s1")
	require.NoError(t, err)
	require.NotNil(t, rejoined)
	assert.Equal(t, first.ID, rejoined.ID, "rejoin reactivates the dropped row")
	assert.Equal(t, models.EnrollmentActive, rejoined.Status)
}

func TestEnrollmentController_LeaveWithoutEnrollment(t *testing.T) {
	_, _, controller, course := newEnrollmentFixture(t)

	err := controller.Leave(context.Background(), course.ID, "s1")

	assert.ErrorIs(t, err, ErrNotEnrolled)
	assert.Equal(t, ErrNotEnrolled.Error(), controller.Snapshot().Err)
}

func TestEnrollmentController_DeleteIsUnsupported(t *testing.T) {
	_, _, controller, _ := newEnrollmentFixture(t)

	err := controller.Delete(context.Background(), "some-id")

	assert.Error(t, err)
	assert.NotEmpty(t, controller.Snapshot().Err)
}

func TestCourseController_EnrollmentEventInvalidatesStudentCourses(t *testing.T) {
	repo, bus, enrollments, course := newEnrollmentFixture(t)
	logger := testLogger()
	refresh := state.NewRefreshManager()
	courses := NewCourseController(repo, refresh, bus, logger, time.Minute)
	ctx := context.Background()

	// Warm the cache while the student is not enrolled.
	require.NoError(t, courses.LoadEnrolled(ctx, "s1", false))
	assert.Empty(t, courses.Snapshot().ByStudent["s1"])

	enrollment, err := enrollments.JoinByCode(ctx, "ABC123", "s1")
	require.NoError(t, err)
	require.NotNil(t, enrollment)

	// The join event invalidated "courses/student/s1"; a non-forced load
	// re-fetches and sees the enrollment.
	require.NoError(t, courses.LoadEnrolled(ctx, "s1", false))
	list := courses.Snapshot().ByStudent["s1"]
	require.Len(t, list, 1)
	assert.Equal(t, course.ID, list[0].ID)
}

func TestCourseController_LoadErrorLandsInState(t *testing.T) {
	repo, bus, _, _ := newEnrollmentFixture(t)
	logger := testLogger()
	courses := NewCourseController(repo, state.NewRefreshManager(), bus, logger, time.Minute)

	repo.failNext = assert.AnError

	err := courses.LoadEnrolled(context.Background(), "s1", false)

	assert.Error(t, err)
	snap := courses.Snapshot()
	assert.False(t, snap.IsLoading)
	assert.NotEmpty(t, snap.Err)
}
