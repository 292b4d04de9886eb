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

// ActivityState caches activities keyed by course id.
type ActivityState struct {
	IsLoading bool
	Err       string
	ByCourse  map[string][]models.Activity
}

type ActivityController struct {
	store   *state.Store[ActivityState]
	repo    repositories.Repository
	refresh *state.RefreshManager
	bus     *events.Bus
	logger  *slog.Logger
	ttl     time.Duration
}

func NewActivityController(repo repositories.Repository, refresh *state.RefreshManager, bus *events.Bus, logger *slog.Logger, ttl time.Duration) *ActivityController {
	return &ActivityController{
		store: state.NewStore("activities", ActivityState{
			ByCourse: map[string][]models.Activity{},
		}, logger),
		repo:    repo,
		refresh: refresh,
		bus:     bus,
		logger:  logger,
		ttl:     ttl,
	}
}

func (c *ActivityController) Subscribe(fn state.Listener[ActivityState]) func() {
	return c.store.Subscribe(fn)
}

func (c *ActivityController) Snapshot() ActivityState {
	return c.store.Snapshot()
}

func (c *ActivityController) Load(ctx context.Context, courseID string, force bool) error {
	c.begin()

	_, err := c.refresh.Do(ctx, "activities/course/"+courseID, c.ttl, force, func(ctx context.Context) error {
		activities, err := c.repo.Activity().GetByCourse(ctx, courseID)
		if err != nil {
			return err
		}
		c.store.Mutate(func(s ActivityState) ActivityState {
			next := cloneActivityState(s)
			next.ByCourse[courseID] = activities
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

func (c *ActivityController) Create(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	c.begin()

	created, err := c.repo.Activity().Create(ctx, activity)
	if err != nil {
		c.fail(err)
		return nil, err
	}

	c.store.Mutate(func(s ActivityState) ActivityState {
		next := cloneActivityState(s)
		next.ByCourse[created.CourseID] = append(append([]models.Activity{}, s.ByCourse[created.CourseID]...), *created)
		next.IsLoading = false
		return next
	})

	if created.Reviewing {
		c.publishReviewing(created)
	}
	return created, nil
}

// Update patches an activity. Turning Reviewing on publishes an
// ActivityPublishedEvent so review screens can refresh.
func (c *ActivityController) Update(ctx context.Context, id string, patch repositories.ActivityUpdate) (*models.Activity, error) {
	c.begin()

	var wasReviewing bool
	if patch.Reviewing != nil {
		current, err := c.repo.Activity().GetByID(ctx, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				err = ErrActivityNotFound
			}
			c.fail(err)
			return nil, err
		}
		wasReviewing = current.Reviewing
	}

	updated, err := c.repo.Activity().Update(ctx, id, patch)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			err = ErrActivityNotFound
		}
		c.fail(err)
		return nil, err
	}

	c.store.Mutate(func(s ActivityState) ActivityState {
		next := cloneActivityState(s)
		list := append([]models.Activity{}, s.ByCourse[updated.CourseID]...)
		for i := range list {
			if list[i].ID == updated.ID {
				list[i] = *updated
			}
		}
		next.ByCourse[updated.CourseID] = list
		next.IsLoading = false
		return next
	})

	if patch.Reviewing != nil && !wasReviewing && updated.Reviewing {
		c.publishReviewing(updated)
	}
	return updated, nil
}

func (c *ActivityController) publishReviewing(activity *models.Activity) {
	c.bus.Publish(events.ActivityPublishedEvent{
		ActivityID: activity.ID,
		CourseID:   activity.CourseID,
		Reviewing:  activity.Reviewing,
	})
}

func (c *ActivityController) begin() {
	c.store.Mutate(func(s ActivityState) ActivityState {
		next := cloneActivityState(s)
		next.IsLoading = true
		next.Err = ""
		return next
	})
}

func (c *ActivityController) finish() {
	c.store.Mutate(func(s ActivityState) ActivityState {
		next := cloneActivityState(s)
		next.IsLoading = false
		return next
	})
}

func (c *ActivityController) fail(err error) {
	c.logger.Error("Activity operation failed", "error", err)
	c.store.Mutate(func(s ActivityState) ActivityState {
		next := cloneActivityState(s)
		next.IsLoading = false
		next.Err = errMessage(err)
		return next
	})
}

func cloneActivityState(s ActivityState) ActivityState {
	next := ActivityState{
		IsLoading: s.IsLoading,
		Err:       s.Err,
		ByCourse:  make(map[string][]models.Activity, len(s.ByCourse)),
	}
	for k, v := range s.ByCourse {
		next.ByCourse[k] = v
	}
	return next
}
