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

// GroupState caches groups (with computed member counts) keyed by
// category id.
type GroupState struct {
	IsLoading  bool
	Err        string
	ByCategory map[string][]models.Group
}

type GroupController struct {
	store   *state.Store[GroupState]
	repo    repositories.Repository
	refresh *state.RefreshManager
	logger  *slog.Logger
	ttl     time.Duration
}

func NewGroupController(repo repositories.Repository, refresh *state.RefreshManager, bus *events.Bus, logger *slog.Logger, ttl time.Duration) *GroupController {
	c := &GroupController{
		store: state.NewStore("groups", GroupState{
			ByCategory: map[string][]models.Group{},
		}, logger),
		repo:    repo,
		refresh: refresh,
		logger:  logger,
		ttl:     ttl,
	}

	// A join elsewhere changes member counts; drop the category's
	// freshness record so the next load recomputes.
	bus.Subscribe(func(event events.Event) {
		if e, ok := event.(events.MembershipJoinedEvent); ok {
			c.refresh.Invalidate("groups/category/" + e.CategoryID)
		}
	})

	return c
}

func (c *GroupController) Subscribe(fn state.Listener[GroupState]) func() {
	return c.store.Subscribe(fn)
}

func (c *GroupController) Snapshot() GroupState {
	return c.store.Snapshot()
}

// Load fetches a category's groups and counts each group's members.
func (c *GroupController) Load(ctx context.Context, categoryID string, force bool) error {
	c.begin()

	_, err := c.refresh.Do(ctx, "groups/category/"+categoryID, c.ttl, force, func(ctx context.Context) error {
		groups, err := c.repo.Group().GetByCategory(ctx, categoryID)
		if err != nil {
			return err
		}
		for i := range groups {
			members, err := c.repo.Membership().GetByGroup(ctx, groups[i].ID)
			if err != nil {
				return err
			}
			groups[i].MemberCount = len(members)
		}
		c.store.Mutate(func(s GroupState) GroupState {
			next := cloneGroupState(s)
			next.ByCategory[categoryID] = groups
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

func (c *GroupController) Create(ctx context.Context, group *models.Group) (*models.Group, error) {
	c.begin()

	created, err := c.repo.Group().Create(ctx, group)
	if err != nil {
		c.fail(err)
		return nil, err
	}

	c.store.Mutate(func(s GroupState) GroupState {
		next := cloneGroupState(s)
		next.ByCategory[created.CategoryID] = append(append([]models.Group{}, s.ByCategory[created.CategoryID]...), *created)
		next.IsLoading = false
		return next
	})
	return created, nil
}

// Members returns a group's member student ids in backend order.
func (c *GroupController) Members(ctx context.Context, groupID string) ([]string, error) {
	c.begin()

	memberships, err := c.repo.Membership().GetByGroup(ctx, groupID)
	if err != nil {
		c.fail(err)
		return nil, err
	}

	ids := make([]string, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.StudentID)
	}

	c.finish()
	return ids, nil
}

func (c *GroupController) begin() {
	c.store.Mutate(func(s GroupState) GroupState {
		next := cloneGroupState(s)
		next.IsLoading = true
		next.Err = ""
		return next
	})
}

func (c *GroupController) finish() {
	c.store.Mutate(func(s GroupState) GroupState {
		next := cloneGroupState(s)
		next.IsLoading = false
		return next
	})
}

func (c *GroupController) fail(err error) {
	c.logger.Error("Group operation failed", "error", err)
	c.store.Mutate(func(s GroupState) GroupState {
		next := cloneGroupState(s)
		next.IsLoading = false
		next.Err = errMessage(err)
		return next
	})
}

func cloneGroupState(s GroupState) GroupState {
	next := GroupState{
		IsLoading:  s.IsLoading,
		Err:        s.Err,
		ByCategory: make(map[string][]models.Group, len(s.ByCategory)),
	}
	for k, v := range s.ByCategory {
		next.ByCategory[k] = v
	}
	return next
}
