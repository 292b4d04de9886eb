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

// MembershipState caches memberships keyed by group id.
type MembershipState struct {
	IsLoading bool
	Err       string
	ByGroup   map[string][]models.Membership
}

type MembershipController struct {
	store  *state.Store[MembershipState]
	repo   repositories.Repository
	bus    *events.Bus
	logger *slog.Logger
}

func NewMembershipController(repo repositories.Repository, bus *events.Bus, logger *slog.Logger) *MembershipController {
	return &MembershipController{
		store: state.NewStore("memberships", MembershipState{
			ByGroup: map[string][]models.Membership{},
		}, logger),
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

func (c *MembershipController) Subscribe(fn state.Listener[MembershipState]) func() {
	return c.store.Subscribe(fn)
}

func (c *MembershipController) Snapshot() MembershipState {
	return c.store.Snapshot()
}

func (c *MembershipController) Load(ctx context.Context, groupID string) error {
	c.begin()

	memberships, err := c.repo.Membership().GetByGroup(ctx, groupID)
	if err != nil {
		c.fail(err)
		return err
	}

	c.store.Mutate(func(s MembershipState) MembershipState {
		next := cloneMembershipState(s)
		next.ByGroup[groupID] = memberships
		next.IsLoading = false
		return next
	})
	return nil
}

// Join adds the student to a group, enforcing one group per category. On
// success a MembershipJoinedEvent goes out so group member counts
// elsewhere revalidate.
func (c *MembershipController) Join(ctx context.Context, groupID, studentID string) (*models.Membership, error) {
	c.begin()

	group, err := c.repo.Group().GetByID(ctx, groupID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			err = ErrGroupNotFound
		}
		c.fail(err)
		return nil, err
	}

	existing, err := c.repo.Membership().GetByStudentAndCategory(ctx, studentID, group.CategoryID)
	switch {
	case err == nil && existing != nil:
		c.fail(ErrAlreadyInGroup)
		return nil, ErrAlreadyInGroup
	case err != nil && !repositories.IsNotFoundError(err):
		c.fail(err)
		return nil, err
	}

	created, err := c.repo.Membership().Create(ctx, &models.Membership{
		GroupID:    group.ID,
		CategoryID: group.CategoryID,
		CourseID:   group.CourseID,
		StudentID:  studentID,
		JoinedAt:   time.Now().UTC(),
	})
	if err != nil {
		c.fail(err)
		return nil, err
	}

	c.store.Mutate(func(s MembershipState) MembershipState {
		next := cloneMembershipState(s)
		next.ByGroup[groupID] = append(append([]models.Membership{}, s.ByGroup[groupID]...), *created)
		next.IsLoading = false
		return next
	})
	c.bus.Publish(events.MembershipJoinedEvent{
		GroupID:    group.ID,
		CategoryID: group.CategoryID,
		CourseID:   group.CourseID,
		StudentID:  studentID,
	})
	return created, nil
}

// Remove surfaces the backend's missing remove endpoint as a typed
// Unsupported error.
func (c *MembershipController) Remove(ctx context.Context, id string) error {
	c.begin()

	if err := c.repo.Membership().Remove(ctx, id); err != nil {
		c.fail(err)
		return err
	}
	c.finish()
	return nil
}

func (c *MembershipController) begin() {
	c.store.Mutate(func(s MembershipState) MembershipState {
		next := cloneMembershipState(s)
		next.IsLoading = true
		next.Err = ""
		return next
	})
}

func (c *MembershipController) finish() {
	c.store.Mutate(func(s MembershipState) MembershipState {
		next := cloneMembershipState(s)
		next.IsLoading = false
		return next
	})
}

func (c *MembershipController) fail(err error) {
	c.logger.Error("Membership operation failed", "error", err)
	c.store.Mutate(func(s MembershipState) MembershipState {
		next := cloneMembershipState(s)
		next.IsLoading = false
		next.Err = errMessage(err)
		return next
	})
}

func cloneMembershipState(s MembershipState) MembershipState {
	next := MembershipState{
		IsLoading: s.IsLoading,
		Err:       s.Err,
		ByGroup:   make(map[string][]models.Membership, len(s.ByGroup)),
	}
	for k, v := range s.ByGroup {
		next.ByGroup[k] = v
	}
	return next
}
