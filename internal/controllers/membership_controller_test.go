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

func newMembershipFixture(t *testing.T) (*fakeRepo, *events.Bus, *MembershipController, *models.Group) {
	t.Helper()

	repo := newFakeRepo()
	ctx := context.Background()

	category, err := repo.Category().Create(ctx, &models.Category{CourseID: "course-1", Name: "Lab", Weight: 30})
	require.NoError(t, err)
	group, err := repo.Group().Create(ctx, &models.Group{
		CourseID:   "course-1",
		CategoryID: category.ID,
		Name:       "Team Alpha",
	})
	require.NoError(t, err)

	logger := testLogger()
	bus := events.NewBus(logger)
	return repo, bus, NewMembershipController(repo, bus, logger), group
}

func TestMembershipController_Join(t *testing.T) {
	_, bus, controller, group := newMembershipFixture(t)

	var joined []events.MembershipJoinedEvent
	bus.Subscribe(func(e events.Event) {
		if ev, ok := e.(events.MembershipJoinedEvent); ok {
			joined = append(joined, ev)
		}
	})

	membership, err := controller.Join(context.Background(), group.ID, "s1")
	require.NoError(t, err)

	require.NotNil(t, membership)
	assert.Equal(t, group.ID, membership.GroupID)
	assert.Equal(t, group.CategoryID, membership.CategoryID)
	assert.Equal(t, group.CourseID, membership.CourseID)
	require.Len(t, joined, 1)
	assert.Equal(t, "s1", joined[0].StudentID)

	snap := controller.Snapshot()
	assert.False(t, snap.IsLoading, "a completed join must clear the loading flag")
	assert.Empty(t, snap.Err)
}

func TestMembershipController_OneGroupPerCategory(t *testing.T) {
	repo, _, controller, group := newMembershipFixture(t)
	ctx := context.Background()

	// A second group in the same category.
	other, err := repo.Group().Create(ctx, &models.Group{
		CourseID:   group.CourseID,
		CategoryID: group.CategoryID,
		Name:       "Team Beta",
	})
	require.NoError(t, err)

	first, err := controller.Join(ctx, group.ID, "s1")
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := controller.Join(ctx, other.ID, "s1")
	assert.Nil(t, second)
	assert.ErrorIs(t, err, ErrAlreadyInGroup)
	assert.Equal(t, ErrAlreadyInGroup.Error(), controller.Snapshot().Err)
}

func TestMembershipController_JoinUnknownGroup(t *testing.T) {
	_, _, controller, _ := newMembershipFixture(t)

	membership, err := controller.Join(context.Background(), "missing", "s1")

	assert.Nil(t, membership)
	assert.ErrorIs(t, err, ErrGroupNotFound)
	assert.Equal(t, ErrGroupNotFound.Error(), controller.Snapshot().Err)
}

func TestMembershipController_RemoveIsUnsupported(t *testing.T) {
	_, _, controller, _ := newMembershipFixture(t)

	err := controller.Remove(context.Background(), "some-id")

	assert.Error(t, err)
	assert.NotEmpty(t, controller.Snapshot().Err)
}

func TestGroupController_JoinEventRefreshesMemberCounts(t *testing.T) {
	repo, bus, memberships, group := newMembershipFixture(t)
	logger := testLogger()
	groups := NewGroupController(repo, state.NewRefreshManager(), bus, logger, time.Minute)
	ctx := context.Background()

	require.NoError(t, groups.Load(ctx, group.CategoryID, false))
	loaded := groups.Snapshot().ByCategory[group.CategoryID]
	require.Len(t, loaded, 1)
	assert.Equal(t, 0, loaded[0].MemberCount)

	membership, err := memberships.Join(ctx, group.ID, "s1")
	require.NoError(t, err)
	require.NotNil(t, membership)

	// The join event dropped the category's freshness record, so a
	// non-forced load recomputes member counts.
	require.NoError(t, groups.Load(ctx, group.CategoryID, false))
	loaded = groups.Snapshot().ByCategory[group.CategoryID]
	require.Len(t, loaded, 1)
	assert.Equal(t, 1, loaded[0].MemberCount)
}
