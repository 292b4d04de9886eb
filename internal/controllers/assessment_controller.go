package controllers

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/SAP-F-2025/courseware-service/internal/events"
	"github.com/SAP-F-2025/courseware-service/internal/models"
	"github.com/SAP-F-2025/courseware-service/internal/repositories"
	"github.com/SAP-F-2025/courseware-service/internal/review"
	"github.com/SAP-F-2025/courseware-service/internal/state"
	"github.com/SAP-F-2025/courseware-service/internal/validator"
)

// AssessmentState holds each reviewer's own submissions per activity plus
// the computed course summaries. ByReviewer is keyed per (activity,
// reviewer) and SummaryByCourse per course so that a fresh cache hit always
// returns data scoped to the caller's request.
type AssessmentState struct {
	IsLoading       bool
	Err             string
	ByReviewer      map[string][]models.Assessment
	SummaryByCourse map[string]*review.CoursePeerReviewSummary
}

// ReviewerKey is the ByReviewer map key for one reviewer's submissions on
// one activity.
func ReviewerKey(activityID, reviewerID string) string {
	return activityID + "/" + reviewerID
}

// AssessmentController drives peer-review submission and aggregation.
type AssessmentController struct {
	store     *state.Store[AssessmentState]
	repo      repositories.Repository
	refresh   *state.RefreshManager
	bus       *events.Bus
	validator *validator.Validator
	logger    *slog.Logger
	ttl       time.Duration
}

func NewAssessmentController(repo repositories.Repository, refresh *state.RefreshManager, bus *events.Bus, v *validator.Validator, logger *slog.Logger, ttl time.Duration) *AssessmentController {
	c := &AssessmentController{
		store: state.NewStore("assessments", AssessmentState{
			ByReviewer:      map[string][]models.Assessment{},
			SummaryByCourse: map[string]*review.CoursePeerReviewSummary{},
		}, logger),
		repo:      repo,
		refresh:   refresh,
		bus:       bus,
		validator: v,
		logger:    logger,
		ttl:       ttl,
	}

	// A submitted rating or newly reviewing activity makes any cached
	// summary stale. The prefix covers every reviewer-scoped key for the
	// activity.
	bus.Subscribe(func(event events.Event) {
		switch e := event.(type) {
		case events.AssessmentSubmittedEvent:
			c.refresh.InvalidatePrefix("assessments/activity/" + e.ActivityID)
			c.refresh.InvalidatePrefix("review/summary/")
		case events.ActivityPublishedEvent:
			c.refresh.Invalidate("review/summary/" + e.CourseID)
		}
	})

	return c
}

func (c *AssessmentController) Subscribe(fn state.Listener[AssessmentState]) func() {
	return c.store.Subscribe(fn)
}

func (c *AssessmentController) Snapshot() AssessmentState {
	return c.store.Snapshot()
}

// Submit validates and stores one peer rating. The overall score is
// derived server-side from the four sub-scores; any Overall supplied by
// the caller is ignored. The error is also folded into state.Err for
// observers.
func (c *AssessmentController) Submit(ctx context.Context, assessment *models.Assessment) (*models.Assessment, error) {
	c.begin()

	if err := c.validator.Validate(assessment); err != nil {
		c.fail(err)
		return nil, err
	}

	activity, err := c.repo.Activity().GetByID(ctx, assessment.ActivityID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			err = ErrActivityNotFound
		}
		c.fail(err)
		return nil, err
	}
	if !activity.Reviewing {
		c.fail(ErrReviewClosed)
		return nil, ErrReviewClosed
	}

	membership, err := c.repo.Membership().GetByStudentAndCategory(ctx, assessment.ReviewerID, activity.CategoryID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			err = ErrReviewerNotInGroup
		}
		c.fail(err)
		return nil, err
	}
	assessment.GroupID = membership.GroupID

	existing, err := c.repo.Assessment().GetByReviewer(ctx, assessment.ActivityID, assessment.ReviewerID)
	if err != nil {
		c.fail(err)
		return nil, err
	}
	if review.IsDuplicate(existing, assessment.ReviewerID, assessment.StudentID) {
		c.fail(ErrDuplicateRating)
		return nil, ErrDuplicateRating
	}

	assessment.Overall = assessment.ComputeOverall()
	assessment.CreatedAt = time.Now().UTC()

	created, err := c.repo.Assessment().Create(ctx, assessment)
	if err != nil {
		c.fail(err)
		return nil, err
	}

	key := ReviewerKey(created.ActivityID, created.ReviewerID)
	c.store.Mutate(func(s AssessmentState) AssessmentState {
		next := cloneAssessmentState(s)
		next.ByReviewer[key] = append(append([]models.Assessment{}, s.ByReviewer[key]...), *created)
		next.IsLoading = false
		return next
	})

	c.bus.Publish(events.AssessmentSubmittedEvent{
		ActivityID: created.ActivityID,
		GroupID:    created.GroupID,
		ReviewerID: created.ReviewerID,
		StudentID:  created.StudentID,
	})
	return created, nil
}

// LoadByReviewer caches one reviewer's submissions for one activity. Both
// the refresh key and the state key carry the reviewer id: a fresh hit for
// another reviewer must never be served across users.
func (c *AssessmentController) LoadByReviewer(ctx context.Context, activityID, reviewerID string, force bool) error {
	c.begin()

	key := ReviewerKey(activityID, reviewerID)
	_, err := c.refresh.Do(ctx, "assessments/activity/"+activityID+"/reviewer/"+reviewerID, c.ttl, force, func(ctx context.Context) error {
		assessments, err := c.repo.Assessment().GetByReviewer(ctx, activityID, reviewerID)
		if err != nil {
			return err
		}
		c.store.Mutate(func(s AssessmentState) AssessmentState {
			next := cloneAssessmentState(s)
			next.ByReviewer[key] = assessments
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

// PendingPeers lists the groupmates the reviewer still has to rate on an
// activity. An empty slice means everyone is rated.
func (c *AssessmentController) PendingPeers(ctx context.Context, activityID, reviewerID string) ([]string, error) {
	c.begin()

	activity, err := c.repo.Activity().GetByID(ctx, activityID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			err = ErrActivityNotFound
		}
		c.fail(err)
		return nil, err
	}

	membership, err := c.repo.Membership().GetByStudentAndCategory(ctx, reviewerID, activity.CategoryID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			err = ErrReviewerNotInGroup
		}
		c.fail(err)
		return nil, err
	}

	members, err := c.repo.Membership().GetByGroup(ctx, membership.GroupID)
	if err != nil {
		c.fail(err)
		return nil, err
	}
	memberIDs := make([]string, 0, len(members))
	for _, m := range members {
		memberIDs = append(memberIDs, m.StudentID)
	}

	existing, err := c.repo.Assessment().GetByReviewer(ctx, activityID, reviewerID)
	if err != nil {
		c.fail(err)
		return nil, err
	}

	c.finish()
	return review.PendingPeers(memberIDs, reviewerID, existing), nil
}

// GroupStats aggregates one group's ratings for one activity.
func (c *AssessmentController) GroupStats(ctx context.Context, activityID, groupID string) (*review.GroupCrossActivityStats, error) {
	c.begin()

	group, err := c.repo.Group().GetByID(ctx, groupID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			err = ErrGroupNotFound
		}
		c.fail(err)
		return nil, err
	}

	all, err := c.repo.Assessment().GetByActivity(ctx, activityID)
	if err != nil {
		c.fail(err)
		return nil, err
	}

	var assessments []models.Assessment
	for _, a := range all {
		if a.GroupID == groupID {
			assessments = append(assessments, a)
		}
	}

	c.finish()
	stats := review.GroupStats(group.ID, group.Name, assessments)
	return &stats, nil
}

// CourseSummary computes the weighted cross-activity summary for a course:
// activities open for summary, every group's aggregate, and the course-wide
// averages weighted by group assessment counts. A nil Averages means there
// is not enough data yet. Summaries are cached per course.
func (c *AssessmentController) CourseSummary(ctx context.Context, courseID string, force bool) (*review.CoursePeerReviewSummary, error) {
	c.begin()

	_, err := c.refresh.Do(ctx, "review/summary/"+courseID, c.ttl, force, func(ctx context.Context) error {
		summary, err := c.buildSummary(ctx, courseID)
		if err != nil {
			return err
		}
		c.store.Mutate(func(s AssessmentState) AssessmentState {
			next := cloneAssessmentState(s)
			next.SummaryByCourse[courseID] = summary
			return next
		})
		return nil
	})
	if err != nil {
		c.fail(err)
		return nil, err
	}

	c.finish()
	return c.store.Snapshot().SummaryByCourse[courseID], nil
}

func (c *AssessmentController) buildSummary(ctx context.Context, courseID string) (*review.CoursePeerReviewSummary, error) {
	activities, err := c.repo.Activity().GetByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	activityIDs := make([]string, 0, len(activities))
	for _, a := range activities {
		if a.OpenForSummary() {
			activityIDs = append(activityIDs, a.ID)
		}
	}

	groups, err := c.repo.Group().GetByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	memberships, err := c.repo.Membership().GetByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(memberships))
	studentIDs := make([]string, 0, len(memberships))
	for _, m := range memberships {
		if !seen[m.StudentID] {
			seen[m.StudentID] = true
			studentIDs = append(studentIDs, m.StudentID)
		}
	}
	sort.Strings(studentIDs)

	assessments, err := c.repo.Assessment().GetByActivities(ctx, activityIDs)
	if err != nil {
		return nil, err
	}
	byGroup := make(map[string][]models.Assessment)
	for _, a := range assessments {
		byGroup[a.GroupID] = append(byGroup[a.GroupID], a)
	}

	groupStats := make([]review.GroupCrossActivityStats, 0, len(groups))
	for _, g := range groups {
		groupStats = append(groupStats, review.GroupStats(g.ID, g.Name, byGroup[g.ID]))
	}

	return &review.CoursePeerReviewSummary{
		CourseID:    courseID,
		ActivityIDs: activityIDs,
		Groups:      groupStats,
		StudentIDs:  studentIDs,
		Averages:    review.WeightedCourseAverages(groupStats),
	}, nil
}

func (c *AssessmentController) begin() {
	c.store.Mutate(func(s AssessmentState) AssessmentState {
		next := cloneAssessmentState(s)
		next.IsLoading = true
		next.Err = ""
		return next
	})
}

func (c *AssessmentController) finish() {
	c.store.Mutate(func(s AssessmentState) AssessmentState {
		next := cloneAssessmentState(s)
		next.IsLoading = false
		return next
	})
}

func (c *AssessmentController) fail(err error) {
	c.logger.Error("Assessment operation failed", "error", err)
	c.store.Mutate(func(s AssessmentState) AssessmentState {
		next := cloneAssessmentState(s)
		next.IsLoading = false
		next.Err = errMessage(err)
		return next
	})
}

func cloneAssessmentState(s AssessmentState) AssessmentState {
	next := AssessmentState{
		IsLoading:       s.IsLoading,
		Err:             s.Err,
		ByReviewer:      make(map[string][]models.Assessment, len(s.ByReviewer)),
		SummaryByCourse: make(map[string]*review.CoursePeerReviewSummary, len(s.SummaryByCourse)),
	}
	for k, v := range s.ByReviewer {
		next.ByReviewer[k] = v
	}
	for k, v := range s.SummaryByCourse {
		next.SummaryByCourse[k] = v
	}
	return next
}
