package controllers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/SAP-F-2025/courseware-service/internal/models"
	"github.com/SAP-F-2025/courseware-service/internal/repositories"
)

// fakeRepo is an in-memory repositories.Repository. Write paths mimic the
// backend contract: ids assigned on create, updates by id, equality reads.
type fakeRepo struct {
	nextID      int
	courses     map[string]*models.Course
	categories  map[string]*models.Category
	groups      map[string]*models.Group
	enrollments map[string]*models.Enrollment
	memberships map[string]*models.Membership
	activities  map[string]*models.Activity
	assessments map[string]*models.Assessment

	failNext error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		courses:     map[string]*models.Course{},
		categories:  map[string]*models.Category{},
		groups:      map[string]*models.Group{},
		enrollments: map[string]*models.Enrollment{},
		memberships: map[string]*models.Membership{},
		activities:  map[string]*models.Activity{},
		assessments: map[string]*models.Assessment{},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func (f *fakeRepo) id() string {
	f.nextID++
	return fmt.Sprintf("id-%d", f.nextID)
}

func (f *fakeRepo) checkFail() error {
	if err := f.failNext; err != nil {
		f.failNext = nil
		return err
	}
	return nil
}

func (f *fakeRepo) Course() repositories.CourseRepository         { return (*fakeCourses)(f) }
func (f *fakeRepo) Category() repositories.CategoryRepository     { return (*fakeCategories)(f) }
func (f *fakeRepo) Group() repositories.GroupRepository           { return (*fakeGroups)(f) }
func (f *fakeRepo) Enrollment() repositories.EnrollmentRepository { return (*fakeEnrollments)(f) }
func (f *fakeRepo) Membership() repositories.MembershipRepository { return (*fakeMemberships)(f) }
func (f *fakeRepo) Activity() repositories.ActivityRepository     { return (*fakeActivities)(f) }
func (f *fakeRepo) Assessment() repositories.AssessmentRepository { return (*fakeAssessments)(f) }
func (f *fakeRepo) User() repositories.UserRepository             { return (*fakeUsers)(f) }

// ===== COURSES =====

type fakeCourses fakeRepo

func (f *fakeCourses) GetByID(_ context.Context, id string) (*models.Course, error) {
	if err := (*fakeRepo)(f).checkFail(); err != nil {
		return nil, err
	}
	if c, ok := f.courses[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeCourses) GetByTeacher(_ context.Context, teacherID string) ([]models.Course, error) {
	if err := (*fakeRepo)(f).checkFail(); err != nil {
		return nil, err
	}
	var out []models.Course
	for _, c := range f.courses {
		if c.TeacherID == teacherID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCourses) GetByJoinCode(_ context.Context, code string) (*models.Course, error) {
	if err := (*fakeRepo)(f).checkFail(); err != nil {
		return nil, err
	}
	for _, c := range f.courses {
		if c.JoinCode == code {
			copied := *c
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeCourses) Create(_ context.Context, course *models.Course) (*models.Course, error) {
	if err := (*fakeRepo)(f).checkFail(); err != nil {
		return nil, err
	}
	copied := *course
	copied.ID = (*fakeRepo)(f).id()
	copied.CreatedAt = time.Now()
	f.courses[copied.ID] = &copied
	result := copied
	return &result, nil
}

func (f *fakeCourses) Update(_ context.Context, id string, patch repositories.CourseUpdate) (*models.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Description != nil {
		c.Description = patch.Description
	}
	if patch.Status != nil {
		c.Status = *patch.Status
	}
	copied := *c
	return &copied, nil
}

// ===== CATEGORIES =====

type fakeCategories fakeRepo

func (f *fakeCategories) GetByID(_ context.Context, id string) (*models.Category, error) {
	if c, ok := f.categories[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeCategories) GetByCourse(_ context.Context, courseID string) ([]models.Category, error) {
	var out []models.Category
	for _, c := range f.categories {
		if c.CourseID == courseID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCategories) Create(_ context.Context, category *models.Category) (*models.Category, error) {
	copied := *category
	copied.ID = (*fakeRepo)(f).id()
	f.categories[copied.ID] = &copied
	result := copied
	return &result, nil
}

func (f *fakeCategories) Update(_ context.Context, id string, patch repositories.CategoryUpdate) (*models.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Weight != nil {
		c.Weight = *patch.Weight
	}
	if patch.MaxGroupSize != nil {
		c.MaxGroupSize = *patch.MaxGroupSize
	}
	copied := *c
	return &copied, nil
}

// ===== GROUPS =====

type fakeGroups fakeRepo

func (f *fakeGroups) GetByID(_ context.Context, id string) (*models.Group, error) {
	if g, ok := f.groups[id]; ok {
		copied := *g
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeGroups) GetByCategory(_ context.Context, categoryID string) ([]models.Group, error) {
	var out []models.Group
	for _, g := range f.groups {
		if g.CategoryID == categoryID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeGroups) GetByCourse(_ context.Context, courseID string) ([]models.Group, error) {
	var out []models.Group
	for _, g := range f.groups {
		if g.CourseID == courseID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeGroups) Create(_ context.Context, group *models.Group) (*models.Group, error) {
	copied := *group
	copied.ID = (*fakeRepo)(f).id()
	f.groups[copied.ID] = &copied
	result := copied
	return &result, nil
}

// ===== ENROLLMENTS =====

type fakeEnrollments fakeRepo

func (f *fakeEnrollments) GetByCourse(_ context.Context, courseID string) ([]models.Enrollment, error) {
	var out []models.Enrollment
	for _, e := range f.enrollments {
		if e.CourseID == courseID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEnrollments) GetByStudent(_ context.Context, studentID string) ([]models.Enrollment, error) {
	if err := (*fakeRepo)(f).checkFail(); err != nil {
		return nil, err
	}
	var out []models.Enrollment
	for _, e := range f.enrollments {
		if e.StudentID == studentID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEnrollments) GetByCourseAndStudent(_ context.Context, courseID, studentID string) (*models.Enrollment, error) {
	for _, e := range f.enrollments {
		if e.CourseID == courseID && e.StudentID == studentID {
			copied := *e
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeEnrollments) Create(_ context.Context, enrollment *models.Enrollment) (*models.Enrollment, error) {
	copied := *enrollment
	copied.ID = (*fakeRepo)(f).id()
	f.enrollments[copied.ID] = &copied
	result := copied
	return &result, nil
}

func (f *fakeEnrollments) UpdateStatus(_ context.Context, id string, status models.EnrollmentStatus) (*models.Enrollment, error) {
	e, ok := f.enrollments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	e.Status = status
	e.UpdatedAt = time.Now()
	copied := *e
	return &copied, nil
}

func (f *fakeEnrollments) Delete(_ context.Context, id string) error {
	return repositories.NewUnsupportedError("enrollment delete")
}

// ===== MEMBERSHIPS =====

type fakeMemberships fakeRepo

func (f *fakeMemberships) GetByGroup(_ context.Context, groupID string) ([]models.Membership, error) {
	var out []models.Membership
	for _, m := range f.memberships {
		if m.GroupID == groupID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMemberships) GetByCourse(_ context.Context, courseID string) ([]models.Membership, error) {
	var out []models.Membership
	for _, m := range f.memberships {
		if m.CourseID == courseID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMemberships) GetByStudentAndCategory(_ context.Context, studentID, categoryID string) (*models.Membership, error) {
	for _, m := range f.memberships {
		if m.StudentID == studentID && m.CategoryID == categoryID {
			copied := *m
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeMemberships) Create(_ context.Context, membership *models.Membership) (*models.Membership, error) {
	copied := *membership
	copied.ID = (*fakeRepo)(f).id()
	f.memberships[copied.ID] = &copied
	result := copied
	return &result, nil
}

func (f *fakeMemberships) Remove(_ context.Context, id string) error {
	return repositories.NewUnsupportedError("membership remove")
}

// ===== ACTIVITIES =====

type fakeActivities fakeRepo

func (f *fakeActivities) GetByID(_ context.Context, id string) (*models.Activity, error) {
	if a, ok := f.activities[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeActivities) GetByCourse(_ context.Context, courseID string) ([]models.Activity, error) {
	var out []models.Activity
	for _, a := range f.activities {
		if a.CourseID == courseID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeActivities) Create(_ context.Context, activity *models.Activity) (*models.Activity, error) {
	copied := *activity
	copied.ID = (*fakeRepo)(f).id()
	f.activities[copied.ID] = &copied
	result := copied
	return &result, nil
}

func (f *fakeActivities) Update(_ context.Context, id string, patch repositories.ActivityUpdate) (*models.Activity, error) {
	a, ok := f.activities[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.Description != nil {
		a.Description = patch.Description
	}
	if patch.Reviewing != nil {
		a.Reviewing = *patch.Reviewing
	}
	if patch.PrivateReview != nil {
		a.PrivateReview = *patch.PrivateReview
	}
	copied := *a
	return &copied, nil
}

// ===== ASSESSMENTS =====

type fakeAssessments fakeRepo

func (f *fakeAssessments) GetByActivity(_ context.Context, activityID string) ([]models.Assessment, error) {
	var out []models.Assessment
	for _, a := range f.assessments {
		if a.ActivityID == activityID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAssessments) GetByReviewer(_ context.Context, activityID, reviewerID string) ([]models.Assessment, error) {
	var out []models.Assessment
	for _, a := range f.assessments {
		if a.ActivityID == activityID && a.ReviewerID == reviewerID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAssessments) GetByActivities(ctx context.Context, activityIDs []string) ([]models.Assessment, error) {
	var out []models.Assessment
	for _, id := range activityIDs {
		batch, err := f.GetByActivity(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	return out, nil
}

func (f *fakeAssessments) Create(_ context.Context, assessment *models.Assessment) (*models.Assessment, error) {
	copied := *assessment
	copied.ID = (*fakeRepo)(f).id()
	f.assessments[copied.ID] = &copied
	result := copied
	return &result, nil
}

// ===== USERS =====

type fakeUsers fakeRepo

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	return nil, repositories.ErrNotFound
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	return repositories.NewUnsupportedError("user create")
}
