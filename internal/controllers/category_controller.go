package controllers

import (
	"context"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/courseware-service/internal/models"
	"github.com/SAP-F-2025/courseware-service/internal/repositories"
	"github.com/SAP-F-2025/courseware-service/internal/state"
	"github.com/SAP-F-2025/courseware-service/internal/validator"
)

// CategoryState caches a course's categories keyed by course id.
type CategoryState struct {
	IsLoading bool
	Err       string
	ByCourse  map[string][]models.Category
}

type CategoryController struct {
	store     *state.Store[CategoryState]
	repo      repositories.Repository
	refresh   *state.RefreshManager
	validator *validator.Validator
	logger    *slog.Logger
	ttl       time.Duration
}

func NewCategoryController(repo repositories.Repository, refresh *state.RefreshManager, v *validator.Validator, logger *slog.Logger, ttl time.Duration) *CategoryController {
	return &CategoryController{
		store: state.NewStore("categories", CategoryState{
			ByCourse: map[string][]models.Category{},
		}, logger),
		repo:      repo,
		refresh:   refresh,
		validator: v,
		logger:    logger,
		ttl:       ttl,
	}
}

func (c *CategoryController) Subscribe(fn state.Listener[CategoryState]) func() {
	return c.store.Subscribe(fn)
}

func (c *CategoryController) Snapshot() CategoryState {
	return c.store.Snapshot()
}

func (c *CategoryController) Load(ctx context.Context, courseID string, force bool) error {
	c.begin()

	_, err := c.refresh.Do(ctx, "categories/course/"+courseID, c.ttl, force, func(ctx context.Context) error {
		categories, err := c.repo.Category().GetByCourse(ctx, courseID)
		if err != nil {
			return err
		}
		c.store.Mutate(func(s CategoryState) CategoryState {
			next := cloneCategoryState(s)
			next.ByCourse[courseID] = categories
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

// Create validates the category, including the course-wide weight budget,
// before inserting it.
func (c *CategoryController) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	c.begin()

	if err := c.validator.Validate(category); err != nil {
		c.fail(err)
		return nil, err
	}

	existing, err := c.repo.Category().GetByCourse(ctx, category.CourseID)
	if err != nil {
		c.fail(err)
		return nil, err
	}
	if errs := c.validator.Business().ValidateCategoryWeight(existing, category.Weight, ""); len(errs) > 0 {
		c.fail(errs)
		return nil, errs
	}

	created, err := c.repo.Category().Create(ctx, category)
	if err != nil {
		c.fail(err)
		return nil, err
	}

	c.store.Mutate(func(s CategoryState) CategoryState {
		next := cloneCategoryState(s)
		next.ByCourse[created.CourseID] = append(append([]models.Category{}, s.ByCourse[created.CourseID]...), *created)
		next.IsLoading = false
		return next
	})
	return created, nil
}

// Update patches a category; a weight change re-checks the course budget
// with the category itself excluded from the existing sum.
func (c *CategoryController) Update(ctx context.Context, id string, patch repositories.CategoryUpdate) (*models.Category, error) {
	c.begin()

	if patch.Weight != nil {
		current, err := c.repo.Category().GetByID(ctx, id)
		if err != nil {
			c.fail(err)
			return nil, err
		}
		existing, err := c.repo.Category().GetByCourse(ctx, current.CourseID)
		if err != nil {
			c.fail(err)
			return nil, err
		}
		if errs := c.validator.Business().ValidateCategoryWeight(existing, *patch.Weight, id); len(errs) > 0 {
			c.fail(errs)
			return nil, errs
		}
	}

	updated, err := c.repo.Category().Update(ctx, id, patch)
	if err != nil {
		c.fail(err)
		return nil, err
	}

	c.store.Mutate(func(s CategoryState) CategoryState {
		next := cloneCategoryState(s)
		list := append([]models.Category{}, s.ByCourse[updated.CourseID]...)
		for i := range list {
			if list[i].ID == updated.ID {
				list[i] = *updated
			}
		}
		next.ByCourse[updated.CourseID] = list
		next.IsLoading = false
		return next
	})
	return updated, nil
}

func (c *CategoryController) begin() {
	c.store.Mutate(func(s CategoryState) CategoryState {
		next := cloneCategoryState(s)
		next.IsLoading = true
		next.Err = ""
		return next
	})
}

func (c *CategoryController) finish() {
	c.store.Mutate(func(s CategoryState) CategoryState {
		next := cloneCategoryState(s)
		next.IsLoading = false
		return next
	})
}

func (c *CategoryController) fail(err error) {
	c.logger.Error("Category operation failed", "error", err)
	c.store.Mutate(func(s CategoryState) CategoryState {
		next := cloneCategoryState(s)
		next.IsLoading = false
		next.Err = errMessage(err)
		return next
	})
}

func cloneCategoryState(s CategoryState) CategoryState {
	next := CategoryState{
		IsLoading: s.IsLoading,
		Err:       s.Err,
		ByCourse:  make(map[string][]models.Category, len(s.ByCourse)),
	}
	for k, v := range s.ByCourse {
		next.ByCourse[k] = v
	}
	return next
}
