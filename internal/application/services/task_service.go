package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/gotodo/core/internal/domain/entities"
	"github.com/gotodo/core/internal/infrastructure/logger"
	"github.com/gotodo/core/internal/ports"
)

// TaskService handles task-related operations
type TaskService struct {
	taskRepo     ports.TaskRepository
	tagRepo      ports.TagRepository
	categoryRepo ports.CategoryRepository
	logger       *logger.Logger
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo ports.TaskRepository, tagRepo ports.TagRepository, categoryRepo ports.CategoryRepository, logger *logger.Logger) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		tagRepo:      tagRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// CreateTask creates a new task owned by the actor. The completion flag is
// never taken from the payload; new tasks always start unfinished.
func (s *TaskService) CreateTask(ctx context.Context, actor entities.Actor, req ports.CreateTaskRequest) (*entities.Task, error) {
	tagIDs := dedupeIDs(req.TagIDs)

	tags, err := s.resolveTags(ctx, tagIDs)
	if err != nil {
		return nil, err
	}

	category, err := s.resolveCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	task := &entities.Task{
		Title:       req.Title,
		Description: req.Description,
		IsFinish:    false,
		CategoryID:  category.ID,
		EndAt:       req.EndAt,
		Attachment:  req.Attachment,
		CreatorID:   actor.ID,
	}

	if err := s.taskRepo.Create(ctx, task, tagIDs); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	task.Category = *category
	task.Tags = tags

	s.logger.Infow("Task created", "task_id", task.ID, "creator_id", actor.ID)

	return task, nil
}

// GetTask retrieves a task by ID. Tasks owned by other users are invisible to
// non-elevated callers and surface as not found.
func (s *TaskService) GetTask(ctx context.Context, actor entities.Actor, id int64) (*entities.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.CanView(task) {
		return nil, entities.ErrTaskNotFound
	}

	return task, nil
}

// UpdateTask applies a full or partial update. Only the creator or an
// elevated caller may mutate a task.
func (s *TaskService) UpdateTask(ctx context.Context, actor entities.Actor, id int64, req ports.UpdateTaskRequest) (*entities.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.CanModify(task) {
		return nil, entities.ErrForbidden
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.IsFinish != nil {
		task.IsFinish = *req.IsFinish
	}
	if req.EndAt != nil {
		task.EndAt = req.EndAt
	}
	if req.Attachment != nil {
		task.Attachment = req.Attachment
	}

	if req.CategoryID != nil {
		category, err := s.resolveCategory(ctx, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		task.CategoryID = category.ID
	}

	tagIDs := req.TagIDs
	if tagIDs != nil {
		tagIDs = dedupeIDs(tagIDs)
		if _, err := s.resolveTags(ctx, tagIDs); err != nil {
			return nil, err
		}
	}

	if err := s.taskRepo.Update(ctx, task, tagIDs); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	updated, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}

	s.logger.Infow("Task updated", "task_id", id, "user_id", actor.ID)

	return updated, nil
}

// DeleteTask deletes a task. Only the creator or an elevated caller may do so.
func (s *TaskService) DeleteTask(ctx context.Context, actor entities.Actor, id int64) error {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !actor.CanModify(task) {
		return entities.ErrForbidden
	}

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.Infow("Task deleted", "task_id", id, "user_id", actor.ID)

	return nil
}

// ToggleStatus flips the task's completion flag. Each call is a state
// transition; two calls in a row restore the original value.
func (s *TaskService) ToggleStatus(ctx context.Context, actor entities.Actor, id int64) (*entities.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.CanModify(task) {
		return nil, entities.ErrForbidden
	}

	isFinish, err := s.taskRepo.ToggleStatus(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle task status: %w", err)
	}

	s.logger.Infow("Task status toggled", "task_id", id, "is_finish", isFinish, "user_id", actor.ID)

	return s.taskRepo.GetByID(ctx, id)
}

// ListTasks returns the actor's visible tasks narrowed by the filter. The
// ownership restriction applies before any other predicate.
func (s *TaskService) ListTasks(ctx context.Context, actor entities.Actor, filter ports.TaskFilter) ([]*entities.Task, int64, error) {
	if !actor.SeesAll() {
		creatorID := actor.ID
		filter.CreatorID = &creatorID
	}

	tasks, total, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// dedupeIDs collapses repeated identifiers, preserving first-seen order.
// Repeating a tag in the payload yields a single membership.
func dedupeIDs(ids []int64) []int64 {
	if ids == nil {
		return nil
	}

	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// resolveTags loads the referenced tags and rejects the whole request when any
// identifier does not resolve. Callers pass deduplicated identifiers so the
// length comparison against the result set is exact.
func (s *TaskService) resolveTags(ctx context.Context, ids []int64) ([]entities.Tag, error) {
	tags, err := s.tagRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tags: %w", err)
	}

	if len(tags) == len(ids) {
		return tags, nil
	}

	found := make(map[int64]bool, len(tags))
	for _, tag := range tags {
		found[tag.ID] = true
	}

	var missing []int64
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}

	return nil, &entities.ReferenceError{Field: "tag_ids", IDs: missing}
}

func (s *TaskService) resolveCategory(ctx context.Context, id int64) (*entities.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, entities.ErrCategoryNotFound) {
			return nil, &entities.ReferenceError{Field: "category_id", IDs: []int64{id}}
		}
		return nil, fmt.Errorf("failed to resolve category: %w", err)
	}

	return category, nil
}
