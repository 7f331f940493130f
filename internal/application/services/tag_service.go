package services

import (
	"context"
	"fmt"

	"github.com/gotodo/core/internal/domain/entities"
	"github.com/gotodo/core/internal/infrastructure/logger"
	"github.com/gotodo/core/internal/ports"
)

// TagService handles tag-related operations. Tags are not ownership-scoped;
// any authenticated caller may manage them.
type TagService struct {
	tagRepo ports.TagRepository
	logger  *logger.Logger
}

// NewTagService creates a new tag service
func NewTagService(tagRepo ports.TagRepository, logger *logger.Logger) *TagService {
	return &TagService{tagRepo: tagRepo, logger: logger}
}

// CreateTag creates a new tag
func (s *TagService) CreateTag(ctx context.Context, req ports.CreateTagRequest) (*entities.Tag, error) {
	tag := &entities.Tag{
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	s.logger.Infow("Tag created", "tag_id", tag.ID, "name", tag.Name)

	return tag, nil
}

// GetTag retrieves a tag by ID
func (s *TagService) GetTag(ctx context.Context, id int64) (*entities.Tag, error) {
	return s.tagRepo.GetByID(ctx, id)
}

// UpdateTag applies a full or partial update to a tag
func (s *TagService) UpdateTag(ctx context.Context, id int64, req ports.UpdateTagRequest) (*entities.Tag, error) {
	tag, err := s.tagRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		tag.Name = *req.Name
	}
	if req.Description != nil {
		tag.Description = *req.Description
	}

	if err := s.tagRepo.Update(ctx, tag); err != nil {
		return nil, fmt.Errorf("failed to update tag: %w", err)
	}

	s.logger.Infow("Tag updated", "tag_id", id)

	return tag, nil
}

// DeleteTag removes a tag. Referencing tasks simply lose the membership.
func (s *TagService) DeleteTag(ctx context.Context, id int64) error {
	if err := s.tagRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}

	s.logger.Infow("Tag deleted", "tag_id", id)

	return nil
}

// ListTags retrieves tags with filtering and pagination
func (s *TagService) ListTags(ctx context.Context, filter ports.TagFilter) ([]*entities.Tag, int64, error) {
	tags, total, err := s.tagRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tags: %w", err)
	}

	return tags, total, nil
}
