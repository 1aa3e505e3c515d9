package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"foodgram/internal/cache"
	"foodgram/internal/errors"
	"foodgram/internal/model"
	"foodgram/internal/repository"
)

const (
	tagCacheTTL     = 10 * time.Minute
	tagListCacheKey = "tags:all"
)

// TagService serves tag reference data through the Redis cache.
type TagService interface {
	List(ctx context.Context) ([]model.Tag, error)
	Get(ctx context.Context, id uint) (*model.Tag, error)
}

type tagService struct {
	repo  repository.TagRepository
	cache *cache.Client
}

// NewTagService builds a TagService with repository and cache.
func NewTagService(repo repository.TagRepository, cache *cache.Client) TagService {
	return &tagService{repo: repo, cache: cache}
}

func (s *tagService) cacheKey(id uint) string {
	return fmt.Sprintf("tag:%d", id)
}

func (s *tagService) List(ctx context.Context) ([]model.Tag, error) {
	var cached []model.Tag
	if s.cache.GetJSON(ctx, tagListCacheKey, &cached) {
		return cached, nil
	}

	tags, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	_ = s.cache.SetJSON(ctx, tagListCacheKey, tags, tagCacheTTL)
	return tags, nil
}

func (s *tagService) Get(ctx context.Context, id uint) (*model.Tag, error) {
	var cached model.Tag
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	tag, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrTagNotFound
		}
		return nil, fmt.Errorf("find tag: %w", err)
	}
	_ = s.cache.SetJSON(ctx, s.cacheKey(id), tag, tagCacheTTL)
	return tag, nil
}
