package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/talentdesk/intake-api/internal/dto"
	"github.com/talentdesk/intake-api/internal/models"
	appErrors "github.com/talentdesk/intake-api/pkg/errors"
	"github.com/talentdesk/intake-api/pkg/jobs"
	"github.com/talentdesk/intake-api/pkg/storage"
)

type fileRepository interface {
	GetByID(ctx context.Context, id string) (*models.FileUpload, error)
	List(ctx context.Context, filter models.FileFilter) ([]models.FileUpload, error)
	SoftDelete(ctx context.Context, id string, deletedAt time.Time) error
}

type fileCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type cacheMetrics interface {
	ObserveCacheHit()
	ObserveCacheMiss()
}

// FileService serves the admin file-metadata endpoints with a read-through
// cache in front of the metadata table.
type FileService struct {
	repo     fileRepository
	cache    fileCache
	cleanup  cleanupEnqueuer
	logger   *zap.Logger
	metrics  cacheMetrics
	cacheTTL time.Duration
}

// NewFileService wires the file metadata reads. cache, cleanup and metrics
// may be nil.
func NewFileService(repo fileRepository, cache fileCache, cleanup cleanupEnqueuer, logger *zap.Logger, metrics cacheMetrics, cacheTTL time.Duration) *FileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &FileService{
		repo:     repo,
		cache:    cache,
		cleanup:  cleanup,
		logger:   logger,
		metrics:  metrics,
		cacheTTL: cacheTTL,
	}
}

// Get returns one file summary by record ID.
func (s *FileService) Get(ctx context.Context, id string) (*dto.FileSummary, error) {
	key := fmt.Sprintf("files:id:%s", id)
	if s.cache != nil {
		var cached dto.FileSummary
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.hit()
			return &cached, nil
		}
		s.miss()
	}

	file, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "file not found")
		}
		return nil, appErrors.FromError(err)
	}

	summary := summarize(file)
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, summary, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache file summary", zap.Error(err))
		}
	}
	return summary, nil
}

// List returns file summaries matching the filter.
func (s *FileService) List(ctx context.Context, query dto.FileListQuery, limit, offset int) ([]dto.FileSummary, error) {
	key := fmt.Sprintf("files:list:%s:%s:%d:%d", query.UploadedBy, query.Category, limit, offset)
	if s.cache != nil {
		var cached []dto.FileSummary
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.hit()
			return cached, nil
		}
		s.miss()
	}

	files, err := s.repo.List(ctx, models.FileFilter{
		UploadedBy: query.UploadedBy,
		Category:   query.Category,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	summaries := make([]dto.FileSummary, 0, len(files))
	for i := range files {
		summaries = append(summaries, *summarize(&files[i]))
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, summaries, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache file list", zap.Error(err))
		}
	}
	return summaries, nil
}

// Delete soft-deletes the metadata row and hands the blob to the cleanup
// workers. The row survives as an audit trail; only the blob is removed.
func (s *FileService) Delete(ctx context.Context, id string) error {
	file, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, appErrors.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "file not found")
		}
		return appErrors.FromError(err)
	}

	if err := s.repo.SoftDelete(ctx, id, time.Now().UTC()); err != nil {
		return appErrors.FromError(err)
	}

	if s.cleanup != nil {
		kind := storage.KindRaw
		if file.Category == "image" {
			kind = storage.KindImage
		}
		if err := s.cleanup.Enqueue(jobs.CleanupTask{
			ObjectID: file.StorageObjectID,
			Kind:     kind,
			Reason:   "admin delete",
		}); err != nil {
			s.logger.Sugar().Errorw("failed to enqueue blob deletion",
				"file_id", id, "object_id", file.StorageObjectID, "error", err)
		}
	}

	s.invalidate(ctx)
	return nil
}

func (s *FileService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "files:*"); err != nil {
		s.logger.Warn("failed to invalidate file cache", zap.Error(err))
	}
}

func (s *FileService) hit() {
	if s.metrics != nil {
		s.metrics.ObserveCacheHit()
	}
}

func (s *FileService) miss() {
	if s.metrics != nil {
		s.metrics.ObserveCacheMiss()
	}
}

func summarize(file *models.FileUpload) *dto.FileSummary {
	return &dto.FileSummary{
		ID:         file.ID,
		FileName:   file.SanitizedName,
		FileSize:   file.SizeHuman,
		FileType:   file.MimeType,
		URL:        file.StorageURL,
		UploadedAt: file.UploadedAt,
		Status:     string(file.Status),
	}
}
