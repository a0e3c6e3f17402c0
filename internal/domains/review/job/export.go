package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/xuri/excelize/v2"

	catmodel "review-service/internal/domains/category/model"
	categoryservice "review-service/internal/domains/category/service"
	"review-service/internal/config"
	"review-service/internal/domains/review/model"
	"review-service/internal/domains/review/repository"
	"review-service/internal/domains/review/service"
	"review-service/internal/infrastructure/storage"
	"review-service/pkg/cache"
	"review-service/pkg/logger"
)

const exportSheet = "Reviews"

// ExportProcessor runs the review export and purge tasks on the worker.
type ExportProcessor struct {
	repo       repository.ReviewRepository
	categories categoryservice.Service
	storage    *storage.MinIOStorage
	cache      cache.Cache
	cfg        *config.Config
}

func NewExportProcessor(
	repo repository.ReviewRepository,
	categories categoryservice.Service,
	minioStorage *storage.MinIOStorage,
	cacheStore cache.Cache,
	cfg *config.Config,
) *ExportProcessor {
	return &ExportProcessor{
		repo:       repo,
		categories: categories,
		storage:    minioStorage,
		cache:      cacheStore,
		cfg:        cfg,
	}
}

// HandleExportTask builds the review workbook and uploads it to object
// storage, tracking progress in the status store.
func (p *ExportProcessor) HandleExportTask(ctx context.Context, task *asynq.Task) error {
	var payload service.ExportTaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal export payload: %w", err)
	}

	p.setStatus(ctx, payload.ExportID, func(status *model.ExportStatus) {
		status.Status = model.ExportStatusProcessing
	})

	if err := p.runExport(ctx, payload.ExportID); err != nil {
		p.setStatus(ctx, payload.ExportID, func(status *model.ExportStatus) {
			status.Status = model.ExportStatusFailed
			status.Error = err.Error()
		})
		return err
	}

	return nil
}

func (p *ExportProcessor) runExport(ctx context.Context, exportID uuid.UUID) error {
	reviews, _, err := p.repo.List(ctx, &repository.ListFilter{})
	if err != nil {
		return fmt.Errorf("failed to load reviews: %w", err)
	}

	categories, err := p.categories.List(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}

	data, err := buildWorkbook(reviews, categories)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("exports/%s/%s.xlsx", time.Now().UTC().Format("2006-01-02"), exportID)
	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if err := p.storage.Upload(ctx, key, data, contentType); err != nil {
		return fmt.Errorf("failed to upload export: %w", err)
	}

	now := time.Now().UTC()
	p.setStatus(ctx, exportID, func(status *model.ExportStatus) {
		status.Status = model.ExportStatusCompleted
		status.FileKey = key
		status.CompletedAt = &now
	})

	logger.Info("Review export completed", map[string]interface{}{
		"export_id": exportID.String(),
		"file_key":  key,
		"reviews":   len(reviews),
	})

	return nil
}

// HandleDeleteStaleExports drops export files past the retention period.
func (p *ExportProcessor) HandleDeleteStaleExports(ctx context.Context, task *asynq.Task) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -p.cfg.Review.ExportRetentionDays)
	if err := p.storage.DeleteOlderThan(ctx, "exports/", cutoff); err != nil {
		return fmt.Errorf("failed to purge stale exports: %w", err)
	}

	logger.Info("Stale exports purged", map[string]interface{}{
		"cutoff": cutoff.Format(time.RFC3339),
	})

	return nil
}

func (p *ExportProcessor) setStatus(ctx context.Context, exportID uuid.UUID, mutate func(*model.ExportStatus)) {
	key := service.ExportStatusKey(exportID)

	var status model.ExportStatus
	found, err := p.cache.Get(ctx, key, &status)
	if err != nil || !found {
		status = model.ExportStatus{ID: exportID, RequestedAt: time.Now().UTC()}
	}
	mutate(&status)

	ttl := time.Duration(p.cfg.Review.ExportRetentionDays) * 24 * time.Hour
	if err := p.cache.Set(ctx, key, &status, ttl); err != nil {
		logger.Error("Failed to store export status", err)
	}
}

func buildWorkbook(reviews []model.Review, categories []catmodel.Category) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", exportSheet)

	headers := []string{"ID", "Target", "User", "Language", "Content", "Average", "Created At"}
	for _, category := range categories {
		headers = append(headers, category.Name)
	}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, review := range reviews {
		values := []interface{}{
			review.ID.String(),
			review.Target(),
			userCell(review.UserID),
			review.Language,
			review.Content,
			averageCell(review.AverageRating),
			review.CreatedAt.Format(time.RFC3339),
		}

		byCategory := make(map[uuid.UUID]*float64)
		for _, rating := range review.Ratings {
			if _, seen := byCategory[rating.CategoryID]; !seen {
				byCategory[rating.CategoryID] = rating.Value
			}
		}
		for _, category := range categories {
			values = append(values, averageCell(byCategory[category.ID]))
		}

		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(exportSheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func userCell(userID *uuid.UUID) interface{} {
	if userID == nil {
		return "anonymous"
	}
	return userID.String()
}

func averageCell(value *float64) interface{} {
	if value == nil {
		return ""
	}
	return *value
}
