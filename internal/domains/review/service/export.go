package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"review-service/internal/domains/review/model"
	"review-service/internal/shared"
	"review-service/pkg/logger"
)

// ExportTaskPayload is the asynq payload of a review export job.
type ExportTaskPayload struct {
	ExportID uuid.UUID `json:"export_id"`
}

// ExportStatusKey is the redis key holding one export's state.
func ExportStatusKey(id uuid.UUID) string {
	return "review:export:" + id.String()
}

func (s *reviewService) RequestExport(ctx context.Context) (*model.ExportStatus, error) {
	status := &model.ExportStatus{
		ID:          uuid.New(),
		Status:      model.ExportStatusPending,
		RequestedAt: s.now(),
	}

	ttl := time.Duration(s.cfg.Review.ExportRetentionDays) * 24 * time.Hour
	if err := s.cache.Set(ctx, ExportStatusKey(status.ID), status, ttl); err != nil {
		return nil, fmt.Errorf("failed to store export status: %w", err)
	}

	payload, err := json.Marshal(ExportTaskPayload{ExportID: status.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeExportReviews, payload)
	if _, err := s.queue.EnqueueContext(ctx, task, asynq.Queue(shared.QueueDefault)); err != nil {
		return nil, fmt.Errorf("failed to enqueue export task: %w", err)
	}

	logger.Info("Review export requested", map[string]interface{}{
		"export_id": status.ID.String(),
	})

	return status, nil
}

func (s *reviewService) ExportStatus(ctx context.Context, id uuid.UUID) (*model.ExportStatus, error) {
	var status model.ExportStatus
	found, err := s.cache.Get(ctx, ExportStatusKey(id), &status)
	if err != nil {
		return nil, fmt.Errorf("failed to read export status: %w", err)
	}
	if !found {
		return nil, model.ErrExportNotFound
	}

	if status.Status == model.ExportStatusCompleted && status.FileKey != "" {
		url, err := s.storage.PresignedURL(ctx, status.FileKey, time.Hour)
		if err != nil {
			logger.Warn("Failed to presign export download", map[string]interface{}{
				"export_id": id.String(),
				"error":     err.Error(),
			})
		} else {
			status.DownloadURL = url
		}
	}

	return &status, nil
}
