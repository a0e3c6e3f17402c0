package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	catmodel "review-service/internal/domains/category/model"
	categoryservice "review-service/internal/domains/category/service"
	filtermodel "review-service/internal/domains/contentfilter/model"
	filterservice "review-service/internal/domains/contentfilter/service"
	ctmodel "review-service/internal/domains/contenttype/model"
	ctservice "review-service/internal/domains/contenttype/service"
	"review-service/internal/config"
	"review-service/internal/domains/review/model"
	"review-service/internal/domains/review/repository"
	"review-service/pkg/cache"
	"review-service/pkg/logger"
)

// ============================================================================
// SERVICE INTERFACE
// ============================================================================

type Service interface {
	// Public surface
	Submit(ctx context.Context, userID *uuid.UUID, req *model.SubmitReviewRequest) (*model.Review, error)
	Update(ctx context.Context, id uuid.UUID, userID *uuid.UUID, req *model.UpdateReviewRequest) (*model.Review, error)
	Delete(ctx context.Context, id uuid.UUID, userID *uuid.UUID, isAdmin bool) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	List(ctx context.Context, query *model.ListReviewsQuery) ([]model.Review, int, error)
	RescaledAverage(ctx context.Context, id uuid.UUID, targetMax *float64) (float64, bool, error)
	Form(ctx context.Context, target, language string, reviewID *uuid.UUID) (*model.ReviewForm, error)

	// Admin curation
	AdminUpdate(ctx context.Context, id uuid.UUID, req *model.AdminUpdateReviewRequest) (*model.Review, error)
	UpsertRating(ctx context.Context, reviewID, categoryID uuid.UUID, value *float64) (*model.Review, error)
	Candidates(ctx context.Context, filterID *uuid.UUID) ([]ctmodel.Candidate, error)
	AddExtraInfo(ctx context.Context, reviewID uuid.UUID, req *model.ExtraInfoRequest) (*model.ReviewExtraInfo, error)
	DeleteExtraInfo(ctx context.Context, reviewID, infoID uuid.UUID) error

	// Export
	RequestExport(ctx context.Context) (*model.ExportStatus, error)
	ExportStatus(ctx context.Context, id uuid.UUID) (*model.ExportStatus, error)
}

// ExportStorage is the slice of object storage the export surface needs.
type ExportStorage interface {
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ============================================================================
// SERVICE IMPLEMENTATION
// ============================================================================

type reviewService struct {
	repo         repository.ReviewRepository
	categories   categoryservice.Service
	contentTypes ctservice.Service
	filters      filterservice.Service
	cache        cache.Cache
	storage      ExportStorage
	queue        TaskEnqueuer
	cfg          *config.Config

	now func() time.Time
}

func NewReviewService(
	repo repository.ReviewRepository,
	categories categoryservice.Service,
	contentTypes ctservice.Service,
	filters filterservice.Service,
	cacheStore cache.Cache,
	exportStorage ExportStorage,
	queue TaskEnqueuer,
	cfg *config.Config,
) Service {
	return &reviewService{
		repo:         repo,
		categories:   categories,
		contentTypes: contentTypes,
		filters:      filters,
		cache:        cacheStore,
		storage:      exportStorage,
		queue:        queue,
		cfg:          cfg,
		now:          time.Now,
	}
}

// ============================================================================
// SUBMISSION LIFECYCLE
// ============================================================================

func (s *reviewService) Submit(ctx context.Context, userID *uuid.UUID, req *model.SubmitReviewRequest) (*model.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	contentTypeID, objectID, err := s.resolveTarget(ctx, req.Target)
	if err != nil {
		return nil, err
	}

	if req.ContentFilterID != nil {
		if err := s.checkFilter(ctx, *req.ContentFilterID, contentTypeID); err != nil {
			return nil, err
		}
	}

	categories, scales, err := s.loadCategories(ctx)
	if err != nil {
		return nil, err
	}

	submitted, err := parseRatingKeys(req.Ratings)
	if err != nil {
		return nil, err
	}
	if err := validateRatings(categories, nil, submitted); err != nil {
		return nil, err
	}

	review := &model.Review{
		ID:              uuid.New(),
		ContentTypeID:   contentTypeID,
		ObjectID:        objectID,
		UserID:          userID,
		Content:         req.Content,
		Language:        req.Language,
		ContentFilterID: req.ContentFilterID,
		Ratings:         mergeRatings(categories, nil, submitted),
	}
	review.AverageRating = storedAverage(review.Ratings, scales)

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}

	logger.Info("Review submitted", map[string]interface{}{
		"review_id": review.ID.String(),
		"target":    review.Target(),
		"anonymous": userID == nil,
	})

	return review, nil
}

func (s *reviewService) Update(ctx context.Context, id uuid.UUID, userID *uuid.UUID, req *model.UpdateReviewRequest) (*model.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Anonymous reviews have no owner and cannot be edited publicly.
	if userID == nil || review.UserID == nil || *review.UserID != *userID {
		return nil, model.ErrNotOwner
	}
	if !review.IsEditable(s.cfg.Review.UpdatePeriodDays, s.now()) {
		return nil, model.ErrEditWindowClosed
	}

	categories, scales, err := s.loadCategories(ctx)
	if err != nil {
		return nil, err
	}

	submitted, err := parseRatingKeys(req.Ratings)
	if err != nil {
		return nil, err
	}
	if err := validateRatings(categories, review.Ratings, submitted); err != nil {
		return nil, err
	}

	review.Content = req.Content
	review.Language = req.Language
	review.Ratings = mergeRatings(categories, review.Ratings, submitted)
	review.AverageRating = storedAverage(review.Ratings, scales)

	if err := s.repo.Update(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

func (s *reviewService) AdminUpdate(ctx context.Context, id uuid.UUID, req *model.AdminUpdateReviewRequest) (*model.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Curation is not bound by the edit window or ownership, and may
	// re-point the review at a different item.
	if req.Target != "" {
		contentTypeID, objectID, err := s.resolveTarget(ctx, req.Target)
		if err != nil {
			return nil, err
		}
		review.ContentTypeID = contentTypeID
		review.ObjectID = objectID
	}

	review.ContentFilterID = req.ContentFilterID
	if req.ContentFilterID != nil {
		if err := s.checkFilter(ctx, *req.ContentFilterID, review.ContentTypeID); err != nil {
			return nil, err
		}
	}

	categories, scales, err := s.loadCategories(ctx)
	if err != nil {
		return nil, err
	}

	submitted, err := parseRatingKeys(req.Ratings)
	if err != nil {
		return nil, err
	}
	if err := validateRatings(categories, review.Ratings, submitted); err != nil {
		return nil, err
	}

	review.Content = req.Content
	review.Language = req.Language
	review.Ratings = mergeRatings(categories, review.Ratings, submitted)
	review.AverageRating = storedAverage(review.Ratings, scales)

	if err := s.repo.Update(ctx, review); err != nil {
		return nil, err
	}

	logger.Info("Review updated by admin", map[string]interface{}{
		"review_id": review.ID.String(),
		"target":    review.Target(),
	})

	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, id uuid.UUID, userID *uuid.UUID, isAdmin bool) error {
	if !isAdmin {
		review, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if userID == nil || review.UserID == nil || *review.UserID != *userID {
			return model.ErrNotOwner
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info("Review deleted", map[string]interface{}{
		"review_id": id.String(),
		"by_admin":  isAdmin,
	})

	return nil
}

// ============================================================================
// READS
// ============================================================================

func (s *reviewService) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *reviewService) List(ctx context.Context, query *model.ListReviewsQuery) ([]model.Review, int, error) {
	query.Normalize()

	filter := &repository.ListFilter{
		UserID:   query.UserID,
		FilterID: query.FilterID,
		Page:     query.Page,
		Limit:    query.Limit,
	}

	if query.Target != "" {
		contentTypeID, objectID, err := ctmodel.DecodeToken(query.Target)
		if err != nil {
			return nil, 0, model.NewValidationError("target", "malformed target token")
		}
		filter.ContentTypeID = &contentTypeID
		filter.ObjectID = &objectID
	}

	return s.repo.List(ctx, filter)
}

// RescaledAverage recomputes the review's average on the fly. With no target
// maximum it answers on the natural scale; ok is false when the review has
// no counting rating.
func (s *reviewService) RescaledAverage(ctx context.Context, id uuid.UUID, targetMax *float64) (float64, bool, error) {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return 0, false, err
	}

	_, scales, err := s.loadCategories(ctx)
	if err != nil {
		return 0, false, err
	}

	if targetMax == nil {
		avg, ok := model.AverageRating(review.Ratings, scales)
		return avg, ok, nil
	}
	avg, ok := model.RescaledAverageRating(review.Ratings, scales, *targetMax)
	return avg, ok, nil
}

// ============================================================================
// ADMIN CURATION
// ============================================================================

func (s *reviewService) UpsertRating(ctx context.Context, reviewID, categoryID uuid.UUID, value *float64) (*model.Review, error) {
	review, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	categories, scales, err := s.loadCategories(ctx)
	if err != nil {
		return nil, err
	}

	category := findCategory(categories, categoryID)
	if category == nil {
		return nil, catmodel.ErrCategoryNotFound
	}
	if err := checkChoiceValue(category, value); err != nil {
		return nil, err
	}

	if err := s.repo.UpsertRating(ctx, &model.Rating{
		ReviewID:   reviewID,
		CategoryID: categoryID,
		Value:      value,
	}); err != nil {
		return nil, err
	}

	// Reload so the recomputed average sees the row set as stored.
	review, err = s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	review.AverageRating = storedAverage(review.Ratings, scales)

	ratings := review.Ratings
	review.Ratings = nil // already persisted; skip the upsert loop
	if err := s.repo.Update(ctx, review); err != nil {
		return nil, err
	}
	review.Ratings = ratings

	return review, nil
}

func (s *reviewService) Candidates(ctx context.Context, filterID *uuid.UUID) ([]ctmodel.Candidate, error) {
	if filterID == nil {
		return s.contentTypes.Candidates(ctx, nil)
	}
	return s.filters.Candidates(ctx, *filterID)
}

func (s *reviewService) AddExtraInfo(ctx context.Context, reviewID uuid.UUID, req *model.ExtraInfoRequest) (*model.ReviewExtraInfo, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(ctx, reviewID); err != nil {
		return nil, err
	}

	contentTypeID, objectID, err := s.resolveTarget(ctx, req.Target)
	if err != nil {
		return nil, err
	}

	info := &model.ReviewExtraInfo{
		ID:            uuid.New(),
		ReviewID:      reviewID,
		Type:          req.Type,
		ContentTypeID: contentTypeID,
		ObjectID:      objectID,
	}
	if err := s.repo.AddExtraInfo(ctx, info); err != nil {
		return nil, err
	}

	return info, nil
}

func (s *reviewService) DeleteExtraInfo(ctx context.Context, reviewID, infoID uuid.UUID) error {
	return s.repo.DeleteExtraInfo(ctx, reviewID, infoID)
}

// ============================================================================
// HELPERS
// ============================================================================

// resolveTarget decodes a token and checks the object is live. Failures are
// field-level validation errors; a bad token is never silently defaulted.
func (s *reviewService) resolveTarget(ctx context.Context, target string) (int64, int64, error) {
	ct, obj, err := s.contentTypes.Resolve(ctx, target)
	if err != nil {
		switch {
		case errors.Is(err, ctmodel.ErrInvalidToken):
			return 0, 0, model.NewValidationError("target", "malformed target token")
		case errors.Is(err, ctmodel.ErrUnknownContentType):
			return 0, 0, model.NewValidationError("target", "unknown content type")
		case errors.Is(err, ctmodel.ErrObjectNotFound):
			return 0, 0, model.NewValidationError("target", "target object does not exist")
		}
		return 0, 0, err
	}
	return ct.ID, obj.ID, nil
}

func (s *reviewService) checkFilter(ctx context.Context, filterID uuid.UUID, contentTypeID int64) error {
	filter, err := s.filters.GetByID(ctx, filterID)
	if err != nil {
		if errors.Is(err, filtermodel.ErrFilterNotFound) {
			return model.NewValidationError("content_filter_id", "unknown content filter")
		}
		return err
	}
	if !filter.Allows(contentTypeID) {
		return model.NewValidationError("target", "content type is not allowed by the selected filter")
	}
	return nil
}

func (s *reviewService) loadCategories(ctx context.Context) ([]catmodel.Category, map[uuid.UUID]model.CategoryScale, error) {
	categories, err := s.categories.List(ctx, "")
	if err != nil {
		return nil, nil, err
	}

	scales := make(map[uuid.UUID]model.CategoryScale, len(categories))
	for i := range categories {
		min, max, ok := categories[i].Scale()
		scales[categories[i].ID] = model.CategoryScale{
			CountsForAverage: categories[i].CountsForAverage,
			HasScale:         ok,
			Min:              min,
			Max:              max,
		}
	}

	return categories, scales, nil
}

func parseRatingKeys(ratings map[string]*float64) (map[uuid.UUID]*float64, error) {
	parsed := make(map[uuid.UUID]*float64, len(ratings))
	for key, value := range ratings {
		id, err := uuid.Parse(key)
		if err != nil {
			return nil, model.NewValidationError("ratings", fmt.Sprintf("invalid category id %q", key))
		}
		parsed[id] = value
	}
	return parsed, nil
}

func validateRatings(categories []catmodel.Category, existing []model.Rating, submitted map[uuid.UUID]*float64) error {
	known := make(map[uuid.UUID]*catmodel.Category, len(categories))
	for i := range categories {
		known[categories[i].ID] = &categories[i]
	}

	for id, value := range submitted {
		category, ok := known[id]
		if !ok {
			return model.NewValidationError("ratings", fmt.Sprintf("unknown rating category %q", id))
		}
		if err := checkChoiceValue(category, value); err != nil {
			return err
		}
	}

	answered := make(map[uuid.UUID]bool)
	for _, rating := range existing {
		if rating.Value != nil {
			answered[rating.CategoryID] = true
		}
	}
	for id, value := range submitted {
		if value != nil {
			answered[id] = true
		}
	}

	for i := range categories {
		if categories[i].Required && !answered[categories[i].ID] {
			return model.NewValidationError("ratings",
				fmt.Sprintf("category %q requires a rating", categories[i].Name))
		}
	}

	return nil
}

// checkChoiceValue rejects values outside a category's choice set. A nil
// value (skipped category) is always acceptable at this layer; required-ness
// is checked separately.
func checkChoiceValue(category *catmodel.Category, value *float64) error {
	if value == nil || len(category.Choices) == 0 {
		return nil
	}
	for _, choice := range category.Choices {
		if choice.Value == *value {
			return nil
		}
	}
	return model.NewValidationError("ratings",
		fmt.Sprintf("value %v is not a valid choice for category %q", *value, category.Name))
}

// mergeRatings applies the submitted values over the stored rows: existing
// rows keep their identity (and value, when the category was not re-submitted),
// new categories get fresh rows in category order.
func mergeRatings(categories []catmodel.Category, existing []model.Rating, submitted map[uuid.UUID]*float64) []model.Rating {
	merged := make([]model.Rating, len(existing))
	copy(merged, existing)

	byCategory := make(map[uuid.UUID]int, len(merged))
	for i := range merged {
		if _, seen := byCategory[merged[i].CategoryID]; !seen {
			byCategory[merged[i].CategoryID] = i
		}
	}

	for i := range categories {
		value, ok := submitted[categories[i].ID]
		if !ok {
			continue
		}
		if idx, seen := byCategory[categories[i].ID]; seen {
			merged[idx].Value = value
			continue
		}
		merged = append(merged, model.Rating{
			ID:         uuid.New(),
			CategoryID: categories[i].ID,
			Value:      value,
		})
	}

	return merged
}

func findCategory(categories []catmodel.Category, id uuid.UUID) *catmodel.Category {
	for i := range categories {
		if categories[i].ID == id {
			return &categories[i]
		}
	}
	return nil
}

// storedAverage is the denormalized natural-scale average, nil when no
// counting rating has a value.
func storedAverage(ratings []model.Rating, scales map[uuid.UUID]model.CategoryScale) *float64 {
	if avg, ok := model.AverageRating(ratings, scales); ok {
		return &avg
	}
	return nil
}
