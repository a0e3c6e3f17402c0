package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catmodel "review-service/internal/domains/category/model"
	filtermodel "review-service/internal/domains/contentfilter/model"
	ctmodel "review-service/internal/domains/contenttype/model"
	"review-service/internal/config"
	"review-service/internal/domains/review/model"
	"review-service/internal/domains/review/repository"
)

// ============================================================================
// FAKES
// ============================================================================

type fakeReviewRepo struct {
	reviews map[uuid.UUID]*model.Review
	created int
	updated int
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[uuid.UUID]*model.Review)}
}

func (f *fakeReviewRepo) Create(ctx context.Context, review *model.Review) error {
	review.CreatedAt = time.Now()
	review.UpdatedAt = review.CreatedAt
	stored := *review
	f.reviews[review.ID] = &stored
	f.created++
	return nil
}

func (f *fakeReviewRepo) Update(ctx context.Context, review *model.Review) error {
	existing, ok := f.reviews[review.ID]
	if !ok {
		return model.ErrReviewNotFound
	}
	stored := *review
	// Mirrors the SQL repository: rating rows live in their own table, so an
	// update without ratings leaves the stored rows alone.
	if stored.Ratings == nil {
		stored.Ratings = existing.Ratings
	}
	f.reviews[review.ID] = &stored
	f.updated++
	return nil
}

func (f *fakeReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.reviews[id]; !ok {
		return model.ErrReviewNotFound
	}
	delete(f.reviews, id)
	return nil
}

func (f *fakeReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	review, ok := f.reviews[id]
	if !ok {
		return nil, model.ErrReviewNotFound
	}
	copied := *review
	return &copied, nil
}

func (f *fakeReviewRepo) List(ctx context.Context, filter *repository.ListFilter) ([]model.Review, int, error) {
	var out []model.Review
	for _, review := range f.reviews {
		out = append(out, *review)
	}
	return out, len(out), nil
}

func (f *fakeReviewRepo) UpsertRating(ctx context.Context, rating *model.Rating) error {
	review, ok := f.reviews[rating.ReviewID]
	if !ok {
		return model.ErrReviewNotFound
	}
	for i := range review.Ratings {
		if review.Ratings[i].CategoryID == rating.CategoryID {
			review.Ratings[i].Value = rating.Value
			return nil
		}
	}
	review.Ratings = append(review.Ratings, *rating)
	return nil
}

func (f *fakeReviewRepo) AddExtraInfo(ctx context.Context, info *model.ReviewExtraInfo) error {
	review, ok := f.reviews[info.ReviewID]
	if !ok {
		return model.ErrReviewNotFound
	}
	review.ExtraInfos = append(review.ExtraInfos, *info)
	return nil
}

func (f *fakeReviewRepo) DeleteExtraInfo(ctx context.Context, reviewID, infoID uuid.UUID) error {
	review, ok := f.reviews[reviewID]
	if !ok {
		return model.ErrExtraInfoNotFound
	}
	for i := range review.ExtraInfos {
		if review.ExtraInfos[i].ID == infoID {
			review.ExtraInfos = append(review.ExtraInfos[:i], review.ExtraInfos[i+1:]...)
			return nil
		}
	}
	return model.ErrExtraInfoNotFound
}

type fakeCategoryService struct {
	categories []catmodel.Category
}

func (f *fakeCategoryService) Create(ctx context.Context, req *catmodel.CreateCategoryRequest) (*catmodel.Category, error) {
	panic("not used")
}
func (f *fakeCategoryService) Update(ctx context.Context, id uuid.UUID, req *catmodel.UpdateCategoryRequest) (*catmodel.Category, error) {
	panic("not used")
}
func (f *fakeCategoryService) Delete(ctx context.Context, id uuid.UUID) error { panic("not used") }
func (f *fakeCategoryService) GetByID(ctx context.Context, id uuid.UUID) (*catmodel.Category, error) {
	panic("not used")
}
func (f *fakeCategoryService) List(ctx context.Context, language string) ([]catmodel.Category, error) {
	return f.categories, nil
}
func (f *fakeCategoryService) TranslateChoice(ctx context.Context, choiceID uuid.UUID, language string, req *catmodel.TranslateChoiceRequest) error {
	panic("not used")
}

type fakeContentTypeService struct {
	types   []ctmodel.ContentType
	objects map[int64][]ctmodel.Object // keyed by content type id
}

func (f *fakeContentTypeService) ContentTypes() []ctmodel.ContentType {
	return f.types
}

func (f *fakeContentTypeService) Candidates(ctx context.Context, allowed []int64) ([]ctmodel.Candidate, error) {
	var out []ctmodel.Candidate
	for _, ct := range f.types {
		if len(allowed) > 0 && !containsID(allowed, ct.ID) {
			continue
		}
		for _, obj := range f.objects[ct.ID] {
			out = append(out, ctmodel.Candidate{
				Token: ctmodel.EncodeToken(ct.ID, obj.ID),
				Label: ct.DisplayName() + " - " + obj.Display,
			})
		}
	}
	return out, nil
}

func (f *fakeContentTypeService) Resolve(ctx context.Context, token string) (*ctmodel.ContentType, *ctmodel.Object, error) {
	ctID, objID, err := ctmodel.DecodeToken(token)
	if err != nil {
		return nil, nil, err
	}
	for _, ct := range f.types {
		if ct.ID != ctID {
			continue
		}
		for _, obj := range f.objects[ct.ID] {
			if obj.ID == objID {
				ctCopy, objCopy := ct, obj
				return &ctCopy, &objCopy, nil
			}
		}
		return nil, nil, ctmodel.ErrObjectNotFound
	}
	return nil, nil, ctmodel.ErrUnknownContentType
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type fakeFilterService struct {
	filters map[uuid.UUID]*filtermodel.Filter
}

func (f *fakeFilterService) Create(ctx context.Context, req *filtermodel.SaveFilterRequest) (*filtermodel.Filter, error) {
	panic("not used")
}
func (f *fakeFilterService) Update(ctx context.Context, id uuid.UUID, req *filtermodel.SaveFilterRequest) (*filtermodel.Filter, error) {
	panic("not used")
}
func (f *fakeFilterService) Delete(ctx context.Context, id uuid.UUID) error { panic("not used") }
func (f *fakeFilterService) GetByID(ctx context.Context, id uuid.UUID) (*filtermodel.Filter, error) {
	filter, ok := f.filters[id]
	if !ok {
		return nil, filtermodel.ErrFilterNotFound
	}
	return filter, nil
}
func (f *fakeFilterService) List(ctx context.Context) ([]filtermodel.Filter, error) {
	panic("not used")
}
func (f *fakeFilterService) Candidates(ctx context.Context, id uuid.UUID) ([]ctmodel.Candidate, error) {
	panic("not used")
}

type fakeCache struct {
	store map[string][]byte
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, nil
}
func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (f *fakeCache) Delete(ctx context.Context, keys ...string) error { return nil }
func (f *fakeCache) Ping(ctx context.Context) error                   { return nil }

type fakeStorage struct{}

func (f *fakeStorage) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "https://storage.local/" + key, nil
}

type fakeQueue struct {
	enqueued []*asynq.Task
}

func (f *fakeQueue) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	f.enqueued = append(f.enqueued, task)
	return &asynq.TaskInfo{}, nil
}

// ============================================================================
// FIXTURE
// ============================================================================

var (
	plotCategory    = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	serviceCategory = uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
)

func choiceSet(values ...float64) []catmodel.Choice {
	choices := make([]catmodel.Choice, len(values))
	for i, v := range values {
		choices[i] = catmodel.Choice{ID: uuid.New(), Value: v}
	}
	return choices
}

type fixture struct {
	svc  Service
	repo *fakeReviewRepo
	cfg  *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newFakeReviewRepo()
	cfg := &config.Config{}
	cfg.Review.UpdatePeriodDays = 3
	cfg.Review.ChoiceWidget = "select"
	cfg.Review.ExportRetentionDays = 14

	categories := &fakeCategoryService{categories: []catmodel.Category{
		{ID: plotCategory, Name: "Plot", Required: true, CountsForAverage: true, Choices: choiceSet(0, 1, 2, 3, 4)},
		{ID: serviceCategory, Name: "Service", Required: false, CountsForAverage: true, Choices: choiceSet(0, 1, 2, 3, 4, 5, 6)},
	}}

	contentTypes := &fakeContentTypeService{
		types: []ctmodel.ContentType{{ID: 1, Name: "article"}},
		objects: map[int64][]ctmodel.Object{
			1: {{ID: 10, Display: "Go generics"}},
		},
	}

	filterID := uuid.MustParse("cccccccc-cccc-cccc-cccc-cccccccccccc")
	filters := &fakeFilterService{filters: map[uuid.UUID]*filtermodel.Filter{
		filterID: {ID: filterID, Name: "articles only", AllowedContentTypeIDs: []int64{2}},
	}}

	svc := NewReviewService(repo, categories, contentTypes, filters,
		&fakeCache{}, &fakeStorage{}, &fakeQueue{}, cfg)

	return &fixture{svc: svc, repo: repo, cfg: cfg}
}

func ratingsPayload(pairs map[uuid.UUID]*float64) map[string]*float64 {
	out := make(map[string]*float64, len(pairs))
	for id, v := range pairs {
		out[id.String()] = v
	}
	return out
}

func floatPtr(v float64) *float64 { return &v }

// ============================================================================
// TESTS
// ============================================================================

func TestSubmit_HappyPath(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()

	review, err := f.svc.Submit(context.Background(), &userID, &model.SubmitReviewRequest{
		Target:  "type:1-id:10",
		Content: "Great read.",
		Ratings: ratingsPayload(map[uuid.UUID]*float64{
			plotCategory:    floatPtr(3),
			serviceCategory: floatPtr(6),
		}),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), review.ContentTypeID)
	assert.Equal(t, int64(10), review.ObjectID)
	assert.Equal(t, "type:1-id:10", review.Target())
	require.NotNil(t, review.AverageRating)
	assert.Equal(t, 4.5, *review.AverageRating)
	assert.Equal(t, 1, f.repo.created)
}

func TestSubmit_AnonymousWithoutRatings(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(context.Background(), nil, &model.SubmitReviewRequest{
		Target:  "type:1-id:10",
		Content: "no stars from me",
	})

	// Plot is required.
	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "ratings", validationErr.Field)
	assert.Equal(t, 0, f.repo.created)
}

func TestSubmit_MalformedTarget(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(context.Background(), nil, &model.SubmitReviewRequest{
		Target: "article-10",
		Ratings: ratingsPayload(map[uuid.UUID]*float64{
			plotCategory: floatPtr(3),
		}),
	})

	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "target", validationErr.Field)
	assert.Equal(t, 0, f.repo.created)
}

func TestSubmit_DeadTarget(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(context.Background(), nil, &model.SubmitReviewRequest{
		Target: "type:1-id:999",
		Ratings: ratingsPayload(map[uuid.UUID]*float64{
			plotCategory: floatPtr(3),
		}),
	})

	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "target", validationErr.Field)
}

func TestSubmit_FilterRejectsContentType(t *testing.T) {
	f := newFixture(t)
	filterID := uuid.MustParse("cccccccc-cccc-cccc-cccc-cccccccccccc")

	_, err := f.svc.Submit(context.Background(), nil, &model.SubmitReviewRequest{
		Target:          "type:1-id:10",
		ContentFilterID: &filterID,
		Ratings: ratingsPayload(map[uuid.UUID]*float64{
			plotCategory: floatPtr(3),
		}),
	})

	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "target", validationErr.Field)
	assert.Equal(t, 0, f.repo.created)
}

func TestSubmit_ValueOutsideChoiceSet(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(context.Background(), nil, &model.SubmitReviewRequest{
		Target: "type:1-id:10",
		Ratings: ratingsPayload(map[uuid.UUID]*float64{
			plotCategory: floatPtr(7),
		}),
	})

	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "ratings", validationErr.Field)
}

func submitValid(t *testing.T, f *fixture, userID *uuid.UUID) *model.Review {
	t.Helper()
	review, err := f.svc.Submit(context.Background(), userID, &model.SubmitReviewRequest{
		Target:  "type:1-id:10",
		Content: "first impression",
		Ratings: ratingsPayload(map[uuid.UUID]*float64{
			plotCategory:    floatPtr(2),
			serviceCategory: floatPtr(4),
		}),
	})
	require.NoError(t, err)
	return review
}

func TestUpdate_MergesExistingRatings(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	review := submitValid(t, f, &userID)

	// Only Plot is re-submitted; Service keeps its stored value.
	updated, err := f.svc.Update(context.Background(), review.ID, &userID, &model.UpdateReviewRequest{
		Content: "revised",
		Ratings: ratingsPayload(map[uuid.UUID]*float64{
			plotCategory: floatPtr(4),
		}),
	})
	require.NoError(t, err)

	require.NotNil(t, updated.AverageRating)
	assert.Equal(t, 4.0, *updated.AverageRating) // (4 + 4) / 2
	assert.Equal(t, "revised", updated.Content)
	assert.Len(t, updated.Ratings, 2)
}

func TestUpdate_OwnershipEnforced(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	review := submitValid(t, f, &owner)

	stranger := uuid.New()
	_, err := f.svc.Update(context.Background(), review.ID, &stranger, &model.UpdateReviewRequest{})
	assert.ErrorIs(t, err, model.ErrNotOwner)

	_, err = f.svc.Update(context.Background(), review.ID, nil, &model.UpdateReviewRequest{})
	assert.ErrorIs(t, err, model.ErrNotOwner)
}

func TestUpdate_EditWindowClosed(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	review := submitValid(t, f, &userID)

	// Age the stored review past the 3-day window.
	f.repo.reviews[review.ID].CreatedAt = time.Now().Add(-4 * 24 * time.Hour)

	_, err := f.svc.Update(context.Background(), review.ID, &userID, &model.UpdateReviewRequest{})
	assert.ErrorIs(t, err, model.ErrEditWindowClosed)
}

func TestAdminUpdate_IgnoresWindowAndRepoints(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	review := submitValid(t, f, &userID)
	f.repo.reviews[review.ID].CreatedAt = time.Now().Add(-30 * 24 * time.Hour)

	updated, err := f.svc.AdminUpdate(context.Background(), review.ID, &model.AdminUpdateReviewRequest{
		Target:  "type:1-id:10",
		Content: "moderated",
	})
	require.NoError(t, err)
	assert.Equal(t, "moderated", updated.Content)
}

func TestRescaledAverage(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	review := submitValid(t, f, &userID) // plot 2/4, service 4/6

	max := 10.0
	avg, ok, err := f.svc.RescaledAverage(context.Background(), review.ID, &max)
	require.NoError(t, err)
	assert.True(t, ok)
	// (2*10/4 + 4*10/6) / 2
	assert.InDelta(t, 5.833333, avg, 1e-6)

	avg, ok, err = f.svc.RescaledAverage(context.Background(), review.ID, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3.0, avg)
}

func TestUpsertRating_RecomputesStoredAverage(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	review := submitValid(t, f, &userID) // avg (2+4)/2 = 3

	updated, err := f.svc.UpsertRating(context.Background(), review.ID, plotCategory, floatPtr(4))
	require.NoError(t, err)

	require.NotNil(t, updated.AverageRating)
	assert.Equal(t, 4.0, *updated.AverageRating)
}

func TestForm_PrefillsPriorAnswers(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	review := submitValid(t, f, &userID)

	form, err := f.svc.Form(context.Background(), "type:1-id:10", "", &review.ID)
	require.NoError(t, err)

	assert.Equal(t, "first impression", form.Content)
	require.Len(t, form.Fields, 2)
	assert.Equal(t, "Plot", form.Fields[0].Name)
	assert.Equal(t, "select", form.Fields[0].Widget)
	require.NotNil(t, form.Fields[0].Value)
	assert.Equal(t, 2.0, *form.Fields[0].Value)
	assert.Len(t, form.Fields[1].Choices, 7)
}

func TestDelete_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	review := submitValid(t, f, &owner)

	stranger := uuid.New()
	err := f.svc.Delete(context.Background(), review.ID, &stranger, false)
	assert.ErrorIs(t, err, model.ErrNotOwner)

	err = f.svc.Delete(context.Background(), review.ID, &owner, false)
	require.NoError(t, err)

	_, err = f.svc.GetByID(context.Background(), review.ID)
	assert.ErrorIs(t, err, model.ErrReviewNotFound)
}
