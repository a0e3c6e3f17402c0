package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review-service/internal/domains/contenttype/model"
)

// ============================================================================
// FAKES
// ============================================================================

type fakeContentTypeRepo struct {
	types []model.ContentType
}

func (f *fakeContentTypeRepo) ListContentTypes(ctx context.Context) ([]model.ContentType, error) {
	return f.types, nil
}

func (f *fakeContentTypeRepo) GetContentType(ctx context.Context, id int64) (*model.ContentType, error) {
	for _, ct := range f.types {
		if ct.ID == id {
			return &ct, nil
		}
	}
	return nil, model.ErrUnknownContentType
}

type fakeSource struct {
	objects []model.Object
	listErr error
}

func (f *fakeSource) List(ctx context.Context) ([]model.Object, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.objects, nil
}

func (f *fakeSource) Get(ctx context.Context, id int64) (*model.Object, error) {
	for _, obj := range f.objects {
		if obj.ID == id {
			return &obj, nil
		}
	}
	return nil, model.ErrObjectNotFound
}

// ============================================================================
// TESTS
// ============================================================================

func newTestService(t *testing.T) Service {
	t.Helper()

	repo := &fakeContentTypeRepo{types: []model.ContentType{
		{ID: 3, Name: "product"},
		{ID: 1, Name: "article"},
		{ID: 9, Name: "venue"},
	}}
	sources := map[string]model.ObjectSource{
		"article": &fakeSource{objects: []model.Object{
			{ID: 10, Display: "Go generics"},
			{ID: 11, Display: "Profiling notes"},
		}},
		"product": &fakeSource{objects: []model.Object{
			{ID: 5, Display: "Mechanical keyboard"},
		}},
		// no source registered for "venue"
	}

	svc, err := NewRegistryService(context.Background(), repo, sources)
	require.NoError(t, err)
	return svc
}

func TestContentTypes_SortedByDisplayName(t *testing.T) {
	svc := newTestService(t)

	types := svc.ContentTypes()
	require.Len(t, types, 3)
	assert.Equal(t, "article", types[0].Name)
	assert.Equal(t, "product", types[1].Name)
	assert.Equal(t, "venue", types[2].Name)
}

func TestCandidates_AllTypes(t *testing.T) {
	svc := newTestService(t)

	candidates, err := svc.Candidates(context.Background(), nil)
	require.NoError(t, err)

	// "venue" has no registered source and must be skipped.
	require.Len(t, candidates, 3)
	assert.Equal(t, model.Candidate{Token: "type:1-id:10", Label: "Article - Go generics"}, candidates[0])
	assert.Equal(t, model.Candidate{Token: "type:1-id:11", Label: "Article - Profiling notes"}, candidates[1])
	assert.Equal(t, model.Candidate{Token: "type:3-id:5", Label: "Product - Mechanical keyboard"}, candidates[2])
}

func TestCandidates_FilteredByAllowedTypes(t *testing.T) {
	svc := newTestService(t)

	candidates, err := svc.Candidates(context.Background(), []int64{3})
	require.NoError(t, err)

	require.Len(t, candidates, 1)
	assert.Equal(t, "type:3-id:5", candidates[0].Token)
}

func TestCandidates_SkipsFailingSource(t *testing.T) {
	repo := &fakeContentTypeRepo{types: []model.ContentType{
		{ID: 1, Name: "article"},
		{ID: 2, Name: "broken"},
	}}
	sources := map[string]model.ObjectSource{
		"article": &fakeSource{objects: []model.Object{{ID: 10, Display: "Go generics"}}},
		"broken":  &fakeSource{listErr: errors.New("connection refused")},
	}

	svc, err := NewRegistryService(context.Background(), repo, sources)
	require.NoError(t, err)

	candidates, err := svc.Candidates(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "type:1-id:10", candidates[0].Token)
}

func TestResolve(t *testing.T) {
	svc := newTestService(t)

	ct, obj, err := svc.Resolve(context.Background(), "type:1-id:11")
	require.NoError(t, err)
	assert.Equal(t, int64(1), ct.ID)
	assert.Equal(t, "Profiling notes", obj.Display)
}

func TestResolve_Errors(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.Resolve(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, model.ErrInvalidToken)

	_, _, err = svc.Resolve(context.Background(), "type:77-id:1")
	assert.ErrorIs(t, err, model.ErrUnknownContentType)

	// registered type, dead source
	_, _, err = svc.Resolve(context.Background(), "type:9-id:1")
	assert.ErrorIs(t, err, model.ErrUnknownContentType)

	_, _, err = svc.Resolve(context.Background(), "type:1-id:404")
	assert.ErrorIs(t, err, model.ErrObjectNotFound)
}
