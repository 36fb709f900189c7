package review

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coucou-beaute/booking-api/internal/model"
	"github.com/coucou-beaute/booking-api/internal/repository"
	apperrors "github.com/coucou-beaute/booking-api/pkg/errors"
)

type fakeReviewRepo struct {
	repository.ReviewRepository
	reviews map[uuid.UUID]*model.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: map[uuid.UUID]*model.Review{}}
}

func (f *fakeReviewRepo) Create(_ context.Context, review *model.Review) error {
	review.ID = uuid.New()
	cp := *review
	f.reviews[review.ID] = &cp
	return nil
}

func (f *fakeReviewRepo) Get(_ context.Context, id uuid.UUID) (*model.Review, error) {
	review, ok := f.reviews[id]
	if !ok {
		return nil, apperrors.NewNotFound("review", nil)
	}
	cp := *review
	return &cp, nil
}

func (f *fakeReviewRepo) Update(_ context.Context, review *model.Review) error {
	if _, ok := f.reviews[review.ID]; !ok {
		return apperrors.NewNotFound("review", nil)
	}
	cp := *review
	f.reviews[review.ID] = &cp
	return nil
}

func (f *fakeReviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.reviews[id]; !ok {
		return apperrors.NewNotFound("review", nil)
	}
	delete(f.reviews, id)
	return nil
}

func (f *fakeReviewRepo) Exists(_ context.Context, clientID, professionalID uuid.UUID) (bool, error) {
	for _, review := range f.reviews {
		if review.ClientID == clientID && review.ProfessionalID == professionalID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReviewRepo) ListForProfessional(_ context.Context, professionalID uuid.UUID, publicOnly bool) ([]*model.Review, error) {
	var out []*model.Review
	for _, review := range f.reviews {
		if review.ProfessionalID != professionalID {
			continue
		}
		if publicOnly && !review.IsPublic {
			continue
		}
		cp := *review
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeReviewRepo) Stats(_ context.Context, professionalID uuid.UUID) (*model.ReviewStats, error) {
	stats := &model.ReviewStats{Distribution: map[int]int{}}
	var sum int
	for _, review := range f.reviews {
		if review.ProfessionalID != professionalID || !review.IsPublic {
			continue
		}
		stats.TotalReviews++
		stats.Distribution[review.Rating]++
		sum += review.Rating
	}
	if stats.TotalReviews > 0 {
		stats.AverageRating = float64(sum) / float64(stats.TotalReviews)
	}
	return stats, nil
}

type fakeProfessionalRepo struct {
	repository.ProfessionalRepository
	known map[uuid.UUID]bool
}

func (f *fakeProfessionalRepo) Get(_ context.Context, id uuid.UUID) (*model.Professional, error) {
	if !f.known[id] {
		return nil, apperrors.NewNotFound("professional", nil)
	}
	pro := &model.Professional{IsVerified: true}
	pro.ID = id
	return pro, nil
}

type fixture struct {
	svc      Service
	repo     *fakeReviewRepo
	proID    uuid.UUID
	clientID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	proID := uuid.New()
	repo := newFakeReviewRepo()
	svc := NewService(repo, &fakeProfessionalRepo{known: map[uuid.UUID]bool{proID: true}})
	return &fixture{svc: svc, repo: repo, proID: proID, clientID: uuid.New()}
}

func TestCreateReview(t *testing.T) {
	f := newFixture(t)

	review, err := f.svc.Create(context.Background(), f.clientID, &model.CreateReviewRequest{
		ProfessionalID: f.proID,
		Rating:         5,
		Comment:        "Excellent accueil",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, review.Rating)
	assert.True(t, review.IsPublic)
}

func TestCreateReviewUnknownProfessional(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.clientID, &model.CreateReviewRequest{
		ProfessionalID: uuid.New(),
		Rating:         4,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidProfessional)
}

func TestCreateReviewOnePerPair(t *testing.T) {
	f := newFixture(t)

	req := &model.CreateReviewRequest{ProfessionalID: f.proID, Rating: 4}
	_, err := f.svc.Create(context.Background(), f.clientID, req)
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), f.clientID, req)
	require.Error(t, err)

	// a different client may still review
	_, err = f.svc.Create(context.Background(), uuid.New(), req)
	assert.NoError(t, err)
}

func TestUpdateReviewOwnerOnly(t *testing.T) {
	f := newFixture(t)

	review, err := f.svc.Create(context.Background(), f.clientID, &model.CreateReviewRequest{
		ProfessionalID: f.proID,
		Rating:         3,
	})
	require.NoError(t, err)

	rating := 4
	updated, err := f.svc.Update(context.Background(), f.clientID, review.ID, &model.UpdateReviewRequest{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)

	_, err = f.svc.Update(context.Background(), uuid.New(), review.ID, &model.UpdateReviewRequest{Rating: &rating})
	require.Error(t, err)
}

func TestDeleteReviewOwnerOnly(t *testing.T) {
	f := newFixture(t)

	review, err := f.svc.Create(context.Background(), f.clientID, &model.CreateReviewRequest{
		ProfessionalID: f.proID,
		Rating:         2,
	})
	require.NoError(t, err)

	require.Error(t, f.svc.Delete(context.Background(), uuid.New(), review.ID))
	require.NoError(t, f.svc.Delete(context.Background(), f.clientID, review.ID))
	_, err = f.repo.Get(context.Background(), review.ID)
	require.Error(t, err)
}

func TestListWithStats(t *testing.T) {
	f := newFixture(t)

	for _, rating := range []int{5, 5, 3} {
		_, err := f.svc.Create(context.Background(), uuid.New(), &model.CreateReviewRequest{
			ProfessionalID: f.proID,
			Rating:         rating,
		})
		require.NoError(t, err)
	}

	reviews, stats, err := f.svc.ListForProfessional(context.Background(), f.proID)
	require.NoError(t, err)
	assert.Len(t, reviews, 3)
	assert.Equal(t, 3, stats.TotalReviews)
	assert.InDelta(t, 13.0/3.0, stats.AverageRating, 0.0001)
	assert.Equal(t, 2, stats.Distribution[5])
	assert.Equal(t, 1, stats.Distribution[3])
}
