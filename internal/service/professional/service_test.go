package professional

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coucou-beaute/booking-api/internal/model"
	"github.com/coucou-beaute/booking-api/internal/repository"
	apperrors "github.com/coucou-beaute/booking-api/pkg/errors"
	"github.com/coucou-beaute/booking-api/pkg/security"
)

type fakeProfessionalRepo struct {
	repository.ProfessionalRepository
	mu   sync.Mutex
	pros map[uuid.UUID]*model.Professional
}

func newFakeProfessionalRepo() *fakeProfessionalRepo {
	return &fakeProfessionalRepo{pros: map[uuid.UUID]*model.Professional{}}
}

func (f *fakeProfessionalRepo) Create(_ context.Context, pro *model.Professional) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	pro.ID = uuid.New()
	cp := *pro
	f.pros[pro.ID] = &cp
	return nil
}

func (f *fakeProfessionalRepo) Get(_ context.Context, id uuid.UUID) (*model.Professional, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pro, ok := f.pros[id]
	if !ok {
		return nil, apperrors.NewNotFound("professional", nil)
	}
	cp := *pro
	return &cp, nil
}

func (f *fakeProfessionalRepo) GetByEmail(_ context.Context, email string) (*model.Professional, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, pro := range f.pros {
		if pro.Email == email {
			cp := *pro
			return &cp, nil
		}
	}
	return nil, apperrors.NewNotFound("professional", nil)
}

func (f *fakeProfessionalRepo) Update(_ context.Context, pro *model.Professional) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.pros[pro.ID]; !ok {
		return apperrors.NewNotFound("professional", nil)
	}
	cp := *pro
	f.pros[pro.ID] = &cp
	return nil
}

func (f *fakeProfessionalRepo) SetVerified(_ context.Context, id uuid.UUID, verified bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	pro, ok := f.pros[id]
	if !ok {
		return apperrors.NewNotFound("professional", nil)
	}
	pro.IsVerified = verified
	return nil
}

type fakeApplicationRepo struct {
	repository.ApplicationRepository
	mu   sync.Mutex
	apps map[uuid.UUID]*model.ProfessionalApplication
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: map[uuid.UUID]*model.ProfessionalApplication{}}
}

func (f *fakeApplicationRepo) Create(_ context.Context, app *model.ProfessionalApplication) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	app.ID = uuid.New()
	cp := *app
	f.apps[app.ID] = &cp
	return nil
}

func (f *fakeApplicationRepo) Get(_ context.Context, id uuid.UUID) (*model.ProfessionalApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	app, ok := f.apps[id]
	if !ok {
		return nil, apperrors.NewNotFound("application", nil)
	}
	cp := *app
	return &cp, nil
}

func (f *fakeApplicationRepo) List(_ context.Context, status model.ApplicationStatus) ([]*model.ProfessionalApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.ProfessionalApplication
	for _, app := range f.apps {
		if status == "" || app.Status == status {
			cp := *app
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeApplicationRepo) Update(_ context.Context, app *model.ProfessionalApplication) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.apps[app.ID]; !ok {
		return apperrors.NewNotFound("application", nil)
	}
	cp := *app
	f.apps[app.ID] = &cp
	return nil
}

type fakeGeocoder struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (f *fakeGeocoder) Geocode(_ context.Context, _ string) (float64, float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return 0, 0, errors.New("geocoder unavailable")
	}
	return 36.8065, 10.1815, nil
}

type fakeEmail struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeEmail) SendBookingRequest(_ context.Context, to, _, _, _ string) error {
	return f.record(to)
}

func (f *fakeEmail) SendStatusUpdate(_ context.Context, to, _, _, _, _ string) error {
	return f.record(to)
}

func (f *fakeEmail) SendCustom(_ context.Context, to, _, _ string) error { return f.record(to) }

func (f *fakeEmail) record(to string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to)
	return nil
}

func (f *fakeEmail) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fixture struct {
	svc  Service
	repo *fakeProfessionalRepo
	apps *fakeApplicationRepo
	geo  *fakeGeocoder
	mail *fakeEmail
	pro  *model.Professional
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newFakeProfessionalRepo()
	pro := &model.Professional{
		Email:      "ines@salon.tn",
		Name:       "Inès",
		Address:    "Avenue Habib Bourguiba, Tunis",
		IsVerified: true,
		OpenDays:   []string{"mon", "tue", "wed"},
		HoursStart: "09:00",
		HoursEnd:   "18:00",
	}
	require.NoError(t, repo.Create(context.Background(), pro))

	apps := newFakeApplicationRepo()
	geo := &fakeGeocoder{}
	mail := &fakeEmail{}
	svc := NewService(repo, apps, security.NewBcryptHasher(4), geo, mail)
	return &fixture{svc: svc, repo: repo, apps: apps, geo: geo, mail: mail, pro: pro}
}

func TestUpdateProfileScheduleFullReplace(t *testing.T) {
	f := newFixture(t)

	updated, err := f.svc.UpdateProfile(context.Background(), f.pro.ID, &model.UpdateProfileRequest{
		OpenDays: []string{"sat", "sun"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"sat", "sun"}, []string(updated.OpenDays))
	assert.Equal(t, "09:00", updated.HoursStart)
}

func TestUpdateProfileEmptyOpenDaysStored(t *testing.T) {
	f := newFixture(t)

	updated, err := f.svc.UpdateProfile(context.Background(), f.pro.ID, &model.UpdateProfileRequest{
		OpenDays: []string{},
	})
	require.NoError(t, err)
	assert.Empty(t, updated.OpenDays)
	assert.NotNil(t, updated.OpenDays)
}

func TestUpdateProfileGeocodesOnAddressChange(t *testing.T) {
	f := newFixture(t)

	addr := "Rue de Marseille, Tunis"
	updated, err := f.svc.UpdateProfile(context.Background(), f.pro.ID, &model.UpdateProfileRequest{Address: &addr})
	require.NoError(t, err)
	assert.Equal(t, 1, f.geo.calls)
	require.NotNil(t, updated.Latitude)
	assert.InDelta(t, 36.8065, *updated.Latitude, 0.0001)
}

func TestUpdateProfileSkipsGeocodeWhenAddressUnchanged(t *testing.T) {
	f := newFixture(t)

	name := "Inès B."
	_, err := f.svc.UpdateProfile(context.Background(), f.pro.ID, &model.UpdateProfileRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, 0, f.geo.calls)

	same := f.pro.Address
	_, err = f.svc.UpdateProfile(context.Background(), f.pro.ID, &model.UpdateProfileRequest{Address: &same})
	require.NoError(t, err)
	assert.Equal(t, 0, f.geo.calls)
}

func TestUpdateProfileGeocodeFailureNonFatal(t *testing.T) {
	f := newFixture(t)
	f.geo.fail = true

	addr := "Rue de Marseille, Tunis"
	updated, err := f.svc.UpdateProfile(context.Background(), f.pro.ID, &model.UpdateProfileRequest{Address: &addr})
	require.NoError(t, err)
	assert.Equal(t, addr, updated.Address)
	assert.Nil(t, updated.Latitude)
}

func TestApplyDuplicateEmailRejected(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Apply(context.Background(), &model.ProfessionalApplication{
		Email: "ines@salon.tn",
		Name:  "Autre Inès",
	})
	require.Error(t, err)
}

func TestApproveApplication(t *testing.T) {
	f := newFixture(t)

	app := &model.ProfessionalApplication{
		Email:        "salma@institut.tn",
		Name:         "Salma",
		BusinessName: "Institut Salma",
		City:         "Sousse",
	}
	require.NoError(t, f.svc.Apply(context.Background(), app))

	reviewer := uuid.New()
	pro, err := f.svc.ApproveApplication(context.Background(), app.ID, reviewer)
	require.NoError(t, err)
	assert.True(t, pro.IsVerified)
	assert.Equal(t, "salma@institut.tn", pro.Email)
	assert.NotEmpty(t, pro.PasswordHash)

	reviewed, err := f.apps.Get(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, reviewer, *reviewed.ReviewedBy)

	require.Eventually(t, func() bool { return f.mail.sentCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestApproveApplicationTwice(t *testing.T) {
	f := newFixture(t)

	app := &model.ProfessionalApplication{Email: "salma@institut.tn", Name: "Salma"}
	require.NoError(t, f.svc.Apply(context.Background(), app))

	_, err := f.svc.ApproveApplication(context.Background(), app.ID, uuid.New())
	require.NoError(t, err)
	_, err = f.svc.ApproveApplication(context.Background(), app.ID, uuid.New())
	require.Error(t, err)
}

func TestRejectApplication(t *testing.T) {
	f := newFixture(t)

	app := &model.ProfessionalApplication{Email: "salma@institut.tn", Name: "Salma"}
	require.NoError(t, f.svc.Apply(context.Background(), app))

	require.NoError(t, f.svc.RejectApplication(context.Background(), app.ID, uuid.New()))
	reviewed, err := f.apps.Get(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusRejected, reviewed.Status)
}
