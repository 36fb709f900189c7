package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coucou-beaute/booking-api/internal/model"
	"github.com/coucou-beaute/booking-api/internal/repository"
	"github.com/coucou-beaute/booking-api/internal/schedule"
	apperrors "github.com/coucou-beaute/booking-api/pkg/errors"
)

// monday is a known Monday used across the slot tests.
var monday = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

type fakeProfessionalRepo struct {
	repository.ProfessionalRepository
	pros map[uuid.UUID]*model.Professional
}

func (f *fakeProfessionalRepo) Get(_ context.Context, id uuid.UUID) (*model.Professional, error) {
	pro, ok := f.pros[id]
	if !ok {
		return nil, apperrors.NewNotFound("professional", nil)
	}
	return pro, nil
}

type fakeClientRepo struct {
	repository.ClientRepository
	clients map[uuid.UUID]*model.Client
}

func (f *fakeClientRepo) Get(_ context.Context, id uuid.UUID) (*model.Client, error) {
	client, ok := f.clients[id]
	if !ok {
		return nil, apperrors.NewNotFound("client", nil)
	}
	return client, nil
}

// fakeAppointmentRepo serializes BookPending with a mutex the way the real
// implementation serializes with an advisory lock.
type fakeAppointmentRepo struct {
	repository.AppointmentRepository
	mu           sync.Mutex
	appointments []*model.Appointment
}

func (f *fakeAppointmentRepo) ListOverlapping(_ context.Context, professionalID uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Appointment
	for _, apt := range f.appointments {
		if apt.ProfessionalID == professionalID && apt.StartTime.Before(to) && apt.EndTime.After(from) {
			out = append(out, apt)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) BookPending(_ context.Context, apt *model.Appointment, slotCheck func(existing []*model.Appointment) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	y, m, d := apt.StartTime.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, apt.StartTime.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var existing []*model.Appointment
	for _, other := range f.appointments {
		if other.ProfessionalID == apt.ProfessionalID && other.StartTime.Before(dayEnd) && other.EndTime.After(dayStart) {
			existing = append(existing, other)
		}
	}
	if err := slotCheck(existing); err != nil {
		return err
	}

	apt.ID = uuid.New()
	apt.Status = model.AppointmentStatusPending
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = time.Now()
	f.appointments = append(f.appointments, apt)
	return nil
}

type fakeNotifier struct {
	mu            sync.Mutex
	notifications []*model.Notification
}

func (f *fakeNotifier) Notify(_ context.Context, professionalID uuid.UUID, title, body string) (*model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := &model.Notification{ProfessionalID: professionalID, Title: title, Body: body}
	n.ID = uuid.New()
	f.notifications = append(f.notifications, n)
	return n, nil
}

func (f *fakeNotifier) List(context.Context, uuid.UUID, int) ([]*model.Notification, error) {
	return nil, nil
}

func (f *fakeNotifier) UnreadCount(context.Context, uuid.UUID) (int, error) { return 0, nil }

func (f *fakeNotifier) MarkRead(context.Context, uuid.UUID, []uuid.UUID) error { return nil }

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.notifications)
}

type fakeEmail struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeEmail) SendBookingRequest(_ context.Context, to, _, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to)
	return nil
}

func (f *fakeEmail) SendStatusUpdate(context.Context, string, string, string, string, string) error {
	return nil
}

func (f *fakeEmail) SendCustom(context.Context, string, string, string) error { return nil }

type fixture struct {
	svc      Service
	pros     *fakeProfessionalRepo
	clients  *fakeClientRepo
	apts     *fakeAppointmentRepo
	notifier *fakeNotifier
	pro      *model.Professional
	client   *model.Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	pro := &model.Professional{
		Name:       "Inès",
		Email:      "ines@salon.tn",
		IsVerified: true,
		OpenDays:   []string{"mon", "tue", "wed", "thu", "fri"},
		HoursStart: "09:00",
		HoursEnd:   "18:00",
	}
	pro.ID = uuid.New()

	client := &model.Client{Name: "Amira", Email: "amira@example.com"}
	client.ID = uuid.New()

	pros := &fakeProfessionalRepo{pros: map[uuid.UUID]*model.Professional{pro.ID: pro}}
	clients := &fakeClientRepo{clients: map[uuid.UUID]*model.Client{client.ID: client}}
	apts := &fakeAppointmentRepo{}
	notifier := &fakeNotifier{}

	svc := NewService(apts, pros, clients, notifier, &fakeEmail{}, schedule.FallbackDefaults(), time.UTC, time.Second)
	return &fixture{svc: svc, pros: pros, clients: clients, apts: apts, notifier: notifier, pro: pro, client: client}
}

func TestDaySlotsOpenDay(t *testing.T) {
	f := newFixture(t)

	slots, err := f.svc.DaySlots(context.Background(), f.pro.ID, monday)
	require.NoError(t, err)
	require.Len(t, slots, 9)
	assert.Equal(t, model.SlotAvailable, slots[0].Status)
	assert.Equal(t, 9, slots[0].Start.Hour())
	assert.Equal(t, 17, slots[8].Start.Hour())
}

func TestDaySlotsClosedDay(t *testing.T) {
	f := newFixture(t)

	saturday := monday.AddDate(0, 0, 5)
	slots, err := f.svc.DaySlots(context.Background(), f.pro.ID, saturday)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestDaySlotsUnknownProfessional(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.DaySlots(context.Background(), uuid.New(), monday)
	assert.ErrorIs(t, err, apperrors.ErrInvalidProfessional)
}

func TestDaySlotsUnverifiedProfessional(t *testing.T) {
	f := newFixture(t)
	f.pro.IsVerified = false

	_, err := f.svc.DaySlots(context.Background(), f.pro.ID, monday)
	assert.ErrorIs(t, err, apperrors.ErrInvalidProfessional)
}

func TestDaySlotsReflectExistingBookings(t *testing.T) {
	f := newFixture(t)

	booked := &model.Appointment{
		ProfessionalID: f.pro.ID,
		Status:         model.AppointmentStatusConfirmed,
		StartTime:      monday.Add(10 * time.Hour),
		EndTime:        monday.Add(11 * time.Hour),
	}
	booked.ID = uuid.New()
	f.apts.appointments = append(f.apts.appointments, booked)

	slots, err := f.svc.DaySlots(context.Background(), f.pro.ID, monday)
	require.NoError(t, err)
	require.Len(t, slots, 9)
	assert.Equal(t, model.SlotAvailable, slots[0].Status)
	assert.Equal(t, model.SlotConfirmed, slots[1].Status)
	assert.Equal(t, model.SlotAvailable, slots[2].Status)
}

func TestBookSlot(t *testing.T) {
	f := newFixture(t)

	req := &model.BookSlotRequest{
		ProfessionalID: f.pro.ID,
		ServiceName:    "Coiffure",
		Price:          80,
		StartTime:      monday.Add(10 * time.Hour),
		EndTime:        monday.Add(11 * time.Hour),
	}
	apt, err := f.svc.BookSlot(context.Background(), &f.client.ID, req)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusPending, apt.Status)
	assert.NotEqual(t, uuid.Nil, apt.ID)
	assert.Equal(t, 1, f.notifier.count())
}

func TestBookSlotAnonymousClient(t *testing.T) {
	f := newFixture(t)

	req := &model.BookSlotRequest{
		ProfessionalID: f.pro.ID,
		ServiceName:    "Maquillage",
		StartTime:      monday.Add(14 * time.Hour),
		EndTime:        monday.Add(15 * time.Hour),
	}
	apt, err := f.svc.BookSlot(context.Background(), nil, req)
	require.NoError(t, err)
	assert.Nil(t, apt.ClientID)
}

func TestBookSlotInvalidTimeRange(t *testing.T) {
	f := newFixture(t)

	req := &model.BookSlotRequest{
		ProfessionalID: f.pro.ID,
		ServiceName:    "Coiffure",
		StartTime:      monday.Add(11 * time.Hour),
		EndTime:        monday.Add(10 * time.Hour),
	}
	_, err := f.svc.BookSlot(context.Background(), &f.client.ID, req)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTimeRange)

	req.EndTime = req.StartTime
	_, err = f.svc.BookSlot(context.Background(), &f.client.ID, req)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTimeRange)
}

func TestBookSlotUnknownProfessional(t *testing.T) {
	f := newFixture(t)

	req := &model.BookSlotRequest{
		ProfessionalID: uuid.New(),
		ServiceName:    "Coiffure",
		StartTime:      monday.Add(10 * time.Hour),
		EndTime:        monday.Add(11 * time.Hour),
	}
	_, err := f.svc.BookSlot(context.Background(), &f.client.ID, req)
	assert.ErrorIs(t, err, apperrors.ErrInvalidProfessional)
}

func TestBookSlotConflict(t *testing.T) {
	f := newFixture(t)

	req := &model.BookSlotRequest{
		ProfessionalID: f.pro.ID,
		ServiceName:    "Coiffure",
		StartTime:      monday.Add(10 * time.Hour),
		EndTime:        monday.Add(11 * time.Hour),
	}
	_, err := f.svc.BookSlot(context.Background(), &f.client.ID, req)
	require.NoError(t, err)

	second := *req
	_, err = f.svc.BookSlot(context.Background(), &f.client.ID, &second)
	assert.ErrorIs(t, err, apperrors.ErrSlotNoLongerAvailable)
}

func TestBookSlotCancelledDoesNotBlock(t *testing.T) {
	f := newFixture(t)

	cancelled := &model.Appointment{
		ProfessionalID: f.pro.ID,
		Status:         model.AppointmentStatusCancelled,
		StartTime:      monday.Add(10 * time.Hour),
		EndTime:        monday.Add(11 * time.Hour),
	}
	cancelled.ID = uuid.New()
	f.apts.appointments = append(f.apts.appointments, cancelled)

	req := &model.BookSlotRequest{
		ProfessionalID: f.pro.ID,
		ServiceName:    "Coiffure",
		StartTime:      monday.Add(10 * time.Hour),
		EndTime:        monday.Add(11 * time.Hour),
	}
	_, err := f.svc.BookSlot(context.Background(), &f.client.ID, req)
	assert.NoError(t, err)
}

// Two clients race for the same slot; exactly one booking must win.
func TestBookSlotConcurrentRace(t *testing.T) {
	f := newFixture(t)

	req := func() *model.BookSlotRequest {
		return &model.BookSlotRequest{
			ProfessionalID: f.pro.ID,
			ServiceName:    "Coiffure",
			StartTime:      monday.Add(10 * time.Hour),
			EndTime:        monday.Add(11 * time.Hour),
		}
	}

	const racers = 8
	errs := make(chan error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.BookSlot(context.Background(), &f.client.ID, req())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		switch {
		case err == nil:
			won++
		default:
			require.ErrorIs(t, err, apperrors.ErrSlotNoLongerAvailable)
			lost++
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, racers-1, lost)
	assert.Len(t, f.apts.appointments, 1)
}
