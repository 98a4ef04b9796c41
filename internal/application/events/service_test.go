package events

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dakshh-official/dakshh-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockEventStore struct{ mock.Mock }

func (m *mockEventStore) Put(ctx context.Context, e *domain.Event) error {
	return m.Called(ctx, e).Error(0)
}
func (m *mockEventStore) Get(ctx context.Context, eventID string) (*domain.Event, error) {
	args := m.Called(ctx, eventID)
	if e, _ := args.Get(0).(*domain.Event); e != nil {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockEventStore) Scan(ctx context.Context) ([]domain.Event, error) {
	args := m.Called(ctx)
	if e, _ := args.Get(0).([]domain.Event); e != nil {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockEventStore) Update(ctx context.Context, eventID string, updates map[string]interface{}) error {
	return m.Called(ctx, eventID, updates).Error(0)
}

type mockBannerStore struct{ mock.Mock }

func (m *mockBannerStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, r, contentType)
	return args.String(0), args.Error(1)
}
func (m *mockBannerStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// --- listing ---

func TestListPublic_FiltersInactiveAndSortsNewestFirst(t *testing.T) {
	base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	es := &mockEventStore{}
	es.On("Scan", mock.Anything).Return([]domain.Event{
		{EventID: "old", IsActive: true, CreatedAt: base},
		{EventID: "hidden", IsActive: false, CreatedAt: base.Add(time.Hour)},
		{EventID: "new", IsActive: true, CreatedAt: base.Add(2 * time.Hour)},
	}, nil)

	svc := NewService(es, &mockBannerStore{})
	list, err := svc.ListPublic(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].EventID)
	assert.Equal(t, "old", list[1].EventID)
}

func TestListAll_IncludesInactive(t *testing.T) {
	es := &mockEventStore{}
	es.On("Scan", mock.Anything).Return([]domain.Event{
		{EventID: "a", IsActive: false},
		{EventID: "b", IsActive: true},
	}, nil)

	svc := NewService(es, &mockBannerStore{})
	list, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

// --- Create / Update ---

func TestCreate_DefaultsInactiveAndMinServings(t *testing.T) {
	es := &mockEventStore{}
	es.On("Put", mock.Anything, mock.AnythingOfType("*domain.Event")).Return(nil)

	svc := NewService(es, &mockBannerStore{})
	ev, err := svc.Create(context.Background(), domain.CreateEventRequest{
		Name: "RoboWars", Category: "tech", IsFoodProvided: true, MaxFoodServings: 0,
	})
	require.NoError(t, err)
	assert.False(t, ev.IsActive, "new events stay hidden until explicitly activated")
	assert.Equal(t, 1, ev.MaxFoodServings)
	assert.NotEmpty(t, ev.EventID)
}

func TestUpdate_UnknownEvent(t *testing.T) {
	es := &mockEventStore{}
	es.On("Get", mock.Anything, "nope").Return(nil, domain.ErrNotFound)

	svc := NewService(es, &mockBannerStore{})
	name := "X"
	err := svc.Update(context.Background(), "nope", domain.UpdateEventRequest{Name: &name})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUpdate_NoFields(t *testing.T) {
	es := &mockEventStore{}
	es.On("Get", mock.Anything, "ev1").Return(&domain.Event{EventID: "ev1"}, nil)

	svc := NewService(es, &mockBannerStore{})
	err := svc.Update(context.Background(), "ev1", domain.UpdateEventRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestUpdate_PatchesOnlyProvidedFields(t *testing.T) {
	es := &mockEventStore{}
	es.On("Get", mock.Anything, "ev1").Return(&domain.Event{EventID: "ev1"}, nil)
	es.On("Update", mock.Anything, "ev1", mock.Anything).Return(nil)

	svc := NewService(es, &mockBannerStore{})
	active := true
	err := svc.Update(context.Background(), "ev1", domain.UpdateEventRequest{IsActive: &active})
	require.NoError(t, err)

	es.AssertCalled(t, "Update", mock.Anything, "ev1", map[string]interface{}{"is_active": true})
}

// --- UploadBanner ---

func TestUploadBanner_RecordsURLOnEvent(t *testing.T) {
	es := &mockEventStore{}
	bs := &mockBannerStore{}
	es.On("Get", mock.Anything, "ev1").Return(&domain.Event{EventID: "ev1"}, nil)
	bs.On("Upload", mock.Anything, "banners/ev1/poster.png", mock.Anything, "image/png").
		Return("https://cdn.example.com/banners/ev1/poster.png", nil)
	es.On("Update", mock.Anything, "ev1", map[string]interface{}{
		"banner": "https://cdn.example.com/banners/ev1/poster.png",
	}).Return(nil)

	svc := NewService(es, bs)
	url, err := svc.UploadBanner(context.Background(), "ev1", "poster.png", strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/banners/ev1/poster.png", url)
	es.AssertExpectations(t)
}

func TestUploadBanner_DeletesReplacedObject(t *testing.T) {
	es := &mockEventStore{}
	bs := &mockBannerStore{}
	es.On("Get", mock.Anything, "ev1").
		Return(&domain.Event{EventID: "ev1", Banner: "s3://dakshh-assets/banners/ev1/old.png"}, nil)
	bs.On("Upload", mock.Anything, "banners/ev1/new.png", mock.Anything, "image/png").
		Return("s3://dakshh-assets/banners/ev1/new.png", nil)
	es.On("Update", mock.Anything, "ev1", mock.Anything).Return(nil)
	bs.On("Delete", mock.Anything, "banners/ev1/old.png").Return(nil)

	svc := NewService(es, bs)
	_, err := svc.UploadBanner(context.Background(), "ev1", "new.png", strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)
	bs.AssertCalled(t, "Delete", mock.Anything, "banners/ev1/old.png")
}

func TestUploadBanner_SameKeyNotDeleted(t *testing.T) {
	es := &mockEventStore{}
	bs := &mockBannerStore{}
	es.On("Get", mock.Anything, "ev1").
		Return(&domain.Event{EventID: "ev1", Banner: "s3://dakshh-assets/banners/ev1/poster.png"}, nil)
	bs.On("Upload", mock.Anything, "banners/ev1/poster.png", mock.Anything, "image/png").
		Return("s3://dakshh-assets/banners/ev1/poster.png", nil)
	es.On("Update", mock.Anything, "ev1", mock.Anything).Return(nil)

	svc := NewService(es, bs)
	_, err := svc.UploadBanner(context.Background(), "ev1", "poster.png", strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)
	bs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
