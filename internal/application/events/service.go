package events

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/dakshh-official/dakshh-api/internal/domain"
	"github.com/dakshh-official/dakshh-api/internal/pkg/id"
)

// EventStore is the slice of the event repo this service needs.
type EventStore interface {
	Put(ctx context.Context, e *domain.Event) error
	Get(ctx context.Context, eventID string) (*domain.Event, error)
	Scan(ctx context.Context) ([]domain.Event, error)
	Update(ctx context.Context, eventID string, updates map[string]interface{}) error
}

// BannerStore persists event banner images.
type BannerStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type Service interface {
	// ListPublic returns active events only, newest first.
	ListPublic(ctx context.Context) ([]domain.Event, error)
	// ListAll returns every event for the admin panel.
	ListAll(ctx context.Context) ([]domain.Event, error)
	Get(ctx context.Context, eventID string) (*domain.Event, error)
	Create(ctx context.Context, req domain.CreateEventRequest) (*domain.Event, error)
	Update(ctx context.Context, eventID string, req domain.UpdateEventRequest) error
	// UploadBanner stores the banner image and records its URL on the event.
	UploadBanner(ctx context.Context, eventID, filename string, r io.Reader, contentType string) (string, error)
}

type service struct {
	events  EventStore
	banners BannerStore
	now     func() time.Time
}

func NewService(events EventStore, banners BannerStore) Service {
	return &service{events: events, banners: banners, now: time.Now}
}

func (s *service) ListPublic(ctx context.Context) ([]domain.Event, error) {
	all, err := s.events.Scan(ctx)
	if err != nil {
		return nil, err
	}
	active := all[:0]
	for _, e := range all {
		if e.IsActive {
			active = append(active, e)
		}
	}
	sortNewestFirst(active)
	return active, nil
}

func (s *service) ListAll(ctx context.Context) ([]domain.Event, error) {
	all, err := s.events.Scan(ctx)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(all)
	return all, nil
}

func (s *service) Get(ctx context.Context, eventID string) (*domain.Event, error) {
	return s.events.Get(ctx, eventID)
}

func (s *service) Create(ctx context.Context, req domain.CreateEventRequest) (*domain.Event, error) {
	maxServings := req.MaxFoodServings
	if maxServings < 1 {
		maxServings = 1
	}
	now := s.now().UTC()
	e := &domain.Event{
		EventID:         id.New(),
		Name:            req.Name,
		Category:        req.Category,
		Date:            req.Date,
		Time:            req.Time,
		Venue:           req.Venue,
		Description:     req.Description,
		Rules:           req.Rules,
		IsTeamEvent:     req.IsTeamEvent,
		IsActive:        false,
		IsFoodProvided:  req.IsFoodProvided,
		MaxFoodServings: maxServings,
		Fees:            req.Fees,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.events.Put(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) Update(ctx context.Context, eventID string, req domain.UpdateEventRequest) error {
	if _, err := s.events.Get(ctx, eventID); err != nil {
		return fmt.Errorf("event not found: %w", domain.ErrNotFound)
	}
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Date != nil {
		updates["date"] = *req.Date
	}
	if req.Time != nil {
		updates["time"] = *req.Time
	}
	if req.Venue != nil {
		updates["venue"] = *req.Venue
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Rules != nil {
		updates["rules"] = *req.Rules
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.IsFoodProvided != nil {
		updates["is_food_provided"] = *req.IsFoodProvided
	}
	if req.MaxFoodServings != nil {
		updates["max_food_servings"] = *req.MaxFoodServings
	}
	if req.Fees != nil {
		updates["fees"] = *req.Fees
	}
	if len(updates) == 0 {
		return fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}
	return s.events.Update(ctx, eventID, updates)
}

func (s *service) UploadBanner(ctx context.Context, eventID, filename string, r io.Reader, contentType string) (string, error) {
	ev, err := s.events.Get(ctx, eventID)
	if err != nil {
		return "", fmt.Errorf("event not found: %w", domain.ErrNotFound)
	}
	key := fmt.Sprintf("banners/%s/%s", eventID, filename)
	url, err := s.banners.Upload(ctx, key, r, contentType)
	if err != nil {
		return "", err
	}
	if err := s.events.Update(ctx, eventID, map[string]interface{}{"banner": url}); err != nil {
		return "", err
	}
	if old := objectKey(ev.Banner); old != "" && old != key {
		if err := s.banners.Delete(ctx, old); err != nil {
			slog.Warn("failed to delete replaced banner", "key", old, "error", err)
		}
	}
	return url, nil
}

// objectKey strips the s3://bucket/ prefix from a stored banner URL.
func objectKey(url string) string {
	if !strings.HasPrefix(url, "s3://") {
		return ""
	}
	rest := strings.TrimPrefix(url, "s3://")
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return rest[i+1:]
	}
	return ""
}

func sortNewestFirst(events []domain.Event) {
	sort.Slice(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
}
