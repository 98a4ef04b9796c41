package registration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dakshh-official/dakshh-api/internal/domain"
	"github.com/dakshh-official/dakshh-api/internal/pkg/id"
)

// EventStore resolves events for registration.
type EventStore interface {
	Get(ctx context.Context, eventID string) (*domain.Event, error)
}

// UserStore resolves participant accounts.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// RegistrationStore is the slice of the registration repo this service needs.
type RegistrationStore interface {
	Put(ctx context.Context, reg *domain.Registration) error
	Get(ctx context.Context, registrationID string) (*domain.Registration, error)
	ListByEvent(ctx context.Context, eventID string) ([]domain.Registration, error)
	FindByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Registration, error)
	Update(ctx context.Context, registrationID string, updates map[string]interface{}) error
}

type RegisterSoloRequest struct {
	Email   string `json:"email" validate:"required,email"`
	EventID string `json:"eventId" validate:"required"`
}

type Service interface {
	// RegisterSolo creates an unverified solo registration for a verified
	// account. Verification happens later through the admin panel.
	RegisterSolo(ctx context.Context, req RegisterSoloRequest) (*domain.Registration, error)
	// ListByEvent returns an event's registrations for the admin panel.
	ListByEvent(ctx context.Context, eventID string) ([]domain.Registration, error)
	// Verify marks a registration as verified (payment confirmed).
	Verify(ctx context.Context, registrationID string) error
}

type service struct {
	events        EventStore
	users         UserStore
	registrations RegistrationStore
	now           func() time.Time
}

func NewService(events EventStore, users UserStore, registrations RegistrationStore) Service {
	return &service{events: events, users: users, registrations: registrations, now: time.Now}
}

func (s *service) RegisterSolo(ctx context.Context, req RegisterSoloRequest) (*domain.Registration, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("account not found: %w", domain.ErrNotFound)
	}
	if !u.Verified {
		return nil, fmt.Errorf("account must be verified before registering: %w", domain.ErrForbidden)
	}
	event, err := s.events.Get(ctx, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("event not found: %w", domain.ErrNotFound)
	}
	if !event.IsActive {
		return nil, fmt.Errorf("registrations are closed for this event: %w", domain.ErrConflict)
	}
	if event.IsTeamEvent {
		return nil, fmt.Errorf("this is a team event: %w", domain.ErrBadRequest)
	}

	if _, err := s.registrations.FindByEventAndUser(ctx, req.EventID, u.UserID); err == nil {
		return nil, fmt.Errorf("already registered for this event: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	reg := &domain.Registration{
		RegistrationID: id.New(),
		EventID:        req.EventID,
		OwnerID:        u.UserID,
		IsTeam:         false,
		Verified:       false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.registrations.Put(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *service) ListByEvent(ctx context.Context, eventID string) ([]domain.Registration, error) {
	if _, err := s.events.Get(ctx, eventID); err != nil {
		return nil, fmt.Errorf("event not found: %w", domain.ErrNotFound)
	}
	return s.registrations.ListByEvent(ctx, eventID)
}

func (s *service) Verify(ctx context.Context, registrationID string) error {
	reg, err := s.registrations.Get(ctx, registrationID)
	if err != nil {
		return fmt.Errorf("registration not found: %w", domain.ErrNotFound)
	}
	if reg.Verified {
		return fmt.Errorf("registration already verified: %w", domain.ErrConflict)
	}
	return s.registrations.Update(ctx, registrationID, map[string]interface{}{"verified": true})
}
