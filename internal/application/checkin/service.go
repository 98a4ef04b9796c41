package checkin

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dakshh-official/dakshh-api/internal/domain"
	"github.com/dakshh-official/dakshh-api/internal/pkg/qr"
)

// EventStore resolves events for check-in policy (food flags, limits).
type EventStore interface {
	Get(ctx context.Context, eventID string) (*domain.Event, error)
}

// UserStore resolves attendee identity from a QR-embedded user ID.
type UserStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

// RegistrationStore resolves registrations and applies conditional
// transitions. CheckIn and ServeFood return domain.ErrConflict when the
// expected prior state no longer holds.
type RegistrationStore interface {
	FindByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Registration, error)
	CheckIn(ctx context.Context, registrationID, checkedInBy string, at time.Time) error
	ServeFood(ctx context.Context, registrationID string, observedCount int, at time.Time) error
}

type Service interface {
	// PerformCheckIn applies an entry or food transition for the attendee
	// encoded in the QR payload, under the caller's admin session.
	PerformCheckIn(ctx context.Context, session *domain.AdminSession, req domain.CheckInRequest) (*domain.CheckInResult, error)
}

// ServiceDeps wires the check-in service.
type ServiceDeps struct {
	Events        EventStore
	Users         UserStore
	Registrations RegistrationStore
	QR            *qr.Signer
	FoodCooldown  time.Duration
	Now           func() time.Time
}

type service struct {
	events        EventStore
	users         UserStore
	registrations RegistrationStore
	qr            *qr.Signer
	foodCooldown  time.Duration
	now           func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		events:        deps.Events,
		users:         deps.Users,
		registrations: deps.Registrations,
		qr:            deps.QR,
		foodCooldown:  deps.FoodCooldown,
		now:           now,
	}
}

func (s *service) PerformCheckIn(ctx context.Context, session *domain.AdminSession, req domain.CheckInRequest) (*domain.CheckInResult, error) {
	if !domain.Authorize(session, domain.CapCheckIn) {
		return nil, fmt.Errorf("check-in not permitted for this session: %w", domain.ErrUnauthorized)
	}
	if !domain.ValidCheckInAction(req.Action) {
		return nil, fmt.Errorf("unknown action %q: %w", req.Action, domain.ErrBadRequest)
	}

	attendeeID, ok := s.qr.Verify(req.QRPayload)
	if !ok {
		return &domain.CheckInResult{
			Allowed: false,
			Status:  domain.CheckInDenied,
			Message: "Invalid QR. Entry denied.",
		}, nil
	}

	event, err := s.events.Get(ctx, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("event not found: %w", domain.ErrNotFound)
	}

	name, email := s.attendeeIdentity(ctx, attendeeID)

	reg, err := s.registrations.FindByEventAndUser(ctx, req.EventID, attendeeID)
	if err != nil || !reg.Includes(attendeeID) || !reg.Verified {
		return &domain.CheckInResult{
			Allowed:       false,
			Status:        domain.CheckInDenied,
			AttendeeName:  name,
			AttendeeEmail: email,
			Message:       fmt.Sprintf("Entry denied. %s is not registered for %s.", name, event.Name),
		}, nil
	}

	if req.Action == domain.ActionEntry {
		return s.entry(ctx, session, event, reg, name, email)
	}
	return s.food(ctx, event, reg, name, email)
}

// entry flips the checked-in flag exactly once. The repo write is conditional
// on the registration not being checked in yet, so a duplicate scan, even one
// racing from a second device, surfaces as a warning and never as a second
// success.
func (s *service) entry(ctx context.Context, session *domain.AdminSession, event *domain.Event, reg *domain.Registration, name, email string) (*domain.CheckInResult, error) {
	duplicate := func() *domain.CheckInResult {
		return &domain.CheckInResult{
			Allowed:       true,
			Status:        domain.CheckInWarning,
			Duplicate:     true,
			AttendeeName:  name,
			AttendeeEmail: email,
			Message:       fmt.Sprintf("%s is already checked in for %s.", name, event.Name),
		}
	}
	if reg.CheckedIn {
		return duplicate(), nil
	}
	err := s.registrations.CheckIn(ctx, reg.RegistrationID, session.AdminID, s.now())
	if errors.Is(err, domain.ErrConflict) {
		return duplicate(), nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.CheckInResult{
		Allowed:       true,
		Status:        domain.CheckInSuccess,
		AttendeeName:  name,
		AttendeeEmail: email,
		Message:       fmt.Sprintf("%s checked in successfully.", name),
	}, nil
}

func (s *service) food(ctx context.Context, event *domain.Event, reg *domain.Registration, name, email string) (*domain.CheckInResult, error) {
	if !event.IsFoodProvided {
		return &domain.CheckInResult{
			Allowed:       false,
			Status:        domain.CheckInError,
			AttendeeName:  name,
			AttendeeEmail: email,
			Message:       "Food distribution is disabled for this event.",
		}, nil
	}
	if !reg.CheckedIn {
		return &domain.CheckInResult{
			Allowed:       false,
			Status:        domain.CheckInDenied,
			AttendeeName:  name,
			AttendeeEmail: email,
			Message:       "Food denied. Participant must be checked in first.",
		}, nil
	}

	maxServings := event.MaxFoodServings
	if maxServings < 1 {
		maxServings = 1
	}
	if reg.FoodServedCount >= maxServings {
		return &domain.CheckInResult{
			Allowed:       false,
			Status:        domain.CheckInDenied,
			Duplicate:     true,
			AttendeeName:  name,
			AttendeeEmail: email,
			Message:       fmt.Sprintf("Food already issued %d/%d times. Duplicate packet denied.", reg.FoodServedCount, maxServings),
		}, nil
	}

	if reg.LastFoodServedAt != nil {
		elapsed := s.now().Sub(*reg.LastFoodServedAt)
		if elapsed < s.foodCooldown {
			wait := int(math.Ceil((s.foodCooldown - elapsed).Minutes()))
			return &domain.CheckInResult{
				Allowed:       false,
				Status:        domain.CheckInDenied,
				Duplicate:     true,
				AttendeeName:  name,
				AttendeeEmail: email,
				Message:       fmt.Sprintf("Food denied. Minimum gap required between scans. Try again in %d minute(s).", wait),
			}, nil
		}
	}

	err := s.registrations.ServeFood(ctx, reg.RegistrationID, reg.FoodServedCount, s.now())
	if errors.Is(err, domain.ErrConflict) {
		// Another device served between our read and write.
		return &domain.CheckInResult{
			Allowed:       false,
			Status:        domain.CheckInDenied,
			Duplicate:     true,
			AttendeeName:  name,
			AttendeeEmail: email,
			Message:       "Food was just issued on another device. Duplicate packet denied.",
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.CheckInResult{
		Allowed:         true,
		Status:          domain.CheckInSuccess,
		AttendeeName:    name,
		AttendeeEmail:   email,
		FoodServedCount: reg.FoodServedCount + 1,
		MaxFoodServings: maxServings,
		Message:         fmt.Sprintf("Food check completed. Packet issued (%d/%d).", reg.FoodServedCount+1, maxServings),
	}, nil
}

// attendeeIdentity is best-effort: a missing user record still yields a
// usable result for the scanning device.
func (s *service) attendeeIdentity(ctx context.Context, userID string) (name, email string) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return "Participant", ""
	}
	if u.Username != "" {
		return u.Username, u.Email
	}
	return "Participant", u.Email
}
