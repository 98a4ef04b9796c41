package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dakshh-official/dakshh-api/internal/domain"
	"github.com/dakshh-official/dakshh-api/internal/infrastructure/otpsession"
	"github.com/dakshh-official/dakshh-api/internal/infrastructure/smtp"
	"github.com/dakshh-official/dakshh-api/internal/pkg/id"
	"github.com/dakshh-official/dakshh-api/internal/pkg/otp"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the slice of the user repo this service needs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

// OTPStore holds pending OTP sessions keyed by (email, device).
type OTPStore interface {
	Set(email, deviceID, otpHash string, expiresAt time.Time)
	Get(email, deviceID string) *otpsession.Session
	Clear(email, deviceID string)
}

type VerifyOTPRequest struct {
	Email    string `json:"email" validate:"required,email"`
	OTP      string `json:"otp" validate:"required,len=6,numeric"`
	DeviceID string `json:"deviceId" validate:"required"`
}

type SendOTPRequest struct {
	Email    string `json:"email" validate:"required,email"`
	DeviceID string `json:"deviceId" validate:"required"`
}

type Service interface {
	Register(ctx context.Context, req domain.RegisterUserRequest) (*domain.User, error)
	SendOTP(ctx context.Context, email, deviceID string) error
	ResendOTP(ctx context.Context, email, deviceID string) error
	VerifyOTP(ctx context.Context, email, deviceID, code string) error
}

// ServiceDeps wires the participant auth service.
type ServiceDeps struct {
	Users     UserStore
	Sessions  OTPStore
	Mailer    smtp.Mailer
	OTPExpiry time.Duration
	Now       func() time.Time
}

type service struct {
	users     UserStore
	sessions  OTPStore
	mailer    smtp.Mailer
	otpExpiry time.Duration
	now       func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		users:     deps.Users,
		sessions:  deps.Sessions,
		mailer:    deps.Mailer,
		otpExpiry: deps.OTPExpiry,
		now:       now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) Register(ctx context.Context, req domain.RegisterUserRequest) (*domain.User, error) {
	email := normalizeEmail(req.Email)
	if !otpsession.IsValidDeviceID(req.DeviceID) {
		return nil, fmt.Errorf("invalid device id: %w", domain.ErrBadRequest)
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("an account with this email already exists: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if _, err := s.users.GetByUsername(ctx, req.Username); err == nil {
		return nil, fmt.Errorf("username is already taken: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Username:     req.Username,
		Email:        email,
		PasswordHash: string(hash),
		Provider:     domain.ProviderLocal,
		Roles:        []string{"participant"},
		Verified:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Put(ctx, u); err != nil {
		return nil, err
	}
	if err := s.issue(email, req.DeviceID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) SendOTP(ctx context.Context, email, deviceID string) error {
	email = normalizeEmail(email)
	if _, err := s.lookupLocalAccount(ctx, email); err != nil {
		return err
	}
	return s.issue(email, deviceID)
}

func (s *service) ResendOTP(ctx context.Context, email, deviceID string) error {
	email = normalizeEmail(email)
	u, err := s.lookupLocalAccount(ctx, email)
	if err != nil {
		return err
	}
	if u.Verified {
		return fmt.Errorf("account is already verified: %w", domain.ErrConflict)
	}
	return s.issue(email, deviceID)
}

func (s *service) VerifyOTP(ctx context.Context, email, deviceID, code string) error {
	email = normalizeEmail(email)
	if !otpsession.IsValidDeviceID(deviceID) {
		return fmt.Errorf("invalid device id: %w", domain.ErrBadRequest)
	}
	u, err := s.lookupLocalAccount(ctx, email)
	if err != nil {
		return err
	}

	sess := s.sessions.Get(email, deviceID)
	if sess == nil {
		return fmt.Errorf("no active OTP, request a new one: %w", domain.ErrBadRequest)
	}
	if sess.OTPHash != otp.Hash(strings.TrimSpace(code)) {
		// Session stays live so the caller can retry until expiry.
		return fmt.Errorf("invalid OTP: %w", domain.ErrInvalidCode)
	}
	s.sessions.Clear(email, deviceID)

	// Capture prior state before mutating: the welcome mail goes out only on
	// the first verification, never on repeats.
	justVerified := !u.Verified
	if justVerified {
		now := s.now().UTC()
		if err := s.users.Update(ctx, u.UserID, map[string]interface{}{
			"verified":    true,
			"verified_at": now.Format(time.RFC3339),
		}); err != nil {
			return err
		}
		if err := s.mailer.SendEmail(u.Email, "Welcome to Dakshh", smtp.WelcomeBody(u.Username)); err != nil {
			slog.Warn("failed to send welcome email", "email", u.Email, "err", err)
		}
	}
	return nil
}

// lookupLocalAccount resolves an account that can go through the OTP flow.
func (s *service) lookupLocalAccount(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("account not found: %w", domain.ErrNotFound)
	}
	if u.Provider == domain.ProviderGoogle {
		return nil, fmt.Errorf("this email is registered with Google, sign in with Google: %w", domain.ErrConflict)
	}
	return u, nil
}

// issue generates a fresh code, stores its hash for the (email, device) pair
// and mails the plaintext to the account. A new issuance overwrites any prior
// session for the pair.
func (s *service) issue(email, deviceID string) error {
	if !otpsession.IsValidDeviceID(deviceID) {
		return fmt.Errorf("invalid device id: %w", domain.ErrBadRequest)
	}
	code, err := otp.Generate()
	if err != nil {
		return err
	}
	s.sessions.Set(email, deviceID, otp.Hash(code), s.now().Add(s.otpExpiry))
	minutes := int(s.otpExpiry / time.Minute)
	return s.mailer.SendEmail(email, "Your Dakshh verification code", smtp.OTPBody(code, minutes))
}
