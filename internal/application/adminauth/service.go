package adminauth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dakshh-official/dakshh-api/internal/domain"
	"github.com/dakshh-official/dakshh-api/internal/infrastructure/adminsession"
	"github.com/dakshh-official/dakshh-api/internal/infrastructure/otpsession"
	"github.com/dakshh-official/dakshh-api/internal/infrastructure/smtp"
	"github.com/dakshh-official/dakshh-api/internal/pkg/otp"
	"golang.org/x/crypto/bcrypt"
)

// AdminStore is the slice of the admin user repo this service needs.
type AdminStore interface {
	Get(ctx context.Context, adminID string) (*domain.AdminUser, error)
	GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
	Update(ctx context.Context, adminID string, updates map[string]interface{}) error
}

// OTPStore holds pending admin OTP sessions keyed by (email, device).
type OTPStore interface {
	Set(email, deviceID, otpHash string, expiresAt time.Time)
	Get(email, deviceID string) *otpsession.Session
	Clear(email, deviceID string)
}

// TokenSigner issues signed admin session tokens.
type TokenSigner interface {
	Sign(s *domain.AdminSession) (string, error)
}

type GateRequest struct {
	MasterKey string `json:"masterKey" validate:"required"`
}

type SendOTPRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password"`
	DeviceID string `json:"deviceId" validate:"required"`
}

type VerifyRequest struct {
	Email    string `json:"email" validate:"required,email"`
	OTP      string `json:"otp" validate:"required,len=6,numeric"`
	DeviceID string `json:"deviceId" validate:"required"`
}

type SetupPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	DeviceID string `json:"deviceId" validate:"required"`
}

type Service interface {
	// Gate validates the shared master key and returns a signed master token.
	Gate(masterKey string) (string, error)
	// CheckUser reports whether the admin account still needs password setup.
	CheckUser(ctx context.Context, email string) (needsSetup bool, err error)
	// SetupPassword sets the account password once and issues an OTP.
	SetupPassword(ctx context.Context, req SetupPasswordRequest) error
	// SendOTP issues a device-bound OTP, checking the password when one is set.
	SendOTP(ctx context.Context, req SendOTPRequest) error
	// Verify checks the OTP and returns a signed session token on success.
	Verify(ctx context.Context, req VerifyRequest) (token string, err error)
	// Me re-reads the admin behind a session so role and permission changes
	// (or removal) take effect before the cookie expires.
	Me(ctx context.Context, session *domain.AdminSession) (*domain.AdminSession, error)
}

// ServiceDeps wires the admin auth service.
type ServiceDeps struct {
	Admins    AdminStore
	Sessions  OTPStore
	Signer    TokenSigner
	Mailer    smtp.Mailer
	MasterKey string
	OTPExpiry time.Duration
	Now       func() time.Time
}

type service struct {
	admins    AdminStore
	sessions  OTPStore
	signer    TokenSigner
	mailer    smtp.Mailer
	masterKey string
	otpExpiry time.Duration
	now       func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		admins:    deps.Admins,
		sessions:  deps.Sessions,
		signer:    deps.Signer,
		mailer:    deps.Mailer,
		masterKey: deps.MasterKey,
		otpExpiry: deps.OTPExpiry,
		now:       now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) Gate(masterKey string) (string, error) {
	// An unset master key disables the gate entirely.
	if s.masterKey == "" || strings.TrimSpace(masterKey) != s.masterKey {
		return "", fmt.Errorf("invalid master key: %w", domain.ErrUnauthorized)
	}
	return s.signer.Sign(adminsession.MasterSession())
}

func (s *service) CheckUser(ctx context.Context, email string) (bool, error) {
	a, err := s.admins.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return false, fmt.Errorf("admin user not found: %w", domain.ErrNotFound)
	}
	return a.PasswordSetAt == nil, nil
}

func (s *service) SetupPassword(ctx context.Context, req SetupPasswordRequest) error {
	email := normalizeEmail(req.Email)
	if !otpsession.IsValidDeviceID(req.DeviceID) {
		return fmt.Errorf("invalid device id: %w", domain.ErrBadRequest)
	}
	a, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("admin user not found: %w", domain.ErrNotFound)
	}
	if a.PasswordSetAt != nil {
		return fmt.Errorf("password already set, sign in instead: %w", domain.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	if err := s.admins.Update(ctx, a.AdminID, map[string]interface{}{
		"password_hash":   string(hash),
		"password_set_at": now.Format(time.RFC3339),
	}); err != nil {
		return err
	}
	return s.issue(email, req.DeviceID)
}

func (s *service) SendOTP(ctx context.Context, req SendOTPRequest) error {
	email := normalizeEmail(req.Email)
	if !otpsession.IsValidDeviceID(req.DeviceID) {
		return fmt.Errorf("invalid device id: %w", domain.ErrBadRequest)
	}
	a, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("admin user not found: %w", domain.ErrNotFound)
	}
	if a.PasswordSetAt != nil {
		if req.Password == "" {
			return fmt.Errorf("password is required: %w", domain.ErrBadRequest)
		}
		if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.Password)) != nil {
			return fmt.Errorf("invalid password: %w", domain.ErrUnauthorized)
		}
	}
	return s.issue(email, req.DeviceID)
}

func (s *service) Verify(ctx context.Context, req VerifyRequest) (string, error) {
	email := normalizeEmail(req.Email)
	if !otpsession.IsValidDeviceID(req.DeviceID) {
		return "", fmt.Errorf("invalid device id: %w", domain.ErrBadRequest)
	}

	sess := s.sessions.Get(email, req.DeviceID)
	if sess == nil {
		return "", fmt.Errorf("no active OTP, request a new one: %w", domain.ErrBadRequest)
	}
	if sess.OTPHash != otp.Hash(strings.TrimSpace(req.OTP)) {
		return "", fmt.Errorf("invalid OTP: %w", domain.ErrInvalidCode)
	}

	a, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("admin user not found: %w", domain.ErrNotFound)
	}
	s.sessions.Clear(email, req.DeviceID)

	return s.signer.Sign(&domain.AdminSession{
		AdminID:     a.AdminID,
		Email:       a.Email,
		Role:        a.Role,
		Permissions: a.Permissions,
	})
}

func (s *service) Me(ctx context.Context, session *domain.AdminSession) (*domain.AdminSession, error) {
	if session.Master {
		return session, nil
	}
	a, err := s.admins.Get(ctx, session.AdminID)
	if err != nil {
		return nil, fmt.Errorf("admin account no longer exists: %w", domain.ErrUnauthorized)
	}
	return &domain.AdminSession{
		AdminID:     a.AdminID,
		Email:       a.Email,
		Role:        a.Role,
		Permissions: a.Permissions,
	}, nil
}

func (s *service) issue(email, deviceID string) error {
	code, err := otp.Generate()
	if err != nil {
		return err
	}
	s.sessions.Set(email, deviceID, otp.Hash(code), s.now().Add(s.otpExpiry))
	minutes := int(s.otpExpiry / time.Minute)
	return s.mailer.SendEmail(email, "Dakshh admin panel verification code", smtp.OTPBody(code, minutes))
}
