package adminusers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/dakshh-official/dakshh-api/internal/domain"
	"github.com/dakshh-official/dakshh-api/internal/infrastructure/smtp"
	"github.com/dakshh-official/dakshh-api/internal/pkg/id"
)

// AdminStore is the slice of the admin user repo this service needs.
type AdminStore interface {
	Put(ctx context.Context, a *domain.AdminUser) error
	GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
	Scan(ctx context.Context) ([]domain.AdminUser, error)
}

type InviteRequest struct {
	Emails      string   `json:"emails" validate:"required"`
	Role        string   `json:"role" validate:"required,oneof=admin crewmate imposter"`
	Permissions []string `json:"permissions"`
}

type InviteResult struct {
	Invited []string `json:"invited"`
	Skipped []string `json:"skipped"`
}

type Service interface {
	List(ctx context.Context) ([]domain.AdminUser, error)
	// Invite creates admin accounts for each email and mails an invitation.
	// Existing accounts are skipped, not overwritten.
	Invite(ctx context.Context, invitedBy string, req InviteRequest) (*InviteResult, error)
}

type service struct {
	admins AdminStore
	mailer smtp.Mailer
	now    func() time.Time
}

func NewService(admins AdminStore, mailer smtp.Mailer) Service {
	return &service{admins: admins, mailer: mailer, now: time.Now}
}

func (s *service) List(ctx context.Context) ([]domain.AdminUser, error) {
	return s.admins.Scan(ctx)
}

func (s *service) Invite(ctx context.Context, invitedBy string, req InviteRequest) (*InviteResult, error) {
	if !domain.ValidAdminRole(req.Role) {
		return nil, fmt.Errorf("unknown role %q: %w", req.Role, domain.ErrBadRequest)
	}
	// Permissions only mean something on the limited role.
	perms := []string{}
	if req.Role == domain.RoleImposter {
		for _, p := range req.Permissions {
			if !domain.ValidCapability(p) {
				return nil, fmt.Errorf("unknown permission %q: %w", p, domain.ErrBadRequest)
			}
			perms = append(perms, p)
		}
	}

	emails := SplitEmails(req.Emails)
	if len(emails) == 0 {
		return nil, fmt.Errorf("no valid emails provided: %w", domain.ErrBadRequest)
	}

	result := &InviteResult{}
	now := s.now().UTC()
	for _, email := range emails {
		_, err := s.admins.GetByEmail(ctx, email)
		if err == nil {
			result.Skipped = append(result.Skipped, email)
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		a := &domain.AdminUser{
			AdminID:     id.New(),
			Email:       email,
			Role:        req.Role,
			Permissions: perms,
			InvitedBy:   invitedBy,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.admins.Put(ctx, a); err != nil {
			return nil, err
		}
		if err := s.mailer.SendEmail(email, "Dakshh admin panel invitation", smtp.AdminInviteBody(req.Role)); err != nil {
			slog.Warn("failed to send admin invite email", "email", email, "err", err)
		}
		result.Invited = append(result.Invited, email)
	}
	return result, nil
}

var emailSeparators = regexp.MustCompile(`[,\n;]+`)

// SplitEmails parses a comma/semicolon/newline separated list into a
// de-duplicated slice of normalized addresses.
func SplitEmails(input string) []string {
	seen := map[string]bool{}
	var out []string
	for _, tok := range emailSeparators.Split(input, -1) {
		email := strings.ToLower(strings.TrimSpace(tok))
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true
		out = append(out, email)
	}
	return out
}
