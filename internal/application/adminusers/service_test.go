package adminusers

import (
	"context"
	"errors"
	"testing"

	"github.com/dakshh-official/dakshh-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockAdminStore struct{ mock.Mock }

func (m *mockAdminStore) Put(ctx context.Context, a *domain.AdminUser) error {
	return m.Called(ctx, a).Error(0)
}
func (m *mockAdminStore) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	args := m.Called(ctx, email)
	if a, _ := args.Get(0).(*domain.AdminUser); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAdminStore) Scan(ctx context.Context) ([]domain.AdminUser, error) {
	args := m.Called(ctx)
	if a, _ := args.Get(0).([]domain.AdminUser); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

// --- SplitEmails ---

func TestSplitEmails(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"commas", "a@x.com, b@x.com", []string{"a@x.com", "b@x.com"}},
		{"newlines and semicolons", "a@x.com\nb@x.com;c@x.com", []string{"a@x.com", "b@x.com", "c@x.com"}},
		{"dedupe case insensitive", "A@x.com, a@X.com", []string{"a@x.com"}},
		{"whitespace only", "  , \n ;", nil},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitEmails(tt.input))
		})
	}
}

// --- Invite ---

func TestInvite_UnknownRole(t *testing.T) {
	svc := NewService(&mockAdminStore{}, &mockMailer{})
	_, err := svc.Invite(context.Background(), "boss@d.com", InviteRequest{
		Emails: "a@x.com", Role: "overlord",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestInvite_UnknownPermission(t *testing.T) {
	svc := NewService(&mockAdminStore{}, &mockMailer{})
	_, err := svc.Invite(context.Background(), "boss@d.com", InviteRequest{
		Emails: "a@x.com", Role: domain.RoleImposter, Permissions: []string{"sudo"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestInvite_SkipsExistingAccounts(t *testing.T) {
	admins := &mockAdminStore{}
	ml := &mockMailer{}
	admins.On("GetByEmail", mock.Anything, "old@x.com").Return(&domain.AdminUser{AdminID: "ad1"}, nil)
	admins.On("GetByEmail", mock.Anything, "new@x.com").Return(nil, domain.ErrNotFound)
	admins.On("Put", mock.Anything, mock.AnythingOfType("*domain.AdminUser")).Return(nil)
	ml.On("SendEmail", "new@x.com", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(admins, ml)
	result, err := svc.Invite(context.Background(), "boss@d.com", InviteRequest{
		Emails: "old@x.com, new@x.com", Role: domain.RoleCrewmate,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"new@x.com"}, result.Invited)
	assert.Equal(t, []string{"old@x.com"}, result.Skipped)
	ml.AssertNotCalled(t, "SendEmail", "old@x.com", mock.Anything, mock.Anything)
}

func TestInvite_PermissionsIgnoredForFullRoles(t *testing.T) {
	admins := &mockAdminStore{}
	ml := &mockMailer{}
	admins.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)
	admins.On("Put", mock.Anything, mock.MatchedBy(func(a *domain.AdminUser) bool {
		return a.Role == domain.RoleAdmin && len(a.Permissions) == 0
	})).Return(nil)
	ml.On("SendEmail", "a@x.com", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(admins, ml)
	result, err := svc.Invite(context.Background(), "boss@d.com", InviteRequest{
		Emails: "a@x.com", Role: domain.RoleAdmin, Permissions: []string{domain.CapCheckIn},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com"}, result.Invited)
	admins.AssertExpectations(t)
}

func TestInvite_MailFailureStillInvites(t *testing.T) {
	admins := &mockAdminStore{}
	ml := &mockMailer{}
	admins.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)
	admins.On("Put", mock.Anything, mock.AnythingOfType("*domain.AdminUser")).Return(nil)
	ml.On("SendEmail", "a@x.com", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	svc := NewService(admins, ml)
	result, err := svc.Invite(context.Background(), "boss@d.com", InviteRequest{
		Emails: "a@x.com", Role: domain.RoleCrewmate,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com"}, result.Invited)
}
