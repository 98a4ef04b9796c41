package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dakshh-official/dakshh-api/internal/application/adminauth"
	"github.com/dakshh-official/dakshh-api/internal/domain"
	"github.com/dakshh-official/dakshh-api/internal/infrastructure/adminsession"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockAdminAuthSvc struct{ mock.Mock }

func (m *mockAdminAuthSvc) Gate(masterKey string) (string, error) {
	args := m.Called(masterKey)
	return args.String(0), args.Error(1)
}
func (m *mockAdminAuthSvc) CheckUser(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}
func (m *mockAdminAuthSvc) SetupPassword(ctx context.Context, req adminauth.SetupPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}
func (m *mockAdminAuthSvc) SendOTP(ctx context.Context, req adminauth.SendOTPRequest) error {
	return m.Called(ctx, req).Error(0)
}
func (m *mockAdminAuthSvc) Verify(ctx context.Context, req adminauth.VerifyRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
func (m *mockAdminAuthSvc) Me(ctx context.Context, session *domain.AdminSession) (*domain.AdminSession, error) {
	args := m.Called(ctx, session)
	if s, _ := args.Get(0).(*domain.AdminSession); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func sessionCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == adminsession.CookieName {
			return c
		}
	}
	return nil
}

func TestGate_SetsSessionCookie(t *testing.T) {
	svc := &mockAdminAuthSvc{}
	svc.On("Gate", "skeleton-key").Return("signed-token", nil)

	h := NewAdminAuthHandler(svc, adminsession.NewAuthority("secret", time.Hour))
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/auth/gate",
		bytes.NewBufferString(`{"masterKey":"skeleton-key"}`))
	rr := httptest.NewRecorder()
	h.Gate(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	cookie := sessionCookie(rr)
	require.NotNil(t, cookie)
	assert.Equal(t, "signed-token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestVerify_SetsSessionCookie(t *testing.T) {
	svc := &mockAdminAuthSvc{}
	svc.On("Verify", mock.Anything, mock.Anything).Return("signed-token", nil)

	h := NewAdminAuthHandler(svc, adminsession.NewAuthority("secret", time.Hour))
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/auth/verify",
		bytes.NewBufferString(`{"email":"a@d.com","otp":"123456","deviceId":"admin-device-0123456789abcdef"}`))
	rr := httptest.NewRecorder()
	h.Verify(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	cookie := sessionCookie(rr)
	require.NotNil(t, cookie)
	assert.Equal(t, "signed-token", cookie.Value)
}

func TestVerify_MissingFields(t *testing.T) {
	svc := &mockAdminAuthSvc{}
	h := NewAdminAuthHandler(svc, adminsession.NewAuthority("secret", time.Hour))
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/auth/verify",
		bytes.NewBufferString(`{"email":"a@d.com"}`))
	rr := httptest.NewRecorder()
	h.Verify(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

func TestLogout_ClearsCookie(t *testing.T) {
	h := NewAdminAuthHandler(&mockAdminAuthSvc{}, adminsession.NewAuthority("secret", time.Hour))
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/auth/logout", nil)
	rr := httptest.NewRecorder()
	h.Logout(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	cookie := sessionCookie(rr)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.MaxAge < 0 || !cookie.Expires.After(time.Now()))
}
