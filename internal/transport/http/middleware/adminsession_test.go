package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dakshh-official/dakshh-api/internal/domain"
	"github.com/dakshh-official/dakshh-api/internal/infrastructure/adminsession"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func testAuthority() *adminsession.Authority {
	return adminsession.NewAuthority("test-secret", time.Hour)
}

func signedCookie(t *testing.T, a *adminsession.Authority, s *domain.AdminSession) *http.Cookie {
	t.Helper()
	token, err := a.Sign(s)
	require.NoError(t, err)
	return a.NewCookie(token)
}

func TestAdminAuth_MissingCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	AdminAuth(testAuthority())(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdminAuth_BadToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: adminsession.CookieName, Value: "not-a-token"})
	rr := httptest.NewRecorder()
	AdminAuth(testAuthority())(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdminAuth_WrongSecret(t *testing.T) {
	other := adminsession.NewAuthority("other-secret", time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(signedCookie(t, other, &domain.AdminSession{AdminID: "ad1", Role: domain.RoleAdmin}))
	rr := httptest.NewRecorder()
	AdminAuth(testAuthority())(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdminAuth_ValidCookie_InjectsSession(t *testing.T) {
	authority := testAuthority()

	var got *domain.AdminSession
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(signedCookie(t, authority, &domain.AdminSession{
		AdminID: "ad1", Email: "crew@d.com", Role: domain.RoleCrewmate,
	}))
	rr := httptest.NewRecorder()
	AdminAuth(authority)(capture).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, got)
	assert.Equal(t, "ad1", got.AdminID)
	assert.Equal(t, domain.RoleCrewmate, got.Role)
}

func TestRequireCapability_NoSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	RequireCapability(domain.CapEvents)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireCapability_ImposterDenied(t *testing.T) {
	session := &domain.AdminSession{Role: domain.RoleImposter, Permissions: []string{domain.CapCheckIn}}
	ctx := context.WithValue(context.Background(), SessionKey, session)
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	rr := httptest.NewRecorder()
	RequireCapability(domain.CapUsers)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRequireCapability_ImposterGranted(t *testing.T) {
	session := &domain.AdminSession{Role: domain.RoleImposter, Permissions: []string{domain.CapUsers}}
	ctx := context.WithValue(context.Background(), SessionKey, session)
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	rr := httptest.NewRecorder()
	RequireCapability(domain.CapUsers)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireCapability_CrewmateHoldsEverything(t *testing.T) {
	session := &domain.AdminSession{Role: domain.RoleCrewmate}
	ctx := context.WithValue(context.Background(), SessionKey, session)
	for _, cap := range domain.AllCapabilities {
		req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
		rr := httptest.NewRecorder()
		RequireCapability(cap)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code, "capability %s", cap)
	}
}

func TestRequireCapability_MasterSession(t *testing.T) {
	ctx := context.WithValue(context.Background(), SessionKey, adminsession.MasterSession())
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	rr := httptest.NewRecorder()
	RequireCapability(domain.CapUsers)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
