package adminsession

import (
	"strings"
	"testing"
	"time"

	"github.com/dakshh-official/dakshh-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerify_RoundTrip(t *testing.T) {
	a := NewAuthority("secret", 24*time.Hour)

	token, err := a.Sign(&domain.AdminSession{
		AdminID:     "adm1",
		Email:       "a@b.com",
		Role:        domain.RoleImposter,
		Permissions: []string{domain.CapCheckIn},
	})
	require.NoError(t, err)

	got, err := a.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "adm1", got.AdminID)
	assert.Equal(t, "a@b.com", got.Email)
	assert.Equal(t, domain.RoleImposter, got.Role)
	assert.Equal(t, []string{domain.CapCheckIn}, got.Permissions)
	assert.False(t, got.Master)
}

func TestVerify_TamperedToken(t *testing.T) {
	a := NewAuthority("secret", time.Hour)
	token, err := a.Sign(MasterSession())
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = a.Verify(tampered)
	assert.Error(t, err)
}

func TestVerify_WrongSecret(t *testing.T) {
	a := NewAuthority("secret", time.Hour)
	b := NewAuthority("other", time.Hour)
	token, err := a.Sign(MasterSession())
	require.NoError(t, err)

	_, err = b.Verify(token)
	assert.Error(t, err)
}

func TestVerify_Expired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	a := NewAuthority("secret", time.Hour, WithClock(func() time.Time { return now }))

	token, err := a.Sign(MasterSession())
	require.NoError(t, err)

	now = now.Add(time.Hour + time.Minute)
	_, err = a.Verify(token)
	assert.Error(t, err)
}

func TestMasterSession(t *testing.T) {
	s := MasterSession()
	assert.True(t, s.Master)
	assert.Equal(t, domain.RoleMaster, s.Role)
	assert.ElementsMatch(t, domain.AllCapabilities, s.Permissions)
}

func TestCookies(t *testing.T) {
	a := NewAuthority("secret", 24*time.Hour)
	c := a.NewCookie("tok")
	assert.Equal(t, CookieName, c.Name)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, 86400, c.MaxAge)
	assert.False(t, strings.Contains(c.String(), "tok=;"))

	cleared := a.ClearCookie()
	assert.Empty(t, cleared.Value)
	assert.Equal(t, -1, cleared.MaxAge)
}
