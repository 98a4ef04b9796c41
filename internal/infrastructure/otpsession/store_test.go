package otpsession

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDevice = "device-0123456789abcdef"

func TestIsValidDeviceID(t *testing.T) {
	assert.True(t, IsValidDeviceID(testDevice))
	assert.True(t, IsValidDeviceID("A_b-0123456789XYZ"))

	assert.False(t, IsValidDeviceID(""))
	assert.False(t, IsValidDeviceID("short"))
	assert.False(t, IsValidDeviceID("has spaces 0123456789"))
	assert.False(t, IsValidDeviceID("bad!chars#0123456789"))
	long := make([]byte, 129)
	for i := range long {
		long[i] = 'a'
	}
	assert.False(t, IsValidDeviceID(string(long)))
}

func TestStore_SetGetClear(t *testing.T) {
	s := NewStore()
	s.Set("User@X.com", testDevice, "hash1", time.Now().Add(10*time.Minute))

	sess := s.Get("user@x.com ", testDevice)
	require.NotNil(t, sess)
	assert.Equal(t, "hash1", sess.OTPHash)
	assert.Equal(t, "user@x.com", sess.Email)

	// Different device: no session.
	assert.Nil(t, s.Get("user@x.com", "other-device-0123456789"))

	s.Clear("USER@x.com", testDevice)
	assert.Nil(t, s.Get("user@x.com", testDevice))
	// Clearing again is a no-op.
	s.Clear("user@x.com", testDevice)
}

func TestStore_ReissueOverwrites(t *testing.T) {
	s := NewStore()
	s.Set("a@b.com", testDevice, "old", time.Now().Add(10*time.Minute))
	s.Set("a@b.com", testDevice, "new", time.Now().Add(10*time.Minute))

	sess := s.Get("a@b.com", testDevice)
	require.NotNil(t, sess)
	assert.Equal(t, "new", sess.OTPHash)
}

func TestStore_ExpiryIsLazy(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	s := NewStore(WithClock(func() time.Time { return now }))

	s.Set("a@b.com", testDevice, "hash", now.Add(10*time.Minute))
	require.NotNil(t, s.Get("a@b.com", testDevice))

	now = now.Add(10*time.Minute + time.Second)
	assert.Nil(t, s.Get("a@b.com", testDevice))
	// A second lookup stays nil (entry was purged, not just hidden).
	assert.Nil(t, s.Get("a@b.com", testDevice))
}

func TestStore_SetPrunesExpired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	s := NewStore(WithClock(func() time.Time { return now }))

	s.Set("stale@b.com", testDevice, "hash", now.Add(time.Minute))
	now = now.Add(2 * time.Minute)
	s.Set("fresh@b.com", testDevice, "hash", now.Add(time.Minute))

	s.mu.Lock()
	_, staleStillThere := s.sessions[key("stale@b.com", testDevice)]
	s.mu.Unlock()
	assert.False(t, staleStillThere)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := fmt.Sprintf("u%d@x.com", i%5)
			s.Set(email, testDevice, "h", time.Now().Add(time.Minute))
			s.Get(email, testDevice)
			s.Clear(email, testDevice)
		}(i)
	}
	wg.Wait()
}
