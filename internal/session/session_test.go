package session

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CartStore/internal/catalog"
	"CartStore/internal/shop"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestTokenMaker_RoundTrip(t *testing.T) {
	tm := NewTokenMaker(secret)

	tok, err := tm.New("s_1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	c, err := tm.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "s_1", c.SessionID)
	assert.Equal(t, "s_1", c.Subject)
	assert.Equal(t, issuer, c.Issuer)
}

func TestTokenMaker_Rejects(t *testing.T) {
	tm := NewTokenMaker(secret)

	expired, err := tm.New("s_1", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	other, err := NewTokenMaker(strings.Repeat("z", 32)).New("s_1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"expired":      expired,
		"wrong secret": other,
		"garbage":      "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tm.Parse(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestRegistry_SessionsHaveIndependentCarts(t *testing.T) {
	items := []catalog.Item{
		catalog.NewItem("Tea", 3, []string{"hot"}, ""),
		catalog.NewItem("Coffee", 4, []string{"hot"}, ""),
	}
	r := NewRegistry(items, time.Hour)

	a := r.Create()
	b := r.Create()
	require.NotEqual(t, a.ID, b.ID)
	assert.True(t, strings.HasPrefix(a.ID, "s_"))
	assert.Equal(t, 2, r.Len())

	require.NoError(t, a.Do(func(st *shop.Store) error {
		_, err := st.AddItem("Tea")
		return err
	}))

	var aTotal, bTotal int64
	require.NoError(t, a.Do(func(st *shop.Store) error { aTotal = st.Checkout(); return nil }))
	require.NoError(t, b.Do(func(st *shop.Store) error { bTotal = st.Checkout(); return nil }))
	assert.Equal(t, int64(3), aTotal)
	assert.Equal(t, int64(0), bTotal)
	assert.Equal(t, []string{"Tea", "Coffee"}, catalog.Names(r.Catalog()))
}

func TestRegistry_Expiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	r := NewRegistry(nil, time.Minute)
	r.now = func() time.Time { return now }

	s := r.Create()
	got, err := r.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	now = now.Add(2 * time.Minute)
	_, err = r.Get(s.ID)
	assert.True(t, errors.Is(err, ErrSessionNotFound))
	assert.Equal(t, 0, r.Len())

	_, err = r.Get("s_missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRegistry_CreateEvictsExpired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	r := NewRegistry(nil, time.Minute)
	r.now = func() time.Time { return now }

	r.Create()
	now = now.Add(time.Hour)
	r.Create()

	assert.Equal(t, 1, r.Len())
}
