package types

import (
	"testing"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setKeys(t *testing.T) {
	t.Helper()
	t.Setenv("VAPID_PUBLIC_KEY", "BPUB")
	t.Setenv("VAPID_PRIVATE_KEY", "priv")
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	setKeys(t)

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "BPUB", cfg.VapidPublicKey)
	assert.Equal(t, "priv", cfg.VapidPrivateKey)
	assert.Equal(t, "mailto:mail@example.com", cfg.VapidSubject)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, StoreBackendMemory, cfg.StoreBackend)
	assert.Equal(t, StoreModeSingle, cfg.StoreMode)
	assert.False(t, cfg.Keyed())
	assert.Equal(t, 3600, cfg.PushTTL)
	assert.Equal(t, webpush.UrgencyNormal, cfg.PushUrgency)
}

func TestConfigFromEnv_MissingKeysAreFatal(t *testing.T) {
	t.Setenv("VAPID_PUBLIC_KEY", "")
	t.Setenv("VAPID_PRIVATE_KEY", "")

	_, err := ConfigFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VAPID_PUBLIC_KEY")
	assert.Contains(t, err.Error(), "VAPID_PRIVATE_KEY")
}

func TestConfigFromEnv_KeyedNeedsCookieSecret(t *testing.T) {
	setKeys(t)
	t.Setenv("PUSHDEMO_STORE_MODE", "keyed")
	t.Setenv("PUSHDEMO_COOKIE_STORE_SECRET", "")

	_, err := ConfigFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PUSHDEMO_COOKIE_STORE_SECRET")

	t.Setenv("PUSHDEMO_COOKIE_STORE_SECRET", "secret")
	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.Keyed())
	assert.Equal(t, []byte("secret"), cfg.CookieSecret)
}

func TestConfigFromEnv_RejectsBadValues(t *testing.T) {
	setKeys(t)
	t.Setenv("PUSHDEMO_STORE", "redis")
	t.Setenv("PUSHDEMO_PUSH_TTL", "soon")
	t.Setenv("PUSHDEMO_PUSH_URGENCY", "urgent")

	_, err := ConfigFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PUSHDEMO_STORE")
	assert.Contains(t, err.Error(), "PUSHDEMO_PUSH_TTL")
	assert.Contains(t, err.Error(), "PUSHDEMO_PUSH_URGENCY")
}
