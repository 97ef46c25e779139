package vapid

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_PublicKeyIsUncompressedPoint(t *testing.T) {
	keys, err := Generate()
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(keys.Public)
	require.NoError(t, err)
	assert.Len(t, raw, 65)
	assert.Equal(t, byte(0x04), raw[0])

	priv, err := base64.RawURLEncoding.DecodeString(keys.Private)
	require.NoError(t, err)
	assert.NotEmpty(t, priv)
}

func TestWriteEnvFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("OTHER=1\n"), 0600))

	keys, err := Generate()
	require.NoError(t, err)
	require.NoError(t, WriteEnvFile(path, keys))

	env, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		PublicKeyEnv:  keys.Public,
		PrivateKeyEnv: keys.Private,
	}, env)
}
