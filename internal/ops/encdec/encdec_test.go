package encdec

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"VanityGrind/internal/crypto"
	"VanityGrind/internal/keystore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEnv(t *testing.T, dir string) (string, crypto.Keypair) {
	t.Helper()
	kp, err := crypto.FromSeed(bytes.Repeat([]byte{42}, crypto.SeedSize))
	require.NoError(t, err)
	env := filepath.Join(dir, ".env")
	require.NoError(t, keystore.WriteEnv(env, kp))
	return env, kp
}

func encrypt(t *testing.T, base, env string) string {
	t.Helper()
	path, err := EncryptEnv(context.Background(), EncryptOptions{
		EnvFile:              env,
		LogsBase:             filepath.Join(base, "logs"),
		Password:             "pw",
		PassHint:             "pw hint",
		HideSecretsInConsole: true,
		ScryptN:              keystore.LightScryptN,
		ScryptP:              keystore.LightScryptP,
	})
	require.NoError(t, err)
	return path
}

func TestEncryptEnv(t *testing.T) {
	base := t.TempDir()
	env, kp := seedEnv(t, base)

	path := encrypt(t, base, env)
	assert.Equal(t, kp.Address()+".json", filepath.Base(path))

	runDir := filepath.Dir(filepath.Dir(path))
	assert.FileExists(t, filepath.Join(runDir, "all.jsonl"))
	assert.FileExists(t, filepath.Join(runDir, "hint.txt"))
	assert.FileExists(t, filepath.Join(runDir, "app.log"))

	blob, err := os.ReadFile(path)
	require.NoError(t, err)
	got, err := keystore.DecryptKeypair(blob, "pw")
	require.NoError(t, err)
	assert.Equal(t, kp.Seed(), got.Seed())
}

func TestEncryptEnvRequiresPassword(t *testing.T) {
	base := t.TempDir()
	env, _ := seedEnv(t, base)
	_, err := EncryptEnv(context.Background(), EncryptOptions{EnvFile: env, LogsBase: base})
	require.Error(t, err)
}

func TestDecryptRunDirectory(t *testing.T) {
	base := t.TempDir()
	env, kp := seedEnv(t, base)
	path := encrypt(t, base, env)
	runDir := filepath.Dir(filepath.Dir(path))

	out, err := DecryptKeystores(context.Background(), DecryptOptions{
		Input:                runDir,
		LogsBase:             filepath.Join(base, "logs"),
		Password:             "pw",
		HideSecretsInConsole: true,
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(out, "all.txt"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	// all.jsonl plus files/<address>.json
	require.Len(t, lines, 2)
	for _, l := range lines {
		assert.Equal(t, kp.Address()+":"+kp.SecretBase58(), l)
	}
}

func TestDecryptRestoresEnv(t *testing.T) {
	base := t.TempDir()
	env, kp := seedEnv(t, base)
	path := encrypt(t, base, env)

	restored := filepath.Join(base, "restored.env")
	_, err := DecryptKeystores(context.Background(), DecryptOptions{
		Input:      path,
		LogsBase:   filepath.Join(base, "logs"),
		Password:   "pw",
		RestoreEnv: restored,
	})
	require.NoError(t, err)

	got, err := keystore.LoadEnv(restored)
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), got.Address())
}

func TestDecryptWrongPassword(t *testing.T) {
	base := t.TempDir()
	env, _ := seedEnv(t, base)
	path := encrypt(t, base, env)

	_, err := DecryptKeystores(context.Background(), DecryptOptions{
		Input:    path,
		LogsBase: filepath.Join(base, "logs"),
		Password: "nope",
	})
	require.Error(t, err)
}
