package keystore

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"VanityGrind/internal/crypto"

	"github.com/joho/godotenv"
)

const EnvSecretKey = "SECRET_KEY"

var ErrSecretNotFound = errors.New(EnvSecretKey + " not found")

// FormatSecret renders bytes as a decimal list, e.g. "[1, 2, 3]".
func FormatSecret(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b)*5 + 2)
	sb.WriteByte('[')
	for i, v := range b {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(int(v)))
	}
	sb.WriteByte(']')
	return sb.String()
}

// ParseSecret is the inverse of FormatSecret. Whitespace around items is ignored.
func ParseSecret(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("secret list must be enclosed in brackets")
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return nil, fmt.Errorf("secret list is empty")
	}
	parts := strings.Split(body, ",")
	out := make([]byte, 0, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return nil, fmt.Errorf("secret item %d: %w", i, err)
		}
		out = append(out, byte(n))
	}
	return out, nil
}

// WriteEnv stores the keypair seed as SECRET_KEY in the dotenv file at path,
// keeping any other variables already present.
func WriteEnv(path string, kp crypto.Keypair) error {
	env, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read %s: %w", path, err)
		}
		env = map[string]string{}
	}
	env[EnvSecretKey] = FormatSecret(kp.Seed())
	if err := godotenv.Write(env, path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadEnv rebuilds the keypair stored by WriteEnv. Both the 32-byte seed and
// a full 64-byte secret are accepted.
func LoadEnv(path string) (crypto.Keypair, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		return crypto.Keypair{}, fmt.Errorf("read %s: %w", path, err)
	}
	raw, ok := env[EnvSecretKey]
	if !ok || strings.TrimSpace(raw) == "" {
		return crypto.Keypair{}, fmt.Errorf("%s: %w", path, ErrSecretNotFound)
	}
	secret, err := ParseSecret(raw)
	if err != nil {
		return crypto.Keypair{}, fmt.Errorf("parse %s: %w", EnvSecretKey, err)
	}
	return crypto.FromBytes(secret)
}
