// Package secrets keeps API keys encrypted at rest in the Aleph .env file.
// Values are sealed with an age X25519 identity stored next to it.
package secrets

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"
)

const (
	sealPrefix = "ENC[age:"
	sealSuffix = "]"
)

// ErrNotSealed is returned by Open for a value without the ENC[age:...] envelope.
var ErrNotSealed = errors.New("value is not sealed")

// Keyring seals and opens values with one age identity.
type Keyring struct {
	identity *age.X25519Identity
}

// OpenKeyring loads the identity at path. With create set, a missing file
// is generated with mode 0600 first.
func OpenKeyring(path string, create bool) (*Keyring, error) {
	if create {
		if err := writeIdentity(path); err != nil {
			return nil, err
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open age key: %w", err)
	}
	defer f.Close()

	ids, err := age.ParseIdentities(f)
	if err != nil {
		return nil, fmt.Errorf("parse age key %s: %w", path, err)
	}
	for _, id := range ids {
		if x, ok := id.(*age.X25519Identity); ok {
			return &Keyring{identity: x}, nil
		}
	}
	return nil, fmt.Errorf("no X25519 identity in %s", path)
}

func writeIdentity(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	id, err := age.GenerateX25519Identity()
	if err != nil {
		return fmt.Errorf("generate age identity: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create key directory: %w", err)
	}
	content := fmt.Sprintf("# aleph secrets key\n# public key: %s\n%s\n", id.Recipient(), id)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("write age key: %w", err)
	}
	return nil
}

// Seal encrypts plaintext into an ENC[age:...] value.
func (k *Keyring) Seal(plaintext string) (string, error) {
	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, k.identity.Recipient())
	if err != nil {
		return "", fmt.Errorf("age encrypt: %w", err)
	}
	if _, err := io.WriteString(w, plaintext); err != nil {
		return "", fmt.Errorf("age encrypt: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("age encrypt: %w", err)
	}
	return sealPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()) + sealSuffix, nil
}

// Open decrypts a value produced by Seal.
func (k *Keyring) Open(sealed string) (string, error) {
	if !IsSealed(sealed) {
		return "", ErrNotSealed
	}
	raw, err := base64.StdEncoding.DecodeString(sealed[len(sealPrefix) : len(sealed)-len(sealSuffix)])
	if err != nil {
		return "", fmt.Errorf("decode sealed value: %w", err)
	}
	r, err := age.Decrypt(bytes.NewReader(raw), k.identity)
	if err != nil {
		return "", fmt.Errorf("age decrypt: %w", err)
	}
	plain, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("age decrypt: %w", err)
	}
	return string(plain), nil
}

// IsSealed reports whether s carries the ENC[age:...] envelope.
func IsSealed(s string) bool {
	return len(s) > len(sealPrefix)+len(sealSuffix) &&
		strings.HasPrefix(s, sealPrefix) && strings.HasSuffix(s, sealSuffix)
}
