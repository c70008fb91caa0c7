package security

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

const (
	saltFile       = "password.salt"
	privateKeyFile = "user_auth.pem"
	publicKeyFile  = "user_auth.pem.pub"

	// SaltSize is fixed: every stored password hash depends on it.
	SaltSize = 16

	rsaKeyBits = 4096
)

// KeySet holds the PEM-encoded JWT signing key pair.
type KeySet struct {
	Public  []byte
	Private []byte
}

// Security is the process-wide key material: the password salt and the
// token signing keys. It is loaded once at startup and never mutated
// afterwards, so it is safe to share across requests without locking.
type Security struct {
	Salt    [SaltSize]byte
	JWTKeys KeySet
}

// Load reads the salt and signing keys from dir, generating and
// persisting any that are missing. Generation happens at most once per
// deployment; losing the salt file permanently invalidates every
// stored password hash, and losing the keys invalidates every issued
// token, so any failure to persist is returned as a fatal error rather
// than falling back to ephemeral material.
func Load(dir string) (*Security, error) {
	return load(dir, rsaKeyBits)
}

func load(dir string, bits int) (*Security, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("unable to create security directory %s: %w", dir, err)
	}

	var sec Security

	log.Info().Msg("Loading password salt...")
	saltPath := filepath.Join(dir, saltFile)
	raw, err := os.ReadFile(saltPath)
	switch {
	case err == nil:
		if len(raw) != SaltSize {
			return nil, fmt.Errorf("salt file %s is %d bytes, expected %d", saltPath, len(raw), SaltSize)
		}
		copy(sec.Salt[:], raw)
		log.Info().Msg("Salt found and loaded.")
	case os.IsNotExist(err):
		log.Info().Str("path", saltPath).Msg("Salt not found. Generating a new password salt.")
		if _, err := rand.Read(sec.Salt[:]); err != nil {
			return nil, fmt.Errorf("unable to generate salt: %w", err)
		}
		if err := os.WriteFile(saltPath, sec.Salt[:], 0o600); err != nil {
			return nil, fmt.Errorf("unable to write salt: %w", err)
		}
	default:
		return nil, fmt.Errorf("unable to read salt file %s: %w", saltPath, err)
	}

	log.Info().Msg("Loading JWT signing keys...")
	private, privErr := os.ReadFile(filepath.Join(dir, privateKeyFile))
	public, pubErr := os.ReadFile(filepath.Join(dir, publicKeyFile))

	if privErr == nil && pubErr == nil && len(private) > 0 && len(public) > 0 {
		sec.JWTKeys = KeySet{Public: public, Private: private}
		log.Info().Msg("Loaded JWT keys.")
		return &sec, nil
	}

	keys, err := generateKeys(dir, bits)
	if err != nil {
		return nil, err
	}
	sec.JWTKeys = *keys
	return &sec, nil
}

func generateKeys(dir string, bits int) (*KeySet, error) {
	log.Info().Msg("Private and/or public user auth key(s) missing. Generating a new pair.")
	log.Info().Int("bits", bits).Msg("Generating a private RSA key. This may take a few minutes...")

	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("unable to generate a private RSA key: %w", err)
	}

	private := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	if err := os.WriteFile(filepath.Join(dir, privateKeyFile), private, 0o600); err != nil {
		return nil, fmt.Errorf("unable to write user auth private key: %w", err)
	}

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("unable to encode public key: %w", err)
	}
	public := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	if err := os.WriteFile(filepath.Join(dir, publicKeyFile), public, 0o644); err != nil {
		return nil, fmt.Errorf("unable to write user auth public key: %w", err)
	}

	log.Info().Msg("Done generating JWT keys.")
	return &KeySet{Public: public, Private: private}, nil
}
