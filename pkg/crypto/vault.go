package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// Vault format parameters. Changing any of these requires bumping
	// VaultVersion and keeping the old path for existing wallets.
	VaultAlgorithm  = "aes-256-gcm"
	VaultKDF        = "pbkdf2"
	VaultIterations = 100000
	VaultVersion    = 1

	saltSize = 32
	keySize  = 32
	tagSize  = 16
)

var ErrDecryptionFailed = errors.New("decryption failed")

// Envelope is the encrypted-at-rest form of a private key. All fields
// are hex encoded. The GCM auth tag is stored separately from the
// ciphertext so tampering with either is detectable on its own.
type Envelope struct {
	Ciphertext string
	IV         string
	Salt       string
	AuthTag    string
}

// Encrypt seals plaintext under a key derived from the master key and a
// fresh random salt
func Encrypt(plaintext, masterKey string) (*Envelope, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}

	key := pbkdf2.Key([]byte(masterKey), salt, VaultIterations, keySize, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	iv := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(iv); err != nil {
		return nil, err
	}

	sealed := gcm.Seal(nil, iv, []byte(plaintext), nil)
	ciphertext := sealed[:len(sealed)-tagSize]
	authTag := sealed[len(sealed)-tagSize:]

	return &Envelope{
		Ciphertext: hex.EncodeToString(ciphertext),
		IV:         hex.EncodeToString(iv),
		Salt:       hex.EncodeToString(salt),
		AuthTag:    hex.EncodeToString(authTag),
	}, nil
}

// Decrypt opens an envelope. Any corruption of the ciphertext, IV, salt
// or auth tag, or a wrong master key, yields ErrDecryptionFailed without
// revealing which part failed.
func Decrypt(env *Envelope, masterKey string) (string, error) {
	ciphertext, err := hex.DecodeString(env.Ciphertext)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	iv, err := hex.DecodeString(env.IV)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	salt, err := hex.DecodeString(env.Salt)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	authTag, err := hex.DecodeString(env.AuthTag)
	if err != nil || len(authTag) != tagSize {
		return "", ErrDecryptionFailed
	}

	key := pbkdf2.Key([]byte(masterKey), salt, VaultIterations, keySize, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	if len(iv) != gcm.NonceSize() {
		return "", ErrDecryptionFailed
	}

	sealed := append(ciphertext, authTag...)
	plaintext, err := gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	return string(plaintext), nil
}
