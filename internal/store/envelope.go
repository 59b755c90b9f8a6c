package store

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"landval/internal/util/memzero"
)

const envelopeVersion = 1

// ErrCorruptToken is returned when a persisted token cannot be opened.
var ErrCorruptToken = errors.New("stored token is unreadable or was written on another machine")

// envelope is the JSON structure persisted for a sealed token.
type envelope struct {
	V      int    `json:"v"`
	Salt   []byte `json:"salt"`
	N      int    `json:"scrypt_N"`
	R      int    `json:"scrypt_r"`
	P      int    `json:"scrypt_p"`
	Cipher []byte `json:"cipher"`
}

type kdfParams struct{ N, R, P int }

func defaultKDF() kdfParams { return kdfParams{N: 1 << 15, R: 8, P: 1} }

// machineSecret binds sealed tokens to the local user account. It keeps the
// token out of plain sight on disk; it is not a substitute for a keyring.
func machineSecret() string {
	user := os.Getenv("USER")
	if user == "" {
		user = os.Getenv("USERNAME")
	}
	host, _ := os.Hostname()
	sum := sha256.Sum256([]byte(fmt.Sprintf("landval-%s-%s-%s", runtime.GOOS, user, host)))
	return hex.EncodeToString(sum[:])
}

// seal derives a key from secret and encrypts raw into a JSON envelope.
func seal(secret string, raw []byte, kp kdfParams) ([]byte, error) {
	var salt [16]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return nil, err
	}
	key, err := scrypt.Key([]byte(secret), salt[:], kp.N, kp.R, kp.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(key)
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte // fresh salt per seal means a fresh key
	ct := aead.Seal(nil, nonce[:], raw, salt[:])

	return json.Marshal(envelope{
		V:      envelopeVersion,
		Salt:   salt[:],
		N:      kp.N,
		R:      kp.R,
		P:      kp.P,
		Cipher: ct,
	})
}

// open reverses seal. Any tampering or key mismatch yields ErrCorruptToken.
func open(secret string, b []byte) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptToken, err)
	}
	if env.V > envelopeVersion {
		return nil, fmt.Errorf("unsupported token envelope version %d", env.V)
	}

	key, err := scrypt.Key([]byte(secret), env.Salt, env.N, env.R, env.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptToken, err)
	}
	defer memzero.Zero(key)
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte
	pt, err := aead.Open(nil, nonce[:], env.Cipher, env.Salt)
	if err != nil {
		return nil, ErrCorruptToken
	}
	return pt, nil
}
