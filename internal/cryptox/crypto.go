// Package cryptox holds the key-derivation and key-generation helpers used by
// offline login and push subscriptions.
package cryptox

import (
	"crypto/ecdh"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"

	"github.com/dmitrijs2005/journify/internal/common"
	"golang.org/x/crypto/argon2"
)

const saltSize = 16

var ErrMalformedVerifier = errors.New("malformed verifier")

func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// NewOfflineVerifier derives a record that lets a user log in again without
// the network. The record is salt || sha256(argon2id(password, salt)) and
// never contains the password itself.
func NewOfflineVerifier(username, password string) []byte {
	salt := common.GenerateRandByteArray(saltSize)
	key := DeriveMasterKey(credentialBytes(username, password), salt)
	defer common.WipeByteArray(key)

	out := make([]byte, 0, saltSize+sha256.Size)
	out = append(out, salt...)
	return append(out, MakeVerifier(key)...)
}

// CheckOfflineVerifier reports whether the credentials match a record made
// by NewOfflineVerifier.
func CheckOfflineVerifier(record []byte, username, password string) (bool, error) {
	if len(record) != saltSize+sha256.Size {
		return false, ErrMalformedVerifier
	}
	salt, want := record[:saltSize], record[saltSize:]

	key := DeriveMasterKey(credentialBytes(username, password), salt)
	defer common.WipeByteArray(key)

	return subtle.ConstantTimeCompare(MakeVerifier(key), want) == 1, nil
}

func credentialBytes(username, password string) []byte {
	b := make([]byte, 0, len(username)+1+len(password))
	b = append(b, username...)
	b = append(b, 0)
	return append(b, password...)
}

// PushKeys are the subscription keys handed to the push endpoint, base64url
// encoded without padding as browsers do.
type PushKeys struct {
	P256dh     string `json:"p256dh"`
	Auth       string `json:"auth"`
	PrivateKey string `json:"private_key"`
}

// GeneratePushKeys creates a P-256 key pair and a 16-byte auth secret.
func GeneratePushKeys() (*PushKeys, error) {
	priv, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	enc := base64.RawURLEncoding
	return &PushKeys{
		P256dh:     enc.EncodeToString(priv.PublicKey().Bytes()),
		Auth:       enc.EncodeToString(common.GenerateRandByteArray(16)),
		PrivateKey: enc.EncodeToString(priv.Bytes()),
	}, nil
}
