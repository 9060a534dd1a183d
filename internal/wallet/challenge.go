// Package wallet implements the wallet-link handshake: a server-issued
// nonce challenge signed by the wallet's ed25519 key proves the caller
// controls the address before it becomes an account.
package wallet

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"filippo.io/edwards25519"
	"github.com/google/uuid"
	"github.com/mr-tron/base58"
)

var (
	// ErrBadAddress means the wallet address is not a valid ed25519
	// public key.
	ErrBadAddress = errors.New("invalid wallet address")

	// ErrUnknownNonce means no live challenge matches the wallet and
	// nonce. Covers never-issued and already-used nonces.
	ErrUnknownNonce = errors.New("unknown or used nonce")

	// ErrExpired means the challenge's validity window has passed.
	ErrExpired = errors.New("challenge expired")

	// ErrBadSignature means the signature does not verify against the
	// challenge message.
	ErrBadSignature = errors.New("signature verification failed")
)

// challengeTTL is how long an issued challenge stays signable.
const challengeTTL = 10 * time.Minute

// Challenge is an issued wallet-link challenge. The wallet signs
// Message verbatim.
type Challenge struct {
	WalletAddress string    `json:"walletAddress"`
	Nonce         string    `json:"nonce"`
	Message       string    `json:"message"`
	IssuedAt      time.Time `json:"issuedAt"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

// Challenger issues and verifies wallet-link challenges. Challenges are
// single use: a successful verification consumes the nonce.
type Challenger struct {
	mu     sync.Mutex
	issued map[string]Challenge // wallet|nonce

	now func() time.Time
}

// NewChallenger creates a Challenger.
func NewChallenger() *Challenger {
	return &Challenger{
		issued: make(map[string]Challenge),
		now:    time.Now,
	}
}

// Issue creates a new challenge for the wallet address. The address
// must decode to an on-curve ed25519 public key.
func (c *Challenger) Issue(walletAddress string) (Challenge, error) {
	if _, err := DecodeAddress(walletAddress); err != nil {
		return Challenge{}, err
	}

	now := c.now().UTC()
	ch := Challenge{
		WalletAddress: walletAddress,
		Nonce:         uuid.NewString(),
		IssuedAt:      now,
		ExpiresAt:     now.Add(challengeTTL),
	}
	ch.Message = challengeMessage(ch)

	c.mu.Lock()
	c.issued[walletAddress+"|"+ch.Nonce] = ch
	c.mu.Unlock()

	return ch, nil
}

// Verify checks an ed25519 signature over the challenge message and
// consumes the nonce on success.
func (c *Challenger) Verify(walletAddress, nonce string, signature []byte) error {
	pub, err := DecodeAddress(walletAddress)
	if err != nil {
		return err
	}

	key := walletAddress + "|" + nonce

	c.mu.Lock()
	ch, ok := c.issued[key]
	c.mu.Unlock()
	if !ok {
		return ErrUnknownNonce
	}
	if c.now().After(ch.ExpiresAt) {
		c.mu.Lock()
		delete(c.issued, key)
		c.mu.Unlock()
		return ErrExpired
	}

	if !ed25519.Verify(pub, []byte(ch.Message), signature) {
		return ErrBadSignature
	}

	c.mu.Lock()
	delete(c.issued, key)
	c.mu.Unlock()
	return nil
}

// DecodeAddress decodes a base58 wallet address into an ed25519 public
// key, rejecting byte strings that are not on-curve points.
func DecodeAddress(walletAddress string) (ed25519.PublicKey, error) {
	raw, err := base58.Decode(walletAddress)
	if err != nil || len(raw) != ed25519.PublicKeySize {
		return nil, ErrBadAddress
	}
	if _, err := new(edwards25519.Point).SetBytes(raw); err != nil {
		return nil, ErrBadAddress
	}
	return ed25519.PublicKey(raw), nil
}

func challengeMessage(ch Challenge) string {
	return strings.Join([]string{
		"Trading Journal",
		fmt.Sprintf("Wallet: %s", ch.WalletAddress),
		fmt.Sprintf("Nonce: %s", ch.Nonce),
		fmt.Sprintf("Issued At: %s", ch.IssuedAt.Format(time.RFC3339)),
		fmt.Sprintf("Expires At: %s", ch.ExpiresAt.Format(time.RFC3339)),
	}, "\n")
}
