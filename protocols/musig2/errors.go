package musig2

import "errors"

var (
	// ErrKeyNotInSet is returned when the caller's public key is not part of
	// the signing set.
	ErrKeyNotInSet = errors.New("musig2: own public key not included in the signing set")
	// ErrDuplicateKey is returned when the signing set contains the same
	// public key twice.
	ErrDuplicateKey = errors.New("musig2: duplicate public key in the signing set")
	// ErrNonceCount is returned when a party contributed a number of nonce
	// commitments different from NonceCount.
	ErrNonceCount = errors.New("musig2: wrong number of nonce commitments")
	// ErrNonceReused is returned when a nonce bundle is used to sign a second
	// time. Reusing nonces leaks the private key.
	ErrNonceReused = errors.New("musig2: nonce bundle was already used")
	// ErrNonceMismatch is returned when partial signatures disagree on the
	// effective group nonce.
	ErrNonceMismatch = errors.New("musig2: partial signatures disagree on the group nonce")
	// ErrInvalidPartialSignature is returned when a partial signature fails
	// verification against the sender's public key and nonce commitments.
	ErrInvalidPartialSignature = errors.New("musig2: partial signature failed to verify")
)
