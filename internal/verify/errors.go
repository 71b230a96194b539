// Package verify implements the per-format password verifiers (C8-C12):
// given a candidate password and a parsed descriptor, each answers the
// minimal "correct / incorrect" question the format's key-derivation and
// verification step allows, without decrypting the full payload.
package verify

import "fmt"

// CryptoError wraps a library-level cipher/hash failure encountered
// while verifying, distinct from a plain "wrong password" answer. Per
// spec §7, a CryptoError halts the worker that hit it; the orchestrator
// continues with its remaining workers.
type CryptoError struct {
	Format string
	Err    error
}

func (e *CryptoError) Error() string {
	return fmt.Sprintf("verify: %s: crypto error: %v", e.Format, e.Err)
}

func (e *CryptoError) Unwrap() error { return e.Err }
