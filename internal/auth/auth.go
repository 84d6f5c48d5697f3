package auth

import "errors"

// Error kinds a client must be able to branch on: a failed login is not the
// same as a missing token on a protected call.
var (
	// ErrInvalidCredential is returned by Login when the PIN matches no
	// configured credential.
	ErrInvalidCredential = errors.New("invalid pin")
	// ErrAuthRequired is returned when a protected call presents no valid
	// token.
	ErrAuthRequired = errors.New("auth required")
)

// Session is the per-request authorization decision. It is derived on every
// call and never stored server-side.
type Session struct {
	// Authorized reports whether the caller may proceed.
	Authorized bool
	// Program is the single program the caller is restricted to; empty
	// means unscoped (open or single-pin mode).
	Program string
}

// Authenticate resolves a presented bearer token against the credential
// table. It is a pure function over the immutable table and has no side
// effects.
func (c *Credentials) Authenticate(token string) Session {
	switch c.mode {
	case ModeOpen:
		return Session{Authorized: true}
	case ModeSingle:
		return Session{Authorized: token != "" && token == c.singleDigest}
	default:
		program, ok := c.byDigest[token]
		return Session{Authorized: ok, Program: program}
	}
}

// Login hashes a submitted raw PIN and performs the same lookup as
// Authenticate, returning the digest as the bearer token the client presents
// on subsequent calls. The returned program is empty unless the table runs
// in multi mode. In open mode no credential is needed and an empty token is
// returned.
func (c *Credentials) Login(pin string) (token, program string, err error) {
	if c.mode == ModeOpen {
		return "", "", nil
	}
	digest := Digest(pin)
	session := c.Authenticate(digest)
	if !session.Authorized {
		return "", "", ErrInvalidCredential
	}
	return digest, session.Program, nil
}
