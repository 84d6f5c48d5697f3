// Package auth implements the PIN credential table and the request
// authenticator built on top of it. The table is constructed once at startup
// and is immutable afterwards, so it can be shared across concurrent
// requests without synchronization.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Mode selects how callers are authorized.
type Mode string

const (
	// ModeOpen requires no credential; every caller is fully authorized.
	ModeOpen Mode = "none"
	// ModeSingle uses one shared secret; authorized callers are unscoped.
	ModeSingle Mode = "single"
	// ModeMulti binds each PIN to exactly one program; authorized callers
	// are restricted to that program.
	ModeMulti Mode = "multi"
)

// Credentials is the immutable PIN lookup table. In multi mode byDigest maps
// a PIN digest to the program it is bound to; in single mode only
// singleDigest is set.
type Credentials struct {
	mode         Mode
	byDigest     map[string]string
	singleDigest string
}

// Digest returns the hex-encoded SHA-256 of a raw PIN. The digest doubles as
// the bearer token presented on subsequent calls, so raw PINs never travel
// past login nor serve as lookup keys.
func Digest(pin string) string {
	sum := sha256.Sum256([]byte(pin))
	return hex.EncodeToString(sum[:])
}

// ParseCredentials builds the credential table from the two optional
// configuration strings. The multi-entry string takes priority over the
// single secret; it is split on commas, semicolons, and newlines into
// "pin:Program" parts. Parts without a colon or with an empty pin are
// skipped, and a repeated pin overwrites the earlier program (last write
// wins). If no valid entries remain, the mode falls back to open.
func ParseCredentials(multi, single string) *Credentials {
	if strings.TrimSpace(multi) != "" {
		table := make(map[string]string)
		for _, part := range splitEntries(multi) {
			pin, program, ok := strings.Cut(part, ":")
			if !ok {
				continue
			}
			pin = strings.TrimSpace(pin)
			if pin == "" {
				continue
			}
			table[Digest(pin)] = strings.TrimSpace(program)
		}
		if len(table) > 0 {
			return &Credentials{mode: ModeMulti, byDigest: table}
		}
	}
	if strings.TrimSpace(single) != "" {
		return &Credentials{mode: ModeSingle, singleDigest: Digest(strings.TrimSpace(single))}
	}
	return &Credentials{mode: ModeOpen}
}

// Mode reports the authorization mode the table was built with.
func (c *Credentials) Mode() Mode {
	return c.mode
}

// Required reports whether callers must present a credential at all.
func (c *Credentials) Required() bool {
	return c.mode != ModeOpen
}

func splitEntries(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n' || r == '\r'
	})
}
