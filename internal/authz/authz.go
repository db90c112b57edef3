// Package authz decides who may see or change what. It is deliberately free
// of HTTP and storage concerns so the rules can be tested in isolation.
package authz

import (
	"errors"
	"strings"
)

var (
	// ErrUnauthenticated means no identity was presented at all.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden means the identity is known but lacks rights.
	ErrForbidden = errors.New("access denied")
)

// Identity is an authenticated actor as seen by the core.
type Identity struct {
	ID    string
	Email string
}

// Gate resolves access decisions against an injected set of administrator
// emails. Any authenticated identity outside the set is a creator.
type Gate struct {
	admins map[string]struct{}
}

// NewGate builds a Gate from the configured administrator emails.
// Matching is case-insensitive.
func NewGate(adminEmails []string) *Gate {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		admins[strings.ToLower(email)] = struct{}{}
	}
	return &Gate{admins: admins}
}

// IsAdmin reports whether the identity is a configured administrator.
func (g *Gate) IsAdmin(id *Identity) bool {
	if id == nil {
		return false
	}
	_, ok := g.admins[strings.ToLower(id.Email)]
	return ok
}

// RequireAdmin allows only administrators through. Used for the whole
// administrative surface: create, list-all, delete, status and content edits.
func (g *Gate) RequireAdmin(id *Identity) error {
	if id == nil {
		return ErrUnauthenticated
	}
	if !g.IsAdmin(id) {
		return ErrForbidden
	}
	return nil
}

// RequireBriefAccess allows the brief's assigned creator or an administrator.
// Evaluated on every read and mutation of a specific brief, not only at
// page-render time: the mutating entry points are independently reachable.
func (g *Gate) RequireBriefAccess(id *Identity, creatorEmail string) error {
	if id == nil {
		return ErrUnauthenticated
	}
	if g.IsAdmin(id) {
		return nil
	}
	if strings.EqualFold(id.Email, creatorEmail) {
		return nil
	}
	return ErrForbidden
}

// RequireAuthenticated allows any signed-in identity. Used for surfaces a
// creator owns outright, like their payout profile.
func (g *Gate) RequireAuthenticated(id *Identity) error {
	if id == nil {
		return ErrUnauthenticated
	}
	return nil
}
