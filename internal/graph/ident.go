package graph

import "sync/atomic"

// idCounter hands out identity tokens. Monotonic and process-wide, so tokens
// stay unique even across graphs built concurrently.
var idCounter atomic.Uint64

// Ident is the identity token shared by every graph object. Embed it in a
// Value or Operation implementation and initialize it with NewIdent.
//
// Equality by token replaces equality by memory address: the token is stable
// for the lifetime of the object, survives copies of interface values, and
// keys plain map-based sets without relying on pointer identity.
type Ident struct {
	id uint64
}

// NewIdent allocates a fresh identity token.
func NewIdent() Ident {
	return Ident{id: idCounter.Add(1)}
}

// ID returns the identity token. The zero Ident returns 0, which no
// constructed object ever carries.
func (i Ident) ID() uint64 {
	return i.id
}
