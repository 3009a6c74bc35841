// Package apisim implements an in-memory stand-in for the clinic backend.
//
// It serves the same REST contract the client consumes: token-based login,
// specialty/appointment-type/doctor lookups, slot listing, appointment
// booking with slot consumption, and the admin CRUD collections. State
// lives entirely in memory and can be seeded with a small demo clinic.
//
// The simulator exists for demos and end-to-end testing; it makes no
// attempt at real scheduling logic beyond removing a slot when it is
// booked.
package apisim
