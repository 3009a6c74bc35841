// Package booking implements the appointment booking wizard state machine.
//
// The wizard drives the user through an ordered sequence of dependent
// choices (specialty, appointment type, doctor, date, time slot, reason)
// culminating in a single create-appointment request. One parameterized
// machine serves both variants: the 5-step patient self-service flow and
// the 6-step staff-assisted flow that adds patient selection and an
// optional parent-appointment link.
//
// # Invariants
//
//   - Cascade-clear: setting any field clears every later field and empties
//     the option lists those fields depend on.
//   - Step gating: Next only advances when the current step's completeness
//     predicate holds; Prev is always allowed and clears nothing.
//   - Eager fetching: setting a field immediately yields the dependent
//     fetch, it is not gated on pressing next.
//   - Wholesale replacement: delivered option lists replace the previous
//     list entirely, never merge into it.
//   - Generation tagging: every fetch carries a per-kind generation;
//     responses superseded by a newer cascade are discarded so a slow
//     response can never overwrite fresher state.
//
// The wizard performs no I/O. Start and Set return Fetch values naming the
// backend lists to load; the caller issues the requests (see internal/api)
// and feeds results back through Deliver and DeliverSlots. This keeps the
// machine a pure function of its inputs and directly testable.
//
// All slot data is authoritative from the backend: AvailableDates and
// SlotsForDate only group and filter what the server returned, and a
// selection whose slot disappeared fails locally at BuildRequest without
// contacting the backend.
package booking
