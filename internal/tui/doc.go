// Package tui implements the terminal user interface for the appointment
// booking wizard, built on Bubble Tea.
//
// The package contains no booking logic. The wizard state machine lives in
// the booking package; the models here translate key presses into wizard
// calls, turn the wizard's fetch requests into Bubble Tea commands against
// the API client, and render the current step.
//
// Screen layout follows a coordinator pattern: AppModel owns the screen
// transitions (booking, success, failure) and routes messages to the
// active screen's model. Every screen renders through
// RenderApplicationContainer so the header and footer chrome stay
// consistent.
package tui
