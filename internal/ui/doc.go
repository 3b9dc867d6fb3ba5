// Package ui is the Bubble Tea front end of the recall flashcards client.
//
// # Structure
//
// The root Model routes between screens: a boot splash while the persisted
// session is restored, the login/register form, the deck browser, the deck
// detail (with an attach overlay for pulling library cards into the deck),
// the practice flow, the score history, and the admin card library. Each
// screen keeps its own sub-state on the Model and contributes key handling
// and rendering from its own file.
//
// # Data flow
//
// All network work happens inside tea.Cmd closures; results come back as
// typed messages. List fetches carry a generation number so a response from a
// superseded fetch is dropped instead of clobbering newer state. A 401 on any
// message invalidates the session store and routes back to the login screen.
package ui
