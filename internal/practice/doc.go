// Package practice drives the self-test flow over a deck's cards.
//
// A session moves intro → game → results, with abandon (game → intro) and
// restart (results → intro) edges. Card order is a fresh uniform permutation
// per run. Answers are compared case- and whitespace-insensitively, and the
// final score is reported to the backend exactly once per completed run —
// and only for decks the user has added to their collection. Reporting is
// modeled as an explicit state rather than a boolean so "already submitted"
// is inspectable.
//
// Sessions are single-owner: the UI event loop drives them, so no locking.
package practice
