// Package api implements the HTTP client for the satchel course backends.
//
// A single Client covers both the flashcard service (decks, cards, user
// collection, tests, reviews) and the task service (tasks, tags, subtasks,
// files, reminders, calendar). Every request carries a bearer token when a
// TokenSource provides one, and every failure is normalized into *Error so
// callers can branch on the status code or the structured error code instead
// of scraping messages.
package api
