// Package session owns the authenticated identity for the current run.
//
// The store moves through three states: Uninitialized before bootstrap,
// Anonymous when no valid token exists, and Authenticated once an identity is
// confirmed. Initialize restores a persisted token at most once per process;
// a 401 during bootstrap discards the token instead of surfacing an error,
// and any other failure still completes initialization so UI gating never
// hangs. The store is the single writer of the credentials file.
package session
