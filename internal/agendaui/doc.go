// Package agendaui is the Bubble Tea front end of the agenda task client.
// It follows the same screen-routing shape as the flashcards UI: commands do
// the network work, generation numbers drop superseded fetch results, and a
// 401 anywhere routes back to the login form.
package agendaui
