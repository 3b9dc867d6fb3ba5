// Package listview is the per-page state container for a remote collection.
//
// Every list/detail page owns one Model: the loaded items, the selected id,
// and independent status flags and error slots for load, create, update and
// delete. The slots are deliberately separate — a create failure must stay on
// screen while a background reload error is also showing. Canceled requests
// never reach an error slot.
//
// Models are single-owner page state driven from the UI event loop.
package listview
