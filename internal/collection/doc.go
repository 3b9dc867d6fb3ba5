// Package collection caches the decks the user has added to their personal
// collection.
//
// The cache loads lazily and at most one load is ever in flight; a failed
// load empties the cache so a later call can retry. Mutations go through the
// backend first and touch local state only after the server confirms, with
// one deliberate exception: the backend reporting "already added" is
// reconciled as success. The id set is always exactly the id projection of
// the cached decks.
package collection
