// Package tags parses free-text tag input and implements the list filters
// shared by the card and deck forms.
package tags
