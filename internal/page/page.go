// Package page abstracts the DOM of the page a job posting or application
// form lives on, so extraction and autofill can run against an in-memory
// document instead of a live browser tab.
package page

import "errors"

// ErrElementNotFound is returned by mutating operations when the selector
// does not resolve to an element.
var ErrElementNotFound = errors.New("element not found")

// Page is the read-only view of a page.
type Page interface {
	// CurrentURL is the location of the page.
	CurrentURL() string
	// ResolveText returns the trimmed text of the first element matching selector.
	ResolveText(selector string) (string, bool)
	// ResolveAll returns the raw text of every element matching selector, in document order.
	ResolveAll(selector string) []string
	// Exists reports whether selector matches at least one element.
	Exists(selector string) bool
}

// Writable is a page whose form elements can be changed.
type Writable interface {
	Page
	SetValue(selector, value string) error
	Dispatch(selector, event string) error
	Highlight(selector, style string) error
	InsertNoteAfter(selector, text, style string) error
}

// Event is a notification dispatched on an element.
type Event struct {
	Selector string
	Type     string
}
