package page

import (
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// Document is a Writable page backed by a parsed HTML document.
type Document struct {
	url string
	doc *goquery.Document

	mu     sync.Mutex
	events []Event
}

// FromHTML parses markup into a Document located at url.
func FromHTML(url, markup string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	return &Document{url: url, doc: doc}, nil
}

func (d *Document) CurrentURL() string { return d.url }

func (d *Document) ResolveText(selector string) (string, bool) {
	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(sel.Text()), true
}

func (d *Document) ResolveAll(selector string) []string {
	nodes := d.doc.Find(selector)
	texts := make([]string, 0, nodes.Length())
	nodes.Each(func(_ int, s *goquery.Selection) {
		texts = append(texts, s.Text())
	})
	return texts
}

func (d *Document) Exists(selector string) bool {
	return d.doc.Find(selector).Length() > 0
}

// SetValue writes value into the first element matching selector.
// Textareas get their content replaced and selects get the matching option marked.
func (d *Document) SetValue(selector, value string) error {
	sel, err := d.first(selector)
	if err != nil {
		return err
	}

	switch goquery.NodeName(sel) {
	case "textarea":
		sel.SetText(value)
	case "select":
		sel.Find("option").Each(func(_ int, opt *goquery.Selection) {
			if v, _ := opt.Attr("value"); v == value {
				opt.SetAttr("selected", "selected")
				return
			}
			opt.RemoveAttr("selected")
		})
	default:
		sel.SetAttr("value", value)
	}

	return nil
}

// Dispatch records event against the element. Static documents have no
// listeners; the log is what callers inspect.
func (d *Document) Dispatch(selector, event string) error {
	if _, err := d.first(selector); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, Event{Selector: selector, Type: event})

	return nil
}

// Highlight appends style to the element's inline style.
func (d *Document) Highlight(selector, style string) error {
	sel, err := d.first(selector)
	if err != nil {
		return err
	}

	existing := strings.TrimSpace(sel.AttrOr("style", ""))
	if existing != "" && !strings.HasSuffix(existing, ";") {
		existing += ";"
	}
	sel.SetAttr("style", strings.TrimSpace(existing+" "+style))

	return nil
}

// InsertNoteAfter adds a div with text right after the element.
func (d *Document) InsertNoteAfter(selector, text, style string) error {
	sel, err := d.first(selector)
	if err != nil {
		return err
	}

	sel.AfterHtml(fmt.Sprintf(`<div style="%s">%s</div>`, html.EscapeString(style), html.EscapeString(text)))
	return nil
}

// Events returns the dispatched events in order.
func (d *Document) Events() []Event {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]Event, len(d.events))
	copy(out, d.events)
	return out
}

// Value returns the current value attribute (or textarea text) of the first match.
func (d *Document) Value(selector string) (string, bool) {
	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", false
	}
	if goquery.NodeName(sel) == "textarea" {
		return sel.Text(), true
	}
	return sel.Attr("value")
}

// HTML renders the document including all changes made so far.
func (d *Document) HTML() (string, error) {
	return goquery.OuterHtml(d.doc.Selection)
}

func (d *Document) first(selector string) (*goquery.Selection, error) {
	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}
	return sel, nil
}
