package page

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const formHTML = `<html><body>
<h1 class="app-title">  Backend Engineer </h1>
<ul><li>Go</li><li> Postgres </li></ul>
<form id="application_form">
  <input id="first_name" type="text">
  <textarea id="cover_letter">old</textarea>
  <select id="state"><option value="CA">CA</option><option value="NY" selected>NY</option></select>
  <input id="resume_upload" type="file" style="color: red">
</form>
</body></html>`

func newTestDocument(t *testing.T) *Document {
	t.Helper()

	doc, err := FromHTML("https://acme.greenhouse.io/jobs/1", formHTML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return doc
}

func TestDocumentRead(t *testing.T) {
	doc := newTestDocument(t)

	if doc.CurrentURL() != "https://acme.greenhouse.io/jobs/1" {
		t.Fatalf("unexpected url: %s", doc.CurrentURL())
	}

	title, ok := doc.ResolveText(".app-title")
	if !ok || title != "Backend Engineer" {
		t.Fatalf("unexpected title %q (found=%v)", title, ok)
	}

	if _, ok := doc.ResolveText(".missing"); ok {
		t.Fatalf("expected missing selector to be unresolved")
	}

	items := doc.ResolveAll("ul li")
	if len(items) != 2 || items[1] != " Postgres " {
		t.Fatalf("unexpected items: %q", items)
	}

	if !doc.Exists("form#application_form") || doc.Exists("form#other") {
		t.Fatalf("unexpected existence results")
	}
}

func TestDocumentSetValue(t *testing.T) {
	doc := newTestDocument(t)

	if err := doc.SetValue("input#first_name", "Ada"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := doc.SetValue("textarea#cover_letter", "Hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := doc.SetValue("select#state", "CA"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v, _ := doc.Value("input#first_name"); v != "Ada" {
		t.Fatalf("expected Ada, got %q", v)
	}
	if v, _ := doc.Value("textarea#cover_letter"); v != "Hello" {
		t.Fatalf("expected Hello, got %q", v)
	}

	markup, err := doc.HTML()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(markup, `<option value="CA" selected="selected">`) {
		t.Fatalf("expected CA to be selected: %s", markup)
	}
	if strings.Contains(markup, `<option value="NY" selected`) {
		t.Fatalf("expected NY to be deselected: %s", markup)
	}

	err = doc.SetValue("input#missing", "x")
	if !errors.Is(err, ErrElementNotFound) {
		t.Fatalf("expected ErrElementNotFound, got %v", err)
	}
}

func TestDocumentDispatchAndNotes(t *testing.T) {
	doc := newTestDocument(t)

	if err := doc.Dispatch("input#first_name", "change"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := doc.Dispatch("input#missing", "change"); !errors.Is(err, ErrElementNotFound) {
		t.Fatalf("expected ErrElementNotFound, got %v", err)
	}

	events := doc.Events()
	if len(events) != 1 || events[0] != (Event{Selector: "input#first_name", Type: "change"}) {
		t.Fatalf("unexpected events: %+v", events)
	}

	if err := doc.Highlight("input#resume_upload", "border: 2px solid #4CAF50"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := doc.InsertNoteAfter("input#resume_upload", "Please select <your> resume file", "color: #4CAF50"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	markup, err := doc.HTML()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(markup, `style="color: red; border: 2px solid #4CAF50"`) {
		t.Fatalf("expected highlight to extend existing style: %s", markup)
	}
	if !strings.Contains(markup, `<div style="color: #4CAF50">Please select &lt;your&gt; resume file</div>`) {
		t.Fatalf("expected escaped note after input: %s", markup)
	}
}

func TestLoadFetchesOverHTTP(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`<html><body><h1 class="job-title">SRE</h1></body></html>`))
	}))
	defer server.Close()

	doc, err := Load(context.Background(), server.URL, &Options{UserAgent: "jobmatch-test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotUA != "jobmatch-test" {
		t.Fatalf("expected custom user agent, got %q", gotUA)
	}
	if title, _ := doc.ResolveText(".job-title"); title != "SRE" {
		t.Fatalf("unexpected title: %q", title)
	}
}

func TestLoadRejectsBadStatusAndURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	if _, err := Load(context.Background(), server.URL, nil); err == nil {
		t.Fatal("expected error for non-200 status")
	}

	if _, err := Load(context.Background(), "not a url", nil); err == nil {
		t.Fatal("expected error for invalid url")
	}
}
