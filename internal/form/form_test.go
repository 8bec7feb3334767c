package form

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/spigell/jobmatch/internal/page"
	"github.com/spigell/jobmatch/internal/profile"
	"github.com/spigell/jobmatch/internal/resume"
)

const greenhouseForm = `<html><body>
<form id="application_form">
  <input id="first_name" type="text">
  <input id="last_name" type="text">
  <input id="email" type="text">
  <input id="phone" type="text">
  <input id="resume_upload" type="file">
  <textarea id="cover_letter"></textarea>
</form>
</body></html>`

func newPage(t *testing.T, url, markup string) *page.Document {
	t.Helper()

	doc, err := page.FromHTML(url, markup)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func testProfile() *profile.Profile {
	p := profile.Default()
	p.FirstName = "Ada"
	p.LastName = "Lovelace"
	p.Email = "ada@example.com"
	p.Phone = "555-0100"
	p.City = "London"
	p.CoverLetterText = "Dear team"
	return &p
}

func TestDetect(t *testing.T) {
	d := NewDetector(nil, nil)
	ctx := context.Background()

	desc := d.Detect(ctx, newPage(t, "https://Acme.Greenhouse.io/jobs/1", greenhouseForm))
	if desc == nil || desc.Provider != "GREENHOUSE" {
		t.Fatalf("expected greenhouse descriptor, got %+v", desc)
	}

	if got := d.Detect(ctx, newPage(t, "https://acme.greenhouse.io/jobs/1", `<form id="other"></form>`)); got != nil {
		t.Fatalf("expected nil without form root, got %+v", got)
	}

	if got := d.Detect(ctx, newPage(t, "https://www.indeed.com/viewjob", greenhouseForm)); got != nil {
		t.Fatalf("expected nil for unknown provider, got %+v", got)
	}
}

func TestDetectContinuesPastProviderWithoutForm(t *testing.T) {
	patterns := []Pattern{
		{Provider: "FIRST", Domain: "example.com", Fields: []Field{{Name: FieldForm, Selector: "form#first"}}},
		{Provider: "SECOND", Domain: "example.com", Fields: []Field{{Name: FieldForm, Selector: "form#second"}}},
	}

	desc := NewDetector(patterns, nil).Detect(context.Background(), newPage(t, "https://jobs.example.com", `<form id="second"></form>`))
	if desc == nil || desc.Provider != "SECOND" {
		t.Fatalf("expected SECOND, got %+v", desc)
	}
}

func TestFillGreenhouse(t *testing.T) {
	doc := newPage(t, "https://acme.greenhouse.io/jobs/1", greenhouseForm)
	desc := NewDetector(nil, nil).Detect(context.Background(), doc)

	res, err := NewFiller(nil).Fill(context.Background(), doc, desc, testProfile(), &resume.Record{Filename: "cv.pdf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Filled || len(res.Errors) != 0 {
		t.Fatalf("expected clean fill, got %+v", res)
	}

	for selector, want := range map[string]string{
		"input#first_name": "Ada",
		"input#last_name":  "Lovelace",
		"input#email":      "ada@example.com",
		"input#phone":      "555-0100",
	} {
		if got, _ := doc.Value(selector); got != want {
			t.Fatalf("%s: expected %q, got %q", selector, want, got)
		}
	}

	// The cover letter is left for the applicant.
	if got, _ := doc.Value("textarea#cover_letter"); got != "" {
		t.Fatalf("expected cover letter untouched, got %q", got)
	}

	markup, err := doc.HTML()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(markup, highlightStyle) || !strings.Contains(markup, "Please select your resume file") {
		t.Fatalf("expected resume input to be marked: %s", markup)
	}
}

func TestFillIsolatesMissingFields(t *testing.T) {
	markup := `<form id="app">
<input id="first_name"><input id="last_name"><input id="email">
</form>`
	doc := newPage(t, "https://jobs.example.com/apply", markup)

	desc := &Descriptor{
		Provider: "CUSTOM",
		Fields: []Field{
			{Name: FieldForm, Selector: "form#app"},
			{Name: "firstName", Selector: "input#first_name"},
			{Name: "lastName", Selector: "input#last_name"},
			{Name: "phone", Selector: "input#phone"},
			{Name: "email", Selector: "input#email"},
			{Name: "city", Selector: "input#city"},
		},
	}

	res, err := NewFiller(nil).Fill(context.Background(), doc, desc, testProfile(), &resume.Record{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Filled {
		t.Fatal("expected filled=false")
	}
	expectedErrors := []string{"Could not find phone field", "Could not find city field"}
	if !reflect.DeepEqual(res.Errors, expectedErrors) {
		t.Fatalf("expected %q, got %q", expectedErrors, res.Errors)
	}

	var expectedEvents []page.Event
	for _, selector := range []string{"input#first_name", "input#last_name", "input#email"} {
		expectedEvents = append(expectedEvents,
			page.Event{Selector: selector, Type: "change"},
			page.Event{Selector: selector, Type: "input"},
		)
	}
	if !reflect.DeepEqual(doc.Events(), expectedEvents) {
		t.Fatalf("unexpected events: %+v", doc.Events())
	}

	if got, _ := doc.Value("input#email"); got != "ada@example.com" {
		t.Fatalf("expected email written, got %q", got)
	}
}

func TestFillReportsMissingUploadField(t *testing.T) {
	doc := newPage(t, "https://acme.greenhouse.io/jobs/1", `<form id="application_form"><input id="first_name"><input id="last_name"><input id="email"><input id="phone"></form>`)
	desc := NewDetector(nil, nil).Detect(context.Background(), doc)

	res, err := NewFiller(nil).Fill(context.Background(), doc, desc, testProfile(), &resume.Record{Filename: "cv.pdf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Filled || !reflect.DeepEqual(res.Errors, []string{"Could not find resume upload field"}) {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestFillPreconditions(t *testing.T) {
	doc := newPage(t, "https://acme.greenhouse.io/jobs/1", greenhouseForm)
	desc := NewDetector(nil, nil).Detect(context.Background(), doc)
	filler := NewFiller(nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		desc   *Descriptor
		prof   *profile.Profile
		rec    *resume.Record
		expect error
	}{
		{name: "no form", prof: testProfile(), rec: &resume.Record{}, expect: ErrNoFormDetected},
		{name: "no profile", desc: desc, rec: &resume.Record{}, expect: ErrNoProfileData},
		{name: "no resume", desc: desc, prof: testProfile(), expect: ErrNoResumeData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := filler.Fill(ctx, doc, tt.desc, tt.prof, tt.rec)
			if !errors.Is(err, tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, err)
			}
		})
	}

	if len(doc.Events()) != 0 {
		t.Fatalf("expected no mutation before preconditions pass, got %+v", doc.Events())
	}
	if got, _ := doc.Value("input#first_name"); got != "" {
		t.Fatalf("expected untouched input, got %q", got)
	}
}
