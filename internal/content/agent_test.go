package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spigell/jobmatch/internal/form"
	"github.com/spigell/jobmatch/internal/job"
	"github.com/spigell/jobmatch/internal/page"
	"github.com/spigell/jobmatch/internal/profile"
	"github.com/spigell/jobmatch/internal/resume"
	"github.com/spigell/jobmatch/internal/store"
)

const greenhousePage = `<html><body>
<h1 class="app-title">Backend Engineer</h1>
<div id="content">Build Go services.
<ul><li>Go experience</li><li>Apply now</li></ul></div>
<form id="application_form">
  <input id="first_name"><input id="last_name"><input id="email"><input id="phone">
  <input id="resume_upload" type="file">
  <textarea id="cover_letter"></textarea>
</form>
</body></html>`

func newAgent(t *testing.T, url, markup string, s store.Store) (*Agent, *page.Document) {
	t.Helper()

	doc, err := page.FromHTML(url, markup)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return NewAgent(doc, s, nil), doc
}

func TestExtractJob(t *testing.T) {
	agent, _ := newAgent(t, "https://acme-corp.greenhouse.io/jobs/1", greenhousePage, store.NewMemory())

	posting, err := agent.ExtractJob(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if posting.Company != "Acme Corp" || posting.Site != "greenhouse" {
		t.Fatalf("unexpected posting: %+v", posting)
	}

	other, _ := newAgent(t, "https://example.com/careers", greenhousePage, store.NewMemory())
	if _, err := other.ExtractJob(context.Background()); !errors.Is(err, job.ErrUnsupportedSite) {
		t.Fatalf("expected ErrUnsupportedSite, got %v", err)
	}
}

func TestCheckForm(t *testing.T) {
	agent, _ := newAgent(t, "https://acme.greenhouse.io/jobs/1", greenhousePage, store.NewMemory())
	if got := agent.CheckForm(context.Background()); !got.HasForm || got.Provider != "GREENHOUSE" {
		t.Fatalf("expected greenhouse form, got %+v", got)
	}

	agent, _ = newAgent(t, "https://www.linkedin.com/jobs/view/1", greenhousePage, store.NewMemory())
	if got := agent.CheckForm(context.Background()); got.HasForm {
		t.Fatalf("expected no form, got %+v", got)
	}
}

func TestAutofill(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	agent, doc := newAgent(t, "https://acme.greenhouse.io/jobs/1", greenhousePage, s)

	if _, err := agent.Autofill(ctx); !errors.Is(err, form.ErrNoProfileData) {
		t.Fatalf("expected ErrNoProfileData, got %v", err)
	}

	if _, err := profile.NewRepository(s).Save(ctx, map[string]any{
		"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com", "phone": "555-0100",
	}); err != nil {
		t.Fatalf("save profile: %v", err)
	}

	if _, err := agent.Autofill(ctx); !errors.Is(err, form.ErrNoResumeData) {
		t.Fatalf("expected ErrNoResumeData, got %v", err)
	}

	if _, err := resume.Save(ctx, s, "cv.pdf", "Go developer", time.Now()); err != nil {
		t.Fatalf("save resume: %v", err)
	}

	result, err := agent.Autofill(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Filled {
		t.Fatalf("expected filled form, errors: %v", result.Errors)
	}
	if v, _ := doc.Value("#email"); v != "ada@example.com" {
		t.Fatalf("unexpected email value %q", v)
	}
}

type failingStore struct {
	store.Store
	reads int
}

func (f *failingStore) Get(context.Context, string, any) (bool, error) {
	f.reads++
	return false, errors.New("storage unavailable")
}

func TestAutofillWithoutForm(t *testing.T) {
	agent, _ := newAgent(t, "https://www.indeed.com/viewjob", "<html></html>", store.NewMemory())
	if _, err := agent.Autofill(context.Background()); !errors.Is(err, form.ErrNoFormDetected) {
		t.Fatalf("expected ErrNoFormDetected, got %v", err)
	}
}

func TestAutofillChecksFormBeforeReadingStore(t *testing.T) {
	s := &failingStore{Store: store.NewMemory()}
	agent, _ := newAgent(t, "https://www.indeed.com/viewjob", "<html></html>", s)

	if _, err := agent.Autofill(context.Background()); !errors.Is(err, form.ErrNoFormDetected) {
		t.Fatalf("expected ErrNoFormDetected, got %v", err)
	}
	if s.reads != 0 {
		t.Fatalf("expected no store reads without a form, got %d", s.reads)
	}
}
