// Package form detects known job application forms and fills them from the
// stored profile.
package form

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/page"
)

// Logical field names with special handling.
const (
	FieldForm        = "form"
	FieldResume      = "resume"
	FieldCoverLetter = "coverLetter"
)

// Field maps a logical field name to the selector of its input element.
type Field struct {
	Name     string `json:"name"`
	Selector string `json:"selector"`
}

// Descriptor describes a detected application form.
type Descriptor struct {
	Provider string  `json:"provider"`
	Fields   []Field `json:"fields"`
}

// Selector returns the selector of the named field.
func (d *Descriptor) Selector(name string) (string, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f.Selector, true
		}
	}
	return "", false
}

// Pattern is a registry entry for a form provider.
type Pattern struct {
	Provider string
	Domain   string
	Fields   []Field
}

// DefaultPatterns is the registry of known application forms.
var DefaultPatterns = []Pattern{
	{
		Provider: "GREENHOUSE",
		Domain:   "greenhouse.io",
		Fields: []Field{
			{Name: FieldForm, Selector: "form#application_form"},
			{Name: "firstName", Selector: "input#first_name"},
			{Name: "lastName", Selector: "input#last_name"},
			{Name: "email", Selector: "input#email"},
			{Name: "phone", Selector: "input#phone"},
			{Name: FieldResume, Selector: `input#resume_upload[type="file"]`},
			{Name: FieldCoverLetter, Selector: "textarea#cover_letter"},
		},
	},
}

type Detector struct {
	patterns []Pattern
	logger   *zap.Logger
}

func NewDetector(patterns []Pattern, logger *zap.Logger) *Detector {
	if patterns == nil {
		patterns = DefaultPatterns
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{patterns: patterns, logger: logger}
}

// Detect returns the descriptor of the first provider whose domain matches
// the page host and whose form root exists, or nil.
func (d *Detector) Detect(_ context.Context, p page.Page) *Descriptor {
	host := hostname(p.CurrentURL())

	for _, pattern := range d.patterns {
		if !strings.Contains(host, strings.ToLower(pattern.Domain)) {
			continue
		}

		desc := &Descriptor{Provider: pattern.Provider, Fields: pattern.Fields}
		root, ok := desc.Selector(FieldForm)
		if !ok || !p.Exists(root) {
			d.logger.Debug("form root not found", zap.String("provider", pattern.Provider))
			continue
		}

		d.logger.Debug("application form detected", zap.String("provider", pattern.Provider))
		return desc
	}

	return nil
}

func hostname(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
