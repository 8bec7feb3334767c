// Package job extracts structured job postings from supported job board pages.
package job

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/logger"
	"github.com/spigell/jobmatch/internal/page"
	"github.com/spigell/jobmatch/internal/site"
)

var (
	ErrUnsupportedSite = errors.New("unsupported site")
	ErrEmptyExtraction = errors.New("no job title or description found")
)

// boilerplate marks requirement list items that are navigation, not requirements.
var boilerplate = []string{"apply now", "click here"}

var greenhouseCompany = regexp.MustCompile(`//(.*?)\.greenhouse\.io`)

// Shared greenhouse board hosts that carry no company name.
var greenhouseBoardHosts = map[string]bool{
	"boards":     true,
	"job-boards": true,
	"www":        true,
}

// Posting is a job posting scraped from a page.
type Posting struct {
	Title        string    `json:"title" mapstructure:"title"`
	Company      string    `json:"company" mapstructure:"company"`
	Description  string    `json:"description" mapstructure:"description"`
	Requirements []string  `json:"requirements" mapstructure:"requirements"`
	SourceURL    string    `json:"url" mapstructure:"url"`
	Site         site.Site `json:"platform" mapstructure:"platform"`
	ExtractedAt  time.Time `json:"timestamp" mapstructure:"-"`
}

// Valid reports whether the posting carries a title or a description.
func (p *Posting) Valid() bool {
	return p != nil && (p.Title != "" || p.Description != "")
}

// Extractor reads postings from pages using the site selector table.
type Extractor struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger, now: time.Now}
}

// Extract classifies the page by its URL and reads the posting fields.
func (e *Extractor) Extract(_ context.Context, p page.Page) (*Posting, error) {
	rawURL := p.CurrentURL()

	s, ok := site.Classify(rawURL)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSite, rawURL)
	}

	selectors, _ := site.SelectorsFor(s)

	title, _ := p.ResolveText(selectors.Title)
	description, _ := p.ResolveText(selectors.Description)

	posting := &Posting{
		Title:        title,
		Company:      company(p, s, selectors),
		Description:  description,
		Requirements: FilterRequirements(p.ResolveAll(selectors.Requirements)),
		SourceURL:    rawURL,
		Site:         s,
		ExtractedAt:  e.now().UTC(),
	}

	if !posting.Valid() {
		return nil, fmt.Errorf("%w on %s page", ErrEmptyExtraction, s)
	}

	e.logger.Debug("extracted job posting",
		zap.String(logger.FieldSite, string(s)),
		zap.String("title", posting.Title),
		zap.String("company", posting.Company),
		zap.Int("requirements", len(posting.Requirements)),
	)

	return posting, nil
}

// FilterRequirements trims candidates and drops empty and boilerplate entries.
func FilterRequirements(candidates []string) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		text := strings.TrimSpace(c)
		if text == "" || isBoilerplate(text) {
			continue
		}
		out = append(out, text)
	}
	return out
}

func isBoilerplate(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range boilerplate {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func company(p page.Page, s site.Site, selectors site.Selectors) string {
	if s == site.Greenhouse {
		if name, ok := CompanyFromGreenhouseURL(p.CurrentURL()); ok {
			return name
		}
	}

	name, _ := p.ResolveText(selectors.Company)
	return name
}

// CompanyFromGreenhouseURL turns https://acme-labs.greenhouse.io/... into "Acme Labs".
func CompanyFromGreenhouseURL(rawURL string) (string, bool) {
	match := greenhouseCompany.FindStringSubmatch(rawURL)
	if len(match) < 2 || match[1] == "" {
		return "", false
	}

	slug := match[1]
	if greenhouseBoardHosts[strings.ToLower(slug)] {
		return "", false
	}

	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}

	return strings.Join(words, " "), true
}
