// Package site holds the static selector table for the supported job boards.
package site

import "strings"

// Site identifies a supported job board.
type Site string

const (
	LinkedIn   Site = "linkedin"
	Indeed     Site = "indeed"
	Glassdoor  Site = "glassdoor"
	Greenhouse Site = "greenhouse"
)

// Selectors are CSS selectors for the parts of a job posting page.
type Selectors struct {
	Title        string
	Company      string
	Description  string
	Requirements string
}

type entry struct {
	site      Site
	domain    string
	selectors Selectors
}

// table is ordered by classification priority.
var table = []entry{
	{
		site:   LinkedIn,
		domain: "linkedin.com",
		selectors: Selectors{
			Title:        ".job-details-jobs-unified-top-card__job-title",
			Company:      ".job-details-jobs-unified-top-card__company-name",
			Description:  ".jobs-description__content",
			Requirements: ".jobs-box__list li",
		},
	},
	{
		site:   Indeed,
		domain: "indeed.com",
		selectors: Selectors{
			Title:        ".jobsearch-JobInfoHeader-title",
			Company:      ".jobsearch-InlineCompanyRating div",
			Description:  "#jobDescriptionText",
			Requirements: ".jobsearch-JobDescriptionSection-sectionItem",
		},
	},
	{
		site:   Glassdoor,
		domain: "glassdoor.com",
		selectors: Selectors{
			Title:        ".job-title",
			Company:      ".employer-name",
			Description:  ".jobDescriptionContent",
			Requirements: ".jobDescriptionContent li",
		},
	},
	{
		site:   Greenhouse,
		domain: "greenhouse.io",
		selectors: Selectors{
			Title:       ".app-title",
			Company:     ".company-name",
			Description: "#content",
			// Greenhouse boards format requirement lists in several ways.
			Requirements: "#content ul li, #content .requirements-content li, #content .list-disc li",
		},
	},
}

// Classify returns the first site whose domain is contained in rawURL.
func Classify(rawURL string) (Site, bool) {
	for _, e := range table {
		if strings.Contains(rawURL, e.domain) {
			return e.site, true
		}
	}
	return "", false
}

// SelectorsFor returns the selector set of s.
func SelectorsFor(s Site) (Selectors, bool) {
	for _, e := range table {
		if e.site == s {
			return e.selectors, true
		}
	}
	return Selectors{}, false
}

// Domain returns the domain substring used to recognise s.
func Domain(s Site) string {
	for _, e := range table {
		if e.site == s {
			return e.domain
		}
	}
	return ""
}

// All lists the supported sites in classification order.
func All() []Site {
	sites := make([]Site, 0, len(table))
	for _, e := range table {
		sites = append(sites, e.site)
	}
	return sites
}
