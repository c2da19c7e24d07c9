// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"strings"
	"unicode"

	"github.com/pdiddy/article-harvest/pkg/types"
)

// mappings lists, per provider, the candidate paths in priority order.
var mappings = map[types.Source]Mapping{
	// E-utilities esummary result item.
	types.SourcePubMed: {
		ID:      []Path{P("uid")},
		Title:   []Path{P("title")},
		Journal: []Path{P("source"), P("fulljournalname")},
		PubDate: []Path{P("pubdate"), P("epubdate"), P("sortpubdate")},
		Authors: []AuthorRule{{Path: P("authors"), NameKeys: []string{"name"}}},
	},
	// Scopus Search API entry. STANDARD view carries only dc:creator.
	types.SourceScopus: {
		ID:      []Path{P("dc:identifier"), P("eid")},
		Title:   []Path{P("dc:title")},
		Journal: []Path{P("prism:publicationName")},
		PubDate: []Path{P("prism:coverDate"), P("prism:coverDisplayDate")},
		Authors: []AuthorRule{
			{Path: P("author"), NameKeys: []string{"authname", "ce:indexed-name"}},
			{Path: P("dc:creator")},
		},
	},
	// Web of Science record, flat legacy shape first, then the Starter shape.
	types.SourceWebOfScience: {
		ID:      []Path{P("UID"), P("uid")},
		Title:   []Path{P("Title"), P("title")},
		Journal: []Path{P("Source"), P("source.sourceTitle")},
		PubDate: []Path{P("PublicationDate"), P("source.publishYear")},
		Authors: []AuthorRule{
			{Path: P("names.authors"), NameKeys: []string{"displayName", "wosStandard"}},
			{Path: P("Authors"), NameKeys: []string{"displayName", "name"}},
		},
	},
	// IEEE Xplore Metadata API article.
	types.SourceIEEEXplore: {
		ID:      []Path{P("article_number"), P("doi")},
		Title:   []Path{P("title")},
		Journal: []Path{P("publication_title")},
		PubDate: []Path{P("publication_date"), P("publication_year")},
		Authors: []AuthorRule{
			{Path: P("authors.authors"), NameKeys: []string{"full_name"}},
			{Path: P("authors"), NameKeys: []string{"full_name", "name"}},
		},
	},
	// SerpAPI google_scholar organic result.
	types.SourceGoogleScholar: {
		ID:      []Path{P("result_id")},
		Title:   []Path{P("title")},
		Journal: []Path{P("publication_info.journal"), P(scholarJournalKey)},
		PubDate: []Path{P("year"), P(scholarYearKey)},
		Authors: []AuthorRule{
			{Path: P("publication_info.authors"), NameKeys: []string{"name"}},
			{Path: P(scholarAuthorsKey)},
		},
		Derive: deriveScholarSummary,
	},
	// SciELO ArticleMeta document; title and journal keys depend on document type.
	types.SourceSciELO: {
		ID:      []Path{P("code"), P("article.code"), P("article.v880")},
		Title:   []Path{P("article.v12"), P("article.v100"), P("article.v901")},
		Journal: []Path{P("article.v30"), P("article.v150"), P("article.v151"), P("title.v100")},
		PubDate: []Path{P("article.v65"), P("processing_date")},
		Authors: []AuthorRule{{Path: P("article.v10"), NameKeys: []string{"n"}}},
		FormatDate: FormatCompactDate,
	},
}

// FormatCompactDate reduces an all-digit YYYYMMDD (or YYYYMM) date to
// "YYYY-MM". Any other string is returned unchanged.
func FormatCompactDate(s string) string {
	if len(s) < 6 {
		return s
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return s
		}
	}
	return s[:4] + "-" + s[4:6]
}

const (
	scholarAuthorsKey = "summary_authors"
	scholarJournalKey = "summary_journal"
	scholarYearKey    = "summary_year"
)

// deriveScholarSummary splits the "Authors - Venue, Year - host" summary line
// into separate keys on a copy of item.
func deriveScholarSummary(item map[string]any) map[string]any {
	out := make(map[string]any, len(item)+3)
	for k, v := range item {
		out[k] = v
	}

	info, _ := item["publication_info"].(map[string]any)
	summary, _ := info["summary"].(string)
	if summary == "" {
		return out
	}

	authors, journal, year := splitScholarSummary(summary)
	if authors != "" {
		out[scholarAuthorsKey] = authors
	}
	if journal != "" {
		out[scholarJournalKey] = journal
	}
	if year != "" {
		out[scholarYearKey] = year
	}
	return out
}

// splitScholarSummary parses "A Smith, B Doe - Journal of X, 2020 - host.com".
func splitScholarSummary(summary string) (authors, journal, year string) {
	parts := strings.Split(summary, " - ")
	authors = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(parts[0]), "…"))
	if len(parts) < 2 {
		return authors, "", ""
	}
	venue := strings.TrimSpace(parts[1])

	fields := strings.Split(venue, ",")
	last := strings.TrimSpace(fields[len(fields)-1])
	if isYear(last) {
		year = last
		journal = strings.TrimSpace(strings.Join(fields[:len(fields)-1], ","))
	} else {
		journal = venue
	}
	journal = strings.TrimSpace(strings.TrimSuffix(journal, "…"))
	return authors, journal, year
}

func isYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
