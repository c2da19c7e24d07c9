// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transform cleans the raw corpus into the processed corpus: text
// fields are tidied, publication dates parsed into calendar dates, invalid
// rows dropped, and titles deduplicated.
package transform

import (
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/pdiddy/article-harvest/pkg/types"
)

// Report counts what Clean did with its input.
type Report struct {
	Input        int `json:"input" yaml:"input"`
	InvalidDate  int `json:"invalid_date" yaml:"invalid_date"`
	MissingField int `json:"missing_field" yaml:"missing_field"`
	Duplicate    int `json:"duplicate" yaml:"duplicate"`
	Output       int `json:"output" yaml:"output"`
}

// Clean converts batch into processed records. Records with an unparseable
// date or an empty title, journal or author field are dropped; of records
// sharing a title key only the first is kept. The input is not modified.
func Clean(batch types.Batch, layouts []string) ([]types.ProcessedRecord, Report) {
	rep := Report{Input: len(batch)}
	seen := mapset.NewThreadUnsafeSet[string]()
	out := make([]types.ProcessedRecord, 0, len(batch))

	for _, r := range batch {
		title := CleanText(r.Title)
		journal := CleanText(r.Journal)
		authors := CleanText(r.Authors)
		if title == "" || title == types.NotAvailable || journal == "" || authors == "" {
			rep.MissingField++
			continue
		}

		date, ok := ParseDate(r.PubDate, layouts)
		if !ok {
			rep.InvalidDate++
			continue
		}

		if !seen.Add(TitleKey(title)) {
			rep.Duplicate++
			continue
		}

		out = append(out, types.ProcessedRecord{
			ID:      strings.TrimSpace(r.ID),
			Title:   title,
			Journal: journal,
			Authors: authors,
			PubDate: date,
			Source:  r.Source,
		})
	}

	rep.Output = len(out)
	return out, rep
}

// CleanText strips inline markup, replaces CR and LF with spaces and trims
// surrounding whitespace.
func CleanText(s string) string {
	if strings.ContainsAny(s, "<&") {
		s = stripMarkup(s)
	}
	s = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(s)
	return strings.TrimSpace(s)
}

// inlineTag matches the bare formatting tags providers embed in titles.
var inlineTag = regexp.MustCompile(`</?(?i:i|b|em|strong|sub|sup|u|small|span)>`)

// stripMarkup returns the text content of an HTML fragment such as
// "Effects of <i>in vivo</i> apps". The parsed text must equal the input with
// only inline tags removed; otherwise the input was plain text that merely
// looks like markup ("BMI<Obesity") and is returned unchanged.
func stripMarkup(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	got := strings.TrimSpace(doc.Find("body").Text())

	want := html.UnescapeString(inlineTag.ReplaceAllString(s, ""))
	want = strings.TrimSpace(strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(want))
	if got != want {
		return s
	}
	return got
}

// TitleKey is the dedup key of a title: lowercase with whitespace runs
// collapsed to single spaces.
func TitleKey(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

// ParseDate parses s with the first matching layout. When the whole string
// matches none, trailing space-separated tokens are dropped one at a time,
// so "2020 Jan-Feb" resolves through "2020". Partial dates resolve to the
// first day of the period, in UTC.
func ParseDate(s string, layouts []string) (time.Time, bool) {
	fields := strings.Fields(s)
	for n := len(fields); n > 0; n-- {
		candidate := strings.Join(fields[:n], " ")
		for _, layout := range layouts {
			if t, err := time.Parse(layout, candidate); err == nil {
				return t.UTC(), true
			}
		}
	}
	return time.Time{}, false
}
