// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract finds authors, emails, and affiliations on paper pages
// and in PDF text, and runs the per-paper extraction cascade.
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/paperscout/pkg/types"
)

// emailRe matches local-part@domain.tld where the final label is
// alphabetic with at least two letters. No further validation is done.
var emailRe = regexp.MustCompile(`[\w.\-]+@[\w.\-]+\.[A-Za-z]{2,}`)

// nameTokenRe matches a capitalized word of letters, hyphens, or
// apostrophes, at least two characters long.
var nameTokenRe = regexp.MustCompile(`\b[A-Z][A-Za-z'\-]+`)

// nameWindow is how many characters before an email are searched for a name.
const nameWindow = 120

// ScanEmails returns the unique emails in text, lower-cased, in order of
// first occurrence. Uniqueness is case-insensitive.
func ScanEmails(text string) []string {
	seen := make(map[string]bool)
	var emails []string
	for _, m := range emailRe.FindAllString(text, -1) {
		e := strings.ToLower(strings.TrimSpace(m))
		if seen[e] {
			continue
		}
		seen[e] = true
		emails = append(emails, e)
	}
	return emails
}

// GuessName looks for the first occurrence of email in text (ignoring
// case) and joins the last maxTokens capitalized tokens found in the
// nameWindow characters before it. It returns "" when the email is absent,
// starts the text, or has no capitalized tokens before it.
//
// The guess is a heuristic: it can return section headers or affiliation
// fragments instead of a name.
func GuessName(text, email string, maxTokens int) string {
	if email == "" || maxTokens <= 0 {
		return ""
	}
	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(email))
	if err != nil {
		return ""
	}
	loc := re.FindStringIndex(text)
	if loc == nil || loc[0] == 0 {
		return ""
	}

	tokens := nameTokenRe.FindAllString(precedingWindow(text, loc[0]), -1)
	if len(tokens) == 0 {
		return ""
	}
	if len(tokens) > maxTokens {
		tokens = tokens[len(tokens)-maxTokens:]
	}
	return strings.Join(tokens, " ")
}

// precedingWindow returns up to nameWindow characters of text ending at byte
// offset end.
func precedingWindow(text string, end int) string {
	start := end
	for n := 0; n < nameWindow && start > 0; n++ {
		_, size := utf8.DecodeLastRuneInString(text[:start])
		start -= size
	}
	return text[start:end]
}

// ScanAuthors runs ScanEmails over text and pairs every email with a name
// guess built from the maxTokens capitalized tokens preceding it.
func ScanAuthors(text string, maxTokens int) []types.Author {
	emails := ScanEmails(text)
	authors := make([]types.Author, 0, len(emails))
	for _, e := range emails {
		authors = append(authors, types.Author{
			Email: e,
			Name:  GuessName(text, e, maxTokens),
		})
	}
	return authors
}
