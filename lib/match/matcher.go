// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package match

import (
	"regexp"
	"strings"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/bureau-foundation/palette/lib/command"
)

// DefaultCacheSize is the number of compiled query patterns a Matcher
// keeps when constructed with a non-positive size.
const DefaultCacheSize = 256

// Matcher matches queries against commands. Safe for concurrent use.
type Matcher struct {
	patterns *lru.Cache[string, *regexp.Regexp]
}

// New returns a Matcher whose compiled-pattern cache holds at most
// cacheSize queries. Non-positive sizes use DefaultCacheSize.
func New(cacheSize int) *Matcher {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	patterns, err := lru.New[string, *regexp.Regexp](cacheSize)
	if err != nil {
		// lru.New only fails for non-positive sizes, excluded above.
		panic("match: creating pattern cache: " + err.Error())
	}
	return &Matcher{patterns: patterns}
}

// Matches reports whether query selects target. The result is memoized
// in target's match cache keyed by the literal query.
func (matcher *Matcher) Matches(query string, target *command.Command) bool {
	if matched, found := target.CachedMatch(query); found {
		return matched
	}
	matched := matcher.evaluate(query, target)
	target.StoreMatch(query, matched)
	return matched
}

func (matcher *Matcher) evaluate(query string, target *command.Command) bool {
	pattern := matcher.Compile(query)
	if pattern == nil {
		return true
	}
	if pattern.MatchString(target.Name) {
		return true
	}
	for _, alias := range target.Aliases {
		if pattern.MatchString(alias) {
			return true
		}
	}
	return target.Pattern != nil && target.Pattern.MatchString(query)
}

// Filter returns the commands query selects, in their original order.
func (matcher *Matcher) Filter(query string, commands []*command.Command) []*command.Command {
	matches := make([]*command.Command, 0, len(commands))
	for _, candidate := range commands {
		if matcher.Matches(query, candidate) {
			matches = append(matches, candidate)
		}
	}
	return matches
}

// Compile returns the word-start pattern for query, compiling and
// caching it on first use. Returns nil for a query with no fragments
// (empty or whitespace only), which matches everything.
func (matcher *Matcher) Compile(query string) *regexp.Regexp {
	if pattern, ok := matcher.patterns.Get(query); ok {
		return pattern
	}
	source := PatternSource(query)
	if source == "" {
		return nil
	}
	// Fragments are quoted, so the source always compiles.
	pattern := regexp.MustCompile(source)
	matcher.patterns.Add(query, pattern)
	return pattern
}

// Reset drops every compiled pattern. The palette calls this when it
// closes so the cache only spans one session.
func (matcher *Matcher) Reset() {
	matcher.patterns.Purge()
}

// CacheLen returns the number of compiled patterns currently cached.
func (matcher *Matcher) CacheLen() int {
	return matcher.patterns.Len()
}

// Segment splits query into camel-case fragments. A fragment starts at
// any non-space rune and extends over following runes that are neither
// uppercase ASCII letters nor whitespace. Whitespace between fragments
// is skipped.
func Segment(query string) []string {
	runes := []rune(query)
	var fragments []string
	for index := 0; index < len(runes); {
		if unicode.IsSpace(runes[index]) {
			index++
			continue
		}
		start := index
		index++
		for index < len(runes) && !isUpperASCII(runes[index]) && !unicode.IsSpace(runes[index]) {
			index++
		}
		fragments = append(fragments, string(runes[start:index]))
	}
	return fragments
}

// PatternSource returns the regular expression source for query, or ""
// when query has no fragments. Each fragment f contributes
// QuoteMeta(f) + `[a-z]*\s*`; the whole is case-insensitive and
// anchored at a word boundary.
func PatternSource(query string) string {
	fragments := Segment(query)
	if len(fragments) == 0 {
		return ""
	}
	var builder strings.Builder
	builder.WriteString(`(?i)\b`)
	for _, fragment := range fragments {
		builder.WriteString(regexp.QuoteMeta(fragment))
		builder.WriteString(`[a-z]*\s*`)
	}
	return builder.String()
}

func isUpperASCII(character rune) bool {
	return character >= 'A' && character <= 'Z'
}
