// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package match

import (
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

var algoInitOnce sync.Once

// Highlight returns the rune indices of text to emphasize when
// displaying a command that query matched, in ascending order. It uses
// fzf's fuzzy aligner on the query with whitespace removed, so "gTU"
// against "Go To URL" marks the G, T, and U. Returns nil when the query
// is empty or fzf finds no alignment (a command matched through its
// alias or custom pattern may have nothing to mark in its name).
func Highlight(query, text string) []int {
	pattern := []rune(strings.ToLower(strings.Map(func(character rune) rune {
		if unicode.IsSpace(character) {
			return -1
		}
		return character
	}, query)))
	if len(pattern) == 0 || text == "" {
		return nil
	}

	algoInitOnce.Do(func() { algo.Init("default") })

	chars := util.ToChars([]byte(text))
	result, positions := algo.FuzzyMatchV2(false, true, true, &chars, pattern, true, nil)
	if result.Start < 0 || positions == nil || len(*positions) == 0 {
		return nil
	}

	indices := slices.Clone(*positions)
	slices.Sort(indices)
	return indices
}
