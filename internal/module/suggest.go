// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package module

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggest returns the candidate closest to name, ignoring case, or "" when
// none is close enough to be a likely typo.
func Suggest(name string, candidates []string) string {
	if name == "" {
		return ""
	}
	want := strings.ToLower(name)

	best, bestScore := "", 0.4
	for _, c := range candidates {
		lc := strings.ToLower(c)
		dist := levenshtein.ComputeDistance(want, lc)
		score := float64(dist) / float64(max(len(want), len(lc)))
		if score < bestScore {
			best, bestScore = c, score
		}
	}
	return best
}

// unknown formats the error for a name nothing is registered under.
func unknown(name string, candidates []string) error {
	if s := Suggest(name, candidates); s != "" {
		return &unknownCommandError{name: name, suggestion: s}
	}
	return &unknownCommandError{name: name}
}

type unknownCommandError struct {
	name       string
	suggestion string
}

func (e *unknownCommandError) Error() string {
	if e.suggestion != "" {
		return ErrUnknownCommand.Error() + ": " + e.name + " (did you mean " + e.suggestion + "?)"
	}
	return ErrUnknownCommand.Error() + ": " + e.name
}

func (e *unknownCommandError) Unwrap() error { return ErrUnknownCommand }
