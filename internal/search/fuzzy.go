// Package search narrows an already fetched page of movies by title without
// going back to the provider.
package search

import (
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/reel/internal/domain"
)

// Match is a movie that satisfied a quick filter query
type Match struct {
	Movie          domain.MovieSummary
	Index          int   // Index in the source slice
	Distance       int   // Sum of per-token edit distances (lower = better)
	MatchedIndexes []int // Rune positions in the title, for highlighting
}

// FilterMovies matches query against each movie's title and year.
//
// The query is split into words and every word must match (AND semantics),
// in any order, so "2001 odyssey" finds "2001: A Space Odyssey". Words are
// matched as case- and accent-insensitive subsequences. Results are ordered
// by distance, then by their position in movies.
func FilterMovies(query string, movies []domain.MovieSummary) []Match {
	tokens := tokenize(query)
	if len(tokens) == 0 || len(movies) == 0 {
		return nil
	}

	targets := make([]string, len(movies))
	for i, m := range movies {
		targets[i] = searchText(m)
	}

	// distance per movie index; a movie stays only if every token ranked it
	distance := make(map[int]int, len(movies))
	for i, token := range tokens {
		seen := make(map[int]bool)
		for _, r := range fuzzy.RankFindNormalizedFold(token, targets) {
			if i > 0 {
				if _, ok := distance[r.OriginalIndex]; !ok {
					continue
				}
			}
			distance[r.OriginalIndex] += r.Distance
			seen[r.OriginalIndex] = true
		}
		for idx := range distance {
			if !seen[idx] {
				delete(distance, idx)
			}
		}
		if len(distance) == 0 {
			return nil
		}
	}

	matches := make([]Match, 0, len(distance))
	for idx, d := range distance {
		matches = append(matches, Match{
			Movie:          movies[idx],
			Index:          idx,
			Distance:       d,
			MatchedIndexes: highlight(movies[idx].Title, tokens),
		})
	}

	slices.SortFunc(matches, func(a, b Match) int {
		if a.Distance != b.Distance {
			return a.Distance - b.Distance
		}
		return a.Index - b.Index
	})
	return matches
}

// Movies returns just the matched movies in ranked order
func Movies(matches []Match) []domain.MovieSummary {
	out := make([]domain.MovieSummary, len(matches))
	for i, m := range matches {
		out[i] = m.Movie
	}
	return out
}

func searchText(m domain.MovieSummary) string {
	if m.Year == 0 {
		return m.Title
	}
	return m.Title + " " + strconv.Itoa(m.Year)
}

// tokenize lowercases text and splits it on anything that isn't a letter or digit
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(strings.TrimSpace(text)), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// highlight finds, for each token, the first subsequence occurrence in title
// and returns the sorted, de-duplicated rune positions.
func highlight(title string, tokens []string) []int {
	runes := []rune(strings.ToLower(title))
	var out []int
	for _, token := range tokens {
		pos := subsequence(runes, []rune(token))
		out = append(out, pos...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func subsequence(title, token []rune) []int {
	var pos []int
	j := 0
	for i := 0; i < len(title) && j < len(token); i++ {
		if title[i] == token[j] {
			pos = append(pos, i)
			j++
		}
	}
	if j < len(token) {
		// Token matched the year or only after normalization; no highlight
		return nil
	}
	return pos
}
