// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package enrichment

import (
	"sort"
	"strings"
	"unicode"
)

// stopWords are excluded from keyword extraction.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "have": {}, "has": {}, "had": {},
	"do": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "could": {}, "should": {},
}

// maxKeywords bounds the keyword fallback to the same size the tag prompt
// asks the model for.
const maxKeywords = 5

// ExtractKeywords is the local tag fallback: lowercase alphabetic runs of at
// least three letters, stop words removed, the five most frequent first.
// Ties break by first occurrence in the text, keeping the result stable.
func ExtractKeywords(text string) []string {
	type entry struct {
		count int
		first int
	}
	counts := make(map[string]*entry)
	order := make([]string, 0)

	pos := 0
	for _, field := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		pos++
		if len(field) < 3 {
			continue
		}
		if _, stop := stopWords[field]; stop {
			continue
		}
		if e, ok := counts[field]; ok {
			e.count++
		} else {
			counts[field] = &entry{count: 1, first: pos}
			order = append(order, field)
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := counts[order[i]], counts[order[j]]
		if a.count != b.count {
			return a.count > b.count
		}
		return a.first < b.first
	})

	if len(order) > maxKeywords {
		order = order[:maxKeywords]
	}
	return order
}
