// Copyright CrisisWatch Labs, 2026. All rights reserved.

package cache

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Fixed weights for the combined similarity blend.
const (
	cosineWeight   = 0.4
	jaccardWeight  = 0.3
	sequenceWeight = 0.3
)

// stopwords are dropped before token comparison. The fact-check framing
// words ("claim", "true", "false") would otherwise inflate similarity
// between unrelated claims.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "it": true,
	"that": true, "this": true, "was": true, "were": true,
	"has": true, "have": true, "had": true, "be": true, "been": true,
	"are": true, "or": true, "and": true, "to": true,
	"in": true, "on": true, "at": true, "for": true, "of": true,
	"with": true, "as": true, "by": true, "from": true,
	"true": true, "false": true, "claim": true, "claims": true,
	"said": true, "says": true, "according": true,
}

// CombinedSimilarity blends cosine similarity over word-frequency vectors,
// token-set Jaccard similarity, and character-sequence similarity with
// fixed weights 0.4/0.3/0.3. Used as the stricter near-duplicate detector.
func CombinedSimilarity(a, b string) float64 {
	return cosineWeight*cosineSimilarity(a, b) +
		jaccardWeight*tokenJaccard(a, b) +
		sequenceWeight*sequenceSimilarity(a, b)
}

// IsNearDuplicate reports whether two claims are near-duplicates
// (combined similarity above 0.9).
func IsNearDuplicate(a, b string) bool {
	return CombinedSimilarity(a, b) >= 0.9
}

// tokenize lowercases, strips punctuation, splits on whitespace, and drops
// stopwords and words of one or two characters.
func tokenize(text string) []string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	var tokens []string
	for _, w := range strings.Fields(b.String()) {
		if len(w) > 2 && !stopwords[w] {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

func tokenJaccard(a, b string) float64 {
	setA := make(map[string]bool)
	for _, w := range tokenize(a) {
		setA[w] = true
	}
	setB := make(map[string]bool)
	for _, w := range tokenize(b) {
		setB[w] = true
	}
	return jaccard(setA, setB)
}

func cosineSimilarity(a, b string) float64 {
	tokensA := tokenize(a)
	tokensB := tokenize(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0.0
	}

	freqA := make(map[string]int)
	for _, w := range tokensA {
		freqA[w]++
	}
	freqB := make(map[string]int)
	for _, w := range tokensB {
		freqB[w]++
	}

	dot := 0
	for w, n := range freqA {
		dot += n * freqB[w]
	}

	var magA, magB float64
	for _, n := range freqA {
		magA += float64(n * n)
	}
	for _, n := range freqB {
		magB += float64(n * n)
	}
	if magA == 0 || magB == 0 {
		return 0.0
	}
	return float64(dot) / (math.Sqrt(magA) * math.Sqrt(magB))
}

// sequenceSimilarity is a Ratcliff/Obershelp ratio over the lowercased
// texts: twice the total length of recursively matched blocks divided by
// the combined length.
func sequenceSimilarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if len(a)+len(b) == 0 {
		return 0.0
	}
	matched := matchingBlocks([]rune(a), []rune(b))
	return 2.0 * float64(matched) / float64(len([]rune(a))+len([]rune(b)))
}

// matchingBlocks returns the total length of matching blocks found by
// recursively locating the longest common substring and recursing on the
// unmatched pieces to either side.
func matchingBlocks(a, b []rune) int {
	ai, bi, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingBlocks(a[:ai], b[:bi])
	total += matchingBlocks(a[ai+size:], b[bi+size:])
	return total
}

func longestCommonSubstring(a, b []rune) (ai, bi, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}
	// prev[j] holds the match length ending at a[i-1], b[j-1].
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > size {
					size = cur[j]
					ai = i - size
					bi = j - size
				}
			} else {
				cur[j] = 0
			}
		}
		prev, cur = cur, prev
	}
	return ai, bi, size
}

// RankBySimilarity scores candidates against the claim with the combined
// detector and returns those at or above threshold, best first, capped at
// five.
func RankBySimilarity(claim string, candidates []Entry, threshold float64) []Match {
	var matches []Match
	for _, entry := range candidates {
		text := entry.ClaimText
		if text == "" {
			text = entry.Normalized
		}
		if text == "" {
			continue
		}
		if s := CombinedSimilarity(claim, text); s >= threshold {
			matches = append(matches, Match{Entry: entry, Similarity: math.Round(s*1000) / 1000})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > 5 {
		matches = matches[:5]
	}
	return matches
}
