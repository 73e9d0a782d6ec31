package match

// Levenshtein computes the edit distance between a and b, counted in runes.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	if len(ra) == 0 {
		return len(rb)
	}

	// two rows of the distance matrix, sized by the shorter string
	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		curr[0] = j

		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(ra)]
}

// LevenshteinNormalized returns a similarity in [0, 1], 1 for equal strings.
func LevenshteinNormalized(a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1.0
	}

	return 1.0 - float64(Levenshtein(a, b))/float64(longest)
}

// NameSimilarity scores two identifiers after normalization, taking the
// better of the plain and suffix-stripped forms.
func NameSimilarity(a, b string) float64 {
	plain := LevenshteinNormalized(NormalizeIdent(a), NormalizeIdent(b))
	stripped := LevenshteinNormalized(NormalizeIdentWithSuffixStrip(a), NormalizeIdentWithSuffixStrip(b))

	return max(plain, stripped)
}
