package match

import "strings"

// Similarity scores two labels with normalized Levenshtein distance.
// 1 means identical (case-insensitive), 0 means nothing in common.
// Two empty strings compare as identical by policy.
func Similarity(a, b string) float64 {
	s1 := strings.ToLower(a)
	s2 := strings.ToLower(b)

	if s1 == s2 {
		return 1
	}
	if s1 == "" || s2 == "" {
		return 0
	}

	distance := levenshtein(s1, s2)
	maxLen := len(s1)
	if len(s2) > maxLen {
		maxLen = len(s2)
	}

	return 1 - float64(distance)/float64(maxLen)
}

func levenshtein(s1, s2 string) int {
	track := make([][]int, len(s2)+1)
	for j := range track {
		track[j] = make([]int, len(s1)+1)
	}

	for i := 0; i <= len(s1); i++ {
		track[0][i] = i
	}
	for j := 0; j <= len(s2); j++ {
		track[j][0] = j
	}

	for j := 1; j <= len(s2); j++ {
		for i := 1; i <= len(s1); i++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}

			deletion := track[j][i-1] + 1
			insertion := track[j-1][i] + 1
			substitution := track[j-1][i-1] + cost

			min := deletion
			if insertion < min {
				min = insertion
			}
			if substitution < min {
				min = substitution
			}
			track[j][i] = min
		}
	}

	return track[len(s2)][len(s1)]
}
