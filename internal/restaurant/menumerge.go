package restaurant

import "github.com/TosaOdiase/allergenblock/internal/match"

// Item-level merge threshold. Two menu items below this combined score
// are treated as different dishes.
const itemSimilarityThreshold = 0.8

// MergeMenuItems folds an incoming menu into the stored one. Incoming
// items that match a stored item (by combined name + allergen
// similarity) replace it; the rest of the stored menu is kept and
// unmatched incoming items are appended.
func MergeMenuItems(incoming, stored []MenuItem) []MenuItem {
	if len(stored) == 0 {
		return incoming
	}
	if len(incoming) == 0 {
		return stored
	}

	merged := make([]MenuItem, len(stored))
	copy(merged, stored)

	for _, item := range incoming {
		bestIdx := -1
		bestScore := 0.0

		for i, existing := range merged {
			score := ItemSimilarity(item, existing)
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}

		if bestIdx >= 0 && bestScore >= itemSimilarityThreshold {
			merged[bestIdx] = item
		} else {
			merged = append(merged, item)
		}
	}

	return merged
}

// ItemSimilarity scores two menu items as 70% name similarity plus 30%
// allergen-set overlap (Jaccard). Two items with no allergens at all
// count as fully overlapping on the allergen component.
func ItemSimilarity(a, b MenuItem) float64 {
	nameSimilarity := match.Similarity(a.Name, b.Name)

	setA := make(map[string]bool, len(a.Allergens))
	for _, allergen := range a.Allergens {
		setA[allergen] = true
	}
	setB := make(map[string]bool, len(b.Allergens))
	for _, allergen := range b.Allergens {
		setB[allergen] = true
	}

	matching := 0
	for allergen := range setA {
		if setB[allergen] {
			matching++
		}
	}

	total := len(setB)
	for allergen := range setA {
		if !setB[allergen] {
			total++
		}
	}

	allergenSimilarity := 1.0
	if total > 0 {
		allergenSimilarity = float64(matching) / float64(total)
	}

	return nameSimilarity*0.7 + allergenSimilarity*0.3
}
