package llm

import (
	"fmt"
	"strings"
)

// BuildAllergenPrompt asks for the menu items visible in a captured
// menu image, with allergen tags and a certainty per item. Output must
// be machine-parseable, hence the JSON-only instruction.
func BuildAllergenPrompt() string {
	return strings.TrimSpace(`
You are an allergen-detection assistant. Read the restaurant menu in the image.

Return ONLY a JSON array, no markdown and no commentary. Each element:
{
  "name": "<menu item name>",
  "allergens": ["<allergen tag>", ...],
  "certainty": <number between 0 and 1>
}

Use lower-case allergen tags such as "dairy", "gluten", "nuts", "shellfish",
"soy", "egg", "fish", "sesame", "pork". Use an empty array when no allergen
is likely. certainty is your confidence in the allergen assignment.
`)
}

// BuildSummaryPrompt asks for a categorized, allergy-friendly summary
// of scraped menu items.
func BuildSummaryPrompt(items []string) string {
	return fmt.Sprintf(
		"You are a helpful assistant. Categorize and summarize the following menu items by type (e.g., appetizers, entrees, desserts, drinks), and make it easy for users with food allergies to understand:\n\n%s",
		strings.Join(items, "\n"),
	)
}
