package scrape

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Allow-list of selectors that tend to carry menu text: semantic
// menu-item classes used by common restaurant themes, plus generic
// text-bearing tags.
var selectors = []string{
	".menu-item",
	".item-name",
	".dish-name",
	".food-name",
	".menu_section_item_name",
	".menu__item__title",
	".dishTitle",
	"h2", "h3", "h4", "li", "p", "strong",
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// extractCandidates pulls the text of every allow-listed node out of
// an HTML document, de-duplicated as a set. The set is returned sorted
// so downstream filtering is reproducible for identical input.
func extractCandidates(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})

	for _, selector := range selectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			text := whitespaceRe.ReplaceAllString(strings.TrimSpace(sel.Text()), " ")
			if text != "" {
				seen[text] = struct{}{}
			}
		})
	}

	candidates := make([]string, 0, len(seen))
	for text := range seen {
		candidates = append(candidates, text)
	}
	sort.Strings(candidates)

	return candidates, nil
}
