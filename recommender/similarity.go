package recommender

import (
	"fmt"
	"strings"

	"github.com/raushankrgupta/fitmate/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	categoryWeight = 0.3
	occasionWeight = 0.2
	colorWeight    = 0.2
	seasonWeight   = 0.15
	brandWeight    = 0.15
)

// Similarity sums fixed weights for each attribute two outfits share.
// Category is always compared; the rest only count when set on both sides.
// The sum is not normalised, so an outfit compared with itself scores 1.
func Similarity(a, b models.Outfit) float64 {
	var sim float64
	if a.Category == b.Category {
		sim += categoryWeight
	}
	if bothSet(a.Occasion, b.Occasion) && a.Occasion == b.Occasion {
		sim += occasionWeight
	}
	if bothSet(a.Color, b.Color) && strings.EqualFold(a.Color, b.Color) {
		sim += colorWeight
	}
	if bothSet(a.Season, b.Season) && a.Season == b.Season {
		sim += seasonWeight
	}
	if bothSet(a.Brand, b.Brand) && strings.EqualFold(a.Brand, b.Brand) {
		sim += brandWeight
	}
	return sim
}

func bothSet(a, b string) bool {
	return a != "" && b != ""
}

var titleCaser = cases.Title(language.English)

// displayName turns a stored choice like "full_outfit" into "Full Outfit".
func displayName(choice string) string {
	return titleCaser.String(strings.ReplaceAll(choice, "_", " "))
}

func similarityReason(ref, o models.Outfit) string {
	var reasons []string
	if ref.Category == o.Category {
		reasons = append(reasons, fmt.Sprintf("Same category (%s)", displayName(ref.Category)))
	}
	if bothSet(ref.Occasion, o.Occasion) && ref.Occasion == o.Occasion {
		reasons = append(reasons, fmt.Sprintf("Same occasion (%s)", displayName(ref.Occasion)))
	}
	if bothSet(ref.Color, o.Color) && strings.EqualFold(ref.Color, o.Color) {
		reasons = append(reasons, fmt.Sprintf("Same color (%s)", ref.Color))
	}
	if bothSet(ref.Brand, o.Brand) && strings.EqualFold(ref.Brand, o.Brand) {
		reasons = append(reasons, fmt.Sprintf("Same brand (%s)", ref.Brand))
	}
	if len(reasons) == 0 {
		return "Similar style"
	}
	return strings.Join(reasons, ", ")
}
