package fitting

import "math"

// FeatureCount is the length of the vector produced by ExtractFeatures.
const FeatureCount = 11

// ExtractFeatures builds the model input for a body/garment pair. The order is
// part of the model artifact format:
//
//	abs chest, abs waist, abs hips, abs shoulder,
//	pct chest, pct waist, pct hips,
//	user chest/waist, user hips/waist,
//	outfit chest/waist, outfit hips/waist
func ExtractFeatures(user, outfit Set) []float64 {
	uc, uw, uh, us := user.ChestValue(), user.WaistValue(), user.HipsValue(), user.ShoulderValue()
	oc, ow, oh, os := outfit.ChestValue(), outfit.WaistValue(), outfit.HipsValue(), outfit.ShoulderValue()

	features := make([]float64, 0, FeatureCount)
	features = append(features,
		math.Abs(oc-uc),
		math.Abs(ow-uw),
		math.Abs(oh-uh),
	)
	if us != 0 && os != 0 {
		features = append(features, math.Abs(os-us))
	} else {
		features = append(features, 0)
	}

	features = append(features,
		percentDiff(oc, uc),
		percentDiff(ow, uw),
		percentDiff(oh, uh),
	)

	features = append(features, ratios(uc, uh, uw)...)
	features = append(features, ratios(oc, oh, ow)...)
	return features
}

func percentDiff(outfitValue, userValue float64) float64 {
	if userValue <= 0 {
		return 0
	}
	return (outfitValue - userValue) / userValue * 100
}

func ratios(chest, hips, waist float64) []float64 {
	if waist <= 0 {
		return []float64{0, 0}
	}
	return []float64{chest / waist, hips / waist}
}
