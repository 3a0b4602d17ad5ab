package bodyshape

// Guidance is the styling advice for one shape.
type Guidance struct {
	Description string   `json:"description,omitempty"`
	BestStyles  []string `json:"best_styles,omitempty"`
	Avoid       []string `json:"avoid,omitempty"`
}

var guidance = map[Shape]Guidance{
	Hourglass: {
		Description: "Balanced proportions with defined waist",
		BestStyles: []string{
			"Fitted and tailored pieces",
			"Wrap dresses",
			"High-waisted bottoms",
			"V-necklines",
			"Belted styles",
		},
		Avoid: []string{
			"Shapeless or boxy clothing",
			"Too loose or oversized fits",
		},
	},
	Triangle: {
		Description: "Hips wider than shoulders",
		BestStyles: []string{
			"A-line skirts and dresses",
			"Wide-leg pants",
			"Boat neck tops",
			"Embellished or detailed tops",
			"Dark colored bottoms",
		},
		Avoid: []string{
			"Skinny jeans",
			"Tapered pants",
			"Hip pockets",
		},
	},
	InvertedTriangle: {
		Description: "Shoulders wider than hips",
		BestStyles: []string{
			"V-neck tops",
			"A-line skirts",
			"Bootcut or wide-leg pants",
			"Detailed bottoms",
			"Dark tops with light bottoms",
		},
		Avoid: []string{
			"Shoulder pads",
			"Boat necks",
			"Skinny pants without balance on top",
		},
	},
	Rectangle: {
		Description: "Straight silhouette with minimal waist definition",
		BestStyles: []string{
			"Peplum tops",
			"Belted dresses",
			"Layered clothing",
			"Ruffles and details",
			"Curved hemlines",
		},
		Avoid: []string{
			"Straight, shapeless dresses",
			"Too boxy styles",
		},
	},
	Oval: {
		Description: "Rounded middle with slimmer legs",
		BestStyles: []string{
			"Empire waist dresses",
			"V-neck tops",
			"Flowing fabrics",
			"Structured jackets",
			"Monochromatic outfits",
		},
		Avoid: []string{
			"Tight fitted clothing",
			"Horizontal stripes",
			"Clingy fabrics",
		},
	},
}

// GuidanceFor returns the advice for shape. Unknown or empty shapes get an
// empty Guidance. The returned slices are copies.
func GuidanceFor(shape Shape) Guidance {
	g, ok := guidance[shape]
	if !ok {
		return Guidance{}
	}
	return Guidance{
		Description: g.Description,
		BestStyles:  append([]string(nil), g.BestStyles...),
		Avoid:       append([]string(nil), g.Avoid...),
	}
}
