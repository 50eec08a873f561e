package scraper

// Selectors locate listing fields inside a search-results page. Each list is
// tried in order and the first usable match wins, so markup drift upstream
// can be absorbed by prepending a new selector.
type Selectors struct {
	// Listing matches one container element per listing.
	Listing string
	Title   []string
	// Image selectors are read through ImageAttr.
	Image     []string
	ImageAttr string
	Price     []string
	// Link matches the anchor whose href carries the auction ID.
	Link string
}

// DefaultSelectors matches the current auction search-results markup.
func DefaultSelectors() Selectors {
	return Selectors{
		Listing:   ".Product",
		Title:     []string{".Product__title", "h3"},
		Image:     []string{".Product__imageData img", "img"},
		ImageAttr: "src",
		Price:     []string{".Product__priceValue", ".u-fs16"},
		Link:      "a",
	}
}

// withDefaults fills every unset field from DefaultSelectors.
func (s Selectors) withDefaults() Selectors {
	def := DefaultSelectors()
	if s.Listing == "" {
		s.Listing = def.Listing
	}
	if len(s.Title) == 0 {
		s.Title = def.Title
	}
	if len(s.Image) == 0 {
		s.Image = def.Image
	}
	if s.ImageAttr == "" {
		s.ImageAttr = def.ImageAttr
	}
	if len(s.Price) == 0 {
		s.Price = def.Price
	}
	if s.Link == "" {
		s.Link = def.Link
	}
	return s
}
