package orders

// Gig pricing catalog. Unmatched gig types deliberately fall back to
// the "standard" entry; Lookup reports whether the match was exact so
// callers can log fallback pricing instead of applying it silently.
const fallbackGigType = "standard"

var gigCatalog = map[string]float64{
	"standard":    25.00,
	"competitor":  50.00,
	"security":    75.00,
	"full_market": 100.00,
}

// Lookup resolves the price for a gig type. The second return value is
// false when the type was unmatched and the standard price applied.
func Lookup(gigType string) (float64, bool) {
	if price, ok := gigCatalog[gigType]; ok {
		return price, true
	}
	return gigCatalog[fallbackGigType], false
}

// GigTypes returns the known catalog entries.
func GigTypes() []string {
	out := make([]string, 0, len(gigCatalog))
	for k := range gigCatalog {
		out = append(out, k)
	}
	return out
}
