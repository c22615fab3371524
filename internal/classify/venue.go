package classify

// DefaultDarkPoolVenues are the FINRA off-exchange reporting codes treated
// as dark pool prints when no venue table is configured. "D" is the ADF,
// "4" the consolidated-tape TRF code.
var DefaultDarkPoolVenues = []string{"D", "4"}

// VenueClassifier tags trades as dark pool or lit by venue code. The code
// set is configuration so new reporting facilities can be added without
// touching the classification logic.
type VenueClassifier struct {
	dark map[string]struct{}
}

// NewVenueClassifier builds a classifier from the given dark-pool venue
// codes. An empty or nil list falls back to DefaultDarkPoolVenues.
func NewVenueClassifier(darkCodes []string) *VenueClassifier {
	if len(darkCodes) == 0 {
		darkCodes = DefaultDarkPoolVenues
	}
	dark := make(map[string]struct{}, len(darkCodes))
	for _, c := range darkCodes {
		dark[c] = struct{}{}
	}
	return &VenueClassifier{dark: dark}
}

// IsDarkPool reports whether the venue code represents off-exchange
// reporting. Unrecognized codes are lit.
func (v *VenueClassifier) IsDarkPool(venue string) bool {
	_, ok := v.dark[venue]
	return ok
}
