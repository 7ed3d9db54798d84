package geocode

// LookupRequest represents the query parameters from the frontend.
type LookupRequest struct {
	Address string `form:"address" binding:"required,min=3"`
}

// Result is an immutable resolution of a free-text address. Address is the
// canonical formatted address returned by the upstream service.
type Result struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

// geocodeResponse mirrors the relevant parts of the upstream payload.
type geocodeResponse struct {
	Results []geocodeResult `json:"results"`
	Status  string          `json:"status"`
}

type geocodeResult struct {
	FormattedAddress string          `json:"formatted_address"`
	Geometry         geocodeGeometry `json:"geometry"`
}

type geocodeGeometry struct {
	Location geocodeLocation `json:"location"`
}

type geocodeLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
