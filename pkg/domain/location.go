package domain

// Location is a resolved map position attached to a place.
type Location struct {
	Lat               float64 `json:"lat"`
	Lng               float64 `json:"lng"`
	Address           *string `json:"address"` // nil when reverse geocoding failed
	StaticMapImageURL string  `json:"staticMapImageUrl"`
}

// DisplayAddress returns the address, or the raw coordinates if none was resolved.
func (l Location) DisplayAddress() string {
	if l.Address != nil && *l.Address != "" {
		return *l.Address
	}
	return FormatCoordinates(l.Lat, l.Lng)
}

// ImageUpload is the result of storing a place image.
type ImageUpload struct {
	ImageURL  string `json:"imageUrl"`
	ImagePath string `json:"imagePath"`
}
