package domain

import "context"

// Geocoder resolves a free-text address to decimal-degree coordinate strings.
// It is consulted at event creation and edit time only; discovery never
// geocodes.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng string, err error)
}
