package models

import (
	"errors"
	"fmt"
	"math"
)

// PrivacyTier controls how precisely a location is shown to other users.
type PrivacyTier string

const (
	PrivacyExact PrivacyTier = "exact"
	Privacy3km   PrivacyTier = "3km"
	Privacy10km  PrivacyTier = "10km"
)

const kmPerDegree = 111.0

// Location is where a video was recorded.
type Location struct {
	Latitude  float64     `json:"latitude"`
	Longitude float64     `json:"longitude"`
	Name      string      `json:"name,omitempty"`
	Privacy   PrivacyTier `json:"privacy"`
}

// ErrInvalidLocation reports coordinates or privacy tiers outside the accepted range.
var ErrInvalidLocation = errors.New("invalid location")

// Validate checks coordinate ranges and the privacy tier. An empty tier is treated as exact.
func (l Location) Validate() error {
	if math.IsNaN(l.Latitude) || l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidLocation, l.Latitude)
	}
	if math.IsNaN(l.Longitude) || l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidLocation, l.Longitude)
	}
	switch l.Privacy {
	case "", PrivacyExact, Privacy3km, Privacy10km:
		return nil
	default:
		return fmt.Errorf("%w: unknown privacy tier %q", ErrInvalidLocation, l.Privacy)
	}
}

// Display returns the location as other users should see it, snapped to the
// grid implied by its privacy tier.
func (l Location) Display() Location {
	var km float64
	switch l.Privacy {
	case Privacy3km:
		km = 3
	case Privacy10km:
		km = 10
	default:
		return l
	}

	step := km / kmPerDegree
	out := l
	out.Latitude = math.Round(l.Latitude/step) * step
	out.Longitude = math.Round(l.Longitude/step) * step
	return out
}

// BoundingBox selects locations inside a latitude/longitude rectangle, bounds inclusive.
type BoundingBox struct {
	MinLat float64 `json:"minLat"`
	MaxLat float64 `json:"maxLat"`
	MinLng float64 `json:"minLng"`
	MaxLng float64 `json:"maxLng"`
}

// Validate rejects inverted or out-of-range boxes.
func (b BoundingBox) Validate() error {
	if b.MinLat > b.MaxLat || b.MinLng > b.MaxLng {
		return fmt.Errorf("%w: inverted bounding box", ErrInvalidLocation)
	}
	if b.MinLat < -90 || b.MaxLat > 90 || b.MinLng < -180 || b.MaxLng > 180 {
		return fmt.Errorf("%w: bounding box out of range", ErrInvalidLocation)
	}
	return nil
}

// Contains reports whether the point lies inside the box.
func (b BoundingBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}
