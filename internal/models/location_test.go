package models

import (
	"errors"
	"math"
	"testing"
)

func TestLocationDisplay(t *testing.T) {
	exact := Location{Latitude: 37.774929, Longitude: -122.419416, Privacy: PrivacyExact}
	if got := exact.Display(); got != exact {
		t.Fatalf("exact location should be unchanged, got %+v", got)
	}

	coarse := Location{Latitude: 37.774929, Longitude: -122.419416, Privacy: Privacy10km}
	got := coarse.Display()
	step := 10 / kmPerDegree
	if math.Abs(got.Latitude-coarse.Latitude) > step/2+1e-9 {
		t.Fatalf("latitude moved more than half a grid cell: %v", got.Latitude)
	}
	if r := math.Mod(math.Abs(got.Latitude), step); r > 1e-9 && step-r > 1e-9 {
		t.Fatalf("latitude not snapped to grid: %v", got.Latitude)
	}

	near := Location{Latitude: 37.775, Longitude: -122.4195, Privacy: Privacy10km}
	if near.Display() != got {
		t.Fatalf("nearby points should share a displayed cell: %+v vs %+v", near.Display(), got)
	}
}

func TestLocationValidate(t *testing.T) {
	cases := []struct {
		name string
		loc  Location
		ok   bool
	}{
		{"valid", Location{Latitude: 1, Longitude: 2, Privacy: Privacy3km}, true},
		{"emptyPrivacy", Location{Latitude: 1, Longitude: 2}, true},
		{"badLat", Location{Latitude: 91, Longitude: 2}, false},
		{"badLng", Location{Latitude: 1, Longitude: -181}, false},
		{"badTier", Location{Latitude: 1, Longitude: 2, Privacy: "1km"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.loc.Validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidLocation) {
				t.Fatalf("expected ErrInvalidLocation, got %v", err)
			}
		})
	}
}

func TestBoundingBoxContainsInclusive(t *testing.T) {
	box := BoundingBox{MinLat: 0, MaxLat: 10, MinLng: 0, MaxLng: 10}
	if err := box.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !box.Contains(5, 5) || !box.Contains(0, 10) || !box.Contains(10, 0) {
		t.Fatal("expected inclusive bounds")
	}
	if box.Contains(15, 5) {
		t.Fatal("latitude 15 must be outside")
	}

	inverted := BoundingBox{MinLat: 10, MaxLat: 0}
	if err := inverted.Validate(); !errors.Is(err, ErrInvalidLocation) {
		t.Fatalf("expected inverted box to fail, got %v", err)
	}
}

func TestModerationStatusValid(t *testing.T) {
	for _, s := range []ModerationStatus{ModerationPending, ModerationApproved, ModerationRejected, ModerationFlagged} {
		if !s.Valid() {
			t.Fatalf("%s should be valid", s)
		}
	}
	if ModerationStatus("deleted").Valid() {
		t.Fatal("unknown status should be invalid")
	}
}
