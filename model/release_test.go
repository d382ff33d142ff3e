package model

import "testing"

func TestReleaseTypeValid(t *testing.T) {
	for _, rt := range []ReleaseType{ReleaseTypeSingle, ReleaseTypeMaxiSingle, ReleaseTypeEP, ReleaseTypeAlbum} {
		if !rt.Valid() {
			t.Errorf("%s reported invalid", rt)
		}
	}
	for _, rt := range []ReleaseType{"", "mixtape", "SINGLE"} {
		if rt.Valid() {
			t.Errorf("%q reported valid", rt)
		}
	}
}

func TestReleaseTypeTrackBounds(t *testing.T) {
	tests := []struct {
		rt       ReleaseType
		min, max int
	}{
		{ReleaseTypeSingle, 1, 1},
		{ReleaseTypeMaxiSingle, 3, 3},
		{ReleaseTypeEP, 4, 6},
		{ReleaseTypeAlbum, 7, 0},
	}
	for _, tt := range tests {
		min, max := tt.rt.TrackBounds()
		if min != tt.min || max != tt.max {
			t.Errorf("%s bounds = (%d, %d), want (%d, %d)", tt.rt, min, max, tt.min, tt.max)
		}
	}
}

func TestAllowsTrackCount(t *testing.T) {
	tests := []struct {
		rt    ReleaseType
		count int
		ok    bool
	}{
		{ReleaseTypeSingle, 0, false},
		{ReleaseTypeSingle, 1, true},
		{ReleaseTypeSingle, 2, false},
		{ReleaseTypeMaxiSingle, 3, true},
		{ReleaseTypeEP, 4, true},
		{ReleaseTypeEP, 6, true},
		{ReleaseTypeEP, 7, false},
		{ReleaseTypeAlbum, 7, true},
		{ReleaseTypeAlbum, 100, true},
		{ReleaseType("mixtape"), 5, false},
	}
	for _, tt := range tests {
		if got := tt.rt.AllowsTrackCount(tt.count); got != tt.ok {
			t.Errorf("%s.AllowsTrackCount(%d) = %v, want %v", tt.rt, tt.count, got, tt.ok)
		}
	}
}
