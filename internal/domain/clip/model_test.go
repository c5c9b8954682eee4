package clip

import (
	"math"
	"testing"
)

func TestClipValidate(t *testing.T) {
	valid := Clip{ID: "clip-1", StartTime: 10, EndTime: 20}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid clip rejected: %v", err)
	}

	inverted := Clip{ID: "clip-2", StartTime: 20, EndTime: 10}
	if err := inverted.Validate(); err == nil {
		t.Fatalf("inverted range must be rejected")
	}

	empty := Clip{ID: "clip-3", StartTime: 10, EndTime: 10}
	if err := empty.Validate(); err == nil {
		t.Fatalf("zero-length range must be rejected")
	}

	nan := Clip{ID: "clip-4", StartTime: math.NaN(), EndTime: 10}
	if err := nan.Validate(); err == nil {
		t.Fatalf("NaN start must be rejected")
	}
}

func TestClipCovers(t *testing.T) {
	c := Clip{StartTime: 40, EndTime: 60}

	if !c.Covers(50, 0) {
		t.Fatalf("timestamp inside range must be covered")
	}
	if !c.Covers(63, 5) {
		t.Fatalf("timestamp within tolerance past the end must be covered")
	}
	if !c.Covers(36, 5) {
		t.Fatalf("timestamp within tolerance before the start must be covered")
	}
	if c.Covers(66, 5) {
		t.Fatalf("timestamp beyond tolerance must not be covered")
	}
}
