package vision

import (
	"image"
	"testing"
)

func TestIsAnimal(t *testing.T) {
	tests := []struct {
		label string
		want  bool
	}{
		{LabelCat, true},
		{LabelDog, true},
		{LabelPerson, false},
		{"chair", false},
	}

	for _, tt := range tests {
		d := Detection{Label: tt.label}
		if got := d.IsAnimal(); got != tt.want {
			t.Errorf("IsAnimal(%s) = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestFilterLabels(t *testing.T) {
	batch := []Detection{
		{Label: "chair", Confidence: 0.95},
		{Label: LabelPerson, Confidence: 0.9},
		{Label: "bicycle", Confidence: 0.85},
		{Label: LabelCat, Confidence: 0.7},
		{Label: LabelDog, Confidence: 0.6},
	}
	allowed := []string{LabelPerson, LabelCat, LabelDog}

	got := FilterLabels(batch, allowed)
	if len(got) != 3 {
		t.Fatalf("expected 3 kept detections, got %d", len(got))
	}
	// Batch order survives filtering.
	for i, want := range []string{LabelPerson, LabelCat, LabelDog} {
		if got[i].Label != want {
			t.Errorf("kept[%d] = %s, want %s", i, got[i].Label, want)
		}
	}
}

func TestFilterLabelsEmpty(t *testing.T) {
	if got := FilterLabels(nil, []string{LabelPerson}); got != nil {
		t.Errorf("nil batch should stay nil, got %v", got)
	}
	if got := FilterLabels([]Detection{{Label: "chair"}}, []string{LabelPerson}); len(got) != 0 {
		t.Errorf("nothing allowed should survive, got %v", got)
	}
}

func TestDetectionString(t *testing.T) {
	d := Detection{Label: LabelPerson, Confidence: 0.912, Box: image.Rect(10, 10, 50, 50)}
	if got := d.String(); got != "person 0.91 @ (10,10)-(50,50)" {
		t.Errorf("String() = %q", got)
	}
}
