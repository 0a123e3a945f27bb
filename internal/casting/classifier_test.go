package casting

import "testing"

func testPrototypes() *Prototypes {
	return &Prototypes{
		Male:   []float64{1, 0, 0},
		Female: []float64{0, 1, 0},
	}
}

func TestClassifyFemale(t *testing.T) {
	gender, err := Classify([]float64{0.1, 0.9, 0}, testPrototypes())
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if gender != GenderFemale {
		t.Fatalf("expected female, got %s", gender)
	}
}

func TestClassifyMale(t *testing.T) {
	gender, err := Classify([]float64{0.9, 0.1, 0}, testPrototypes())
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if gender != GenderMale {
		t.Fatalf("expected male, got %s", gender)
	}
}

func TestClassifyTieResolvesToMale(t *testing.T) {
	// Equidistant from both prototypes.
	gender, err := Classify([]float64{0.5, 0.5, 0}, testPrototypes())
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if gender != GenderMale {
		t.Fatalf("expected tie to resolve to male, got %s", gender)
	}
}

func TestClassifyMissingSignalIsUnknown(t *testing.T) {
	for _, embedding := range [][]float64{nil, {}, {0, 0, 0}} {
		gender, err := Classify(embedding, testPrototypes())
		if err != nil {
			t.Fatalf("Classify(%v): %v", embedding, err)
		}
		if gender != GenderUnknown {
			t.Fatalf("expected unknown for %v, got %s", embedding, gender)
		}
	}
}

func TestClassifyRejectsShapeMismatch(t *testing.T) {
	if _, err := Classify([]float64{1, 2}, testPrototypes()); err == nil {
		t.Fatal("expected error for dimension mismatch")
	}
}
