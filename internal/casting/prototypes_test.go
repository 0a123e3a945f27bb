package casting

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"dubber/internal/services"
)

func writePrototypes(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prototypes.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write prototypes: %v", err)
	}
	return path
}

func TestLoadPrototypesValid(t *testing.T) {
	path := writePrototypes(t, `{"male":[1,0,0],"female":[0,1,0]}`)
	protos, err := LoadPrototypes(path, 3)
	if err != nil {
		t.Fatalf("LoadPrototypes: %v", err)
	}
	if protos.Dim() != 3 {
		t.Fatalf("expected dim 3, got %d", protos.Dim())
	}
}

func TestLoadPrototypesRejectsDefects(t *testing.T) {
	cases := []struct {
		name      string
		content   string
		expectDim int
	}{
		{"not json", `{male: [}`, 0},
		{"missing female", `{"male":[1,0]}`, 0},
		{"dimension mismatch", `{"male":[1,0],"female":[0,1]}`, 3},
		{"lengths disagree", `{"male":[1,0,0],"female":[0,1]}`, 0},
		{"nan value", `{"male":[1,0],"female":[0,"NaN"]}`, 0},
		{"all zero", `{"male":[0,0],"female":[0,1]}`, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writePrototypes(t, tc.content)
			_, err := LoadPrototypes(path, tc.expectDim)
			if err == nil {
				t.Fatal("expected load to fail")
			}
			if !errors.Is(err, services.ErrConfiguration) {
				t.Fatalf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestLoadPrototypesMissingFile(t *testing.T) {
	_, err := LoadPrototypes(filepath.Join(t.TempDir(), "absent.json"), 0)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
