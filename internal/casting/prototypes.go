package casting

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"dubber/internal/services"
)

// Prototypes holds the fixed gender-reference embeddings the classifier
// compares speaker embeddings against. Loaded once at daemon start and never
// mutated, so it is safe to share across concurrent jobs.
type Prototypes struct {
	Male   []float64
	Female []float64
}

type prototypesFile struct {
	Male   []float64 `json:"male"`
	Female []float64 `json:"female"`
}

// LoadPrototypes reads and validates the prototype vectors. Every defect is a
// configuration error: the daemon must refuse to start rather than classify
// speakers against a broken reference.
func LoadPrototypes(path string, expectDim int) (*Prototypes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "casting", "load prototypes",
			"Prototype vectors unreadable; check casting.prototypes_path", err)
	}
	var parsed prototypesFile
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "casting", "load prototypes",
			"Prototype file is not valid JSON", err)
	}

	protos := &Prototypes{Male: parsed.Male, Female: parsed.Female}
	if err := protos.validate(expectDim); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "casting", "validate prototypes", err.Error(), nil)
	}
	return protos, nil
}

// Dim returns the prototype dimensionality.
func (p *Prototypes) Dim() int {
	return len(p.Male)
}

func (p *Prototypes) validate(expectDim int) error {
	for _, proto := range []struct {
		label  string
		vector []float64
	}{
		{"male", p.Male},
		{"female", p.Female},
	} {
		if len(proto.vector) == 0 {
			return fmt.Errorf("%s prototype is missing or empty", proto.label)
		}
		if expectDim > 0 && len(proto.vector) != expectDim {
			return fmt.Errorf("%s prototype has dimension %d, expected %d", proto.label, len(proto.vector), expectDim)
		}
		allZero := true
		for _, v := range proto.vector {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%s prototype contains a non-finite value", proto.label)
			}
			if v != 0 {
				allZero = false
			}
		}
		if allZero {
			return fmt.Errorf("%s prototype is all zeros", proto.label)
		}
	}
	if len(p.Male) != len(p.Female) {
		return fmt.Errorf("prototype dimensions disagree: male %d, female %d", len(p.Male), len(p.Female))
	}
	return nil
}
