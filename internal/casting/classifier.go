package casting

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Gender is the classification result for one speaker.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// Classify decides the gender of a speaker embedding by cosine similarity to
// the prototype vectors. A nil or all-zero embedding carries no usable signal
// and yields GenderUnknown without computing similarity. A tie resolves to
// male, matching the reference behavior.
func Classify(embedding []float64, protos *Prototypes) (Gender, error) {
	if len(embedding) == 0 || isZero(embedding) {
		return GenderUnknown, nil
	}
	if len(embedding) != protos.Dim() {
		return GenderUnknown, fmt.Errorf("classify: embedding dimension %d does not match prototypes (%d)", len(embedding), protos.Dim())
	}

	normEmbedding := floats.Norm(embedding, 2)
	simFemale := floats.Dot(embedding, protos.Female) / (normEmbedding * floats.Norm(protos.Female, 2))
	simMale := floats.Dot(embedding, protos.Male) / (normEmbedding * floats.Norm(protos.Male, 2))

	if simFemale > simMale {
		return GenderFemale, nil
	}
	return GenderMale, nil
}

func isZero(vector []float64) bool {
	for _, v := range vector {
		if v != 0 {
			return false
		}
	}
	return true
}
