package casting

import (
	"context"
	"log/slog"

	"dubber/internal/logging"
	"dubber/internal/transcript"
)

// EmbeddingSource produces a speaker embedding for a time span of the job's
// audio. A nil vector with a nil error means no signal could be derived.
type EmbeddingSource interface {
	Embed(ctx context.Context, start, end float64) ([]float64, error)
}

// TurnOutcome records what happened to one diarized turn during voice map
// construction. Failed turns are isolated, not fatal.
type TurnOutcome struct {
	Index   int
	Speaker string
	Gender  Gender
	Skipped bool
	Err     error
}

// GenderMap assigns a classified gender to each speaker label.
type GenderMap map[string]Gender

// BuildVoiceMap walks the diarized turns in delivery order and classifies each
// distinct speaker exactly once, from its first turn. A turn that fails to
// embed or classify is logged and skipped; remaining turns still process. An
// empty turn list yields an empty map, which the caller decides how to treat.
// Cancelling ctx stops the walk; speakers classified so far are returned.
func BuildVoiceMap(ctx context.Context, turns []transcript.Turn, source EmbeddingSource, protos *Prototypes, logger *slog.Logger) (GenderMap, []TurnOutcome) {
	genders := make(GenderMap, 4)
	outcomes := make([]TurnOutcome, 0, len(turns))

	for idx, turn := range turns {
		// Stop walking turns once the job is cancelled instead of
		// recording a cancellation failure for every remaining turn.
		if ctx.Err() != nil {
			return genders, outcomes
		}
		outcome := TurnOutcome{Index: idx, Speaker: turn.Speaker}

		if _, seen := genders[turn.Speaker]; seen {
			outcome.Skipped = true
			outcome.Gender = genders[turn.Speaker]
			outcomes = append(outcomes, outcome)
			continue
		}

		embedding, err := source.Embed(ctx, turn.Start, turn.End)
		if err != nil {
			outcome.Err = err
			outcomes = append(outcomes, outcome)
			logger.Warn("turn embedding failed, skipping",
				logging.Int("turn", idx),
				logging.String("speaker", turn.Speaker),
				logging.Error(err))
			continue
		}

		gender, err := Classify(embedding, protos)
		if err != nil {
			outcome.Err = err
			outcomes = append(outcomes, outcome)
			logger.Warn("turn classification failed, skipping",
				logging.Int("turn", idx),
				logging.String("speaker", turn.Speaker),
				logging.Error(err))
			continue
		}

		genders[turn.Speaker] = gender
		outcome.Gender = gender
		outcomes = append(outcomes, outcome)
		logger.Info("speaker classified",
			logging.String("speaker", turn.Speaker),
			logging.String("gender", string(gender)))
	}

	return genders, outcomes
}
