package dubtrack

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"dubber/internal/logging"
	"dubber/internal/transcript"
)

// Synthesizer turns a transcript line into encoded speech audio for a voice.
type Synthesizer interface {
	Synthesize(ctx context.Context, voiceID, text string) ([]byte, error)
}

// VoiceResolver maps a target language and gender label to a voice ID.
type VoiceResolver interface {
	Resolve(language, gender string) string
}

// defaultGender is used for speakers the voice map has no entry for.
const defaultGender = "female"

// Assembler synthesizes transcript entries concurrently and joins the results
// into one dub track.
type Assembler struct {
	synth   Synthesizer
	voices  VoiceResolver
	workers int
	logger  *slog.Logger
}

// NewAssembler wires an assembler. Worker counts below one are clamped to
// serial synthesis.
func NewAssembler(synth Synthesizer, voices VoiceResolver, workers int, logger *slog.Logger) *Assembler {
	if workers < 1 {
		workers = 1
	}
	return &Assembler{
		synth:   synth,
		voices:  voices,
		workers: workers,
		logger:  logging.NewComponentLogger(logger, "dubtrack"),
	}
}

// Result summarises one assembly run.
type Result struct {
	SynthesizedCount int
	SkippedCount     int
}

// Assemble synthesizes every non-blank transcript entry and writes the
// concatenated audio to outputPath. Individual entry failures are logged and
// skipped; the run only fails when no entry produces audio. Clips are
// index-addressed so concatenation always follows transcript order no matter
// which worker finishes first.
func (a *Assembler) Assemble(ctx context.Context, entries []transcript.Entry, voiceMap transcript.VoiceMap, language, outputPath string) (Result, error) {
	clips := make([]*clip, len(entries))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < a.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				clips[index] = a.synthesizeEntry(ctx, index, entries[index], voiceMap, language)
			}
		}()
	}
	for i := range entries {
		if strings.TrimSpace(entries[i].Text) == "" {
			a.logger.Warn("skipping blank transcript entry",
				logging.Args(logging.Int("entry", i), logging.String("speaker", entries[i].Speaker))...)
			continue
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	result := Result{}
	for i := range entries {
		switch {
		case strings.TrimSpace(entries[i].Text) == "":
			result.SkippedCount++
		case clips[i] == nil:
			result.SkippedCount++
		default:
			result.SynthesizedCount++
		}
	}
	if result.SynthesizedCount == 0 {
		return result, errors.New("no transcript entries produced audio")
	}

	samples, rate := concatenateClips(clips)
	if err := writeMP3(outputPath, rate, samples); err != nil {
		return result, err
	}
	a.logger.Info("dub track assembled",
		logging.Args(
			logging.String("output", outputPath),
			logging.Int("synthesized", result.SynthesizedCount),
			logging.Int("skipped", result.SkippedCount),
			logging.Int("sample_rate", rate))...)
	return result, nil
}

func (a *Assembler) synthesizeEntry(ctx context.Context, index int, entry transcript.Entry, voiceMap transcript.VoiceMap, language string) *clip {
	gender := strings.TrimSpace(voiceMap[entry.Speaker])
	if gender == "" {
		gender = defaultGender
	}
	voiceID := a.voices.Resolve(language, gender)
	audio, err := a.synth.Synthesize(ctx, voiceID, entry.Text)
	if err != nil {
		a.logger.Warn("synthesis failed for transcript entry",
			logging.Args(
				logging.Int("entry", index),
				logging.String("speaker", entry.Speaker),
				logging.String("voice_id", voiceID),
				logging.Error(err))...)
		return nil
	}
	decoded, err := decodeClip(audio)
	if err != nil {
		a.logger.Warn("synthesized audio unusable",
			logging.Args(
				logging.Int("entry", index),
				logging.String("speaker", entry.Speaker),
				logging.Error(err))...)
		return nil
	}
	return decoded
}
