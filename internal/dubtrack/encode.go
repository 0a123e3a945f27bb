package dubtrack

import (
	"fmt"
	"io"
	"os"

	"github.com/braheezy/shine-mp3/pkg/mp3"
)

// encoderBlockFrames is the MP3 Layer III granule size shine encodes in.
const encoderBlockFrames = 1152

// encodeMP3 encodes interleaved stereo PCM as MP3 onto w. The final block is
// zero-padded because shine only consumes whole granules.
func encodeMP3(w io.Writer, sampleRate int, samples []int16) error {
	block := encoderBlockFrames * 2
	if rem := len(samples) % block; rem != 0 {
		padded := make([]int16, len(samples)+block-rem)
		copy(padded, samples)
		samples = padded
	}
	encoder := mp3.NewEncoder(sampleRate, 2)
	if err := encoder.Write(w, samples); err != nil {
		return fmt.Errorf("encode dub track: %w", err)
	}
	return nil
}

func writeMP3(path string, sampleRate int, samples []int16) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dub track: %w", err)
	}
	if err := encodeMP3(file, sampleRate, samples); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close dub track: %w", err)
	}
	return nil
}
