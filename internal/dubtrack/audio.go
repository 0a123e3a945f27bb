package dubtrack

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// clip holds decoded PCM for one synthesized transcript entry. Samples are
// signed 16-bit stereo, interleaved left/right.
type clip struct {
	samples    []int16
	sampleRate int
}

func (c *clip) frames() int {
	return len(c.samples) / 2
}

// decodeClip decodes an MP3 payload into interleaved stereo PCM. go-mp3
// always emits signed 16-bit little-endian stereo regardless of the source
// channel layout.
func decodeClip(data []byte) (*clip, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode mp3: %w", err)
	}
	pcm, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("read pcm: %w", err)
	}
	pcm = pcm[:len(pcm)-len(pcm)%4]
	if len(pcm) == 0 {
		return nil, errors.New("mp3 stream decoded to no samples")
	}
	samples := make([]int16, len(pcm)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(pcm[i*2:]))
	}
	return &clip{samples: samples, sampleRate: decoder.SampleRate()}, nil
}

// resampleStereo converts interleaved stereo PCM between sample rates using
// per-channel linear interpolation.
func resampleStereo(samples []int16, srcRate, dstRate int) []int16 {
	if srcRate == dstRate || len(samples) == 0 {
		return samples
	}
	frames := len(samples) / 2
	ratio := float64(srcRate) / float64(dstRate)
	outFrames := int(float64(frames) / ratio)
	out := make([]int16, outFrames*2)
	for i := 0; i < outFrames; i++ {
		pos := float64(i) * ratio
		idx := int(pos)
		frac := pos - float64(idx)
		for ch := 0; ch < 2; ch++ {
			cur := samples[idx*2+ch]
			next := cur
			if idx+1 < frames {
				next = samples[(idx+1)*2+ch]
			}
			out[i*2+ch] = int16(float64(cur)*(1-frac) + float64(next)*frac)
		}
	}
	return out
}

// concatenateClips joins clips in slice order into one stereo PCM stream. The
// first present clip fixes the track sample rate; later clips at other rates
// are resampled to match. Nil slots are skipped.
func concatenateClips(clips []*clip) ([]int16, int) {
	rate := 0
	total := 0
	for _, c := range clips {
		if c == nil {
			continue
		}
		if rate == 0 {
			rate = c.sampleRate
		}
		total += len(c.samples)
	}
	if rate == 0 {
		return nil, 0
	}
	out := make([]int16, 0, total)
	for _, c := range clips {
		if c == nil {
			continue
		}
		out = append(out, resampleStereo(c.samples, c.sampleRate, rate)...)
	}
	return out, rate
}
