package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ExtractAudio extracts the primary audio stream from a source video.
// The output is a mono 16kHz WAV file suitable for diarization and embedding.
func ExtractAudio(ctx context.Context, binary, source, dest string) error {
	binary = normalizeBinary(binary)
	if strings.TrimSpace(source) == "" {
		return errors.New("ffmpeg extract: empty source path")
	}
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-map", "0:a:0",
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg extract: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return verifyOutput(dest, "ffmpeg extract")
}

// MuxDubTrack replaces the audio of a source video with the assembled dub
// track. The video stream is copied without re-encoding and the container is
// trimmed to the shorter of the two inputs.
func MuxDubTrack(ctx context.Context, binary, source, dubTrack, dest string) error {
	binary = normalizeBinary(binary)
	if strings.TrimSpace(source) == "" {
		return errors.New("ffmpeg mux: empty source path")
	}
	if strings.TrimSpace(dubTrack) == "" {
		return errors.New("ffmpeg mux: empty dub track path")
	}
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-i", dubTrack,
		"-c:v", "copy",
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-shortest",
		dest,
	}
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg mux: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return verifyOutput(dest, "ffmpeg mux")
}

// Available reports whether the ffmpeg binary can be resolved on PATH.
func Available(binary string) error {
	if _, err := exec.LookPath(normalizeBinary(binary)); err != nil {
		return fmt.Errorf("ffmpeg unavailable: %w", err)
	}
	return nil
}

func normalizeBinary(binary string) string {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return "ffmpeg"
	}
	return binary
}

// verifyOutput guards against ffmpeg exiting zero without producing a file,
// which happens when the source has no matching stream.
func verifyOutput(dest, operation string) error {
	info, err := os.Stat(dest)
	if err != nil {
		return fmt.Errorf("%s: output missing: %w", operation, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%s: output %s is empty", operation, dest)
	}
	return nil
}
