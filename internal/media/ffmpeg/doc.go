// Package ffmpeg wraps the ffmpeg binary for the two container operations the
// pipeline needs: pulling the source audio out for analysis and muxing the
// assembled dub track back under the original video.
package ffmpeg
