// Package muxer implements the final stage: it muxes the assembled dub track
// over the source video into the output directory and tears down the job
// workspace.
package muxer
