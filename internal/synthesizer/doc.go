// Package synthesizer implements the synthesis stage: it resolves a voice for
// every transcript entry, synthesizes speech through the text-to-speech
// service, and assembles the dub track in the job workspace.
package synthesizer
