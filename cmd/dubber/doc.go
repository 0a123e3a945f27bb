// Command dubber is the operator CLI for the dubbing daemon: it queues
// videos, inspects and manages the job queue, and follows live progress.
package main
