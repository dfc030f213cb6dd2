// Package probe measures the playback duration of audio clips.
//
// Every Prober reports duration as file size divided by the stream byte
// rate, in seconds. When a clip cannot be opened or its header cannot be
// decoded the prober returns 0 together with an error wrapping
// ErrUnreadable; callers treat that as an unusable clip rather than a
// reason to stop.
package probe
