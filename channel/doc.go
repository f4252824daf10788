// Package channel implements per-channel stylistic policy. A channel is
// a content persona with its own palette, typography, audio character,
// and content themes.
//
// Channels are data, not code: each one is described by a Profile
// record, and a single generic Strategy interprets whichever profile it
// was given. Adding a channel means adding a profile (in code or in the
// YAML config), never subclassing.
package channel
