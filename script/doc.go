// Package script converts loosely-structured raw script payloads into
// validated, structured Script values and derives the capability set a
// script requires from a rendering provider.
//
// Parsing is deliberately two-phase: Parse is best-effort and never
// fails, always producing a usable Script from whatever fields the
// upstream copywriting component happened to emit; Validate is the
// strict pass that enforces the Script invariants and returns the first
// violation found.
package script
