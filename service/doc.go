// Package service orchestrates the generation pipeline: parse the raw
// script, validate it against the channel's policy, select a rendering
// provider, enhance the request with channel styling, dispatch
// generation, and track in-flight jobs for polling and cancellation.
//
// Every expected failure along the pipeline is returned as a FAILED
// result with a human-readable error message; callers branch on the
// result's status, never on panics or propagated errors. Only genuinely
// unexpected faults are recovered at the top of Generate, and those too
// become FAILED results so a single bad job can never take down the
// orchestrator.
package service
