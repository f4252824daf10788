package types

import "sort"

// Capability identifies a rendering feature a provider may support.
// The set is closed: providers declare a subset, requests derive a
// required subset, and selection matches the two.
type Capability string

const (
	CapabilityTextToVideo      Capability = "text_to_video"
	CapabilityAnimation        Capability = "animation"
	CapabilityTransitions      Capability = "transitions"
	CapabilityAudioMixing      Capability = "audio_mixing"
	CapabilityAIGeneration     Capability = "ai_generation"
	CapabilityAvatarGeneration Capability = "avatar_generation"
	CapabilityStyleTransfer    Capability = "style_transfer"
	CapabilityRealTime         Capability = "real_time"
	CapabilityBatchProcessing  Capability = "batch_processing"
)

// AllCapabilities returns every known capability tag.
func AllCapabilities() []Capability {
	return []Capability{
		CapabilityTextToVideo,
		CapabilityAnimation,
		CapabilityTransitions,
		CapabilityAudioMixing,
		CapabilityAIGeneration,
		CapabilityAvatarGeneration,
		CapabilityStyleTransfer,
		CapabilityRealTime,
		CapabilityBatchProcessing,
	}
}

// CapabilitySet is an unordered set of capabilities.
type CapabilitySet map[Capability]struct{}

// NewCapabilitySet creates a set from the given capabilities.
func NewCapabilitySet(caps ...Capability) CapabilitySet {
	s := make(CapabilitySet, len(caps))
	for _, c := range caps {
		s[c] = struct{}{}
	}
	return s
}

// Add inserts a capability into the set.
func (s CapabilitySet) Add(c Capability) {
	s[c] = struct{}{}
}

// Contains reports whether c is in the set.
func (s CapabilitySet) Contains(c Capability) bool {
	_, ok := s[c]
	return ok
}

// ContainsAll reports whether every capability in other is also in s.
// An empty or nil other is trivially covered.
func (s CapabilitySet) ContainsAll(other CapabilitySet) bool {
	for c := range other {
		if _, ok := s[c]; !ok {
			return false
		}
	}
	return true
}

// Len returns the number of capabilities in the set.
func (s CapabilitySet) Len() int { return len(s) }

// Clone returns a shallow copy of the set.
func (s CapabilitySet) Clone() CapabilitySet {
	out := make(CapabilitySet, len(s))
	for c := range s {
		out[c] = struct{}{}
	}
	return out
}

// Slice returns the capabilities in sorted order, for stable logging
// and error messages.
func (s CapabilitySet) Slice() []Capability {
	out := make([]Capability, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Strings returns the sorted capability names as plain strings.
func (s CapabilitySet) Strings() []string {
	caps := s.Slice()
	out := make([]string, len(caps))
	for i, c := range caps {
		out[i] = string(c)
	}
	return out
}
