package script

import (
	"strings"

	"github.com/BaSui01/videoflow/types"
)

// Visual styles that imply the animation capability.
var animatedStyles = map[string]struct{}{
	"animated": {},
	"cartoon":  {},
	"motion":   {},
}

// Metadata flags that map directly onto capabilities. A truthy value
// under the key adds the capability to the required set.
var metadataCapabilities = map[string]types.Capability{
	"ai_generation":     types.CapabilityAIGeneration,
	"avatar_generation": types.CapabilityAvatarGeneration,
	"style_transfer":    types.CapabilityStyleTransfer,
	"real_time":         types.CapabilityRealTime,
}

// RequiredFeatures derives the capability set a script demands from a
// rendering provider. Every script requires text_to_video; the rest
// follow from its style tags, transition list, and metadata flags.
func (p *Parser) RequiredFeatures(s *types.Script) types.CapabilitySet {
	caps := types.NewCapabilitySet(types.CapabilityTextToVideo)
	if s == nil {
		return caps
	}
	if _, ok := animatedStyles[strings.ToLower(s.VisualStyle)]; ok {
		caps.Add(types.CapabilityAnimation)
	}
	if len(s.Transitions) > 0 {
		caps.Add(types.CapabilityTransitions)
	}
	if s.MusicStyle != "" {
		caps.Add(types.CapabilityAudioMixing)
	}
	for key, capability := range metadataCapabilities {
		if flag, ok := s.Metadata[key].(bool); ok && flag {
			caps.Add(capability)
		}
	}
	return caps
}
