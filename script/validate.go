package script

import (
	"fmt"
	"unicode/utf8"

	"github.com/BaSui01/videoflow/types"
)

// Validate enforces the Script invariants. It returns false plus the
// first violation found; violations are not accumulated.
func (p *Parser) Validate(s *types.Script) (bool, string) {
	if s == nil {
		return false, "script is nil"
	}
	if s.Topic == "" {
		return false, "topic is empty"
	}
	if s.Hook == "" {
		return false, "hook is empty"
	}
	if len(s.MainPoints) == 0 {
		return false, "main points are empty"
	}
	if s.CallToAction == "" {
		return false, "call to action is empty"
	}
	if s.DurationSeconds <= 0 {
		return false, fmt.Sprintf("duration must be positive, got %d", s.DurationSeconds)
	}
	if s.DurationSeconds > types.MaxDurationSeconds {
		return false, fmt.Sprintf("duration %ds exceeds maximum %ds", s.DurationSeconds, types.MaxDurationSeconds)
	}
	// Length limits are in characters, not bytes, so multibyte text is
	// measured in runes.
	if utf8.RuneCountInString(s.Hook) > types.MaxHookLength {
		return false, fmt.Sprintf("hook exceeds %d characters", types.MaxHookLength)
	}
	if utf8.RuneCountInString(s.CallToAction) > types.MaxCTALength {
		return false, fmt.Sprintf("call to action exceeds %d characters", types.MaxCTALength)
	}
	for i, point := range s.MainPoints {
		if utf8.RuneCountInString(point) > types.MaxMainPointLength {
			return false, fmt.Sprintf("main point %d exceeds %d characters", i+1, types.MaxMainPointLength)
		}
	}
	return true, ""
}
