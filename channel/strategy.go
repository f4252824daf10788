package channel

import (
	"fmt"
	"strings"

	"github.com/BaSui01/videoflow/types"

	"go.uber.org/zap"
)

// Strategy applies one channel's policy: it validates that content fits
// the channel and injects the channel's visual/audio configuration into
// generation requests. A single Strategy implementation serves every
// channel; behavior differences live entirely in the Profile.
type Strategy struct {
	profile Profile
	logger  *zap.Logger
}

// NewStrategy creates a Strategy for the given profile. A nil logger
// falls back to zap.NewNop().
func NewStrategy(profile Profile, logger *zap.Logger) *Strategy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Strategy{
		profile: profile,
		logger:  logger.With(zap.String("channel", profile.Name)),
	}
}

// NewStrategies builds a name-keyed strategy table from profiles.
func NewStrategies(profiles []Profile, logger *zap.Logger) map[string]*Strategy {
	out := make(map[string]*Strategy, len(profiles))
	for _, p := range profiles {
		out[p.Name] = NewStrategy(p, logger)
	}
	return out
}

// Name returns the channel identity.
func (s *Strategy) Name() string { return s.profile.Name }

// Profile returns a copy of the underlying policy record.
func (s *Strategy) Profile() Profile { return s.profile }

// ValidateContent checks that a script fits the channel: the duration
// must not exceed the channel's cap, and at least one of the channel's
// content themes must appear in the topic (case-insensitive substring).
// A profile with no themes accepts any topic.
func (s *Strategy) ValidateContent(sc *types.Script) (bool, string) {
	if s.profile.MaxDurationSeconds > 0 && sc.DurationSeconds > s.profile.MaxDurationSeconds {
		return false, fmt.Sprintf("duration %ds exceeds channel %q maximum of %ds",
			sc.DurationSeconds, s.profile.Name, s.profile.MaxDurationSeconds)
	}
	if len(s.profile.ContentThemes) == 0 {
		return true, ""
	}
	topic := strings.ToLower(sc.Topic)
	for _, theme := range s.profile.ContentThemes {
		if strings.Contains(topic, strings.ToLower(theme)) {
			return true, ""
		}
	}
	return false, fmt.Sprintf("topic %q does not match channel %q themes", sc.Topic, s.profile.Name)
}

// EnhanceRequest injects the channel's configuration into a request.
// Existing visual_style/audio_style options are left untouched so
// callers can override channel defaults per request; channel_effects is
// always set. When the script's own style tags are unset they are
// backfilled from the profile, which mutates the Script in place.
func (s *Strategy) EnhanceRequest(req *types.GenerationRequest) {
	opts := req.EnsureOptions()

	if _, ok := opts["visual_style"]; !ok {
		opts["visual_style"] = s.VisualStyle()
	}
	if _, ok := opts["audio_style"]; !ok {
		opts["audio_style"] = s.AudioStyle()
	}
	opts["channel_effects"] = map[string]any{
		"particles":   s.profile.ParticleEffect,
		"transitions": s.profile.TransitionEffects,
		"overlays":    s.profile.OverlayEffects,
	}

	if req.Script != nil {
		if req.Script.VisualStyle == "" {
			req.Script.VisualStyle = s.profile.AnimationStyle
		}
		if req.Script.MusicStyle == "" {
			req.Script.MusicStyle = s.profile.MusicGenre
		}
	}

	s.logger.Debug("request enhanced", zap.String("quality", string(req.Quality)))
}

// VisualStyle returns the channel's visual configuration. It is used
// both by request enhancement and by external consumers that need style
// metadata without running generation.
func (s *Strategy) VisualStyle() map[string]any {
	return map[string]any{
		"primary_color":    s.profile.PrimaryColor,
		"secondary_color":  s.profile.SecondaryColor,
		"accent_color":     s.profile.AccentColor,
		"font_family":      s.profile.FontFamily,
		"font_weight":      s.profile.FontWeight,
		"animation_style":  s.profile.AnimationStyle,
		"transition_speed": s.profile.TransitionSpeed,
		"particle_effect":  s.profile.ParticleEffect,
		"background_style": s.profile.BackgroundStyle,
	}
}

// AudioStyle returns the channel's audio configuration.
func (s *Strategy) AudioStyle() map[string]any {
	return map[string]any{
		"music_genre":   s.profile.MusicGenre,
		"voice_tone":    s.profile.VoiceTone,
		"energy_level":  s.profile.EnergyLevel,
		"tempo_bpm":     s.profile.TempoBPM,
		"voice_speed":   s.profile.VoiceSpeed,
		"voice_pitch":   s.profile.VoicePitch,
		"audio_effects": s.profile.AudioEffects,
	}
}
