package channel

// Profile is the policy record describing one channel: visual identity,
// audio character, effect inventory, duration cap, and the content
// themes the channel accepts.
type Profile struct {
	Name string `json:"name" yaml:"name"`

	// Visual identity
	PrimaryColor    string `json:"primary_color" yaml:"primary_color"`
	SecondaryColor  string `json:"secondary_color" yaml:"secondary_color"`
	AccentColor     string `json:"accent_color" yaml:"accent_color"`
	FontFamily      string `json:"font_family" yaml:"font_family"`
	FontWeight      string `json:"font_weight" yaml:"font_weight"`
	AnimationStyle  string `json:"animation_style" yaml:"animation_style"`
	TransitionSpeed string `json:"transition_speed" yaml:"transition_speed"`
	ParticleEffect  string `json:"particle_effect" yaml:"particle_effect"`
	BackgroundStyle string `json:"background_style" yaml:"background_style"`

	// Audio character
	MusicGenre   string   `json:"music_genre" yaml:"music_genre"`
	VoiceTone    string   `json:"voice_tone" yaml:"voice_tone"`
	EnergyLevel  int      `json:"energy_level" yaml:"energy_level"` // 1-10
	TempoBPM     int      `json:"tempo_bpm" yaml:"tempo_bpm"`
	VoiceSpeed   float64  `json:"voice_speed" yaml:"voice_speed"`
	VoicePitch   float64  `json:"voice_pitch" yaml:"voice_pitch"`
	AudioEffects []string `json:"audio_effects" yaml:"audio_effects"`

	// Content policy
	MaxDurationSeconds int      `json:"max_duration_seconds" yaml:"max_duration_seconds"`
	TransitionEffects  []string `json:"transition_effects" yaml:"transition_effects"`
	OverlayEffects     []string `json:"overlay_effects" yaml:"overlay_effects"`
	ContentThemes      []string `json:"content_themes" yaml:"content_themes"`
}

// BuiltinProfiles returns the four channels the system ships with.
// The slice order is stable; callers may extend or replace it via
// configuration.
func BuiltinProfiles() []Profile {
	return []Profile{
		{
			Name:               "air",
			PrimaryColor:       "#E8F4FD",
			SecondaryColor:     "#74B9FF",
			AccentColor:        "#FFFFFF",
			FontFamily:         "Montserrat",
			FontWeight:         "light",
			AnimationStyle:     "floating",
			TransitionSpeed:    "smooth",
			ParticleEffect:     "clouds",
			BackgroundStyle:    "gradient_sky",
			MusicGenre:         "ambient_electronic",
			VoiceTone:          "breezy",
			EnergyLevel:        6,
			TempoBPM:           110,
			VoiceSpeed:         1.05,
			VoicePitch:         1.1,
			AudioEffects:       []string{"reverb", "wind_whoosh"},
			MaxDurationSeconds: 60,
			TransitionEffects:  []string{"float_in", "dissolve", "drift"},
			OverlayEffects:     []string{"light_rays", "feather_particles"},
			ContentThemes:      []string{"travel", "adventure", "freedom", "outdoor", "explore", "journey", "sky"},
		},
		{
			Name:               "water",
			PrimaryColor:       "#0B3D5C",
			SecondaryColor:     "#2E86AB",
			AccentColor:        "#A8DADC",
			FontFamily:         "Lato",
			FontWeight:         "regular",
			AnimationStyle:     "fluid",
			TransitionSpeed:    "slow",
			ParticleEffect:     "bubbles",
			BackgroundStyle:    "deep_ocean",
			MusicGenre:         "lofi_chill",
			VoiceTone:          "calm",
			EnergyLevel:        3,
			TempoBPM:           80,
			VoiceSpeed:         0.95,
			VoicePitch:         0.95,
			AudioEffects:       []string{"underwater_filter", "soft_echo"},
			MaxDurationSeconds: 90,
			TransitionEffects:  []string{"ripple", "wave_wipe", "fade"},
			OverlayEffects:     []string{"caustics", "droplets"},
			ContentThemes:      []string{"calm", "relax", "wellness", "mindful", "flow", "peace", "sleep"},
		},
		{
			Name:               "earth",
			PrimaryColor:       "#3E5622",
			SecondaryColor:     "#8B5A2B",
			AccentColor:        "#D4A373",
			FontFamily:         "Merriweather",
			FontWeight:         "medium",
			AnimationStyle:     "steady",
			TransitionSpeed:    "medium",
			ParticleEffect:     "leaves",
			BackgroundStyle:    "forest_texture",
			MusicGenre:         "acoustic_folk",
			VoiceTone:          "warm",
			EnergyLevel:        5,
			TempoBPM:           95,
			VoiceSpeed:         1.0,
			VoicePitch:         0.9,
			AudioEffects:       []string{"warm_eq", "vinyl_crackle"},
			MaxDurationSeconds: 75,
			TransitionEffects:  []string{"slide", "grow", "fade"},
			OverlayEffects:     []string{"grain", "pressed_flowers"},
			ContentThemes:      []string{"nature", "garden", "home", "food", "craft", "diy", "sustainable"},
		},
		{
			Name:               "fire",
			PrimaryColor:       "#D62828",
			SecondaryColor:     "#F77F00",
			AccentColor:        "#FCBF49",
			FontFamily:         "Bebas Neue",
			FontWeight:         "bold",
			AnimationStyle:     "punchy",
			TransitionSpeed:    "fast",
			ParticleEffect:     "sparks",
			BackgroundStyle:    "ember_glow",
			MusicGenre:         "trap_energetic",
			VoiceTone:          "intense",
			EnergyLevel:        9,
			TempoBPM:           128,
			VoiceSpeed:         1.15,
			VoicePitch:         1.0,
			AudioEffects:       []string{"bass_boost", "impact_hits"},
			MaxDurationSeconds: 45,
			TransitionEffects:  []string{"flash_cut", "zoom_punch", "shake"},
			OverlayEffects:     []string{"flames", "lens_flare"},
			ContentThemes:      []string{"fitness", "workout", "energy", "challenge", "motivation", "power", "hustle"},
		},
	}
}
