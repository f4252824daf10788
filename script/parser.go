package script

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/BaSui01/videoflow/types"

	"go.uber.org/zap"
)

// Fallback copy used when the raw payload carries no usable hook or
// call to action.
const (
	DefaultHook = "Check this out!"
	DefaultCTA  = "Follow for more!"
)

// DefaultTransitions is applied when the payload specifies none.
var DefaultTransitions = []string{"fade", "slide"}

var (
	numberedPointRe = regexp.MustCompile(`(?m)^\s*\d+[.)]\s*(.+)$`)
	bulletPointRe   = regexp.MustCompile(`(?m)^\s*[-*•]\s*(.+)$`)
	sentenceEndRe   = regexp.MustCompile(`[.!?]+`)
	durationStrRe   = regexp.MustCompile(`^\s*(?:(\d+)m)?\s*(?:(\d+)s?)?\s*$`)
)

// Parser turns raw script payloads into Script values.
type Parser struct {
	logger *zap.Logger
}

// NewParser creates a Parser. A nil logger falls back to zap.NewNop().
func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{logger: logger}
}

// Parse extracts a Script from a loosely-typed payload. It never fails:
// missing or malformed fields fall back to derived or generic values,
// and correctness is enforced separately by Validate.
func (p *Parser) Parse(raw map[string]any) *types.Script {
	if raw == nil {
		raw = map[string]any{}
	}

	s := &types.Script{
		Channel:     asString(raw["channel"]),
		Topic:       asString(raw["topic"]),
		VisualStyle: asString(raw["visual_style"]),
		MusicStyle:  asString(raw["music_style"]),
	}

	content, _ := raw["content"].(map[string]any)

	s.Hook = p.extractHook(raw, content)
	s.MainPoints = p.extractMainPoints(raw, content)
	s.CallToAction = p.extractCallToAction(raw, content)
	s.DurationSeconds = p.extractDuration(raw, len(s.MainPoints))

	if transitions := asStringSlice(raw["transitions"]); len(transitions) > 0 {
		s.Transitions = transitions
	} else {
		s.Transitions = append([]string(nil), DefaultTransitions...)
	}

	s.Metadata = p.extractMetadata(raw)

	s.RequiredCapabilities = p.RequiredFeatures(s)

	p.logger.Debug("script parsed",
		zap.String("channel", s.Channel),
		zap.String("topic", s.Topic),
		zap.Int("main_points", len(s.MainPoints)),
		zap.Int("duration_seconds", s.DurationSeconds))

	return s
}

// extractHook resolves the hook text: explicit field, then nested
// content.hook, then the first sentence of a content/intro body, then
// the generic fallback.
func (p *Parser) extractHook(raw, content map[string]any) string {
	if hook := strings.TrimSpace(asString(raw["hook"])); hook != "" {
		return hook
	}
	if content != nil {
		if hook := strings.TrimSpace(asString(content["hook"])); hook != "" {
			return hook
		}
	}
	for _, key := range []string{"content", "intro"} {
		if body := strings.TrimSpace(asString(raw[key])); body != "" {
			if sentence := firstSentence(body); sentence != "" {
				return sentence
			}
		}
	}
	return DefaultHook
}

// extractMainPoints resolves the main points: an explicit list wins,
// then nested content.points, then a body/content field split on
// numbering, bullets, newlines, or sentence boundaries, in that order.
// The result is always capped at MaxMainPoints.
func (p *Parser) extractMainPoints(raw, content map[string]any) []string {
	if points := asStringSlice(raw["main_points"]); len(points) > 0 {
		return capPoints(points)
	}
	if content != nil {
		if points := asStringSlice(content["points"]); len(points) > 0 {
			return capPoints(points)
		}
	}
	for _, key := range []string{"body", "content"} {
		if body := strings.TrimSpace(asString(raw[key])); body != "" {
			if points := splitBody(body); len(points) > 0 {
				return capPoints(points)
			}
		}
	}
	return nil
}

// extractCallToAction resolves the CTA: explicit call_to_action or cta,
// then conclusion/outro fields, then the generic fallback.
func (p *Parser) extractCallToAction(raw, content map[string]any) string {
	for _, key := range []string{"call_to_action", "cta", "conclusion", "outro"} {
		if cta := strings.TrimSpace(asString(raw[key])); cta != "" {
			return cta
		}
	}
	if content != nil {
		if cta := strings.TrimSpace(asString(content["cta"])); cta != "" {
			return cta
		}
	}
	return DefaultCTA
}

// extractDuration resolves the target duration: an explicit numeric
// value, a "<minutes>m<seconds>s" string, or an estimate of
// 4 + 7*points + 4 seconds clamped to [15, 60].
func (p *Parser) extractDuration(raw map[string]any, pointCount int) int {
	if v, ok := raw["duration"]; ok {
		switch d := v.(type) {
		case int:
			return d
		case int64:
			return int(d)
		case float64:
			return int(d)
		case string:
			if seconds, ok := parseDurationString(d); ok {
				return seconds
			}
			p.logger.Debug("unparseable duration string, estimating", zap.String("duration", d))
		}
	}
	return EstimateDuration(pointCount)
}

// EstimateDuration estimates a duration for a script with n main
// points: 4s hook + 7s per point + 4s call to action, clamped to the
// [15, 60] second window short-form platforms expect.
func EstimateDuration(pointCount int) int {
	estimate := 4 + 7*pointCount + 4
	if estimate < types.MinEstimatedSeconds {
		return types.MinEstimatedSeconds
	}
	if estimate > types.MaxEstimatedSeconds {
		return types.MaxEstimatedSeconds
	}
	return estimate
}

// extractMetadata builds the script metadata map. It always records the
// parser provenance tag and passes through a fixed set of optional
// upstream hints.
func (p *Parser) extractMetadata(raw map[string]any) map[string]any {
	meta := map[string]any{"parsed_by": "videoflow.Parser"}
	if src, ok := raw["metadata"].(map[string]any); ok {
		for k, v := range src {
			meta[k] = v
		}
	}
	for _, key := range []string{"hashtags", "target_audience", "mood", "style", "language"} {
		if v, ok := raw[key]; ok {
			meta[key] = v
		}
	}
	return meta
}

// firstSentence returns the text up to and including the first sentence
// terminator, trimmed, or the whole text when no terminator exists.
func firstSentence(text string) string {
	if loc := sentenceEndRe.FindStringIndex(text); loc != nil {
		return strings.TrimSpace(text[:loc[1]])
	}
	return strings.TrimSpace(text)
}

// splitBody breaks free-form body text into points. Numbered lists take
// priority over bullet lists, then plain newlines, then sentences.
func splitBody(body string) []string {
	if matches := numberedPointRe.FindAllStringSubmatch(body, -1); len(matches) > 0 {
		return collectMatches(matches)
	}
	if matches := bulletPointRe.FindAllStringSubmatch(body, -1); len(matches) > 0 {
		return collectMatches(matches)
	}
	if strings.Contains(body, "\n") {
		return splitClean(body, "\n")
	}
	var points []string
	for _, sentence := range sentenceEndRe.Split(body, -1) {
		if s := strings.TrimSpace(sentence); s != "" {
			points = append(points, s)
		}
	}
	return points
}

func collectMatches(matches [][]string) []string {
	points := make([]string, 0, len(matches))
	for _, m := range matches {
		if s := strings.TrimSpace(m[1]); s != "" {
			points = append(points, s)
		}
	}
	return points
}

func splitClean(text, sep string) []string {
	var out []string
	for _, part := range strings.Split(text, sep) {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func capPoints(points []string) []string {
	if len(points) > types.MaxMainPoints {
		return points[:types.MaxMainPoints]
	}
	return points
}

// parseDurationString parses "<minutes>m<seconds>s" forms like "1m30s",
// "45s", "2m", or a bare number of seconds.
func parseDurationString(s string) (int, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	m := durationStrRe.FindStringSubmatch(s)
	if m == nil || (m[1] == "" && m[2] == "") {
		return 0, false
	}
	minutes, _ := strconv.Atoi(m[1])
	seconds, _ := strconv.Atoi(m[2])
	return minutes*60 + seconds, true
}

// asString coerces a loosely-typed value into a string. Numbers are
// formatted; everything else collapses to the empty string.
func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	case int:
		return strconv.Itoa(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return ""
}

// asStringSlice coerces a value into a string slice. Lists of any
// element type are stringified; a delimited string is split on
// newlines, semicolons, or pipes.
func asStringSlice(v any) []string {
	switch list := v.(type) {
	case []string:
		var out []string
		for _, item := range list {
			if s := strings.TrimSpace(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []any:
		var out []string
		for _, item := range list {
			if s := strings.TrimSpace(asString(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		for _, sep := range []string{"\n", ";", "|"} {
			if strings.Contains(list, sep) {
				return splitClean(list, sep)
			}
		}
		if s := strings.TrimSpace(list); s != "" {
			return []string{s}
		}
	}
	return nil
}
