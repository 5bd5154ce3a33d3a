package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/templui/goalnudge/internal/lexicon"
)

const (
	// FallbackMicroAction is sent when the generator is unavailable or fails.
	FallbackMicroAction = "Write down the smallest next step you can take"
	// FallbackEasierAction replaces an alternative that could not be generated.
	FallbackEasierAction = "Take one minute to picture the very first move"
	// FallbackEasiestAction is used when the current action already is
	// FallbackEasierAction.
	FallbackEasiestAction = "Write one word about what is in your way"

	maxActionWords = 10
)

const synthesizerSystemPrompt = `You are a friendly personal coach sending short chat nudges.
Reply with exactly one action of at most 10 words.
Start with an imperative verb.
No emojis, no quotes, no lists, no markdown, no decorative symbols.
Write in the same language as the objective.`

// Generator produces raw text from a language model.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, prompt string) (string, error)
}

// Synthesizer turns an objective into a short imperative micro-action.
// It never fails: generator errors and empty output fall back to fixed text.
type Synthesizer struct {
	generator Generator
	timeout   time.Duration
}

// NewSynthesizer returns a Synthesizer. A nil generator always yields the
// fallback action.
func NewSynthesizer(generator Generator, timeout time.Duration) *Synthesizer {
	return &Synthesizer{
		generator: generator,
		timeout:   timeout,
	}
}

// Synthesize proposes a micro-action for objectiveTitle. hint explains why
// the literal pending step is being replaced and may be empty.
func (s *Synthesizer) Synthesize(ctx context.Context, objectiveTitle, hint string) string {
	prompt := fmt.Sprintf("Objective: %s\nSuggest one concrete micro-action the user can do today.", objectiveTitle)
	if hint != "" {
		prompt += "\nContext: " + hint
	}

	action, ok := s.generate(ctx, prompt)
	if !ok {
		return FallbackMicroAction
	}
	return action
}

// Easier proposes a strictly easier variant of originalAction, doable in
// about a minute. The result always differs from originalAction.
func (s *Synthesizer) Easier(ctx context.Context, objectiveTitle, originalAction string) string {
	prompt := fmt.Sprintf(`Objective: %s
The user was asked to: %s
They asked for something easier.
Suggest one action that is strictly easier than that, doable in about 1 minute, and still moves toward the objective.`,
		objectiveTitle, originalAction)

	action, ok := s.generate(ctx, prompt)
	if ok && !sameAction(action, originalAction) {
		return action
	}
	if sameAction(FallbackEasierAction, originalAction) {
		return FallbackEasiestAction
	}
	return FallbackEasierAction
}

func (s *Synthesizer) generate(ctx context.Context, prompt string) (string, bool) {
	if s.generator == nil {
		return "", false
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.generator.Generate(ctx, synthesizerSystemPrompt, prompt)
	if err != nil {
		slog.Warn("synthesizer failed, using fallback", "error", err)
		return "", false
	}

	action := SanitizeAction(raw)
	if action == "" {
		slog.Warn("synthesizer returned empty action, using fallback", "raw", raw)
		return "", false
	}

	return action, true
}

var listMarker = regexp.MustCompile(`^(?:[-•]+|\d+[.)])\s*`)

// SanitizeAction keeps the first non-empty line of raw, strips list markers,
// quotes, markdown and emoji, and caps the result at 10 words.
func SanitizeAction(raw string) string {
	line := ""
	for _, l := range strings.Split(raw, "\n") {
		if t := strings.TrimSpace(l); t != "" {
			line = t
			break
		}
	}

	line = listMarker.ReplaceAllString(line, "")
	line = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		if strings.ContainsRune("'’-,.;:¿?¡!()/%", r) {
			return r
		}
		return -1
	}, line)

	fields := strings.Fields(line)
	if len(fields) > maxActionWords {
		fields = fields[:maxActionWords]
	}

	return strings.TrimRight(strings.Join(fields, " "), " ,;:.-")
}

func sameAction(a, b string) bool {
	return strings.Join(strings.Fields(lexicon.Fold(a)), " ") == strings.Join(strings.Fields(lexicon.Fold(b)), " ")
}
