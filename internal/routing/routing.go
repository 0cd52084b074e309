// Package routing decides which provider handles a given turn and derives
// the generation parameters and prompt augmentation for it. Everything here
// is pure and deterministic so it can be tested without any wiring.
package routing

import (
	"strings"

	"github.com/mayank200604/HVA/internal/provider"
)

// SystemPrompt is the fixed system message prepended to every conversation.
const SystemPrompt = `You are the HVA assistant. Your name is FURIOUS.

GLOBAL RULES (apply unless a request-specific override is provided):

1. Answer exactly what the user asks — nothing more.
2. Keep replies minimal, direct, and strictly relevant unless the user clearly requests elaboration, suggestions, conversation, or open-ended discussion.
3. When the user greets (e.g., "hi", "hello"), respond with a friendly greeting AND a short offer to help. Example: "Hi! How can I help you today?"
4. When the user asks for a "brief" answer, provide a short but meaningful 1–2 sentence summary (not a single word).
5. You may give suggestions ONLY when the user explicitly or implicitly invites them (e.g., "what do you think?", "any suggestions?", "help me", "what should I do?", general open-ended questions).
6. Do not add extra explanations, headings, disclaimers, or examples unless the user asks for them.
7. Maintain consistent capitalization and polite tone.
8. Follow strict minimal rules for all other messages. `

// CodeOverride is the request-scoped system message appended when the user's
// intent is classified as code.
const CodeOverride = "REQUEST-LEVEL OVERRIDE (code): For THIS REQUEST ONLY, output a SINGLE fenced code block " +
	"in valid Markdown. The fenced block MUST begin with ```python on its own line, followed by " +
	"the code on separate new lines, and end with ``` on its own line. Do NOT place anything " +
	"before or after the fenced block. Do NOT include inline code, comments, explanations, " +
	"blank lines outside the block, or extra text. The entire response MUST be only the fenced " +
	"code block in multi-line format."

// CreativeOverride is the request-scoped system message appended for
// non-code requests that still route to the code/creative provider.
const CreativeOverride = "REQUEST-LEVEL OVERRIDE (creative): Be helpful and expressive for this request. Use Markdown " +
	"as appropriate and provide a natural, creative response."

// Keyword lists are part of the contract: selection is a case-insensitive
// substring match and the code check runs before the image check, so a
// message matching both routes to the code provider. The heuristic is
// knowingly imprecise ("create a function" still routes to the image
// provider via "create"); do not tune the lists without changing the
// documented behavior.
var (
	codeRouteKeywords = []string{"code", "bug", "implement", "refactor", "explain code"}

	imageRouteKeywords = []string{
		"image", "generate image", "show me", "visual", "picture", "draw",
		"create", "paint", "sketch", "sunset", "landscape", "portrait",
	}

	codeIntentKeywords = []string{
		"code", "implement", "fix", "debug", "bug", "refactor", "write",
		"function", "script",
	}
)

// DefaultMaxTokens applies when the caller does not request a token budget.
const DefaultMaxTokens = 800

// codeMaxTokens caps the budget for strict code replies.
const codeMaxTokens = 1500

// creativeMaxTokens applies to creative replies when the caller did not ask
// for a budget.
const creativeMaxTokens = 1200

// SelectProvider picks the provider for a message. Earlier checks take
// precedence: code/engineering keywords first, then visual/image keywords,
// then the default text provider.
func SelectProvider(messageText string) provider.ID {
	t := strings.ToLower(messageText)
	if containsAny(t, codeRouteKeywords) {
		return provider.Gemini
	}
	if containsAny(t, imageRouteKeywords) {
		return provider.HuggingFace
	}
	return provider.Groq
}

// IsCodeIntent classifies whether a message asks for code.
func IsCodeIntent(messageText string) bool {
	return containsAny(strings.ToLower(messageText), codeIntentKeywords)
}

// DeriveParameters returns the request-scoped system-prompt override (empty
// when none applies) and the generation parameters for the given provider
// and message. Only the code/creative provider gets an override; every other
// provider runs deterministic, minimal-variance replies.
func DeriveParameters(id provider.ID, messageText string, requestedMaxTokens int) (string, provider.Params) {
	maxTokens := requestedMaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	if id == provider.Gemini {
		if IsCodeIntent(messageText) {
			return CodeOverride, provider.Params{
				MaxTokens:   min(maxTokens, codeMaxTokens),
				Temperature: 0,
				TopP:        1,
			}
		}
		if requestedMaxTokens <= 0 {
			maxTokens = creativeMaxTokens
		}
		return CreativeOverride, provider.Params{
			MaxTokens:   maxTokens,
			Temperature: 0.9,
			TopP:        0.95,
		}
	}

	return "", provider.Params{
		MaxTokens:   maxTokens,
		Temperature: 0,
		TopP:        1,
	}
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
