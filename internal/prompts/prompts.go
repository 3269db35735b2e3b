// Package prompts holds the fixed instruction strings sent to the
// generation service. All category prompts demand strict JSON array
// output so responses can be machine-parsed.
package prompts

import "github.com/youngthe/gemini-demo/internal/domain"

// EmptyArraySentinel is returned for unrecognized categories so the
// caller parses an empty result instead of failing.
const EmptyArraySentinel = "[]"

// rules is appended to every category prompt.
const rules = `
Rules:
- Output a JSON array only.
- Each element has the form { "title": string, "content": string }.
- Never output explanations, markdown, or code fences; nothing but JSON.`

const luckPrompt = `You are a generator that outputs JSON only.
Produce today's horoscope for each of the 12 zodiac signs, one element per sign,
with the sign name as title and a two-sentence fortune as content.` + rules

const jokesPrompt = `You are a generator that outputs JSON only.
Produce 5 short, family-friendly jokes. Use a short setup as title and the
punchline as content.` + rules

const stocksPrompt = `You are a generator that outputs JSON only.
Produce 5 plausible stock-market briefing entries for today, each with the
market or sector as title and a two-sentence summary as content.` + rules

const newsPrompt = `You are a generator that outputs JSON only.
Produce 5 plausible general-interest news headlines for today, each with the
headline as title and a two-sentence summary as content.` + rules

const motorPrompt = `You are a generator that outputs JSON only.
Analyze the incoming value="" text and decide what angle the motor should move to.
Rules:
- Output a JSON array only.
- Each element has the form { "title": string, "angle": int }.
- Never output explanations, markdown, or code fences; nothing but JSON.`

// ForCategory maps a category to its fixed generation instruction.
// Unrecognized categories get the empty-array sentinel.
func ForCategory(category domain.Category) string {
	switch category {
	case domain.CategoryLuck:
		return luckPrompt
	case domain.CategoryJokes:
		return jokesPrompt
	case domain.CategoryStocks:
		return stocksPrompt
	case domain.CategoryNews:
		return newsPrompt
	case domain.CategoryMotor:
		return motorPrompt
	default:
		return EmptyArraySentinel
	}
}

// MotorUtterance wraps a transcribed voice command into the motor
// interpreter instruction.
func MotorUtterance(message string) string {
	return `You are a "motor command interpreter" that outputs only a JSON array.
The value="<message>" string below is speech transcribed to text. Analyze it and
compute the angle, in degrees, the motor must move to.

Rules:
- Output must be a JSON array and nothing else.
- Every element must have the form { "title": string, "angle": int }.
- If the text contains an explicit degree or rotation instruction, use that number.
- If no explicit number is present, infer the angle from known command rules.
- angle is mandatory and must be an integer.
- Never output code fences, explanations, or any non-JSON text.
value="` + message + `"`
}

// ChatSuffix is appended to every chat passthrough message.
const ChatSuffix = "\n\nAnswer briefly and in plain text."
