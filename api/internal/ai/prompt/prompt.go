// Package prompt holds the system instructions and output schemas for every
// model operation. Schemas are shipped in two forms: draft-07 JSON text for
// engines that take response_format json_schema, and (in the gemini package)
// native genai.Schema values built to match these definitions.
package prompt

import "math-tutor/api/internal/ai/types"

const SolveSystem = `You are a patient math tutor for students.
Classify the given problem, restate it clearly, then solve it step by step.
Rules:
1) One operation or idea per step. Title the step, explain it in simple words,
   and put the math (if any) in "expression"; use null when a step is verbal.
2) Do not skip steps. A student should be able to follow with pen and paper.
3) "final_answer" is only the result (with units when relevant).
4) "summary" is a short recap of the method in two sentences or less.
5) If the input is an image, first read the problem from it; if the image is
   unreadable, classify as "other" and say so in "restated_problem".
Output strictly JSON matching the SOLVE schema. Any text outside JSON is an error.`

const ExamplesSystem = `You generate starter content for a math tutoring app.
Produce exactly 4 example problems a student could tap to try: one easy
arithmetic, one medium algebra, one medium geometry, one hard word problem.
Keep each problem under 140 characters and self-contained (no figures).
Output strictly JSON matching the EXAMPLES schema. Any text outside JSON is an error.`

const FactSystem = `You generate starter content for a math tutoring app.
Produce one surprising, kid-friendly math fact in a single sentence under
200 characters. No emoji, no preamble.
Output strictly JSON matching the FACT schema. Any text outside JSON is an error.`

const ChatSystem = `You are a friendly math tutor continuing a conversation about a
problem the student just solved with you. Answer follow-up questions briefly
and concretely, referring back to the steps already shown. Never refuse a
clarification; if the student asks an unrelated math question, answer it.
Plain text only, no markdown tables.`

// LanguageLine is appended to every system instruction so replies come back
// in the UI language.
func LanguageLine(lang types.Language) string {
	return "\nAll natural-language text in your reply must be in " + lang.Human() + "."
}

// SolveSchema is the SOLVE output contract (draft-07).
const SolveSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "SOLVE",
  "type": "object",
  "additionalProperties": false,
  "required": ["problem_type", "restated_problem", "steps", "final_answer", "summary"],
  "properties": {
    "problem_type": {
      "type": "string",
      "enum": ["arithmetic", "algebra", "geometry", "trigonometry", "calculus", "statistics", "word_problem", "other"]
    },
    "restated_problem": { "type": "string" },
    "steps": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["title", "explanation", "expression"],
        "properties": {
          "title": { "type": "string" },
          "explanation": { "type": "string" },
          "expression": { "type": ["string", "null"] }
        }
      }
    },
    "final_answer": { "type": "string" },
    "summary": { "type": "string" }
  }
}`

// ExamplesSchema is the EXAMPLES output contract (draft-07).
const ExamplesSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "EXAMPLES",
  "type": "object",
  "additionalProperties": false,
  "required": ["examples"],
  "properties": {
    "examples": {
      "type": "array",
      "minItems": 4,
      "maxItems": 4,
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["problem", "topic", "difficulty"],
        "properties": {
          "problem": { "type": "string" },
          "topic": { "type": "string" },
          "difficulty": { "type": "string", "enum": ["easy", "medium", "hard"] }
        }
      }
    }
  }
}`

// FactSchema is the FACT output contract (draft-07).
const FactSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "FACT",
  "type": "object",
  "additionalProperties": false,
  "required": ["fact"],
  "properties": {
    "fact": { "type": "string" }
  }
}`
