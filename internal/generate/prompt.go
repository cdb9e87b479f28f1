package generate

import "strings"

const generationPrompt = `You must respond with ONLY a JSON object. No explanation, no markdown code blocks, just raw JSON.

Generate tests for this skill. Output format:
{"skill_name":"<name>","tests":[{"name":"<skill>-<topic>","test_type":"knowledge"|"task","concepts":["..."],"timeout":120|180,"prompt":"...","expected_items":["..."]}]}

Rules:
- 2-4 tests, at least 1 knowledge + 1 task
- Extract concepts from Key Concepts Index or section headers
- timeout: 120 (knowledge), 180 (task)
- 4-8 expected_items per test

Skill content:
{skill_content}

JSON:`

// BuildPrompt embeds the collected skill content in the generation prompt.
func BuildPrompt(skillContent string) string {
	return strings.Replace(generationPrompt, "{skill_content}", skillContent, 1)
}
