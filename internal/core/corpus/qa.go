package corpus

import "strings"

// LearnedCategory tags knowledge that came from supervisor answers.
const LearnedCategory = "Supervisor Answers"

// FormatQA renders a resolved escalation as a corpus fact.
func FormatQA(question, answer string) string {
	return "Q: " + strings.TrimSpace(question) + "\nA: " + strings.TrimSpace(answer)
}

// AppendBlock returns the text appended to the corpus file for a learned
// fact: the fact followed by a blank line.
func AppendBlock(question, answer string) string {
	return FormatQA(question, answer) + "\n\n"
}
