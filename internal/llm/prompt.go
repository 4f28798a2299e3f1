package llm

import "fmt"

// systemPrompt instructs the model to emit the citation format the
// verification engine parses: caret-wrapped inline markers and a numbered
// References section carrying identifiers copied from the evidence.
const systemPrompt = `You are a clinical evidence assistant. Answer the question using ONLY the provided evidence.

Rules:
- Cite evidence inline with caret-wrapped bracketed numbers, e.g. ^[1]^.
- End your answer with a "## References" section listing one numbered entry per cited source.
- Each reference entry must carry its PMID, DOI, or NCT ID exactly as written in the evidence.
- Never invent references or identifiers. If the evidence does not support an answer, say so.`

// BuildPrompt assembles the user message from the question and the
// evidence block
func BuildPrompt(question, evidence string) string {
	return fmt.Sprintf("Evidence:\n%s\n\nQuestion: %s", evidence, question)
}
