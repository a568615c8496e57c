// Package prompt builds the two prompt versions sent to the generative model.
// V1 is the plain baseline; V2 adds tagged sections, explicit citation
// instructions, and a mandated output shape. The output shape is a prompt
// contract only: nothing parses the model's reply back into structure.
package prompt

import (
	"fmt"
	"strings"

	"policyrag/internal/domain"
)

// BuildV1 formats the baseline prompt: raw excerpt texts, the question, and
// an instruction to use only the provided context.
func BuildV1(query string, chunks []domain.Chunk) string {
	var ctx strings.Builder
	for i, c := range chunks {
		if i > 0 {
			ctx.WriteString("\n\n")
		}
		fmt.Fprintf(&ctx, "[Excerpt %d from Page %d]:\n%s", i+1, c.PageNum, c.Text)
	}

	return fmt.Sprintf(`You are a helpful assistant answering questions about company policies.

Context from policy documents:
%s

Question: %s

Instructions:
- Answer the question using ONLY the information provided in the context above
- If the context doesn't contain the answer, say "I don't have enough information to answer this question"
- Be concise and accurate

Answer:`, ctx.String(), query)
}

// BuildV2 formats the production prompt with XML-tagged excerpts, a numbered
// instruction list, and the structured output format.
func BuildV2(query string, chunks []domain.Chunk) string {
	var ctx strings.Builder
	for i, c := range chunks {
		if i > 0 {
			ctx.WriteString("\n\n")
		}
		fmt.Fprintf(&ctx, "<excerpt id=%q page=%q>\n%s\n</excerpt>", fmt.Sprint(i+1), fmt.Sprint(c.PageNum), c.Text)
	}

	return fmt.Sprintf(`You are a precise policy assistant. Your task is to answer questions about company policies using ONLY the provided excerpts.

<policy_excerpts>
%s
</policy_excerpts>

<question>
%s
</question>

<instructions>
1. CAREFULLY read all excerpts
2. ONLY use information explicitly stated in the excerpts
3. If the answer requires information not in the excerpts, state this clearly
4. Cite the excerpt ID and page number for each piece of information
5. Use the structured format below
</instructions>

<output_format>
**Policy Answer:**
[Your answer here, with citations like (Excerpt 1, Page 5)]

**Confidence:** [High/Medium/Low]
- High: Answer fully supported by excerpts
- Medium: Partial information available
- Low: Insufficient information

**Source:** [List excerpt IDs and page numbers used]

**Note:** [Any important caveats or missing information]
</output_format>

Please answer the question now:`, ctx.String(), query)
}

// Build selects a template by version. Versions other than 1 fall through to
// the production V2 template.
func Build(version int, query string, chunks []domain.Chunk) string {
	if version == 1 {
		return BuildV1(query, chunks)
	}
	return BuildV2(query, chunks)
}
