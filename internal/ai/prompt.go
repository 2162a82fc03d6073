package ai

import (
	"fmt"
	"strings"

	"github.com/figuedmundo/resumator-sub003/internal/types"
)

// BuildCustomizePrompt builds the rewrite prompt for a document and job
// description. The model is instructed to preserve factual content and
// return a strict JSON envelope.
func BuildCustomizePrompt(content, jobDescription string, opts types.CustomizeOptions) string {
	var b strings.Builder

	b.WriteString("You are an expert resume and cover letter writer.\n")
	b.WriteString("Rewrite the document below so it is tailored to the job description.\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Keep the document truthful: never invent employers, titles, dates, degrees, or skills.\n")
	b.WriteString("- Reorder and rephrase to emphasize experience relevant to the job description.\n")
	b.WriteString("- Mirror terminology from the job description where it honestly applies.\n")
	b.WriteString("- Preserve the markdown structure (headings, lists) of the original.\n")
	b.WriteString("- Keep roughly the same length as the original.\n")

	if company := strings.TrimSpace(opts.Company); company != "" {
		fmt.Fprintf(&b, "- The target company is %s; address it where natural.\n", company)
	}
	if extra := strings.TrimSpace(opts.CustomInstructions); extra != "" {
		b.WriteString("\nAdditional instructions from the user:\n")
		b.WriteString(extra)
		b.WriteString("\n")
	}

	b.WriteString("\nRespond with JSON only, matching this schema exactly:\n")
	b.WriteString("{\n")
	b.WriteString("  \"customized_markdown\": \"the full rewritten document as markdown\",\n")
	b.WriteString("  \"summary\": \"one or two sentences describing what was changed\"\n")
	b.WriteString("}\n")

	b.WriteString("\n--- DOCUMENT ---\n")
	b.WriteString(content)
	b.WriteString("\n--- JOB DESCRIPTION ---\n")
	b.WriteString(jobDescription)
	b.WriteString("\n")

	return b.String()
}
