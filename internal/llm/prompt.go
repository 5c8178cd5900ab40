package llm

import "strings"

// BuildSystemPrompt composes the fixed extraction instructions: BCLC
// normalization, no hallucination, strict JSON output.
func BuildSystemPrompt() string {
	parts := []string{
		"You are a senior clinical data extraction agent specialized in hepatocellular carcinoma (HCC), clinical trials, and evidence-based oncology frameworks.",
		"Analyze the FULL TEXT of the scientific article provided by the user and extract structured experimental and clinical data focused on treatment efficacy, safety, and outcomes.",
		"You MUST normalize all extracted information using the BCLC (Barcelona Clinic Liver Cancer) framework.",
		"Return ONLY a valid, machine-parseable JSON object that strictly adheres to the JSON Schema provided. No explanatory text or markdown before or after the JSON.",
		"If information is missing or not explicitly stated, OMIT the field entirely. Never output null and never infer values unsupported by the text.",
		"Preserve numeric values and units exactly as reported in the text.",
		"Classify the overall evidence level from the study design: randomized controlled trials, phase III trials, meta-analyses and systematic reviews are 'high'; controlled trials and phase II are 'moderate'; everything else is 'low'.",
		"Create one object in the 'experiments' list for each distinct treatment arm or experimental group described in the study.",
		"Optionally include a top-level '_evidence' array; each entry is {\"field_path\", \"section\", \"page\", \"table_figure\", \"excerpt\", \"locator\"} pointing at where a field's value appears in the article. Use dotted field paths with zero-based experiment indexes, e.g. \"experiments[0].results.os.value\".",
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt packages the schema descriptor and the article text.
// maxChars caps the article portion; 0 means no truncation.
func BuildUserPrompt(schemaJSON []byte, articleText string, maxChars int) string {
	var b strings.Builder
	b.WriteString("OUTPUT JSON SCHEMA:\n")
	b.Write(schemaJSON)
	b.WriteString("\n\nBEGIN ARTICLE TEXT\n")
	if maxChars > 0 && len(articleText) > maxChars {
		b.WriteString(articleText[:maxChars])
		b.WriteString("\n…(truncated)")
	} else {
		b.WriteString(articleText)
	}
	return b.String()
}
