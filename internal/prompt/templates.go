package prompt

// TemplateID names a target-assistant wrapper applied to the text prompt.
type TemplateID string

const (
	// TemplateNone renders the prompt without an assistant wrapper.
	TemplateNone TemplateID = ""
	// TemplateClaude prefixes the prompt with a Claude-style instruction header.
	TemplateClaude TemplateID = "claude"
	// TemplateGPT prefixes the prompt with a GPT-style instruction header.
	TemplateGPT TemplateID = "gpt"
	// TemplateGemini prefixes the prompt with a Gemini-style instruction header.
	TemplateGemini TemplateID = "gemini"
)

// KnownTemplates lists every accepted template id, including the empty one.
func KnownTemplates() []TemplateID {
	return []TemplateID{TemplateNone, TemplateClaude, TemplateGPT, TemplateGemini}
}

const (
	claudeHeader = `You are an expert document analyst. Below is the structured content of a scanned form.
Read it carefully, then answer questions about the form's fields, sections, and tables.
When a field has no extracted value, treat it as blank rather than guessing.`

	gptHeader = `System: You analyze structured form documents.
User: The following is the structured content of a scanned form. Use only the
content provided; do not invent field values that are not present.`

	geminiHeader = `Task: form document analysis.
Input: the structured content of a scanned form, listed below.
Instructions: rely strictly on the listed sections, elements, and tables.`
)

// templateHeader resolves a template id to its instruction header. Unknown
// ids are a configuration error.
func templateHeader(id TemplateID) (string, error) {
	switch id {
	case TemplateNone:
		return "", nil
	case TemplateClaude:
		return claudeHeader, nil
	case TemplateGPT:
		return gptHeader, nil
	case TemplateGemini:
		return geminiHeader, nil
	default:
		return "", &SynthesisConfigurationError{Template: string(id)}
	}
}
