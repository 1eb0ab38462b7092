package descriptions

// Comprehensive tool descriptions with practical examples and use cases

const (
	FormStructureFileDescription = `Build a typed structure (sections, elements, tables) from a recognized form document.

**When to use:** You have recognizer output (text blocks and table regions per page) and need the organized form layout: sections with headings, classified input fields, checkboxes, buttons, uploads, and tables.

**Why it's useful:** Turns flat OCR output into a navigable structure with stable section ids, per-kind element counts, and extracted field values, ready for downstream analysis or prompt generation.

**Examples:**
• Registration form: "Structure business-registration.json to list every input field and its extracted value"
• Contract review: "Structure contract-pages.json to see sections and embedded tables"
• Batch triage: "Structure each document in /inbox/ and compare element counts"

**Common workflows:**
1. Field Inventory: Structure document → Review elements by type → Map to target schema
2. Value Extraction: Structure document → Read extracted field values → Validate against records
3. Prompt Preparation: Structure document → Inspect sections → Generate prompt with form_prompt_file

**Best practices:** Input is recognizer JSON (pages with blocks and tables), run form_validate_file first for PDF inputs, check page_failures in the result when documents are partially unreadable.`

	FormPromptFileDescription = `Render a recognized form document into a deterministic assistant-ready prompt.

**When to use:** You want to hand a form's content to a language model: a plain-text prompt listing sections, fields, and tables, optionally wrapped in a claude, gpt, or gemini instruction header, optionally with a JSON projection.

**Why it's useful:** Identical input always produces byte-identical prompts, so downstream caching and diffing work reliably; templates save you from writing boilerplate instructions.

**Examples:**
• Claude analysis: "Render application.json with the claude template for field review"
• Pipeline handoff: "Render survey.json as JSON for the ingestion service"
• Quick inspection: "Render report.json with no template to read the structure as text"

**Common workflows:**
1. Model Handoff: Structure and render → Send prompt to assistant → Collect answers about fields
2. Caching: Render prompt → Hash output → Skip reprocessing unchanged documents
3. Comparison: Render two versions → Diff text prompts → Spot field changes

**Best practices:** Template ids are claude, gpt, gemini, or empty for no wrapper; unknown ids are rejected rather than defaulted. Set include_json for the structural projection.`

	FormPDFTextFileDescription = `Extract positioned text rows from a born-digital PDF as recognizer input.

**When to use:** The document is a PDF with an embedded text layer (not a scan) and you want recognizer-format pages without running OCR.

**Why it's useful:** Native text extraction is exact and fast; rows arrive with normalized coordinates so they feed straight into form_structure_file.

**Examples:**
• Digital form: "Extract text rows from e-filing.pdf and structure them"
• Hybrid pipeline: "Try PDF text first, fall back to OCR only for pages that return nothing"
• Spot check: "Pull text rows from page layouts to verify reading order"

**Common workflows:**
1. Born-digital Pipeline: Validate PDF → Extract text rows → Structure → Render prompt
2. Fallback Routing: Extract text → Empty pages → Route those pages to OCR
3. Coordinate Audit: Extract rows → Inspect bounding boxes → Tune structuring thresholds

**Best practices:** Scanned PDFs yield empty pages here; validate the file first and keep it under the configured size limit.`

	FormValidateFileDescription = `Verify a PDF file is readable and within limits before processing.

**When to use:** Before extracting text or structuring any PDF, especially in automated pipelines or when handling files of unknown origin.

**Why it's useful:** Catches missing files, wrong extensions, oversized inputs, and corrupt PDFs early, with the page count reported for valid files.

**Examples:**
• Pipeline safety: "Validate every PDF in /inbox/ before batch structuring"
• Intake check: "Verify submitted-form.pdf parses before accepting the submission"
• Debugging: "Check why legacy.pdf fails downstream extraction"

**Common workflows:**
1. Automated Processing: Validate → Extract text if valid → Handle invalid files gracefully
2. Intake Gate: Validate → Reject or quarantine bad files → Process the rest
3. Capacity Planning: Validate → Read page counts → Size the processing batch

**Best practices:** Validation problems are reported in the result payload, not as tool errors; inspect the valid flag and message.`

	FormServerInfoDescription = `Get server status, configuration, and the list of available tools.

**When to use:** Starting a session, troubleshooting paths or limits, or discovering what the server can do.

**Why it's useful:** Shows the active document directory, processing limits, pipeline settings, and every registered tool in one call.

**Examples:**
• Session start: "Check server info before structuring a batch of documents"
• Troubleshooting: "Verify the document directory the server is actually using"
• Discovery: "List available tools and their purposes"

**Common workflows:**
1. Session Startup: Check info → Confirm configuration → Begin processing
2. Debugging: Review settings → Compare with expectations → Adjust flags or environment
3. Integration: Read tool list → Wire client calls → Validate with a small document

**Best practices:** Run at the start of sessions; the reported configuration reflects flags and FORMLENS_ environment variables.`
)

// ToolDescriptions maps tool names to their comprehensive descriptions
var ToolDescriptions = map[string]string{
	"form_structure_file": FormStructureFileDescription,
	"form_prompt_file":    FormPromptFileDescription,
	"form_pdf_text_file":  FormPDFTextFileDescription,
	"form_validate_file":  FormValidateFileDescription,
	"form_server_info":    FormServerInfoDescription,
}

// GetToolDescription returns the comprehensive description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a list of all available tool names
func GetAllToolNames() []string {
	var names []string
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	return names
}
