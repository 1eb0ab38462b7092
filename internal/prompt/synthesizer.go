// Package prompt renders an assembled FormStructure into assistant-directed
// text and JSON prompts. Rendering is pure and deterministic: the same
// structure and options always yield byte-identical output.
package prompt

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/formlens/formlens/internal/form"
)

// Options select the target-assistant template and whether a JSON
// projection is rendered alongside the text prompt.
type Options struct {
	Template    TemplateID
	IncludeJSON bool
}

// Renderings holds the prompt outputs for one document.
type Renderings struct {
	Template   TemplateID `json:"template_id,omitempty"`
	TextPrompt string     `json:"text_prompt"`
	JSONPrompt string     `json:"json_prompt,omitempty"`
}

// SynthesisConfigurationError reports an unknown template identifier. It is
// always surfaced to the caller, never silently defaulted.
type SynthesisConfigurationError struct {
	Template string
}

func (e *SynthesisConfigurationError) Error() string {
	return fmt.Sprintf("unknown prompt template %q", e.Template)
}

// Synthesize renders the structure with the requested options.
func Synthesize(structure form.FormStructure, opts Options) (*Renderings, error) {
	header, err := templateHeader(opts.Template)
	if err != nil {
		return nil, err
	}

	text := renderText(structure)
	if header != "" {
		text = header + "\n\n" + text
	}

	renderings := &Renderings{Template: opts.Template, TextPrompt: text}

	if opts.IncludeJSON {
		jsonPrompt, err := renderJSON(structure)
		if err != nil {
			return nil, err
		}
		renderings.JSONPrompt = jsonPrompt
	}

	return renderings, nil
}

// renderText emits the plain natural-language prompt: the document title,
// then per section a heading line, one line per element and one block per
// table with rows as delimited text.
func renderText(structure form.FormStructure) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Document: %s\n", structure.Title)
	fmt.Fprintf(&sb, "Sections: %d, form elements: %d, tables: %d\n",
		len(structure.Sections), structure.TotalElements, len(structure.Tables))

	for _, failure := range structure.PageFailures {
		fmt.Fprintf(&sb, "Note: page %d could not be processed (%s)\n",
			failure.PageIndex, failure.Message)
	}

	for _, section := range structure.Sections {
		sb.WriteString("\n## ")
		sb.WriteString(section.ID)
		if section.Heading != "" {
			sb.WriteString(": ")
			sb.WriteString(section.Heading)
		}
		sb.WriteString("\n")

		for _, el := range section.Elements {
			fmt.Fprintf(&sb, "- [%s]", el.Kind)
			if el.Required {
				sb.WriteString(" [필수]")
			}
			fmt.Fprintf(&sb, " %s", el.Label)
			if el.Value != "" {
				fmt.Fprintf(&sb, " = %s", el.Value)
			}
			sb.WriteString("\n")
		}

		for _, table := range section.Tables {
			fmt.Fprintf(&sb, "- [table] %d row(s):\n", len(table.Rows))
			for _, row := range table.Rows {
				fmt.Fprintf(&sb, "    %s\n", strings.Join(row, " | "))
			}
		}
	}

	return sb.String()
}

// renderJSON emits the structural projection. sonic's std-compatible
// config sorts map keys, keeping the output byte-deterministic.
func renderJSON(structure form.FormStructure) (string, error) {
	data, err := sonic.ConfigStd.MarshalIndent(structure, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render JSON prompt: %w", err)
	}
	return string(data), nil
}
