package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formlens/formlens/internal/form"
)

func sampleStructure() form.FormStructure {
	return form.FormStructure{
		Title: "사업자 등록 신청서",
		Sections: []form.Section{
			{
				ID:      "Section_1",
				Number:  1,
				Heading: "1. 신청인 정보",
				Elements: []form.Element{
					{Kind: form.KindTextInput, Label: "성명", SectionID: "Section_1"},
					{Kind: form.KindTextInput, Label: "사업자등록번호", Value: "123-45-67890", SectionID: "Section_1"},
					{Kind: form.KindCheckbox, Label: "동의합니다", SectionID: "Section_1"},
				},
				Tables: []form.Table{
					{
						Rows:      [][]string{{"이름", "생년월일"}, {"홍길동", "1990-01-01"}},
						SectionID: "Section_1",
					},
				},
			},
		},
		ElementsByType: map[form.ElementKind]int{
			form.KindTextInput:    2,
			form.KindCheckbox:     1,
			form.KindButton:       0,
			form.KindFileUpload:   0,
			form.KindUnclassified: 0,
		},
		TotalElements: 3,
		Tables: []form.Table{
			{
				Rows:      [][]string{{"이름", "생년월일"}, {"홍길동", "1990-01-01"}},
				SectionID: "Section_1",
			},
		},
	}
}

func TestSynthesize_TextPrompt(t *testing.T) {
	renderings, err := Synthesize(sampleStructure(), Options{})
	require.NoError(t, err)

	text := renderings.TextPrompt
	assert.Contains(t, text, "# Document: 사업자 등록 신청서")
	assert.Contains(t, text, "## Section_1: 1. 신청인 정보")
	assert.Contains(t, text, "- [text_input] 성명\n")
	assert.Contains(t, text, "- [text_input] 사업자등록번호 = 123-45-67890")
	assert.Contains(t, text, "- [checkbox] 동의합니다")
	assert.Contains(t, text, "이름 | 생년월일")
	assert.Contains(t, text, "홍길동 | 1990-01-01")
	assert.Empty(t, renderings.JSONPrompt)
}

func TestSynthesize_RequiredFieldMarker(t *testing.T) {
	structure := sampleStructure()
	structure.Sections[0].Elements[0].Required = true

	renderings, err := Synthesize(structure, Options{})
	require.NoError(t, err)

	text := renderings.TextPrompt
	assert.Contains(t, text, "- [text_input] [필수] 성명\n")
	assert.Contains(t, text, "- [text_input] 사업자등록번호 = 123-45-67890")
}

func TestSynthesize_Deterministic(t *testing.T) {
	structure := sampleStructure()
	opts := Options{Template: TemplateClaude, IncludeJSON: true}

	first, err := Synthesize(structure, opts)
	require.NoError(t, err)
	second, err := Synthesize(structure, opts)
	require.NoError(t, err)

	assert.Equal(t, first.TextPrompt, second.TextPrompt)
	assert.Equal(t, first.JSONPrompt, second.JSONPrompt)
}

func TestSynthesize_TemplateHeaders(t *testing.T) {
	tests := []struct {
		template TemplateID
		marker   string
	}{
		{TemplateClaude, "You are an expert document analyst"},
		{TemplateGPT, "System: You analyze structured form documents"},
		{TemplateGemini, "Task: form document analysis"},
	}

	for _, tt := range tests {
		renderings, err := Synthesize(sampleStructure(), Options{Template: tt.template})
		require.NoError(t, err, "template %q", tt.template)
		assert.True(t, strings.HasPrefix(renderings.TextPrompt, tt.marker),
			"template %q prompt should start with its header", tt.template)
		assert.Contains(t, renderings.TextPrompt, "# Document:")
	}
}

func TestSynthesize_NoTemplateHasNoHeader(t *testing.T) {
	renderings, err := Synthesize(sampleStructure(), Options{Template: TemplateNone})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(renderings.TextPrompt, "# Document:"))
}

func TestSynthesize_UnknownTemplate(t *testing.T) {
	_, err := Synthesize(sampleStructure(), Options{Template: "llama"})
	require.Error(t, err)

	var cfgErr *SynthesisConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "llama", cfgErr.Template)
	assert.Contains(t, err.Error(), "unknown prompt template")
}

func TestSynthesize_JSONProjection(t *testing.T) {
	renderings, err := Synthesize(sampleStructure(), Options{IncludeJSON: true})
	require.NoError(t, err)

	assert.NotEmpty(t, renderings.JSONPrompt)
	assert.Contains(t, renderings.JSONPrompt, `"title": "사업자 등록 신청서"`)
	assert.Contains(t, renderings.JSONPrompt, `"total_elements": 3`)
}

func TestSynthesize_PageFailureNote(t *testing.T) {
	structure := sampleStructure()
	structure.PageFailures = []form.PageFailure{{PageIndex: 2, Message: "recognizer failure"}}

	renderings, err := Synthesize(structure, Options{})
	require.NoError(t, err)
	assert.Contains(t, renderings.TextPrompt, "Note: page 2 could not be processed")
}

func TestKnownTemplates(t *testing.T) {
	assert.ElementsMatch(t,
		[]TemplateID{TemplateNone, TemplateClaude, TemplateGPT, TemplateGemini},
		KnownTemplates())
}
