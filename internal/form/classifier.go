package form

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// checkboxGlyphPattern matches bracketed box characters and box/check
// glyphs at the start of a block.
var checkboxGlyphPattern = regexp.MustCompile(`^\s*(\[\s*[xXvV✓✔]?\s*\]|[☐□▢◻☑✓✔✅])`)

// Classifier assigns each block a form-element kind through an ordered list
// of predicate rules. The first rule that fires wins; ambiguity falls
// through to unclassified rather than a guess, so false positives never
// cascade into extraction.
type Classifier struct {
	config StructuringConfig
	rules  []classifierRule
}

// classifierRule is one predicate in the ordered policy. match returns
// whether the rule fires and the label it assigns.
type classifierRule struct {
	name  string
	kind  ElementKind
	match func(c *Classifier, block TextBlock) (bool, string)
}

// NewClassifier creates a classifier with the priority-ordered rule list.
func NewClassifier(config StructuringConfig) *Classifier {
	c := &Classifier{config: config}
	c.rules = []classifierRule{
		{name: "checkbox_glyph", kind: KindCheckbox, match: (*Classifier).matchCheckbox},
		{name: "action_word", kind: KindButton, match: (*Classifier).matchButton},
		{name: "attachment_word", kind: KindFileUpload, match: (*Classifier).matchFileUpload},
		{name: "labeled_input", kind: KindTextInput, match: (*Classifier).matchTextInput},
	}
	return c
}

// ClassifyAll converts a section's blocks into elements. A block that is
// only a checkbox glyph pairs with the short text block that follows it,
// producing a single checkbox element with both source blocks.
func (c *Classifier) ClassifyAll(blocks []TextBlock) []Element {
	var elements []Element

	for i := 0; i < len(blocks); i++ {
		block := blocks[i]

		if isBareCheckboxGlyph(block.Text) && i+1 < len(blocks) {
			next := blocks[i+1]
			if utf8.RuneCountInString(next.Text) <= c.config.HeadingMaxRunes {
				elements = append(elements, Element{
					Kind:         KindCheckbox,
					Label:        next.Text,
					SourceBlocks: []TextBlock{block, next},
				})
				i++
				continue
			}
		}

		elements = append(elements, c.Classify(block))
	}

	return elements
}

// Classify runs the ordered rules over one block.
func (c *Classifier) Classify(block TextBlock) Element {
	for _, rule := range c.rules {
		if ok, label := rule.match(c, block); ok {
			el := Element{
				Kind:         rule.kind,
				Label:        label,
				SourceBlocks: []TextBlock{block},
			}
			if rule.kind == KindTextInput {
				el.Required = c.hasRequiredMarker(block.Text)
			}
			return el
		}
	}

	// Retained as descriptive text rather than discarded.
	return Element{
		Kind:         KindUnclassified,
		Label:        block.Text,
		SourceBlocks: []TextBlock{block},
	}
}

// matchCheckbox fires on checkbox glyphs or a 예/아니오 binary pair next to
// short text.
func (c *Classifier) matchCheckbox(block TextBlock) (bool, string) {
	if loc := checkboxGlyphPattern.FindStringIndex(block.Text); loc != nil {
		return true, strings.TrimSpace(block.Text[loc[1]:])
	}

	short := utf8.RuneCountInString(block.Text) <= c.config.HeadingMaxRunes
	if short && strings.Contains(block.Text, "예") && strings.Contains(block.Text, "아니오") {
		return true, block.Text
	}
	return false, ""
}

// matchButton fires on action vocabulary when the block's shape suggests an
// isolated control rather than flowing text.
func (c *Classifier) matchButton(block TextBlock) (bool, string) {
	runes := utf8.RuneCountInString(block.Text)
	if runes == 0 || runes > c.config.ButtonMaxRunes {
		return false, ""
	}
	if block.BBox.Width() > c.estimatedTextWidth(block)*c.config.TrailingBlankRatio {
		// Wide box around short text reads as an unfilled field, not a control.
		return false, ""
	}

	lower := strings.ToLower(block.Text)
	for _, word := range c.config.ButtonWords {
		if strings.Contains(lower, strings.ToLower(word)) {
			return true, block.Text
		}
	}
	return false, ""
}

// matchFileUpload fires on attachment vocabulary.
func (c *Classifier) matchFileUpload(block TextBlock) (bool, string) {
	lower := strings.ToLower(block.Text)
	for _, word := range c.config.FileUploadWords {
		if strings.Contains(lower, strings.ToLower(word)) {
			return true, block.Text
		}
	}
	return false, ""
}

// matchTextInput fires when the text carries a colon-delimited label or
// when the bbox is much wider than the rendered text, implying an unfilled
// blank run after the label.
func (c *Classifier) matchTextInput(block TextBlock) (bool, string) {
	if label, ok := colonLabel(block.Text, c.config.HeadingMaxRunes); ok {
		return true, label
	}
	if block.BBox.Width() >= c.estimatedTextWidth(block)*c.config.TrailingBlankRatio {
		return true, strings.TrimSpace(block.Text)
	}
	return false, ""
}

// hasRequiredMarker reports whether the text carries a mandatory-field
// marker such as "*" or "필수".
func (c *Classifier) hasRequiredMarker(text string) bool {
	for _, marker := range c.config.RequiredMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// estimatedTextWidth approximates the rendered width of the block's text
// from its height and rune count.
func (c *Classifier) estimatedTextWidth(block TextBlock) float64 {
	runes := utf8.RuneCountInString(block.Text)
	return float64(runes) * block.BBox.Height() * c.config.CharWidthRatio
}

// colonLabel extracts the pre-colon label when the block text is a
// "label:" or "label: value" form with a reasonably short label part.
func colonLabel(text string, maxRunes int) (string, bool) {
	trimmed := strings.TrimSpace(text)
	idx := strings.IndexAny(trimmed, ":：")
	if idx <= 0 {
		return "", false
	}
	label := strings.TrimSpace(trimmed[:idx])
	if label == "" || utf8.RuneCountInString(label) > maxRunes {
		return "", false
	}
	return label, true
}

// isBareCheckboxGlyph reports whether the text is nothing but a checkbox
// glyph, e.g. an input box rendered separately from its label.
func isBareCheckboxGlyph(text string) bool {
	rest := checkboxGlyphPattern.ReplaceAllString(text, "")
	return checkboxGlyphPattern.MatchString(text) && strings.TrimSpace(rest) == ""
}
