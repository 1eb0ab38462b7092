package form

import (
	"regexp"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Extractor performs rule-based key information extraction over classified
// text-input elements: an exact/regex pass over the element's remaining
// source text, then a fuzzy label pass against the configured synonyms.
// It never fabricates values and never fails on a non-match.
type Extractor struct {
	config    StructuringConfig
	rules     []compiledFieldRule
	canonical map[string]bool
	metric    *metrics.JaroWinkler
}

type compiledFieldRule struct {
	canonical string
	patterns  []*regexp.Regexp
	synonyms  []string // normalized
}

// NewExtractor compiles the configured field rules. Invalid value patterns
// are skipped so one bad custom rule cannot take down the dictionary.
func NewExtractor(config StructuringConfig) *Extractor {
	e := &Extractor{
		config:    config,
		canonical: make(map[string]bool, len(config.FieldRules)),
		metric:    metrics.NewJaroWinkler(),
	}

	for _, rule := range config.FieldRules {
		compiled := compiledFieldRule{canonical: rule.Canonical}
		for _, src := range rule.Patterns {
			if re, err := regexp.Compile(src); err == nil {
				compiled.patterns = append(compiled.patterns, re)
			}
		}
		for _, syn := range rule.Synonyms {
			compiled.synonyms = append(compiled.synonyms, normalizeLabel(syn))
		}
		compiled.synonyms = append(compiled.synonyms, normalizeLabel(rule.Canonical))
		e.rules = append(e.rules, compiled)
		e.canonical[rule.Canonical] = true
	}

	return e
}

// Apply runs both extraction passes over the elements in place. Only
// text_input elements participate. The operation is idempotent: elements
// already carrying a canonical label are left untouched.
func (e *Extractor) Apply(elements []Element) {
	for i := range elements {
		el := &elements[i]
		if el.Kind != KindTextInput || e.canonical[el.Label] {
			continue
		}

		if e.applyValuePass(el) {
			continue
		}
		e.applyFuzzyLabelPass(el)
	}
}

// applyValuePass matches the element's remaining source text against the
// configured value patterns. On a match the canonical label and the matched
// value are assigned verbatim.
func (e *Extractor) applyValuePass(el *Element) bool {
	remainder := remainderAfterLabel(el)
	if remainder == "" {
		return false
	}

	for _, rule := range e.rules {
		for _, re := range rule.patterns {
			if match := re.FindString(remainder); match != "" {
				el.Label = rule.canonical
				el.Value = match
				return true
			}
		}
	}
	return false
}

// applyFuzzyLabelPass adopts a canonical label when the element's own label
// is close enough to a known synonym. The value is never synthesized here.
func (e *Extractor) applyFuzzyLabelPass(el *Element) {
	label := normalizeLabel(el.Label)
	if label == "" {
		return
	}

	best := 0.0
	bestCanonical := ""
	for _, rule := range e.rules {
		for _, syn := range rule.synonyms {
			if score := strutil.Similarity(label, syn, e.metric); score > best {
				best = score
				bestCanonical = rule.canonical
			}
		}
	}

	if best >= e.config.FuzzyThreshold {
		el.Label = bestCanonical
	}
}

// remainderAfterLabel strips the classified label (and its delimiter) from
// the element's source text.
func remainderAfterLabel(el *Element) string {
	text := strings.TrimSpace(el.SourceText())
	if el.Label != "" {
		if rest, ok := strings.CutPrefix(text, el.Label); ok {
			text = rest
		}
	}
	text = strings.TrimLeft(text, ":： \t")
	return strings.TrimSpace(text)
}

// normalizeLabel folds width variants, applies NFKC, lowercases and
// collapses whitespace so fuzzy comparison sees a canonical shape.
func normalizeLabel(s string) string {
	s = width.Fold.String(s)
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}
