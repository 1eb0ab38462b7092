package form

import (
	"encoding/json"
	"fmt"
	"os"
)

// FieldRule maps a canonical field name to the value patterns that identify
// it and the label synonyms it is known under on real forms.
type FieldRule struct {
	Canonical string   `json:"canonical"`
	Patterns  []string `json:"patterns,omitempty"`
	Synonyms  []string `json:"synonyms,omitempty"`
}

// FieldRuleSet is the on-disk format for custom field rules.
type FieldRuleSet struct {
	Version string      `json:"version,omitempty"`
	Rules   []FieldRule `json:"rules"`
}

// DefaultFieldRules returns the built-in extraction dictionary. The value
// shapes cover the fields that dominate Korean administrative and business
// forms, with English synonyms for mixed-language documents.
func DefaultFieldRules() []FieldRule {
	return []FieldRule{
		{
			Canonical: "사업자등록번호",
			Patterns:  []string{`\d{3}-?\d{2}-?\d{5}`},
			Synonyms:  []string{"사업자번호", "등록번호", "business registration number", "biz no"},
		},
		{
			Canonical: "날짜",
			Patterns:  []string{`20\d{2}[.\-/년]\s?(0?[1-9]|1[0-2])[.\-/월]\s?(0?[1-9]|[12]\d|3[01])일?`},
			Synonyms:  []string{"작성일", "생년월일", "일자", "신청일", "date"},
		},
		{
			Canonical: "전화번호",
			Patterns:  []string{`0\d{1,2}-?\d{3,4}-?\d{4}`},
			Synonyms:  []string{"연락처", "휴대폰", "핸드폰", "전화", "phone", "tel", "mobile"},
		},
		{
			Canonical: "이메일",
			Patterns:  []string{`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`},
			Synonyms:  []string{"전자우편", "메일", "email", "e-mail"},
		},
		{
			Canonical: "금액",
			Patterns:  []string{`([0-9]{1,3}(?:,[0-9]{3})+|[0-9]+)\s*원`},
			Synonyms:  []string{"합계", "총액", "공급가액", "amount", "total"},
		},
	}
}

// LoadFieldRules loads additional field rules from a JSON file and appends
// them to the defaults.
func LoadFieldRules(path string) ([]FieldRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read field rules file: %w", err)
	}

	var set FieldRuleSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse field rules: %w", err)
	}

	for _, rule := range set.Rules {
		if rule.Canonical == "" {
			return nil, fmt.Errorf("field rule with empty canonical name")
		}
	}

	return append(DefaultFieldRules(), set.Rules...), nil
}
