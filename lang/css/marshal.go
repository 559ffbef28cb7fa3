package css

import "encoding/json"

// MarshalJSON implements json.Marshaler.
func (s *Stylesheet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.ToMap())
}

// ToMap converts the stylesheet to nested maps and slices suitable for
// generic encoders. Rule and declaration order is preserved through slices.
func (s *Stylesheet) ToMap() map[string]any {
	return map[string]any{"rules": rulesToNative(s.Rules)}
}

func rulesToNative(rules []Rule) []any {
	out := make([]any, 0, len(rules))

	for _, r := range rules {
		out = append(out, ruleToNative(r))
	}

	return out
}

func ruleToNative(r Rule) map[string]any {
	switch r := r.(type) {
	case *RuleSet:
		return map[string]any{
			"type":         "ruleset",
			"selectors":    append([]string{}, r.Selectors...),
			"declarations": declsToNative(r.Declarations),
		}

	case *AtRule:
		m := map[string]any{
			"type": "at-rule",
			"name": r.Name,
		}

		if r.Prelude != "" {
			m["prelude"] = r.Prelude
		}

		if len(r.Declarations) > 0 {
			m["declarations"] = declsToNative(r.Declarations)
		}

		if len(r.Rules) > 0 {
			m["rules"] = rulesToNative(r.Rules)
		}

		return m

	case *Raw:
		return map[string]any{"type": "raw", "text": r.Text}
	}

	return map[string]any{}
}

func declsToNative(decls []Declaration) []any {
	out := make([]any, 0, len(decls))

	for _, d := range decls {
		m := map[string]any{"name": d.Name, "value": d.Value}
		if d.Important {
			m["important"] = true
		}

		out = append(out, m)
	}

	return out
}
