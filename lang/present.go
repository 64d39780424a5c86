package lang

import "strings"

// Present renders a tag for display. When template is non-empty, registry
// display names are substituted into "{{lang}}", "{{script}}",
// "{{region}}" placeholders; otherwise a canonical
// "<Language> (Script=..., Region=..., Variant=...)" form is produced.
// displayIndex selects among multiple registry descriptions (registry
// values store repeats joined with "|"); 0 is the first/primary name.
func (r *Registry) Present(t *Tag, displayIndex int, template string) string {
	langName := r.describe(r.language, t.Language, displayIndex, t.Language)
	scriptName := r.describe(r.script, t.Script, displayIndex, t.Script)
	regionName := r.describe(r.region, t.Region, displayIndex, t.Region)

	if template != "" {
		out := template
		out = strings.ReplaceAll(out, "{{lang}}", langName)
		out = strings.ReplaceAll(out, "{{script}}", scriptName)
		out = strings.ReplaceAll(out, "{{region}}", regionName)
		return out
	}

	var b strings.Builder
	b.WriteString(langName)
	var parts []string
	if t.Script != "" {
		parts = append(parts, "Script="+scriptName)
	}
	if t.Region != "" {
		parts = append(parts, "Region="+regionName)
	}
	if t.Variant != "" {
		parts = append(parts, "Variant="+t.Variant)
	}
	if len(parts) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString(")")
	}
	return b.String()
}

func (r *Registry) describe(lookup func(string) (Subtag, bool), code string, index int, fallback string) string {
	if code == "" {
		return ""
	}
	st, ok := lookup(code)
	if !ok {
		return fallback
	}
	descs := strings.Split(st.Description, "|")
	if index >= 0 && index < len(descs) {
		return descs[index]
	}
	if len(descs) > 0 {
		return descs[0]
	}
	return fallback
}
