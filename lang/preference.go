package lang

import (
	"sort"
	"strconv"
	"strings"
)

// Preference is one entry of a language preference list: a tag plus a
// quality weight in [0,1]. Quality 0 means "forbidden" per spec.md §3.
type Preference struct {
	Tag     *Tag
	Quality float64
}

// ParsePreferenceList parses an Accept-Language-style header
// ("da, en-gb;q=0.8, en;q=0.7") into a list sorted by descending quality,
// stable on insertion order for ties. A bare "*" matches any language at
// any depth except literal-tag equality.
func ParsePreferenceList(r *Registry, header string) ([]Preference, error) {
	if strings.TrimSpace(header) == "" {
		return nil, nil
	}
	parts := strings.Split(header, ",")
	prefs := make([]Preference, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tagText := part
		quality := 1.0
		if i := strings.IndexByte(part, ';'); i >= 0 {
			tagText = strings.TrimSpace(part[:i])
			qpart := strings.TrimSpace(part[i+1:])
			if strings.HasPrefix(qpart, "q=") {
				q, err := strconv.ParseFloat(strings.TrimPrefix(qpart, "q="), 64)
				if err != nil {
					return nil, &ParseError{Tag: header, Component: tagText, Reason: "malformed quality value"}
				}
				quality = q
			}
		}
		var tag *Tag
		var err error
		if tagText == "*" {
			tag = &Tag{Language: "*"}
		} else {
			tag, err = parse(r, tagText)
			if err != nil {
				return nil, err
			}
		}
		prefs = append(prefs, Preference{Tag: tag, Quality: quality})
	}

	sort.SliceStable(prefs, func(i, j int) bool {
		return prefs[i].Quality > prefs[j].Quality
	})
	return prefs, nil
}
