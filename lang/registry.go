package lang

import (
	"bufio"
	"fmt"
	"strings"
	"sync"
)

// SubtagType partitions registry records into the five tables spec.md
// §4.B names. "grandfathered" and "redundant" records are parsed but
// ignored — they describe whole legacy tags, not subtags.
type SubtagType string

const (
	TypeLanguage      SubtagType = "language"
	TypeExtLang       SubtagType = "extlang"
	TypeScript        SubtagType = "script"
	TypeRegion        SubtagType = "region"
	TypeVariant       SubtagType = "variant"
	typeGrandfathered SubtagType = "grandfathered"
	typeRedundant     SubtagType = "redundant"
)

// Subtag is one registry record: a type, a subtag value, one or more
// descriptions (joined with "|" on repeat per spec.md §6), and the
// optional Suppress-Script/Scope fields the loader recognises.
type Subtag struct {
	Type           SubtagType
	Value          string
	Description    string
	SuppressScript string
	Scope          string
}

// Registry is a loaded IETF language subtag registry, partitioned into
// the five tables the parser consults.
type Registry struct {
	languages    map[string]Subtag
	extLanguages map[string]Subtag
	scripts      map[string]Subtag
	regions      map[string]Subtag
	variants     map[string]Subtag

	parseMu    sync.RWMutex
	parseCache map[string]parseResult
}

// LoadError carries the registry line/record that failed to parse.
type LoadError struct {
	Record int
	Reason string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("language registry record %d: %s", e.Record, e.Reason)
}

// LoadRegistry parses the %%-delimited registry text format spec.md §6
// describes. The source must begin with a "%%" line.
func LoadRegistry(text string) (*Registry, error) {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	reg := &Registry{
		languages:    map[string]Subtag{},
		extLanguages: map[string]Subtag{},
		scripts:      map[string]Subtag{},
		regions:      map[string]Subtag{},
		variants:     map[string]Subtag{},
	}

	var (
		record     = map[string][]string{}
		recordNum  int
		sawHeader  bool
		haveRecord bool
	)

	flush := func() error {
		if !haveRecord {
			return nil
		}
		if err := reg.addRecord(recordNum, record); err != nil {
			return err
		}
		record = map[string][]string{}
		haveRecord = false
		return nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		if line == "%%" {
			if !sawHeader {
				sawHeader = true
				continue
			}
			recordNum++
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		if !sawHeader {
			return nil, &LoadError{Record: 0, Reason: "source must begin with %%"}
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, ok := splitRegistryLine(line)
		if !ok {
			continue
		}
		record[key] = append(record[key], value)
		haveRecord = true
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return reg, nil
}

func splitRegistryLine(line string) (key, value string, ok bool) {
	i := strings.IndexByte(line, ':')
	if i < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:i])
	value = strings.TrimSpace(line[i+1:])
	return key, value, true
}

func (r *Registry) addRecord(recordNum int, fields map[string][]string) error {
	typeVals := fields["Type"]
	if len(typeVals) == 0 {
		return &LoadError{Record: recordNum, Reason: "record missing Type"}
	}
	t := SubtagType(typeVals[0])

	var table map[string]Subtag
	switch t {
	case TypeLanguage:
		table = r.languages
	case TypeExtLang:
		table = r.extLanguages
	case TypeScript:
		table = r.scripts
	case TypeRegion:
		table = r.regions
	case TypeVariant:
		table = r.variants
	case typeGrandfathered, typeRedundant:
		return nil
	default:
		return &LoadError{Record: recordNum, Reason: "unknown Type " + string(t)}
	}

	subtagVals := fields["Subtag"]
	if len(subtagVals) == 0 {
		return &LoadError{Record: recordNum, Reason: "record missing Subtag"}
	}
	value := subtagVals[0]

	key := strings.ToLower(value)
	if _, dup := table[key]; dup {
		return &LoadError{Record: recordNum, Reason: "duplicate subtag " + value}
	}

	st := Subtag{
		Type:        t,
		Value:       value,
		Description: strings.Join(fields["Description"], "|"),
	}
	if ss := fields["Suppress-Script"]; len(ss) > 0 {
		st.SuppressScript = ss[0]
	}
	if sc := fields["Scope"]; len(sc) > 0 {
		st.Scope = sc[0]
	}
	table[key] = st
	return nil
}

func (r *Registry) language(code string) (Subtag, bool) {
	s, ok := r.languages[strings.ToLower(code)]
	return s, ok
}

func (r *Registry) extLang(code string) (Subtag, bool) {
	s, ok := r.extLanguages[strings.ToLower(code)]
	return s, ok
}

func (r *Registry) script(code string) (Subtag, bool) {
	s, ok := r.scripts[strings.ToLower(code)]
	return s, ok
}

func (r *Registry) region(code string) (Subtag, bool) {
	s, ok := r.regions[strings.ToLower(code)]
	return s, ok
}

func (r *Registry) variant(code string) (Subtag, bool) {
	s, ok := r.variants[strings.ToLower(code)]
	return s, ok
}
