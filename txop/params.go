package txop

import (
	"strconv"

	"github.com/gofhir/terminology/fhir"
	"github.com/gofhir/terminology/txcache"
)

// ParameterBag is the closed set of recognised operation inputs. spec.md
// §4.G/§9 insist the parameter surface never be stored as an untyped
// dictionary inside the engine; unrecognised wire parameters are
// collected into Unrecognised as warnings, never as a failure.
type ParameterBag struct {
	Code    string
	System  string
	Version string
	Display string

	Coding          *fhir.Coding
	CodeableConcept *fhir.CodeableConcept

	URL      string
	ValueSet *fhir.ValueSet

	Filter              string
	Count               int
	Offset              int
	ActiveOnly          bool
	IncludeDesignations bool
	DisplayLanguage     string

	Property []string

	SystemVersion      []string
	ForceSystemVersion []string
	CheckSystemVersion []string

	TxResource []txcache.Resource
	CacheID    string

	TargetSystem   string
	TargetValueSet string

	SubsumeA *fhir.Coding
	SubsumeB *fhir.Coding

	Unrecognised []string
}

// recognisedNames is the core subset spec.md §6 names.
var recognisedNames = map[string]bool{
	"code": true, "system": true, "version": true, "coding": true,
	"codeableConcept": true, "url": true, "valueSet": true, "filter": true,
	"count": true, "offset": true, "activeOnly": true,
	"includeDesignations": true, "displayLanguage": true, "property": true,
	"system-version": true, "force-system-version": true,
	"check-system-version": true, "tx-resource": true, "cache-id": true,
	"display": true, "target": true, "targetsystem": true, "targetValueSet": true,
	"codingA": true, "codingB": true,
}

// FromValues builds a ParameterBag from a generic string-multimap, the
// shape shared by url.Values (GET query) and a parsed form body — lifting
// repeated keys to repeated entries and tolerating lenient typing (a
// plain string where a uri or boolean was expected). HTTP transport
// itself stays outside the core; this only interprets already-split
// key/value pairs.
func FromValues(values map[string][]string) *ParameterBag {
	bag := &ParameterBag{}

	get := func(name string) string {
		if v := values[name]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	getBool := func(name string) bool {
		v := get(name)
		b, _ := strconv.ParseBool(v)
		return b
	}
	getInt := func(name string, fallback int) int {
		v := get(name)
		if v == "" {
			return fallback
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fallback
		}
		return n
	}

	bag.Code = get("code")
	bag.System = get("system")
	bag.Version = get("version")
	bag.Display = get("display")
	bag.URL = get("url")
	bag.Filter = get("filter")
	bag.Count = getInt("count", 0)
	bag.Offset = getInt("offset", 0)
	bag.ActiveOnly = getBool("activeOnly")
	bag.IncludeDesignations = getBool("includeDesignations")
	bag.DisplayLanguage = get("displayLanguage")
	bag.CacheID = get("cache-id")
	bag.TargetSystem = get("targetsystem")
	bag.TargetValueSet = get("targetValueSet")

	bag.Property = values["property"]
	bag.SystemVersion = values["system-version"]
	bag.ForceSystemVersion = values["force-system-version"]
	bag.CheckSystemVersion = values["check-system-version"]

	for name := range values {
		if !recognisedNames[name] {
			bag.Unrecognised = append(bag.Unrecognised, name)
		}
	}

	return bag
}
