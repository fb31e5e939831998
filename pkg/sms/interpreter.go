package sms

import (
	"regexp"
	"strconv"
	"strings"
)

// cityCatalog is the fixed set of cities the interpreter recognizes by
// name (§4.3 step 2: "cities (against a fixed catalog)"). Not
// exhaustive — unrecognized cities still reach the LLM planner via
// resolved zipcode/state signals or are asked for again.
var cityCatalog = []string{
	"atlanta", "dallas", "houston", "phoenix", "chicago", "columbus",
	"indianapolis", "memphis", "nashville", "charlotte", "denver",
	"kansas city", "louisville", "reno", "inland empire", "savannah",
}

var stateAbbrevs = map[string]bool{
	"al": true, "ak": true, "az": true, "ar": true, "ca": true, "co": true,
	"ct": true, "de": true, "fl": true, "ga": true, "hi": true, "id": true,
	"il": true, "in": true, "ia": true, "ks": true, "ky": true, "la": true,
	"me": true, "md": true, "ma": true, "mi": true, "mn": true, "ms": true,
	"mo": true, "mt": true, "ne": true, "nv": true, "nh": true, "nj": true,
	"nm": true, "ny": true, "nc": true, "nd": true, "oh": true, "ok": true,
	"or": true, "pa": true, "ri": true, "sc": true, "sd": true, "tn": true,
	"tx": true, "ut": true, "vt": true, "va": true, "wa": true, "wv": true,
	"wi": true, "wy": true,
}

// topicKeywords maps words the buyer might use to the property-attribute
// keys a TruthCore/PropertyKnowledge lookup understands.
var topicKeywords = map[string]string{
	"clear height":  "clear_height",
	"ceiling":       "clear_height",
	"dock":          "dock_doors",
	"dock door":     "dock_doors",
	"loading dock":  "dock_doors",
	"power":         "power",
	"electric":      "power",
	"amps":          "power",
	"sprinkler":     "sprinklers",
	"fire":          "sprinklers",
	"parking":       "parking",
	"yard":          "yard",
	"rail":          "rail_access",
	"climate":       "climate_control",
	"office":        "office_space",
}

var featureKeywords = []string{
	"climate control", "rail access", "yard", "fenced", "secure", "cross-dock",
	"drive-in", "office space", "heavy power", "truck court",
}

var actionKeywords = map[string]string{
	"book":         "book",
	"book it":      "book",
	"instant book": "book",
	"tour":         "tour",
	"schedule":     "tour",
	"visit":        "tour",
	"walkthrough":  "tour",
	"commit":       "commitment",
	"sign":         "commitment",
	"lease it":     "commitment",
	"let's do it":  "commitment",
}

var (
	sqftPattern     = regexp.MustCompile(`(?i)(\d{1,3}(?:,\d{3})*|\d+)\s*(k|,?000)?\s*(sqft|sf|sq\.?\s*ft\.?)\b`)
	sqftKPattern    = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*k\b`)
	zipcodePattern  = regexp.MustCompile(`\b\d{5}\b`)
	emailPattern    = regexp.MustCompile(`(?i)[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`)
	namePattern     = regexp.MustCompile(`(?i)\b(?:i'?m|this is|my name is)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`)
	ordinalWords    = map[string]int{"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5}
	optionNumberPat = regexp.MustCompile(`(?i)option\s*#?\s*(\d)`)
	showAgainPat    = regexp.MustCompile(`(?i)show\s+(me\s+)?(the\s+)?options?\s+again|what\s+were\s+my\s+options|see\s+(them|those)\s+again`)
)

// Interpret performs a pure regex/keyword pass over one inbound message
// body, producing the structured extraction the LLM planner consumes
// (§4.3 step 2). It never calls out to an LLM and never errors — an
// empty MessageInterpretation is always a valid result.
func Interpret(body string) *MessageInterpretation {
	lower := strings.ToLower(body)
	m := &MessageInterpretation{}

	for _, city := range cityCatalog {
		if strings.Contains(lower, city) {
			m.Cities = append(m.Cities, city)
		}
	}

	for _, word := range strings.FieldsFunc(lower, func(r rune) bool { return !('a' <= r && r <= 'z') }) {
		if stateAbbrevs[word] {
			m.States = append(m.States, strings.ToUpper(word))
		}
	}

	m.Zipcodes = zipcodePattern.FindAllString(body, -1)

	if sq := extractSqft(lower); sq > 0 {
		m.MinSqft, m.MaxSqft = sq, sq
	}

	for phrase, key := range topicKeywords {
		if strings.Contains(lower, phrase) {
			m.TopicKeys = appendUnique(m.TopicKeys, key)
		}
	}
	for _, feat := range featureKeywords {
		if strings.Contains(lower, feat) {
			m.FeatureKeywords = appendUnique(m.FeatureKeywords, feat)
		}
	}
	for phrase, kw := range actionKeywords {
		if strings.Contains(lower, phrase) {
			m.ActionKeywords = appendUnique(m.ActionKeywords, kw)
		}
	}

	m.PositionalRef = extractPositionalRef(lower)
	m.ShowOptionsAgain = showAgainPat.MatchString(lower)

	if match := namePattern.FindStringSubmatch(body); len(match) == 2 {
		m.Name = match[1]
	}
	m.Email = emailPattern.FindString(body)

	m.HasSearchData = len(m.Cities) > 0 || len(m.States) > 0 || len(m.Zipcodes) > 0 || m.MaxSqft > 0
	return m
}

func extractSqft(lower string) int {
	if match := sqftPattern.FindStringSubmatch(lower); len(match) > 0 {
		digits := strings.ReplaceAll(match[1], ",", "")
		n, err := strconv.Atoi(digits)
		if err != nil {
			return 0
		}
		if strings.EqualFold(match[2], "k") {
			n *= 1000
		}
		return n
	}
	if match := sqftKPattern.FindStringSubmatch(lower); len(match) == 2 {
		f, err := strconv.ParseFloat(match[1], 64)
		if err == nil {
			return int(f * 1000)
		}
	}
	return 0
}

func extractPositionalRef(lower string) int {
	if match := optionNumberPat.FindStringSubmatch(lower); len(match) == 2 {
		if n, err := strconv.Atoi(match[1]); err == nil {
			return n
		}
	}
	for word, n := range ordinalWords {
		if strings.Contains(lower, word+" one") || strings.Contains(lower, "the "+word) {
			return n
		}
	}
	return 0
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
