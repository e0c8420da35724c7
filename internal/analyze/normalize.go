package analyze

import (
	"encoding/json"
	"strings"

	"cropdoc/internal/diagnosis"
	"cropdoc/internal/util"
)

// Generic suggestions used only when a disease row carries no
// treatment fields of its own.
var (
	defaultOrganic  = []string{"Apply neem oil spray", "Use compost tea as a natural fungicide"}
	defaultChemical = []string{"Apply copper-based fungicide", "Use systemic fungicide as per label instructions"}
)

// Normalized is the tagged outcome of normalization. Fallback marks a
// result synthesized from the first candidate because the model reply
// could not be parsed.
type Normalized struct {
	Result   diagnosis.Result
	Fallback bool
}

// modelReply is the fixed schema the online prompt asks for.
type modelReply struct {
	DiseaseName string  `json:"diseaseName"`
	Confidence  float64 `json:"confidence"`
	Reasoning   string  `json:"reasoning"`
	Treatments  struct {
		Organic  []string `json:"organic"`
		Chemical []string `json:"chemical"`
	} `json:"treatments"`
}

// Normalize turns a raw analysis into a Result. It is the terminal
// error-absorption boundary for malformed model output and never
// fails; callers must pass at least one candidate.
func Normalize(raw RawAnalysis, candidates []diagnosis.Disease) Normalized {
	if raw.Picked != nil {
		// Offline path: disease and confidence are already chosen.
		return Normalized{Result: diagnosis.Result{
			Disease:    *raw.Picked,
			Confidence: raw.Confidence,
			Treatments: treatmentsFromDisease(*raw.Picked),
		}}
	}

	span := ExtractJSON(raw.Text)
	var reply modelReply
	if err := json.Unmarshal([]byte(span), &reply); err != nil {
		return fallback(raw.Text, candidates)
	}
	// An out-of-range confidence means the reply is not trustworthy as
	// a whole; treat it like a parse failure.
	if reply.Confidence < 0 || reply.Confidence > 1 {
		return fallback(raw.Text, candidates)
	}

	matched := matchDisease(reply.DiseaseName, candidates)
	derived := treatmentsFromDisease(matched)
	t := diagnosis.Treatments{Organic: cleanList(reply.Treatments.Organic), Chemical: cleanList(reply.Treatments.Chemical)}
	if len(t.Organic) == 0 {
		t.Organic = derived.Organic
	}
	if len(t.Chemical) == 0 {
		t.Chemical = derived.Chemical
	}

	return Normalized{Result: diagnosis.Result{
		Disease:    matched,
		Confidence: reply.Confidence,
		Reasoning:  strings.TrimSpace(reply.Reasoning),
		Treatments: t,
	}}
}

func fallback(rawText string, candidates []diagnosis.Disease) Normalized {
	first := candidates[0]
	excerpt := util.Truncate(util.StripCodeFences(rawText), 100)
	return Normalized{
		Fallback: true,
		Result: diagnosis.Result{
			Disease:    first,
			Confidence: 0.7,
			Reasoning:  "Model reply was not valid JSON; raw output began: " + excerpt,
			Treatments: treatmentsFromDisease(first),
		},
	}
}

// matchDisease matches case-insensitively against the candidates and
// defaults to the first one. No fuzzy matching: a near miss is treated
// as a miss.
func matchDisease(name string, candidates []diagnosis.Disease) diagnosis.Disease {
	name = strings.TrimSpace(name)
	for _, d := range candidates {
		if strings.EqualFold(d.Name, name) {
			return d
		}
	}
	return candidates[0]
}

func treatmentsFromDisease(d diagnosis.Disease) diagnosis.Treatments {
	t := diagnosis.Treatments{
		Organic:  SplitTreatments(d.OrganicTreatment),
		Chemical: SplitTreatments(d.ChemicalTreatment),
	}
	if len(t.Organic) == 0 {
		t.Organic = defaultOrganic
	}
	if len(t.Chemical) == 0 {
		t.Chemical = defaultChemical
	}
	return t
}

// SplitTreatments expands a semicolon-delimited storage field into a
// trimmed list.
func SplitTreatments(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func cleanList(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ExtractJSON pulls the most plausible JSON object out of a model
// reply, trying in order: a fenced block tagged json, any fenced
// block, the first balanced {...} span, and finally the whole text.
func ExtractJSON(text string) string {
	if body, ok := fencedBlock(text, "```json"); ok {
		return body
	}
	if body, ok := fencedBlock(text, "```"); ok {
		return body
	}
	if span, ok := braceSpan(text); ok {
		return span
	}
	return strings.TrimSpace(text)
}

func fencedBlock(text, open string) (string, bool) {
	start := strings.Index(text, open)
	if start < 0 {
		return "", false
	}
	rest := text[start+len(open):]
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

// braceSpan finds the first top-level {...} span, tracking string
// literals so braces inside them do not unbalance the scan.
func braceSpan(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
