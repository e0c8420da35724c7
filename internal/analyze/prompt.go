package analyze

import (
	"fmt"
	"strings"

	"cropdoc/internal/diagnosis"
)

const promptHeader = `You are a plant pathologist assisting smallholder farmers.
You will be shown a photo of a plant. Identify which of the listed candidate
diseases best matches the visible symptoms. Only choose from the candidates.

Return STRICTLY one JSON object, no prose, with exactly these fields:
{
  "diseaseName": "<name of one candidate disease>",
  "confidence": <number between 0 and 1>,
  "reasoning": "<one or two sentences on the visible symptoms>",
  "treatments": {
    "organic": ["<suggestion>", ...],
    "chemical": ["<suggestion>", ...]
  }
}
Any text outside the JSON object is an error.`

// BuildPrompt assembles the system instruction for the vision call:
// the crop's common and scientific name plus a bulleted list of each
// candidate disease with its symptoms.
func BuildPrompt(crop diagnosis.Crop, candidates []diagnosis.Disease) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString("\n\nCrop: ")
	b.WriteString(crop.Name)
	if crop.ScientificName != "" {
		fmt.Fprintf(&b, " (%s)", crop.ScientificName)
	}
	b.WriteString("\n\nCandidate diseases:\n")
	for _, d := range candidates {
		b.WriteString("- ")
		b.WriteString(d.Name)
		if d.Symptoms != "" {
			b.WriteString(": ")
			b.WriteString(d.Symptoms)
		}
		b.WriteString("\n")
	}
	return b.String()
}
