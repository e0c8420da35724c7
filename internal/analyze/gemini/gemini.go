package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"cropdoc/internal/analyze"
	"cropdoc/internal/util"
)

// Engine calls Gemini with the plant photo and the candidate-disease
// prompt. One attempt per request; the caller bounds the context.
type Engine struct {
	APIKey string
	Model  string
}

func New(apiKey, model string) *Engine {
	return &Engine{
		APIKey: strings.TrimSpace(apiKey),
		Model:  strings.TrimSpace(model),
	}
}

func (e *Engine) Name() string { return "gemini" }

func (e *Engine) Analyze(ctx context.Context, req analyze.Request) (analyze.RawAnalysis, error) {
	if err := analyze.ValidateRequest(req); err != nil {
		return analyze.RawAnalysis{}, err
	}
	if e.APIKey == "" {
		return analyze.RawAnalysis{}, errors.New("GEMINI_API_KEY is empty")
	}

	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return analyze.RawAnalysis{}, err
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.Model)
	if m == nil {
		return analyze.RawAnalysis{}, fmt.Errorf("gemini: model is nil")
	}
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{
			genai.Text(analyze.BuildPrompt(req.Crop, req.Candidates)),
		},
	}

	imgBytes, mimeFromDataURL, err := util.DecodeBase64MaybeDataURL(req.Image)
	if err != nil {
		return analyze.RawAnalysis{}, fmt.Errorf("gemini: bad image base64: %w", err)
	}
	mime := util.PickMIME(mimeFromDataURL, imgBytes)

	parts := []genai.Part{
		genai.Text("Diagnose the plant in the photo. Respond with JSON only."),
		&genai.Blob{MIMEType: mime, Data: imgBytes},
	}

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return analyze.RawAnalysis{}, err
	}
	txt := firstText(resp)
	if strings.TrimSpace(txt) == "" {
		return analyze.RawAnalysis{}, fmt.Errorf("gemini: empty response")
	}
	return analyze.RawAnalysis{Text: txt}, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
