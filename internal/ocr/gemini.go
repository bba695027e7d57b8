package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/mmynk/ecosplit/internal/models"
)

const (
	scanPrompt = "Extract the list of items from this receipt. For each item, classify it as " +
		"eco-friendly or not eco-friendly, assign an eco_score from 0 to 1, and format the output " +
		"as a JSON array like:\n" +
		`[{"name": "Item", "price": 2.99, "eco_label": "Eco", "eco_score": 0.85}]`

	suggestPrompt = "I recently purchased these items: %s. " +
		"Give me a short suggestion on how to make more eco-friendly choices next time."
)

// contentGenerator is the part of genai.Models used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

var (
	_ Scanner = (*Gemini)(nil)
	_ Advisor = (*Gemini)(nil)
)

// Gemini implements Scanner and Advisor with a Gemini model.
type Gemini struct {
	models contentGenerator
	model  string
}

// NewGemini creates a client for the Gemini API.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("Gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Gemini{models: client.Models, model: model}, nil
}

// Scan sends the image to the model and parses the returned item list.
func (g *Gemini) Scan(ctx context.Context, image []byte, mimeType string) ([]models.ReceiptItem, error) {
	if len(image) == 0 {
		return nil, errors.New("empty image")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(scanPrompt),
			genai.NewPartFromBytes(image, mimeType),
		}, genai.RoleUser),
	}

	resp, err := g.models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("Gemini scan failed: %w", err)
	}

	return parseItems(resp.Text())
}

// Suggest asks the model for a short tip based on the purchased item names.
func (g *Gemini) Suggest(ctx context.Context, itemNames []string) (string, error) {
	if len(itemNames) == 0 {
		return "", errors.New("no items to base a suggestion on")
	}

	contents := []*genai.Content{
		genai.NewContentFromText(fmt.Sprintf(suggestPrompt, strings.Join(itemNames, ", ")), genai.RoleUser),
	}

	resp, err := g.models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.7),
		MaxOutputTokens: 100,
	})
	if err != nil {
		return "", fmt.Errorf("Gemini suggestion failed: %w", err)
	}

	suggestion := strings.TrimSpace(resp.Text())
	if suggestion == "" {
		return "", errors.New("empty suggestion")
	}
	return suggestion, nil
}
