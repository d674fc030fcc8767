package triage

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/janus-pm/janus/internal/domain"
)

// Input carries one cleaned email into classification.
type Input struct {
	FromEmail string
	Subject   string
	Body      string
}

// Classifier decides relevance, type, urgency and category for an inbound
// email. Implementations never return errors: uncertain classification is
// fail-closed into a NotRelevant result so it can never create a ticket.
type Classifier interface {
	Classify(ctx context.Context, in Input) domain.TriageResult
}

// GeminiClassifier calls the Gemini API in strict-JSON response mode and
// normalizes whatever comes back.
type GeminiClassifier struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewGeminiClassifier builds the external-call classifier.
func NewGeminiClassifier(ctx context.Context, apiKey, model string, timeout time.Duration, logger *zap.Logger) (*GeminiClassifier, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = "gemini-1.5-pro"
	}
	return &GeminiClassifier{
		client:  client,
		model:   model,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Classify sends the triage prompt plus email content to Gemini. Transport or
// parse failures return NotRelevant with a diagnostic reason.
func (g *GeminiClassifier) Classify(ctx context.Context, in Input) domain.TriageResult {
	prompt := BuildPrompt(in.FromEmail, in.Subject, in.Body)

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.Models.GenerateContent(callCtx, g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			Temperature:      genai.Ptr[float32](0),
		})
	if err != nil {
		g.logger.Error("gemini triage call failed", zap.Error(err))
		return domain.NotRelevant("Gemini triage failed due to an internal error. Treating as not relevant.")
	}

	return ParsePayload(resp.Text())
}
