// Package ocr extracts structured fields from scanned mail through the Mindee US mail API.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"agentmail/internal/config"
	"agentmail/internal/logger"
	"agentmail/internal/model"
	"agentmail/internal/provider"
)

const providerName = "mindee"

// defaultConfidence is used when the provider omits a confidence score.
const defaultConfidence = 0.8

// textField accepts either a bare string or a {"value": ..., "confidence": ...} object.
type textField string

func (f *textField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = textField(strings.TrimSpace(s))
		return nil
	}
	var obj struct {
		Value *string `json:"value"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	if obj.Value != nil {
		*f = textField(strings.TrimSpace(*obj.Value))
	}
	return nil
}

// numberField accepts either a bare number or a {"value": ...} object.
type numberField struct {
	Value float64
	Set   bool
}

func (f *numberField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '{' {
		var obj struct {
			Value *float64 `json:"value"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		if obj.Value != nil {
			f.Value, f.Set = *obj.Value, true
		}
		return nil
	}
	if err := json.Unmarshal(b, &f.Value); err != nil {
		return err
	}
	f.Set = true
	return nil
}

type prediction struct {
	Sender           textField   `json:"sender"`
	SenderAddress    textField   `json:"sender_address"`
	Recipient        textField   `json:"recipient"`
	RecipientAddress textField   `json:"recipient_address"`
	PostalDate       textField   `json:"postal_date"`
	DocumentType     textField   `json:"document_type"`
	ContentSummary   textField   `json:"content_summary"`
	Confidence       numberField `json:"confidence"`
}

type predictResponse struct {
	Document *struct {
		Inference *struct {
			Prediction *prediction `json:"prediction"`
		} `json:"inference"`
	} `json:"document"`
}

func (r *predictResponse) prediction() *prediction {
	if r.Document == nil || r.Document.Inference == nil {
		return nil
	}
	return r.Document.Inference.Prediction
}

// MindeeClient calls the Mindee prediction endpoint.
type MindeeClient struct {
	http     *resty.Client
	apiKey   string
	endpoint string
	log      *zap.Logger
	now      func() time.Time
}

// NewMindee builds a client from configuration. An empty API key puts it in simulation mode.
func NewMindee(cfg config.OCRConfig, timeout time.Duration, log *zap.Logger) *MindeeClient {
	httpClient := resty.New().
		SetTimeout(timeout).
		SetTransport(otelhttp.NewTransport(http.DefaultTransport)).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		httpClient.SetAuthScheme("Token").SetAuthToken(cfg.APIKey)
	}

	return &MindeeClient{
		http:     httpClient,
		apiKey:   cfg.APIKey,
		endpoint: cfg.Endpoint,
		log:      logger.OrNop(log).With(zap.String("provider", providerName)),
		now:      time.Now,
	}
}

// Simulated reports whether the client runs without credentials.
func (c *MindeeClient) Simulated() bool {
	return c.apiKey == ""
}

// Extract returns normalized fields for the document at documentURL.
// The returned error is always nil; provider failures yield the simulated extraction.
func (c *MindeeClient) Extract(ctx context.Context, documentURL string) (model.ExtractedFields, error) {
	if c.Simulated() {
		return provider.SimulatedExtraction(c.now()), nil
	}

	fields, err := c.predict(ctx, documentURL)
	if err != nil {
		c.log.Warn("ocr extraction failed, using simulated extraction",
			zap.String("document_url", documentURL),
			zap.String("category", string(provider.CategoryOf(err))),
			zap.Error(err),
		)
		return provider.SimulatedExtraction(c.now()), nil
	}
	return fields, nil
}

func (c *MindeeClient) predict(ctx context.Context, documentURL string) (model.ExtractedFields, error) {
	var out predictResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"document": documentURL}).
		SetResult(&out).
		Post(c.endpoint)
	if err != nil {
		return model.ExtractedFields{}, provider.TransportError(providerName, err)
	}
	if resp.IsError() {
		return model.ExtractedFields{}, provider.NewError(provider.CategoryBadStatus, providerName,
			fmt.Sprintf("unexpected status %d", resp.StatusCode()), nil)
	}

	p := out.prediction()
	if p == nil {
		return model.ExtractedFields{}, provider.NewError(provider.CategoryMalformed, providerName, "response has no prediction", nil)
	}
	if p.Sender == "" && p.DocumentType == "" {
		return model.ExtractedFields{}, provider.NewError(provider.CategoryMalformed, providerName, "prediction has neither sender nor document type", nil)
	}

	return model.ExtractedFields{
		Sender:           string(p.Sender),
		SenderAddress:    string(p.SenderAddress),
		Recipient:        string(p.Recipient),
		RecipientAddress: string(p.RecipientAddress),
		PostalDate:       string(p.PostalDate),
		DocumentTitle:    string(p.DocumentType),
		DocumentSummary:  string(p.ContentSummary),
		Confidence:       confidence(p.Confidence),
	}, nil
}

func confidence(n numberField) float64 {
	switch {
	case !n.Set:
		return defaultConfidence
	case n.Value < 0:
		return 0
	case n.Value > 1:
		return 1
	default:
		return n.Value
	}
}
