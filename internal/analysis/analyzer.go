package analysis

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"docvault-backend/internal/extract"
	"docvault-backend/internal/llm"
	"docvault-backend/internal/shared/metrics"
)

// The output contract sent with every analysis request. The model must
// return a single raw JSON object discriminated by documentType.
const instruction = `
You are an expert document analyzer. Analyze the provided document (text or image) and determine if it is an 'Invoice' or 'Information'.
Return ONLY a valid JSON object matching this structure:
{
    "documentType": "Invoice" | "Information",
    "invoiceData": {
        "clientName": "string",
        "clientAddress": "string",
        "providerName": "string",
        "providerAddress": "string",
        "invoiceNumber": "string",
        "date": "YYYY-MM-DD",
        "total": 0.00,
        "products": [
            { "name": "string", "quantity": 0, "unitPrice": 0.00, "total": 0.00 }
        ]
    },
    "informationData": {
        "description": "string",
        "summary": "string",
        "sentiment": "Positive" | "Negative" | "Neutral"
    }
}
If it is an Invoice, populate 'invoiceData' and leave 'informationData' null.
If it is Information, populate 'informationData' and leave 'invoiceData' null.
Ensure dates are valid ISO 8601 strings. Do not use markdown code blocks in response, just raw JSON.
`

// EventSink receives one audit event per analysis call.
type EventSink interface {
	LogEvent(ctx context.Context, eventType, description string, userID *string) error
}

// Analyzer classifies a buffered document via an external analysis client.
// A nil Client means no credential is configured; the analyzer then answers
// with a deterministic mock so the rest of the pipeline works without the
// external dependency.
type Analyzer struct {
	Client    llm.Client
	Events    EventSink
	MockDelay time.Duration
}

// Analyze inspects the payload and returns a structured result. It never
// returns an error: every external failure is converted into a fallback
// Information result and recorded as an error-level audit event.
func (a *Analyzer) Analyze(ctx context.Context, content []byte, fileName string) Result {
	started := metrics.NowMillis()
	defer func() {
		metrics.ObserveAnalysisDurationMs(metrics.NowMillis() - started)
	}()

	if a.Client == nil {
		metrics.IncAnalysisMock()
		a.log(ctx, "AI Analysis Warning", "Analysis API key not found. Using mock.")
		return a.mockAnalyze(fileName)
	}

	req := llm.Request{Instruction: instruction}
	switch extract.Classify(fileName) {
	case extract.KindImage:
		req.ImageMIME = extract.ImageMIME(fileName)
		req.ImageData = base64.StdEncoding.EncodeToString(content)
	default:
		// Unknown types degrade to a placeholder naming the file; they are
		// still sent rather than rejected outright.
		text := extract.Text(content, fileName)
		if strings.TrimSpace(text) == "" {
			return a.fail(ctx, fileName, fmt.Errorf("could not extract text"))
		}
		req.Text = text
	}

	raw, err := a.Client.Analyze(ctx, req)
	if err != nil {
		return a.fail(ctx, fileName, err)
	}

	result, err := ParseResponse(raw)
	if err != nil {
		return a.fail(ctx, fileName, err)
	}

	metrics.IncAnalysisCompleted()
	a.log(ctx, "AI Analysis", fmt.Sprintf("Analyzed %s: %s", fileName, resultSummary(result)))
	return result
}

func (a *Analyzer) fail(ctx context.Context, fileName string, err error) Result {
	metrics.IncAnalysisFailed()
	a.log(ctx, "AI Analysis Error", fmt.Sprintf("Failed to analyze %s: %s", fileName, err.Error()))
	return Result{
		DocumentType: TypeInformation,
		InformationData: &InformationData{
			Description: "Analysis Failed",
			Summary:     fmt.Sprintf("Error: %s", err.Error()),
			Sentiment:   SentimentNeutral,
		},
	}
}

func (a *Analyzer) log(ctx context.Context, eventType, description string) {
	if a.Events == nil {
		return
	}
	// Audit failures must not undo an otherwise usable analysis.
	_ = a.Events.LogEvent(ctx, eventType, description, nil)
}

func resultSummary(result Result) string {
	if result.DocumentType == TypeInvoice && result.InvoiceData != nil {
		return fmt.Sprintf("Invoice %s for %s", result.InvoiceData.InvoiceNumber, result.InvoiceData.Total.String())
	}
	if result.InformationData != nil {
		summary := result.InformationData.Summary
		if len(summary) > 50 {
			summary = summary[:50]
		}
		return fmt.Sprintf("Info: %s...", summary)
	}
	return ""
}
