package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Document classifications returned by the analysis contract.
const (
	TypeInvoice     = "Invoice"
	TypeInformation = "Information"
)

// Sentiment values for information results.
const (
	SentimentPositive = "Positive"
	SentimentNegative = "Negative"
	SentimentNeutral  = "Neutral"
)

// Result is the tagged analysis outcome: exactly one of InvoiceData or
// InformationData is populated, discriminated by DocumentType.
type Result struct {
	DocumentType    string           `json:"documentType"`
	InvoiceData     *InvoiceData     `json:"invoiceData,omitempty"`
	InformationData *InformationData `json:"informationData,omitempty"`
}

// Product is one invoice line item.
type Product struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
}

// InvoiceData captures structured invoice details extracted from a document.
// Money values are decimals, never binary floats. The date, when present, is
// an ISO-8601 date string.
type InvoiceData struct {
	ClientName      string          `json:"clientName"`
	ClientAddress   string          `json:"clientAddress"`
	ProviderName    string          `json:"providerName"`
	ProviderAddress string          `json:"providerAddress"`
	InvoiceNumber   string          `json:"invoiceNumber"`
	Date            *string         `json:"date,omitempty"`
	Total           decimal.Decimal `json:"total"`
	Products        []Product       `json:"products"`
}

// InformationData carries the freeform interpretation of a non-invoice
// document.
type InformationData struct {
	Description string `json:"description"`
	Summary     string `json:"summary"`
	Sentiment   string `json:"sentiment"`
}

// ParseResponse strips any surrounding code-fence markup from raw model
// output and decodes it into a Result, enforcing the discriminator
// invariant. Field matching is case-insensitive per encoding/json.
func ParseResponse(raw string) (Result, error) {
	cleaned := stripCodeFences(raw)

	var result Result
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return Result{}, fmt.Errorf("decode analysis response: %w", err)
	}

	switch result.DocumentType {
	case TypeInvoice:
		if result.InvoiceData == nil {
			return Result{}, fmt.Errorf("documentType Invoice without invoiceData")
		}
		result.InformationData = nil
	case TypeInformation:
		if result.InformationData == nil {
			return Result{}, fmt.Errorf("documentType Information without informationData")
		}
		result.InvoiceData = nil
	default:
		return Result{}, fmt.Errorf("unknown documentType %q", result.DocumentType)
	}

	return result, nil
}

func stripCodeFences(raw string) string {
	if idx := strings.Index(raw, "```json"); idx >= 0 {
		rest := raw[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	if idx := strings.Index(raw, "```"); idx >= 0 {
		rest := raw[idx+len("```"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(raw)
}
