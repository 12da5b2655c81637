package analysis

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// mockAnalyze synthesizes a result from a filename heuristic after a fixed
// simulated delay, for local development and tests without the external
// service.
func (a *Analyzer) mockAnalyze(fileName string) Result {
	if a.MockDelay > 0 {
		time.Sleep(a.MockDelay)
	}

	if strings.Contains(strings.ToLower(fileName), "invoice") {
		date := time.Now().UTC().Format("2006-01-02")
		return Result{
			DocumentType: TypeInvoice,
			InvoiceData: &InvoiceData{
				ClientName:      "Tech Solutions Inc.",
				ClientAddress:   "123 Innovation Dr",
				ProviderName:    "Cloud Services LLC",
				ProviderAddress: "456 Server Ave",
				InvoiceNumber:   "INV-MOCK-001",
				Date:            &date,
				Total:           decimal.NewFromInt(1500),
				Products: []Product{
					{
						Name:      "Mock Service",
						Quantity:  1,
						UnitPrice: decimal.NewFromInt(1500),
						Total:     decimal.NewFromInt(1500),
					},
				},
			},
		}
	}

	return Result{
		DocumentType: TypeInformation,
		InformationData: &InformationData{
			Description: "Mock Info",
			Summary:     "This is a mock response.",
			Sentiment:   SentimentNeutral,
		},
	}
}
