package engine

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"salesdash/pkg/apperrors"
	"salesdash/pkg/metrics"
	"salesdash/pkg/normalize"
	"salesdash/pkg/schema"
)

// keyColumns are lifted out of the passthrough attributes of a cleaned line.
var keyColumns = map[string]bool{
	schema.ColOrderID:   true,
	schema.ColBookID:    true,
	schema.ColUserID:    true,
	schema.ColUnitPrice: true,
	schema.ColQuantity:  true,
}

// CleanResult holds the cleaned order lines and what the clean step recovered from.
type CleanResult struct {
	Lines []schema.CleanedLine `json:"lines"`
	// AttributeColumns lists passthrough columns in join order.
	AttributeColumns  []string `json:"attributeColumns"`
	HasDates          bool     `json:"hasDates"`
	CurrencyFallbacks int      `json:"currencyFallbacks"`
	QuantityFallbacks int      `json:"quantityFallbacks"`
}

// Cleaner applies the timestamp, currency and quantity normalizers to joined lines.
type Cleaner struct {
	currency   *normalize.CurrencyNormalizer
	timestamps *normalize.TimestampNormalizer
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewCleaner creates a cleaner. m may be nil.
func NewCleaner(currency *normalize.CurrencyNormalizer, logger *zap.Logger, m *metrics.Metrics) *Cleaner {
	return &Cleaner{
		currency:   currency,
		timestamps: normalize.NewTimestampNormalizer(),
		logger:     logger.Named("cleaner"),
		metrics:    m,
	}
}

// Clean converts joined order lines into cleaned lines:
//   - date key from the timestamp column; an absent column leaves every date
//     key empty, an unparseable value fails the whole clean
//   - unit price through the currency normalizer, 0 on failure
//   - quantity as a non-negative number, 0 on failure
//   - paid amount = unit price × quantity
func (c *Cleaner) Clean(jr *JoinResult) (*CleanResult, error) {
	for _, col := range []string{schema.ColUnitPrice, schema.ColQuantity} {
		if !jr.HasColumn(col) {
			return nil, &apperrors.LoadError{
				Dataset: schema.KindOrders.String(),
				Err:     fmt.Errorf("missing required column %q", col),
			}
		}
	}

	result := &CleanResult{
		Lines:    make([]schema.CleanedLine, 0, len(jr.Lines)),
		HasDates: jr.HasColumn(schema.ColTimestamp),
	}
	for _, col := range jr.Columns {
		if !keyColumns[col] {
			result.AttributeColumns = append(result.AttributeColumns, col)
		}
	}

	if !result.HasDates {
		c.logger.Warn("No timestamp column; date-keyed reports will be empty")
	}

	for i, line := range jr.Lines {
		cleaned := schema.CleanedLine{
			OrderID:    strings.TrimSpace(line[schema.ColOrderID]),
			BookID:     schema.NormalizeKey(line[schema.ColBookID]),
			UserID:     schema.NormalizeKey(line[schema.ColUserID]),
			Attributes: make(schema.Record, len(result.AttributeColumns)),
		}
		for _, col := range result.AttributeColumns {
			cleaned.Attributes[col] = line[col]
		}

		if result.HasDates {
			if raw := strings.TrimSpace(line[schema.ColTimestamp]); raw != "" {
				key, err := c.timestamps.DateKey(raw)
				if err != nil {
					return nil, fmt.Errorf("order line %d: %w", i+1, err)
				}
				cleaned.DateKey = key
			}
		}

		price, err := c.currency.Parse(line[schema.ColUnitPrice])
		if err != nil {
			c.logger.Warn("Unparseable unit price replaced with 0",
				zap.Int("line", i+1),
				zap.String("order_id", cleaned.OrderID),
				zap.String("value", line[schema.ColUnitPrice]),
				zap.Error(err))
			c.metrics.ValueFallback(string(apperrors.ParseCurrency))
			result.CurrencyFallbacks++
			price = 0
		}

		quantity, err := normalize.ParseQuantity(line[schema.ColQuantity])
		if err != nil {
			c.logger.Warn("Unparseable quantity replaced with 0",
				zap.Int("line", i+1),
				zap.String("order_id", cleaned.OrderID),
				zap.String("value", line[schema.ColQuantity]),
				zap.Error(err))
			c.metrics.ValueFallback(string(apperrors.ParseQuantity))
			result.QuantityFallbacks++
			quantity = 0
		}

		cleaned.UnitPrice = price
		cleaned.Quantity = quantity
		cleaned.PaidAmount = normalize.PaidAmount(price, quantity)
		result.Lines = append(result.Lines, cleaned)
	}

	return result, nil
}
