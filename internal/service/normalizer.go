package service

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrSymbolRequired is returned when the request has no usable symbol.
var ErrSymbolRequired = errors.New("symbol is required")

// NormalizedRequest is an analysis request after validation.
type NormalizedRequest struct {
	Symbol    string // as sent by the caller, e.g. "EUR/USD"
	Formatted string // separator removed, e.g. "EURUSD"
}

// Normalizer validates inbound analysis requests.
type Normalizer struct {
	logger *zap.Logger
}

func NewNormalizer(logger *zap.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize extracts the symbol from a decoded JSON body.
//
// A missing or falsy symbol (null, "", false, 0, empty list or object) yields
// ErrSymbolRequired. A truthy value that is not a string is an ordinary error.
func (n *Normalizer) Normalize(body map[string]any) (*NormalizedRequest, error) {
	raw, ok := body["symbol"]
	if !ok || isFalsy(raw) {
		return nil, ErrSymbolRequired
	}

	symbol, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("symbol must be a string, got %v", raw)
	}

	req := &NormalizedRequest{
		Symbol:    symbol,
		Formatted: NormalizeSymbol(symbol),
	}

	n.logger.Info("received sentiment analysis request",
		zap.String("symbol", req.Symbol),
		zap.String("formatted", req.Formatted),
	)

	return req, nil
}

// NormalizeSymbol accepts both "EUR/USD" and "EURUSD" by dropping every "/".
func NormalizeSymbol(symbol string) string {
	return strings.ReplaceAll(symbol, "/", "")
}

// isFalsy reports whether a decoded JSON value counts as "not provided".
func isFalsy(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case float64:
		return val == 0
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}
