package service

import (
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"EUR/USD", "EURUSD"},
		{"EURUSD", "EURUSD"},
		{"BTC/USDT/PERP", "BTCUSDTPERP"},
		{"//", ""},
		{"/A/", "A"},
	}

	for _, tt := range tests {
		got := NormalizeSymbol(tt.in)
		if got != tt.want {
			t.Errorf("NormalizeSymbol(%q) = %q, want %q", tt.in, got, tt.want)
		}
		// Applying it twice must not change anything further.
		if again := NormalizeSymbol(got); again != got {
			t.Errorf("NormalizeSymbol not idempotent for %q: %q then %q", tt.in, got, again)
		}
	}
}

func TestNormalizer_Normalize(t *testing.T) {
	n := NewNormalizer(zap.NewNop())

	req, err := n.Normalize(map[string]any{"symbol": "EUR/USD"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Symbol != "EUR/USD" {
		t.Errorf("expected original symbol kept, got %q", req.Symbol)
	}
	if req.Formatted != "EURUSD" {
		t.Errorf("expected formatted EURUSD, got %q", req.Formatted)
	}
}

func TestNormalizer_MissingSymbol(t *testing.T) {
	n := NewNormalizer(zap.NewNop())

	bodies := []map[string]any{
		nil,
		{},
		{"symbol": nil},
		{"symbol": ""},
		{"symbol": false},
		{"symbol": float64(0)},
		{"symbol": []any{}},
		{"symbol": map[string]any{}},
		{"ticker": "EUR/USD"},
	}

	for _, body := range bodies {
		_, err := n.Normalize(body)
		if !errors.Is(err, ErrSymbolRequired) {
			t.Errorf("Normalize(%v): expected ErrSymbolRequired, got %v", body, err)
		}
	}
}

func TestNormalizer_NonStringSymbol(t *testing.T) {
	n := NewNormalizer(zap.NewNop())

	_, err := n.Normalize(map[string]any{"symbol": float64(123)})
	if err == nil {
		t.Fatal("expected error for numeric symbol")
	}
	if errors.Is(err, ErrSymbolRequired) {
		t.Error("a truthy non-string symbol is not a validation error")
	}
}
