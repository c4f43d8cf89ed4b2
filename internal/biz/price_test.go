package biz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice_SinglePrice(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		tradeType string
		want      string
	}{
		{"above eok threshold", "15000", TradeTypeJeonse, "1.5억"},
		{"exactly one eok", "10000", TradeTypeJeonse, "1.0억"},
		{"below threshold grouped", "9000", TradeTypeJeonse, "9,000만원"},
		{"small price", "500", "매매", "500만원"},
		{"large sale price", "125000", "매매", "12.5억"},
		{"non-numeric passthrough", "가격협의", TradeTypeJeonse, "가격협의"},
		{"empty", "", TradeTypeJeonse, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.raw, tt.tradeType))
		})
	}
}

func TestFormatPrice_MonthlyRent(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"small deposit", "5000/50", "보증금 5,000만원 / 월세 50만원"},
		{"large deposit", "12000/80", "보증금 1.2억 / 월세 80만원"},
		{"deposit at threshold", "10000/100", "보증금 1.0억 / 월세 100만원"},
		{"monthly with spaces", "5000/ 50", "보증금 5,000만원 / 월세 50만원"},
		{"non-numeric deposit passthrough", "보증금협의/50", "보증금협의/50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.raw, TradeTypeMonthly))
		})
	}
}

func TestFormatPrice_MonthlyLabelWithoutDelimiter(t *testing.T) {
	// A 월세 listing without the delimiter falls back to single-price handling.
	assert.Equal(t, "9,000만원", FormatPrice("9000", TradeTypeMonthly))
}

func TestGroupThousands(t *testing.T) {
	assert.Equal(t, "0", groupThousands(0))
	assert.Equal(t, "999", groupThousands(999))
	assert.Equal(t, "1,000", groupThousands(1000))
	assert.Equal(t, "1,234,567", groupThousands(1234567))
}
