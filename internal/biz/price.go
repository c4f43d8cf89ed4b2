package biz

import (
	"fmt"
	"strconv"
	"strings"
)

// Trade type labels as reported by the broker catalog feed (tradTpNm).
const (
	// TradeTypeMonthly is deposit-plus-monthly rent (월세).
	TradeTypeMonthly = "월세"
	// TradeTypeJeonse is lease-deposit-only rent (전세).
	TradeTypeJeonse = "전세"
)

// FormatPrice converts a raw catalog price into a human-readable string.
// Prices are quoted in 만원 (10,000 KRW) units; amounts of 1억 (10,000만원)
// and above are rendered as a one-decimal 억 figure.
//
// For 월세 listings the raw price is "deposit/monthly" and both components are
// rendered. On any parse failure the raw input is returned unchanged so a
// malformed upstream price never fails the pipeline.
func FormatPrice(raw, tradeType string) string {
	if raw == "" {
		return ""
	}

	if tradeType == TradeTypeMonthly && strings.Contains(raw, "/") {
		parts := strings.SplitN(raw, "/", 2)
		deposit, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return raw
		}
		monthly := strings.TrimSpace(parts[1])

		if deposit >= 10000 {
			return fmt.Sprintf("보증금 %.1f억 / 월세 %s만원", float64(deposit)/10000, monthly)
		}
		return fmt.Sprintf("보증금 %s만원 / 월세 %s만원", groupThousands(deposit), monthly)
	}

	price, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}

	if price >= 10000 {
		return fmt.Sprintf("%.1f억", float64(price)/10000)
	}
	return groupThousands(price) + "만원"
}

// groupThousands renders n with comma thousand separators.
func groupThousands(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
