package usecase

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// currencyBRL masks an amount for the order form: R$ 1.234,56.
func currencyBRL(v float64) string {
	cents := int64(math.Round(v * 100))
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10)

	var b strings.Builder
	pre := len(s) % 3
	if pre == 0 {
		pre = 3
	}
	b.WriteString(s[:pre])
	for i := pre; i < len(s); i += 3 {
		b.WriteByte('.')
		b.WriteString(s[i : i+3])
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("R$ %s%s,%02d", sign, b.String(), cents%100)
}

func formatDate(epochMillis int64) string {
	return time.UnixMilli(epochMillis).UTC().Format("02/01/2006")
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
