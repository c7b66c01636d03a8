package bonus

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ---------------------- utilitários de texto ----------------------

var nonAlphanumericRegex = regexp.MustCompile(`[^A-Z0-9 ]+`)
var whitespaceRegex = regexp.MustCompile(`\s+`)

// normalizeText uppercases, strips accents and collapses whitespace. Header,
// sheet and cost-center matching go through it so "C. Custo" and "c custo"
// compare equal.
func normalizeText(str string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
	result, _, _ := transform.String(t, str)
	result = strings.ToUpper(result)
	result = nonAlphanumericRegex.ReplaceAllString(result, " ")
	result = whitespaceRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// sanitizeForCSV remove tabs e quebras de linha embutidas, converte demais
// caracteres de controle para espaço e faz trim.
func sanitizeForCSV(s string) string {
	if s == "" {
		return ""
	}

	start := 0
	end := len(s)

	for start < end {
		r, size := utf8.DecodeRuneInString(s[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		start += size
	}
	for end > start {
		r, size := utf8.DecodeLastRuneInString(s[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		end -= size
	}
	if start >= end {
		return ""
	}

	var b strings.Builder
	b.Grow(end - start)

	for i := start; i < end; {
		r, size := utf8.DecodeRuneInString(s[i:end])
		i += size

		if r == '\r' || r == '\n' || r == '\t' {
			continue
		}
		if r < 32 {
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

// ---------------------- números ----------------------

// parseDecimal: heurística para entradas brasileiras/anglo ("1.234,56",
// "1234.56", "R$ 1.234,56", "(15,00)").
func parseDecimal(val string) (decimal.Decimal, error) {
	s := strings.TrimSpace(val)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty numeric value")
	}
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty numeric value")
	}

	// tratar sinais/parenteses
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimPrefix(strings.TrimSuffix(s, ")"), "(")
	}
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimPrefix(s, "-")
	}

	// localizar última ocorrência de . e , para decidir formato
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	if lastComma > lastDot {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else if lastDot > lastComma {
		if strings.Count(s, ".") > 1 {
			parts := strings.Split(s, ".")
			decimalPart := parts[len(parts)-1]
			intPart := strings.Join(parts[:len(parts)-1], "")
			s = intPart + "." + decimalPart
		}
	} else {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}

	// remover quaisquer caracteres que não sejam dígitos ou ponto residual
	filtered := make([]rune, 0, len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			filtered = append(filtered, r)
		}
	}
	s = string(filtered)
	if s == "" {
		return decimal.Zero, fmt.Errorf("no digits in %q", val)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// formatTwoDecimalsComma renders a money value the Brazilian way: two decimal
// places, comma separator.
func formatTwoDecimalsComma(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}

// ---------------------- datas ----------------------

// parseDate accepts dd/mm/yyyy, ISO date prefixes and plausible Excel serials.
// The result is truncated to midnight UTC.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("02/01/2006", s); err == nil {
		return dateOnly(t), true
	}
	if len(s) >= 10 {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return dateOnly(t), true
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		// aplicar intervalo plausível para serial Excel
		if f > 35000 && f < 47000 {
			return dateOnly(excelSerialToDate(f)), true
		}
	}
	return time.Time{}, false
}

func excelSerialToDate(serial float64) time.Time {
	// base Excel serial -> 1899-12-30
	base := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	frac := serial - float64(int64(serial))
	duration := time.Duration(int64(serial)*24) * time.Hour
	duration += time.Duration(frac * 24 * float64(time.Hour))
	return base.Add(duration)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
