package utils

import "strings"

var (
	cnpjFirstWeights  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjSecondWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// CleanCNPJ keeps only the digits of a CNPJ.
func CleanCNPJ(cnpj string) string {
	var b strings.Builder
	for _, r := range cnpj {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatCNPJ renders a CNPJ as XX.XXX.XXX/XXXX-XX. Input without 14 digits is returned unchanged.
func FormatCNPJ(cnpj string) string {
	c := CleanCNPJ(cnpj)
	if len(c) != 14 {
		return cnpj
	}
	return c[:2] + "." + c[2:5] + "." + c[5:8] + "/" + c[8:12] + "-" + c[12:]
}

// IsValidCNPJ checks length and both check digits.
func IsValidCNPJ(cnpj string) bool {
	c := CleanCNPJ(cnpj)
	if len(c) != 14 || strings.Count(c, c[:1]) == 14 {
		return false
	}

	digits := make([]int, 14)
	for i := range c {
		digits[i] = int(c[i] - '0')
	}

	return cnpjCheckDigit(digits[:12], cnpjFirstWeights) == digits[12] &&
		cnpjCheckDigit(digits[:13], cnpjSecondWeights) == digits[13]
}

func cnpjCheckDigit(digits, weights []int) int {
	sum := 0
	for i, d := range digits {
		sum += d * weights[i]
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}
