package payslip

import (
	"math"
	"strings"
)

var (
	wordOnes = []string{"", "One", "Two", "Three", "Four", "Five", "Six",
		"Seven", "Eight", "Nine"}
	wordTeens = []string{"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen",
		"Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen"}
	wordTens = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty",
		"Seventy", "Eighty", "Ninety"}
)

func wordsBelowThousand(n int64) string {
	var b strings.Builder
	if n > 99 {
		b.WriteString(wordOnes[n/100])
		b.WriteString(" Hundred ")
		n %= 100
	}
	if n > 19 {
		b.WriteString(wordTens[n/10])
		b.WriteString(" ")
		n %= 10
	}
	if n > 9 {
		b.WriteString(wordTeens[n-10])
		b.WriteString(" ")
		n = 0
	}
	if n > 0 {
		b.WriteString(wordOnes[n])
		b.WriteString(" ")
	}
	return b.String()
}

func rupeeWords(n int64) string {
	var b strings.Builder
	if crores := n / 10000000; crores > 0 {
		b.WriteString(wordsBelowThousand(crores))
		b.WriteString("Crore ")
		n %= 10000000
	}
	if lakhs := n / 100000; lakhs > 0 {
		b.WriteString(wordsBelowThousand(lakhs))
		b.WriteString("Lakh ")
		n %= 100000
	}
	if thousands := n / 1000; thousands > 0 {
		b.WriteString(wordsBelowThousand(thousands))
		b.WriteString("Thousand ")
		n %= 1000
	}
	if n > 0 {
		b.WriteString(wordsBelowThousand(n))
	}
	return strings.TrimSpace(b.String())
}

// NumberToWords renders a monetary amount in the Indian numbering system,
// e.g. "Fifty Thousand Rupees Only" or
// "One Lakh Rupees and Fifty Paise Only".
func NumberToWords(amount float64) string {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "Zero Rupees Only"
	}

	rupees := int64(math.Floor(amount))
	paise := int64(math.Round((amount - math.Floor(amount)) * 100))
	if paise == 100 {
		rupees++
		paise = 0
	}

	switch {
	case rupees == 0 && paise > 0:
		return wordsBelowThousand(paise) + "Paise Only"
	case paise > 0:
		return rupeeWords(rupees) + " Rupees and " + strings.TrimSpace(wordsBelowThousand(paise)) + " Paise Only"
	default:
		return rupeeWords(rupees) + " Rupees Only"
	}
}
