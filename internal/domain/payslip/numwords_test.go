package payslip

import "testing"

func TestNumberToWords(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "Zero Rupees Only"},
		{1, "One Rupees Only"},
		{10, "Ten Rupees Only"},
		{21, "Twenty One Rupees Only"},
		{105, "One Hundred Five Rupees Only"},
		{999, "Nine Hundred Ninety Nine Rupees Only"},
		{1000, "One Thousand Rupees Only"},
		{38800, "Thirty Eight Thousand Eight Hundred Rupees Only"},
		{50000, "Fifty Thousand Rupees Only"},
		{100000, "One Lakh Rupees Only"},
		{123456, "One Lakh Twenty Three Thousand Four Hundred Fifty Six Rupees Only"},
		{10000000, "One Crore Rupees Only"},
		{12345678, "One Crore Twenty Three Lakh Forty Five Thousand Six Hundred Seventy Eight Rupees Only"},
	}
	for _, tt := range tests {
		if got := NumberToWords(tt.amount); got != tt.want {
			t.Errorf("NumberToWords(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestNumberToWordsPaise(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{100.50, "One Hundred Rupees and Fifty Paise Only"},
		{0.25, "Twenty Five Paise Only"},
		{38800.75, "Thirty Eight Thousand Eight Hundred Rupees and Seventy Five Paise Only"},
	}
	for _, tt := range tests {
		if got := NumberToWords(tt.amount); got != tt.want {
			t.Errorf("NumberToWords(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestNumberToWordsNegativeAndNaN(t *testing.T) {
	if got := NumberToWords(-42); got != "Zero Rupees Only" {
		t.Errorf("negative amount = %q", got)
	}
}

func TestNumberToWordsPaiseCarry(t *testing.T) {
	// 99.999 rounds its paise component to 100, carrying into rupees.
	if got := NumberToWords(99.999); got != "One Hundred Rupees Only" {
		t.Errorf("NumberToWords(99.999) = %q", got)
	}
}
