package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"user@example.com", true},
		{"first.last+tag@sub.example.org", true},
		{"", false},
		{"user", false},
		{"user@", false},
		{"@example.com", false},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, IsValidEmail(test.input), "IsValidEmail(%q)", test.input)
	}
}

func TestIsValidURL(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"http://localhost:8082", true},
		{"https://api.example.com/v1", true},
		{"localhost:8082", false},
		{"/relative/path", false},
		{"", false},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, IsValidURL(test.input), "IsValidURL(%q)", test.input)
	}
}

func TestIsValidCountryCode(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"US", true},
		{"gb", true},
		{"De", true},
		{"USA", false},
		{"U", false},
		{"1A", false},
		{"", false},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, IsValidCountryCode(test.input), "IsValidCountryCode(%q)", test.input)
	}
}

func TestIsValidDomain(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"example.com", true},
		{"ads.example.co.uk", true},
		{"*.example.com", true},
		{"example.com.", true},
		{"localhost", false},
		{"-bad.example.com", false},
		{"bad..example.com", false},
		{"has space.com", false},
		{"", false},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, IsValidDomain(test.input), "IsValidDomain(%q)", test.input)
	}
}

func BenchmarkIsValidDomain(b *testing.B) {
	domain := "tracker.ads.example.com"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		IsValidDomain(domain)
	}
}
