package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDigits(t *testing.T) {
	assert.Equal(t, "123", NormalizeDigits("١٢٣"))
	assert.Equal(t, "PN-20240101-A1B2", NormalizeDigits("PN-٢٠٢٤٠١٠١-A1B2"))
	assert.Equal(t, "abc", NormalizeDigits("abc"))
	assert.Equal(t, "", NormalizeDigits(""))

	// Idempotent: normalizing twice yields the same key.
	once := NormalizeDigits("٠٩ mixed ٥")
	assert.Equal(t, once, NormalizeDigits(once))
}

func TestNewSessionToken(t *testing.T) {
	a, err := NewSessionToken()
	require.NoError(t, err)
	b, err := NewSessionToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.Regexp(t, "^[0-9a-f]{64}$", a)
	assert.NotEqual(t, a, b)
}

func TestNewProductNumber(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^PN-20260901-[A-Z0-9]{4}$`)
	for i := 0; i < 20; i++ {
		number, err := NewProductNumber(now)
		require.NoError(t, err)
		assert.True(t, pattern.MatchString(number), "unexpected format: %s", number)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"25000", 25000, false},
		{"25,000", 25000, false},
		{"1,250,000.50", 1250000.50, false},
		{" 100 ", 100, false},
		{"0", 0, false},
		{"-5", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParsePrice(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestFormatThousands(t *testing.T) {
	assert.Equal(t, "0", FormatThousands(0))
	assert.Equal(t, "999", FormatThousands(999))
	assert.Equal(t, "1,000", FormatThousands(1000))
	assert.Equal(t, "25,000", FormatThousands(25000))
	assert.Equal(t, "1,250,000", FormatThousands(1250000))
	assert.Equal(t, "-1,500", FormatThousands(-1500))
}

func TestPasswordHashing(t *testing.T) {
	hash := HashPassword("admin123")
	assert.Len(t, hash, 64)
	assert.True(t, VerifyPassword(hash, "admin123"))
	assert.False(t, VerifyPassword(hash, "admin124"))
	assert.False(t, VerifyPassword("", "admin123"))

	// The digest is deterministic so local and remote records can be
	// compared directly.
	assert.Equal(t, hash, HashPassword("admin123"))
}
