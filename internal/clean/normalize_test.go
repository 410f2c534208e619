package clean

import (
	"testing"
	"time"
)

func TestStripAccents(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"são paulo", "sao paulo"},
		{"ribeirão preto", "ribeirao preto"},
		{"açaí", "acai"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripAccents(tt.in); got != tt.want {
			t.Errorf("StripAccents(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeCity(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  são paulo ", "SAO PAULO"},
		{"Rio de Janeiro", "RIO DE JANEIRO"},
		{"BRASÍLIA", "BRASILIA"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeCity(tt.in); got != tt.want {
			t.Errorf("NormalizeCity(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeCityIdempotent(t *testing.T) {
	in := "  ribeirão das neves "
	once := NormalizeCity(in)
	twice := NormalizeCity(once)
	if once != twice {
		t.Errorf("NormalizeCity not idempotent: %q then %q", once, twice)
	}
}

func TestCategorySlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Cama Mesa Banho", "cama_mesa_banho"},
		{"  beleza saude ", "beleza_saude"},
		{"informatica_acessorios", "informatica_acessorios"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := CategorySlug(tt.in); got != tt.want {
			t.Errorf("CategorySlug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   string
		want *time.Time
	}{
		{"native", "2024-03-15 10:30:00", &want},
		{"rfc3339", "2024-03-15T10:30:00Z", &want},
		{"date only", "2024-03-15", timePtr(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))},
		{"empty", "", nil},
		{"whitespace", "   ", nil},
		{"garbage", "not a date", nil},
		{"partial", "2024-13-45 99:99:99", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTimestamp(tt.in)
			switch {
			case got == nil && tt.want == nil:
			case got == nil || tt.want == nil:
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
			case !got.Equal(*tt.want):
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, *got, *tt.want)
			}
		})
	}
}

func timePtr(t time.Time) *time.Time { return &t }
