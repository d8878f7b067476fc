package leads

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain name",
			input: "Ada Lovelace",
			want:  "Ada Lovelace",
		},
		{
			name:  "trim spaces",
			input: "  Ada Lovelace  ",
			want:  "Ada Lovelace",
		},
		{
			name:  "control characters removed",
			input: "Ada\x00 Love\x07lace",
			want:  "Ada Lovelace",
		},
		{
			name:  "html escape",
			input: "<b>Ada</b>",
			want:  "&lt;b&gt;Ada&lt;/b&gt;",
		},
		{
			name:  "unicode kept",
			input: "José Müller",
			want:  "José Müller",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeName(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeName() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	if _, err := validateName("   "); err == nil || err.Error() != "name is required" {
		t.Errorf("expected required error, got %v", err)
	}
	if _, err := validateName(strings.Repeat("a", maxNameLength+1)); err == nil {
		t.Error("expected length error")
	}
	if got, err := validateName(strings.Repeat("é", maxNameLength)); err != nil || got == "" {
		t.Errorf("expected %d runes to be accepted, got %v", maxNameLength, err)
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid", "ada@example.com", "ada@example.com", false},
		{"normalized", "  Ada@Example.COM ", "ada@example.com", false},
		{"plus addressing", "ada+crm@example.com", "ada+crm@example.com", false},
		{"missing at", "ada.example.com", "", true},
		{"display name form", "Ada <ada@example.com>", "", true},
		{"bad domain", "ada@-example.com", "", true},
		{"too long", strings.Repeat("a", 250) + "@example.com", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validateEmail(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateEmail() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("validateEmail() = %q, want %q", got, tt.want)
			}
			var verr *ValidationError
			if err != nil && (!errors.As(err, &verr) || verr.Field != "email") {
				t.Errorf("expected email ValidationError, got %#v", err)
			}
		})
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"+1 (555) 010-2030", false},
		{"555.010.2030", false},
		{"12", true},
		{"call me maybe", true},
		{strings.Repeat("1", maxPhoneLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := validatePhone(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("validatePhone(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateLabel(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"qualified", "qualified", false},
		{" in_review ", "in_review", false},
		{"stage-2", "stage-2", false},
		{"", "", true},
		{"Qualified", "", true},
		{"two words", "", true},
		{strings.Repeat("a", maxLabelLength+1), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := validateLabel("stage", tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateLabel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("validateLabel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
