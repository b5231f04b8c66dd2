package registry

import "testing"

func TestGenerateClientCode(t *testing.T) {
	tests := []struct {
		name     string
		document string
		owner    string
		want     string
	}{
		{"full inputs", "12345678", "Maria Lopez", "123-MAR"},
		{"short document", "12", "Maria", "120-MAR"},
		{"short name", "98765", "Jo", "987-JOX"},
		{"empty document", "", "Maria", "000-MAR"},
		{"empty name", "555", "", "555-XXX"},
		{"document with separators", "1-2.3 456", "Ana", "123-ANA"},
		{"name with leading spaces", "111", "  de la Cruz", "111-DEL"},
		{"lowercase name", "222333", "pedro", "222-PED"},
		{"both empty", "", "", "000-XXX"},
		{"non-ascii digits", "٤٥٦78", "Maria", "٤٥٦-MAR"},
		{"accented name", "123", "Ángel", "123-ÁNG"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GenerateClientCode(tt.document, tt.owner); got != tt.want {
				t.Errorf("GenerateClientCode(%q, %q) = %q, want %q", tt.document, tt.owner, got, tt.want)
			}
		})
	}
}

func TestGenerateClientCode_Stable(t *testing.T) {
	a := GenerateClientCode("40212345", "Carlos Gomez")
	b := GenerateClientCode("40212345", "Carlos Gomez")
	if a != b {
		t.Errorf("expected stable code, got %q and %q", a, b)
	}
}
