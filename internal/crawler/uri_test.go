package crawler

import "testing"

func TestDefaultValidator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		candidate string
		want      bool
	}{
		{"https://example.com/about", true},
		{"https://example.com?q=1&r=2", true},
		{"https://example.com/a%2Fb", true},
		{"urn:isbn:0451450523", true},
		{"", false},
		{"/relative/only", false},
		{"https://example.com/a b", false},
		{"https://example.com/<script>", false},
		{"https://example.com/%", false},
		{"https://example.com/%4", false},
		{"https://example.com/%GG", false},
		{"1http://example.com", false},
	}

	var v DefaultValidator
	for _, tt := range tests {
		t.Run(tt.candidate, func(t *testing.T) {
			t.Parallel()

			if got := v.IsValidURI(tt.candidate); got != tt.want {
				t.Errorf("IsValidURI(%q) = %v, want %v", tt.candidate, got, tt.want)
			}
		})
	}
}
