package overlay

import "testing"

func TestMatches(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		challenge string
		want      bool
	}{
		{"exact", "Sorry, I was distracted.", "Sorry, I was distracted.", true},
		{"case sensitive", "sorry, i was distracted.", "Sorry, I was distracted.", false},
		{"input padded", "  Sorry, I was distracted. ", "Sorry, I was distracted.", true},
		{"challenge padded", "Sorry, I was distracted.", " Sorry, I was distracted.\n", true},
		{"input double quoted", `"Sorry, I was distracted."`, "Sorry, I was distracted.", true},
		{"input single quoted", "'Sorry, I was distracted.'", "Sorry, I was distracted.", true},
		{"challenge quoted", "Sorry, I was distracted.", `"Sorry, I was distracted."`, true},
		{"both quoted", `"Sorry, I was distracted."`, "'Sorry, I was distracted.'", true},
		{"interior quotes kept", `I "really" mean it`, "I really mean it", false},
		{"wrong text", "Sorry.", "Sorry, I was distracted.", false},
		{"empty input", "", "Sorry, I was distracted.", false},
		{"missing punctuation", "Sorry, I was distracted", "Sorry, I was distracted.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.input, tt.challenge); got != tt.want {
				t.Errorf("Matches(%q, %q) = %v, want %v", tt.input, tt.challenge, got, tt.want)
			}
		})
	}
}
