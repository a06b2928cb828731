package extract

import "testing"

const sampleResume = `Jordan Reyes
Senior Backend Engineer
jordan.reyes@example.com | +1 (415) 555-0142

Experience:
- 6 years building Go services
- PostgreSQL, Redis, Kafka
`

func TestFields(t *testing.T) {
	p := Fields(sampleResume)

	if p.Name != "Jordan Reyes" {
		t.Errorf("expected name 'Jordan Reyes', got %q", p.Name)
	}
	if p.Email != "jordan.reyes@example.com" {
		t.Errorf("expected email, got %q", p.Email)
	}
	if p.Phone != "+1 (415) 555-0142" {
		t.Errorf("expected phone, got %q", p.Phone)
	}
}

func TestFieldsFallbackName(t *testing.T) {
	p := Fields("only@an-email.example.com\n+7 900 123 45 67")
	if p.Name != "Candidate" {
		t.Errorf("expected fallback name 'Candidate', got %q", p.Name)
	}
	if p.Email == "" {
		t.Error("expected an email even without a name line")
	}
}

func TestGuessNameSkipsContactLines(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"", ""},
		{"\n\n  \n", ""},
		{"mail@example.com\nAlex Kim", "Alex Kim"},
		{"+1 555 000 1111\nAlex Kim", "Alex Kim"},
		{"Alex Kim\nmail@example.com", "Alex Kim"},
	}
	for _, tc := range cases {
		if got := GuessName(tc.text); got != tc.want {
			t.Errorf("GuessName(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}
