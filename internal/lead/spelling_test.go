package lead

import "testing"

func TestSpellOut(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{
			name:  "plain address",
			email: "jane.doe@acme.com",
			want:  "j a n e dot d o e at a c m e dot c o m",
		},
		{
			name:  "separators in local part",
			email: "a.b_c-d@sub.example.com",
			want:  "a dot b underscore c dash d at s u b dot e x a m p l e dot c o m",
		},
		{
			name:  "digits pass through",
			email: "dev42@x.io",
			want:  "d e v 4 2 at x dot i o",
		},
		{
			name:  "uppercase is lowered",
			email: "Jane@Acme.COM",
			want:  "j a n e at a c m e dot c o m",
		},
		{
			name:  "unknown characters pass through",
			email: "a+b@c.d",
			want:  "a + b at c dot d",
		},
		{
			name:  "no at sign returns input unchanged",
			email: "not-an-email",
			want:  "not-an-email",
		},
		{
			name:  "empty string",
			email: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SpellOut(tt.email)
			if got != tt.want {
				t.Errorf("SpellOut(%q) = %q, want %q", tt.email, got, tt.want)
			}
		})
	}
}

func TestSpellOutDeterministic(t *testing.T) {
	const email = "ops_team-1@mail.synctrack.ai"

	first := SpellOut(email)
	for i := 0; i < 10; i++ {
		if got := SpellOut(email); got != first {
			t.Fatalf("iteration %d: got %q, want stable %q", i, got, first)
		}
	}
}
