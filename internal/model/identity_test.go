package model

import "testing"

// TestNormalizeDirectorName tests name normalization for identity matching.
func TestNormalizeDirectorName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "upper case folds", input: "JOHN SMITH", want: "john smith"},
		{name: "mixed case folds", input: "John Smith", want: "john smith"},
		{name: "whitespace collapses", input: "  JOHN   SMITH ", want: "john smith"},
		{name: "comma form preserved", input: "SMITH, John", want: "smith, john"},
		{name: "empty input", input: "", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := NormalizeDirectorName(tt.input); got != tt.want {
				t.Errorf("NormalizeDirectorName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestDirectorKey tests identity key derivation.
func TestDirectorKey(t *testing.T) {
	t.Parallel()

	t.Run("equal names and dates collide", func(t *testing.T) {
		t.Parallel()

		a := DirectorKey("JOHN SMITH", "2020-01-15")
		b := DirectorKey("John  Smith", "2020-01-15")
		if a != b {
			t.Errorf("expected identical keys, got %q and %q", a, b)
		}
	})

	t.Run("different dates produce distinct keys", func(t *testing.T) {
		t.Parallel()

		a := DirectorKey("JOHN SMITH", "2020-01-15")
		b := DirectorKey("JOHN SMITH", "2021-03-01")
		if a == b {
			t.Error("expected distinct keys for different appointment dates")
		}
	})

	t.Run("empty appointment date still yields stable key", func(t *testing.T) {
		t.Parallel()

		a := DirectorKey("JOHN SMITH", "")
		b := DirectorKey("JOHN SMITH", "")
		if a != b {
			t.Error("expected stable key for empty appointment date")
		}
	})
}
