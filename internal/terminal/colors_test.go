package terminal

import (
	"testing"
)

func TestEnableDisableColors(t *testing.T) {
	// Ensure we start enabled
	EnableColors()

	if Color(Cyan) != Cyan {
		t.Error("expected color code when colors enabled")
	}

	DisableColors()

	if Color(Cyan) != "" {
		t.Error("expected empty string when colors disabled")
	}

	// Re-enable for other tests
	EnableColors()

	if Color(Cyan) != Cyan {
		t.Error("expected color code after re-enabling colors")
	}
}

func TestColor_DisabledReturnsEmpty(t *testing.T) {
	DisableColors()
	defer EnableColors()

	colors := []string{Reset, Bold, Dim, Cyan, Green, Yellow, Red}
	for _, c := range colors {
		if Color(c) != "" {
			t.Errorf("Color(%q) should return empty when disabled, got %q", c, Color(c))
		}
	}
}
