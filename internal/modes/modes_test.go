package modes

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLookup_ValidModes(t *testing.T) {
	for _, name := range []string{Core, Quant, Debate} {
		m, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		if m.Name != name {
			t.Errorf("Lookup(%q).Name = %q", name, m.Name)
		}
		if strings.TrimSpace(m.SystemPrompt) == "" {
			t.Errorf("Lookup(%q) has empty system prompt", name)
		}
		if m.DefaultModel == "" {
			t.Errorf("Lookup(%q) has empty default model", name)
		}

		again, _ := Lookup(name)
		if again != m {
			t.Errorf("Lookup(%q) is not stable across calls", name)
		}
	}
}

func TestLookup_NormalizesName(t *testing.T) {
	m, err := Lookup("  QUANT ")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if m.Name != Quant {
		t.Errorf("expected quant, got %q", m.Name)
	}
}

func TestLookup_UnknownMode(t *testing.T) {
	for _, name := range []string{"", "custom", "cor", "core quant"} {
		_, err := Lookup(name)
		if err == nil {
			t.Fatalf("Lookup(%q): expected error", name)
		}
		if !errors.Is(err, ErrUnknownMode) {
			t.Errorf("Lookup(%q): expected ErrUnknownMode, got %v", name, err)
		}
		var ume *UnknownModeError
		if !errors.As(err, &ume) || ume.Name != name {
			t.Errorf("Lookup(%q): expected UnknownModeError carrying the name, got %v", name, err)
		}
	}
}

func TestNames(t *testing.T) {
	want := []string{"core", "quant", "debate"}
	if diff := cmp.Diff(want, Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestList_ReturnsCopy(t *testing.T) {
	list := List()
	list[0].SystemPrompt = "mutated"

	m, _ := Lookup(Core)
	if m.SystemPrompt == "mutated" {
		t.Error("List() exposed the internal registry")
	}
}
