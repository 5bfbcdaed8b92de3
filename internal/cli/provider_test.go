package cli

import (
	"os"
	"testing"

	"github.com/agbru/hardyz/internal/ui"
)

func TestCLIColorProvider(t *testing.T) {
	orig := ui.GetCurrentTheme()
	t.Cleanup(func() { ui.SetCurrentTheme(orig) })

	t.Setenv("NO_COLOR", "")
	os.Unsetenv("NO_COLOR")
	ui.InitTheme(false, true)

	p := CLIColorProvider{}
	if p.Yellow() != ui.DarkTheme.Warning {
		t.Errorf("Yellow() = %q, want %q", p.Yellow(), ui.DarkTheme.Warning)
	}
	if p.Reset() != ui.DarkTheme.Reset {
		t.Errorf("Reset() = %q, want %q", p.Reset(), ui.DarkTheme.Reset)
	}

	ui.InitTheme(true, true)
	if p.Yellow() != "" || p.Reset() != "" {
		t.Errorf("no-color provider returned %q/%q", p.Yellow(), p.Reset())
	}
}
