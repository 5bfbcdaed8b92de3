package cli

import (
	apperrors "github.com/agbru/hardyz/internal/errors"
	"github.com/agbru/hardyz/internal/ui"
)

var _ apperrors.ColorProvider = CLIColorProvider{}

// CLIColorProvider implements apperrors.ColorProvider with the current ui
// theme, so error reports follow -no-color and NO_COLOR.
type CLIColorProvider struct{}

// Yellow returns the warning color of the current theme.
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }

// Reset returns the reset code of the current theme.
func (CLIColorProvider) Reset() string { return ui.ColorReset() }
