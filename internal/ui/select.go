package ui

import (
	"errors"

	kerrors "github.com/PolarWolf314/tc-secrets/internal/errors"

	"github.com/manifoldco/promptui"
)

// PromptSelector asks on the terminal which item to use.
type PromptSelector struct {
	// Size is the number of items shown at once. Defaults to 10.
	Size int
}

// Select shows items under label and returns the chosen index.
func (p PromptSelector) Select(label string, items []string) (int, error) {
	if len(items) == 0 {
		return -1, kerrors.ErrNothingToSelect
	}

	size := p.Size
	if size <= 0 {
		size = 10
	}

	prompt := promptui.Select{
		Label: label,
		Items: items,
		Size:  size,
	}

	index, _, err := prompt.Run()
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return -1, kerrors.ErrSelectionCancelled
	}
	if err != nil {
		return -1, err
	}

	return index, nil
}
