// Package prompt provides user interaction primitives using charmbracelet/huh.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// ErrCanceled is returned when the user cancels a prompt.
var ErrCanceled = errors.New("canceled by user")

// Prompter abstracts user interaction for testability.
type Prompter interface {
	// Input prompts for a single line of visible text.
	Input(title, description string) (string, error)

	// Secret prompts for secret input (no echo).
	Secret(title string) (string, error)

	// Confirm prompts for yes/no confirmation.
	Confirm(title, description string) (bool, error)
}

// HuhPrompter implements Prompter with interactive terminal forms.
type HuhPrompter struct{}

// New creates a HuhPrompter.
func New() *HuhPrompter {
	return &HuhPrompter{}
}

// Input prompts for a single line of visible text.
func (p *HuhPrompter) Input(title, description string) (string, error) {
	var value string

	err := huh.NewInput().
		Title(title).
		Description(description).
		Value(&value).
		Run()

	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrCanceled
		}
		return "", fmt.Errorf("input prompt: %w", err)
	}

	return strings.TrimSpace(value), nil
}

// Secret prompts for secret input with masked display.
func (p *HuhPrompter) Secret(title string) (string, error) {
	var value string

	err := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&value).
		Run()

	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrCanceled
		}
		return "", fmt.Errorf("secret prompt: %w", err)
	}

	return strings.TrimSpace(value), nil
}

// Confirm prompts for yes/no confirmation.
func (p *HuhPrompter) Confirm(title, description string) (bool, error) {
	var confirmed bool

	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed).
		Run()

	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, ErrCanceled
		}
		return false, fmt.Errorf("confirm prompt: %w", err)
	}

	return confirmed, nil
}
