package services

import (
	"errors"
	"fmt"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/repositories"
)

// Service errors wrap the engine taxonomy so callers classify everything with
// errors.Is(err, brackets.ErrNotFound) and friends.
var (
	ErrBracketNotFound   = fmt.Errorf("bracket %w", brackets.ErrNotFound)
	ErrBracketIDConflict = fmt.Errorf("bracket id %w", brackets.ErrConflict)
	ErrValidationFailed  = fmt.Errorf("validation failed: %w", brackets.ErrInvalidInput)
	ErrCorruptBracket    = errors.New("stored bracket failed structural validation")
)

func mapRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrBracketNotFound):
		return ErrBracketNotFound
	case errors.Is(err, repositories.ErrBracketConflict):
		return fmt.Errorf("%w: %v", ErrBracketIDConflict, err)
	default:
		return err
	}
}
