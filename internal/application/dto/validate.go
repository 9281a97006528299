package dto

import (
	"fmt"

	"github.com/jhoicas/gestoria-api/internal/domain"
	"github.com/jhoicas/gestoria-api/pkg/validator"
)

// Validate aplica los tags `validate` del DTO. El error envuelve domain.ErrInvalidInput
// y el *validator.ValidationError con el detalle por campo.
func Validate(in any) error {
	if err := validator.Struct(in); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return nil
}
