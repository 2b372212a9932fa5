package dca

import (
	"errors"
	"fmt"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Strategy is the investment strategy to simulate.
type Strategy struct {
	// Principal is the cash invested in every symbol on each buy day.
	Principal int64 `yaml:"principal" default:"1000" validate:"gt=0"`
	// OneBuy invests the principal once, on the first buy day, instead of every period.
	OneBuy bool `yaml:"one_buy"`
	// Frequency of the buy days.
	Frequency Frequency `yaml:"frequency" default:"monthly" validate:"oneof=monthly daily"`
}

// DefaultStrategy returns a monthly strategy of 1000 per period.
func DefaultStrategy() Strategy {
	var s Strategy
	if err := defaults.Set(&s); err != nil {
		panic(err) // the default tags are constants
	}
	return s
}

// Validate returns an ErrInvalidInput error describing every invalid field.
func (s Strategy) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", strings.ToLower(fe.Field()), fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", strings.ToLower(fe.Field()), strings.ReplaceAll(fe.Param(), " ", ", ")))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed validation: %s", strings.ToLower(fe.Field()), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}
