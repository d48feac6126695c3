package command

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tair/foodgram/internal/recipe/domain"
)

// RecipeInput is the write payload of a recipe create
type RecipeInput struct {
	Name        string                    `json:"name" validate:"required,max=200"`
	Text        string                    `json:"text" validate:"required,max=8000"`
	CookingTime int                       `json:"cooking_time" validate:"gte=1,lte=14400"`
	Image       string                    `json:"image" validate:"required"`
	Tags        []uint                    `json:"tags" validate:"required,min=1,unique,dive,gt=0"`
	Ingredients []domain.IngredientAmount `json:"ingredients" validate:"required,min=1,unique=IngredientID,dive"`
}

// UpdateRecipeInput is the write payload of a recipe update. Scalar fields are
// optional; tags and ingredients always replace the current sets.
type UpdateRecipeInput struct {
	Name        *string                   `json:"name" validate:"omitnil,min=1,max=200"`
	Text        *string                   `json:"text" validate:"omitnil,min=1,max=8000"`
	CookingTime *int                      `json:"cooking_time" validate:"omitnil,gte=1,lte=14400"`
	Image       *string                   `json:"image" validate:"omitnil,min=1"`
	Tags        []uint                    `json:"tags" validate:"required,min=1,unique,dive,gt=0"`
	Ingredients []domain.IngredientAmount `json:"ingredients" validate:"required,min=1,unique=IngredientID,dive"`
}

// RecipeValidator checks recipe write payloads
type RecipeValidator struct {
	v *validator.Validate
}

// NewRecipeValidator creates a validator reporting fields by their JSON names
func NewRecipeValidator() *RecipeValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &RecipeValidator{v: v}
}

// Validate validates a payload and returns a domain validation error
func (rv *RecipeValidator) Validate(s any) error {
	err := rv.v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("failed to validate payload: %w", err)
	}

	fields := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		fields[fieldPath(e)] = friendlyMessage(e)
	}
	return domain.Validation("validation failed", fields)
}

// fieldPath drops the root struct name: "RecipeInput.ingredients[0].amount" -> "ingredients[0].amount"
func fieldPath(e validator.FieldError) string {
	if _, path, ok := strings.Cut(e.Namespace(), "."); ok {
		return path
	}
	return e.Field()
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", e.Param())
		}
		return "must not be empty"
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "unique":
		return "must not contain duplicates"
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	default:
		return "is invalid"
	}
}
