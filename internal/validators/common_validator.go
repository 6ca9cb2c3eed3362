package validators

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"petcare/internal/utils"
)

var validate *validator.Validate

var (
	placeIDRegex   = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	shelterIDRegex = regexp.MustCompile(`^[A-Za-z0-9]{1,32}$`)
)

func init() {
	validate = validator.New()

	// Report query parameter names instead of Go field names
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	// Register custom validation functions
	validate.RegisterValidation("zip_code", validateZipCode)
	validate.RegisterValidation("place_id", validatePlaceID)
	validate.RegisterValidation("shelter_id", validateShelterID)
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

// Fields maps each failing field to its message, first failure wins.
func (v ValidationErrors) Fields() map[string]string {
	fields := make(map[string]string, len(v))
	for _, err := range v {
		if _, ok := fields[err.Field]; !ok {
			fields[err.Field] = err.Message
		}
	}
	return fields
}

// ValidateStruct validates a struct and returns detailed errors
func ValidateStruct(s interface{}) ValidationErrors {
	var validationErrors ValidationErrors

	err := validate.Struct(s)
	if err != nil {
		fieldErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return ValidationErrors{{Message: err.Error()}}
		}
		for _, err := range fieldErrors {
			validationErrors = append(validationErrors, ValidationError{
				Field:   err.Field(),
				Tag:     err.Tag(),
				Value:   fmt.Sprintf("%v", err.Value()),
				Message: getErrorMessage(err),
			})
		}
	}

	return validationErrors
}

func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "required_without_all":
		return "Provide zip or lat/lng"
	case "required_with":
		return "lat and lng must be provided together"
	case "zip_code":
		return "zip must be 5 digits"
	case "place_id":
		return "Invalid place id"
	case "shelter_id":
		return "id must be an alphanumeric Petfinder id"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", err.Field(), strings.ReplaceAll(err.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
	default:
		return fmt.Sprintf("Validation failed for %s", err.Field())
	}
}

// Custom validation functions
func validateZipCode(fl validator.FieldLevel) bool {
	zip := fl.Field().String()
	if zip == "" {
		return true // Let required tags handle empty values
	}
	return utils.IsValidZip(zip)
}

func validatePlaceID(fl validator.FieldLevel) bool {
	return placeIDRegex.MatchString(fl.Field().String())
}

func validateShelterID(fl validator.FieldLevel) bool {
	return shelterIDRegex.MatchString(fl.Field().String())
}

func validateID(id, tag string) ValidationErrors {
	if err := validate.Var(id, "required,"+tag); err != nil {
		message := "id is required"
		if id != "" {
			message = getErrorMessage(err.(validator.ValidationErrors)[0])
		}
		return ValidationErrors{{Field: "id", Tag: tag, Value: id, Message: message}}
	}
	return nil
}

// ValidatePlaceID checks a stored place id path parameter.
func ValidatePlaceID(id string) ValidationErrors {
	return validateID(id, "place_id")
}

// ValidateShelterID checks a Petfinder organization id path parameter.
func ValidateShelterID(id string) ValidationErrors {
	return validateID(id, "shelter_id")
}
