package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	MaxSwitchIDLength = 64
	MaxPorts          = 256
	MaxK              = 100

	switchIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.:-]+$`)
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	validate.RegisterValidation("switchid", func(fl validator.FieldLevel) bool {
		id := fl.Field().String()
		return len(id) <= MaxSwitchIDLength && switchIDPattern.MatchString(id)
	})
}

// SwitchRequest registers a switch
type SwitchRequest struct {
	ID    string `json:"id" validate:"required,switchid"`
	Ports []int  `json:"ports" validate:"omitempty,max=256,dive,min=0,max=65535"`
}

// LinkRequest creates or replaces a link
type LinkRequest struct {
	Src       string  `json:"src" validate:"required,switchid"`
	Dst       string  `json:"dst" validate:"required,switchid,nefield=Src"`
	Bandwidth float64 `json:"bandwidth" validate:"gt=0"`
}

// LinkRefRequest names an existing link
type LinkRefRequest struct {
	Src string `json:"src" validate:"required,switchid"`
	Dst string `json:"dst" validate:"required,switchid"`
}

// FlowRequest admits a flow
type FlowRequest struct {
	Src       string  `json:"src" validate:"required,switchid"`
	Dst       string  `json:"dst" validate:"required,switchid"`
	Bandwidth float64 `json:"bandwidth" validate:"gt=0"`
	Priority  float64 `json:"priority"`
}

// PathRequest asks for one or more routes
type PathRequest struct {
	Src string `json:"src" validate:"required,switchid"`
	Dst string `json:"dst" validate:"required,switchid"`
	K   int    `json:"k" validate:"omitempty,min=1,max=100"`
}

// ValidateRequest validates one of the request types above.
func ValidateRequest(req any) error {
	if req == nil || (reflect.ValueOf(req).Kind() == reflect.Ptr && reflect.ValueOf(req).IsNil()) {
		return errors.New("request cannot be nil")
	}
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	// gt=0 lets +Inf through
	switch r := req.(type) {
	case *LinkRequest:
		if math.IsInf(r.Bandwidth, 0) {
			return errors.New("bandwidth: must be finite")
		}
	case *FlowRequest:
		if math.IsInf(r.Bandwidth, 0) {
			return errors.New("bandwidth: must be finite")
		}
		if math.IsNaN(r.Priority) || math.IsInf(r.Priority, 0) {
			return errors.New("priority: must be finite")
		}
	}
	return nil
}

// ValidateSwitchID validates an identifier taken from a URL path
func ValidateSwitchID(id string) error {
	if id == "" {
		return errors.New("switch id cannot be empty")
	}
	if len(id) > MaxSwitchIDLength {
		return fmt.Errorf("switch id exceeds maximum length of %d characters", MaxSwitchIDLength)
	}
	if !switchIDPattern.MatchString(id) {
		return fmt.Errorf("switch id '%s' contains invalid characters (only alphanumeric and _ . : - allowed)", id)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Report the first failure only
	for _, e := range validationErrs {
		field := e.Field()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, param)
		case "nefield":
			return fmt.Errorf("%s: must differ from %s", field, strings.ToLower(param))
		case "switchid":
			return fmt.Errorf("%s: invalid switch id %q", field, e.Value())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}
	return err
}
