package model

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var leadValidate *validator.Validate

func init() {
	leadValidate = validator.New()

	_ = leadValidate.RegisterValidation("lead_status", func(fl validator.FieldLevel) bool {
		return LeadStatus(fl.Field().String()).Valid()
	})
	_ = leadValidate.RegisterValidation("service_type", func(fl validator.FieldLevel) bool {
		return ServiceType(fl.Field().String()).Valid()
	})
	_ = leadValidate.RegisterValidation("property_type", func(fl validator.FieldLevel) bool {
		return PropertyType(fl.Field().String()).Valid()
	})
}

// Validate checks required fields and enum membership of a lead before it is written.
func (in LeadInput) Validate() error {
	err := leadValidate.Struct(in)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid lead: %s", strings.Join(fields, ", "))
}
