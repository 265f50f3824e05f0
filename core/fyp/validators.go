package fyp

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core"
)

var (
	docTypeTag  = "doctype"
	docTypeText = "must be one of: Proposal, Design Document, Test Document, Thesis"

	minTag  = "min"
	minText = "{0} cannot be empty"
)

// InitValidators registers the FYP specific validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(docTypeTag, docTypeValidation)
	core.RegisterCustomTranslation(validate, translator, docTypeTag, docTypeText)
	core.RegisterCustomTranslation(validate, translator, minTag, minText, true)
}

// Custom Validators

// docTypeValidation checks that the field is one of DocTypes.
func docTypeValidation(fl validator.FieldLevel) bool {
	return IsDocType(fl.Field().String())
}
