package model

import (
	"github.com/go-playground/validator/v10"
)

var allowedImageMIMETypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/jpg":  {},
}

// validImageMIME backs the "imagemime" binding tag on prescription image
// uploads.
func validImageMIME(fl validator.FieldLevel) bool {
	_, ok := allowedImageMIMETypes[fl.Field().String()]
	return ok
}

// RegisterCustomValidators installs the domain validators on the binding
// engine. Called once from router setup.
func RegisterCustomValidators(v *validator.Validate) error {
	return v.RegisterValidation("imagemime", validImageMIME)
}
