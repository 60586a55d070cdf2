package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

const (
	// ExtPBF is the required suffix of extraction input.
	ExtPBF = ".osm.pbf"
	// ExtOSRM is the required suffix for every stage after extraction.
	ExtOSRM = ".osrm"
)

// ValidateExtension checks that file has a non-empty base name ending in ext.
func ValidateExtension(file, ext string) error {
	base := filepath.Base(file)
	if !strings.HasSuffix(base, ext) || len(base) == len(ext) {
		return fmt.Errorf("%w: %q must be a *%s file", ErrInvalidFileExtension, file, ext)
	}
	return nil
}

// optionValidator validates stage option structs and renders failures with
// the CLI flag names (taken from the `flag` struct tag).
type optionValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func newOptionValidator() *optionValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("flag"); name != "" && name != "-" {
			return "--" + name
		}
		return f.Name
	})

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(v, trans)

	return &optionValidator{validate: v, trans: trans}
}

var options = newOptionValidator()

// Struct validates opts and wraps every failure in ErrInvalidArgument.
func (o *optionValidator) Struct(opts any) error {
	err := o.validate.Struct(opts)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fe.Translate(o.trans))
		}
		return fmt.Errorf("%w: %s", ErrInvalidArgument, strings.Join(msgs, "; "))
	}
	return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
}

// Validate checks the option values and the input extension.
func (o ExtractOptions) Validate() error {
	if err := options.Struct(o); err != nil {
		return err
	}
	return ValidateExtension(o.File, ExtPBF)
}

// Validate checks the option values and the dataset extension.
func (o RoutedOptions) Validate() error {
	if err := options.Struct(o); err != nil {
		return err
	}
	return ValidateExtension(o.File, ExtOSRM)
}
