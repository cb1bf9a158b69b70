package validation

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var engine = newEngine()

// Engine returns the shared validator. Field names follow json tags and
// decimal.Decimal values validate as floats.
func Engine() *validator.Validate {
	return engine
}

// Email reports whether raw, once trimmed, is a bare email address. Display
// name forms such as "Ben <ben@example.com>" are rejected.
func Email(raw string) bool {
	return engine.Var(strings.TrimSpace(raw), "required,email") == nil
}

func newEngine() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	// Money travels as decimal.Decimal; rules see it as a float.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("dgte", func(fl validator.FieldLevel) bool {
		bound, err := strconv.ParseFloat(fl.Param(), 64)
		if err != nil {
			return false
		}
		switch fl.Field().Kind() {
		case reflect.Float32, reflect.Float64:
			return fl.Field().Float() >= bound
		}
		return false
	})
	return v
}
