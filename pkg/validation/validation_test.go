package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmail(t *testing.T) {
	cases := map[string]bool{
		"ben@example.com":             true,
		"  ben.baker@example.com ":    true,
		"Ben Baker <ben@example.com>": false,
		"<ben@example.com>":           false,
		"ben@":                        false,
		"ben":                         false,
		"":                            false,
	}
	for raw, want := range cases {
		assert.Equal(t, want, Email(raw), raw)
	}
}

func TestEngineUsesJSONNamesAndDecimalRules(t *testing.T) {
	type payment struct {
		Amount decimal.Decimal `json:"amountPaid" validate:"dgte=0"`
		Email  *string         `json:"email,omitempty" validate:"omitempty,email"`
	}
	bad := "Ben <ben@example.com>"

	err := Engine().Struct(payment{Amount: decimal.NewFromInt(-1), Email: &bad})
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := map[string]string{}
	for _, fe := range errs {
		fields[fe.Field()] = fe.Tag()
	}
	assert.Equal(t, map[string]string{"amountPaid": "dgte", "email": "email"}, fields)

	assert.NoError(t, Engine().Struct(payment{Amount: decimal.NewFromFloat(12.5)}))
}
