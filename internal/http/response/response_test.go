package response_test

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/destipicker/internal/http/response"
)

type sample struct {
	Category string  `validate:"required"`
	Radius   float64 `validate:"gt=0,lte=50"`
	Budget   float64 `validate:"gte=0"`
	Currency string  `validate:"omitempty,len=3"`
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name string
		in   sample
		want string
	}{
		{
			name: "missing category",
			in:   sample{Radius: 5},
			want: "field Category is a required field",
		},
		{
			name: "radius too large",
			in:   sample{Category: "cafe", Radius: 51},
			want: "field Radius must be at most 50",
		},
		{
			name: "zero radius",
			in:   sample{Category: "cafe"},
			want: "field Radius must be at least greater than 0",
		},
		{
			name: "negative budget and bad currency",
			in:   sample{Category: "cafe", Radius: 1, Budget: -1, Currency: "PESO"},
			want: "field Budget must be at least 0, field Currency must be 3 characters long",
		},
	}

	v := validator.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			require.Error(t, err)
			got := response.ValidationError(err.(validator.ValidationErrors))
			assert.Equal(t, response.StatusError, got.Status)
			assert.Equal(t, tt.want, got.Error)
		})
	}
}

func TestLimitReached(t *testing.T) {
	b, err := json.Marshal(response.LimitReached())
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"Error","error":"Daily limit reached","limit_reached":true}`, string(b))
}
