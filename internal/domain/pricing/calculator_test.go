package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"makerbooks/internal/core/apperror"
	"makerbooks/internal/core/types"
)

func TestRecommend(t *testing.T) {
	tests := []struct {
		name   string
		cost   string
		margin string
		want   string
	}{
		{"fifty percent", "1500", "50", "2250"},
		{"zero margin", "1000", "0", "1000"},
		{"fractional margin", "200", "12.5", "225"},
		{"zero cost", "0", "40", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Recommend(types.MustMoney(tt.cost), types.MustMoney(tt.margin))
			require.NoError(t, err)
			assert.True(t, got.Equal(types.MustMoney(tt.want)),
				"want %s, got %s", tt.want, got)
		})
	}
}

func TestRecommend_NegativeMargin(t *testing.T) {
	_, err := Recommend(types.MustMoney("1500"), types.MustMoney("-10"))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestToNGN(t *testing.T) {
	got := ToNGN(types.MustMoney("22"), types.MustMoney("1500"))
	assert.True(t, got.Equal(types.MustMoney("33000")), "got %s", got)

	got = ToNGN(types.MustMoney("0.5"), types.MustMoney("1450.25"))
	assert.True(t, got.Equal(types.MustMoney("725.125")), "got %s", got)
}
