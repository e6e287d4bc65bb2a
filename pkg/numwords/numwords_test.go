package numwords_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/msp-invoices/pkg/numwords"
)

func TestConvert_Casos(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "zero"},
		{7, "seven"},
		{13, "thirteen"},
		{20, "twenty"},
		{42, "forty two"},
		{100, "one hundred"},
		{105, "one hundred five"},
		{999, "nine hundred ninety nine"},
		{1000, "one thousand"},
		{1250, "one thousand two hundred fifty"},
		{10_001, "ten thousand one"},
		{1_000_000, "one million"},
		{1_000_001, "one million one"},
		{2_000_300_000, "two billion three hundred thousand"},
		{999_999_999_999, "nine hundred ninety nine billion nine hundred ninety nine million nine hundred ninety nine thousand nine hundred ninety nine"},
	}
	for _, tc := range cases {
		got, err := numwords.Convert(tc.in)
		require.NoError(t, err, "n=%d", tc.in)
		assert.Equal(t, tc.want, got, "n=%d", tc.in)
	}
}

// Sin espacios dobles ni espacios al final para ningún valor del primer millar de miles.
func TestConvert_SinEspaciosSobrantes(t *testing.T) {
	for _, n := range []int64{1, 10, 19, 21, 110, 1001, 20_020, 300_000, 7_000_007, 1_001_001_001} {
		got, err := numwords.Convert(n)
		require.NoError(t, err)
		assert.Equal(t, strings.TrimSpace(got), got)
		assert.NotContains(t, got, "  ")
		assert.NotContains(t, got, "zero")
	}
}

func TestConvert_NegativoEsInvalido(t *testing.T) {
	_, err := numwords.Convert(-1)
	assert.ErrorIs(t, err, numwords.ErrInvalidArgument)
}

func TestConvert_FueraDeRango(t *testing.T) {
	_, err := numwords.Convert(numwords.Limit)
	assert.ErrorIs(t, err, numwords.ErrOutOfRange)
	assert.ErrorIs(t, err, numwords.ErrInvalidArgument)
}

func TestAmount_DescartaFraccion(t *testing.T) {
	got, err := numwords.Amount(decimal.RequireFromString("1250.99"))
	require.NoError(t, err)
	assert.Equal(t, "one thousand two hundred fifty", got)

	got, err = numwords.Amount(decimal.RequireFromString("0.75"))
	require.NoError(t, err)
	assert.Equal(t, "zero", got)

	_, err = numwords.Amount(decimal.RequireFromString("-0.01"))
	assert.ErrorIs(t, err, numwords.ErrInvalidArgument)
}

func TestSentence(t *testing.T) {
	got, err := numwords.Sentence(decimal.RequireFromString("105.40"))
	require.NoError(t, err)
	assert.Equal(t, "Rupees One Hundred Five Only", got)
}
