package parsers_test

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/freight-tracker/internal/parsers"
)

func TestCurrency(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"brazilian notation", "R$ 1.234,56", "1234.56"},
		{"no symbol", "1.500,00", "1500"},
		{"symbol without space", "R$980,10", "980.1"},
		{"plain integer text", "750", "750"},
		{"empty", "", "0"},
		{"not a number", "a combinar", "0"},
		{"native float", 1234.56, "1234.56"},
		{"native int", 300, "300"},
		{"nil", nil, "0"},
		{"NaN", math.NaN(), "0"},
		{"negative passes through", "-50,00", "-50"},
		{"two decimal marks", "1,2,3", "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parsers.Currency(tc.in)
			assert.True(t, decimal.RequireFromString(tc.want).Equal(got), "got %s", got)
		})
	}
}

func TestInteger(t *testing.T) {
	assert.Equal(t, 1250, parsers.Integer("1.250 km"))
	assert.Equal(t, 87, parsers.Integer(" 87 "))
	assert.Equal(t, 0, parsers.Integer(""))
	assert.Equal(t, 0, parsers.Integer("sem km"))
	assert.Equal(t, 42, parsers.Integer(42.9))
	assert.Equal(t, 0, parsers.Integer(-3.0))
	assert.Equal(t, 0, parsers.Integer(nil))
	assert.Equal(t, 0, parsers.Integer("99999999999999999999999"))
}

func TestSplitMulti(t *testing.T) {
	assert.Equal(t, []string{"A1", "B2", "C3"}, parsers.SplitMulti("A1; B2,  C3"))
	assert.Equal(t, []string{"X1", "X2"}, parsers.SplitMulti("X1,X2"))
	assert.Equal(t, []string{"CH-9", "CH-10"}, parsers.SplitMulti("CH-9\nCH-10\n"))
	assert.Equal(t, []string{"A B", "C"}, parsers.SplitMulti("A B   C"))
	assert.Equal(t, []string{"12345"}, parsers.SplitMulti(12345.0))

	empty := parsers.SplitMulti("  ;, ")
	require.NotNil(t, empty)
	assert.Empty(t, empty)
	assert.Empty(t, parsers.SplitMulti(nil))
}

func TestFirstURL(t *testing.T) {
	assert.Equal(t, "https://maps.app.goo.gl/abc", parsers.FirstURL("ver https://maps.app.goo.gl/abc e http://x.y"))
	assert.Equal(t, "http://x.y/z", parsers.FirstURL("http://x.y/z"))
	assert.Equal(t, "", parsers.FirstURL("CASTRO"))
	assert.Equal(t, "", parsers.FirstURL(nil))
}

func TestText(t *testing.T) {
	assert.Equal(t, "12", parsers.Text(12.0))
	assert.Equal(t, "12.5", parsers.Text(12.5))
	assert.Equal(t, "abc", parsers.Text("  abc "))
	assert.Equal(t, "05/03/2026", parsers.Text(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)))
	assert.True(t, parsers.IsBlank("   "))
	assert.False(t, parsers.IsBlank(0.0))
}
