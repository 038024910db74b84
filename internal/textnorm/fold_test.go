package textnorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ginjaninja78/freight-tracker/internal/textnorm"
)

func TestFold(t *testing.T) {
	cases := map[string]string{
		"Prudentópolis ":   "PRUDENTOPOLIS",
		"quedas do iguaçu": "QUEDAS DO IGUACU",
		"EM TRÂNSITO":      "EM TRANSITO",
		"":                 "",
		"  castro":         "CASTRO",
	}
	for in, want := range cases {
		assert.Equal(t, want, textnorm.Fold(in), "input %q", in)
	}
}

func TestContainsFold(t *testing.T) {
	assert.True(t, textnorm.ContainsFold("Filial Prudentópolis - PR", "PRUDENTOPOLIS"))
	assert.False(t, textnorm.ContainsFold("Castro", ""))
}
