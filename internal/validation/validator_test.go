package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/freight-tracker/internal/config"
	"github.com/ginjaninja78/freight-tracker/internal/validation"
)

var completeHeaders = []string{
	"ID", "STATUS", "FRETE", "HR", "KM", "R$ PROP", "R$ TERC", "CHASSI",
	"PREV", "REAL", "CLIENTE/NOTA", "SOLICITANTE", "ESTÁ:", "VAI:",
	"LOCALIZAÇÃO", "FILIAL CUSTOS", "TIPO", "OBS",
}

func TestCheckHeaders_complete(t *testing.T) {
	report := validation.CheckHeaders(completeHeaders, nil)

	assert.True(t, report.OK())
	assert.Zero(t, report.ErrorCount)
	assert.Zero(t, report.WarningCount)
	assert.Empty(t, report.Findings)
	assert.Equal(t, "All columns recognized.", validation.FormatReport(report))
}

func TestCheckHeaders_missingCostCity(t *testing.T) {
	headers := []string{"STATUS", "PREV", "CHASSI", "R$ PROP", "R$ TERC", "ESTÁ:", "VAI:", "EXTRA"}
	report := validation.CheckHeaders(headers, nil)

	require.False(t, report.OK())
	assert.Equal(t, []config.Field{config.FieldCostCity}, report.MissingRequired())
	assert.Equal(t, 1, report.ErrorCount)
	assert.Positive(t, report.WarningCount)

	first := report.Findings[0]
	assert.Equal(t, validation.SeverityError, first.Severity)
	assert.Contains(t, first.Message, "FILIAL CUSTOS")

	last := report.Findings[len(report.Findings)-1]
	assert.Equal(t, validation.SeverityInfo, last.Severity)
	assert.Equal(t, "EXTRA", last.Header)

	assert.Contains(t, validation.FormatReport(report), "1 error(s)")
}

func TestCheckHeaders_foldedMatchCounts(t *testing.T) {
	report := validation.CheckHeaders([]string{"Status", "Está:", "prev"}, nil)

	assert.True(t, report.Resolved.Has(config.FieldStatus))
	assert.True(t, report.Resolved.Has(config.FieldOrigin))
	assert.Equal(t, []string{"prev"}, report.Resolved[config.FieldExpectedDate])
	assert.NotContains(t, report.MissingRequired(), config.FieldStatus)
}

func TestCheckHeaders_placeholderColumnsIgnored(t *testing.T) {
	report := validation.CheckHeaders(append([]string{"Column_19"}, completeHeaders...), nil)
	assert.Empty(t, report.Findings)
}
