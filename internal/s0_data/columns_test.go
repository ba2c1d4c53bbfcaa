package s0_data

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		cell  string
		want  *float64
		valid bool
	}{
		{"12.5", ptr(12.5), true},
		{" 1,234.5 ", ptr(1234.5), true},
		{"18%", ptr(18), true},
		{"-3.2", ptr(-3.2), true},
		{"", nil, true},
		{"-", nil, true},
		{"NA", nil, true},
		{"n/a", nil, true},
		{"abc", nil, false},
		{"NaN", nil, true},
		{"Inf", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			got, valid := ParseNumber(tt.cell)
			assert.Equal(t, tt.valid, valid)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestMapHeader_AliasesAndCase(t *testing.T) {
	header := []string{"\ufeffStock Name", "nse code", "ISIN", "PE TTM Price to Earnings", "ROE Annual %", "Piotroski Score"}

	cm, err := MapHeader(header)
	require.NoError(t, err)

	matched := cm.Matched()
	assert.Equal(t, "Stock Name", matched["name"])
	assert.Equal(t, "nse code", matched["symbol"])
	assert.Equal(t, "PE TTM Price to Earnings", matched["pe_ttm"])
	assert.Equal(t, "Piotroski Score", matched["financial_health"])
}

func TestMapHeader_FirstAliasWins(t *testing.T) {
	cm, err := MapHeader([]string{"PE", "PE TTM Price to Earnings"})
	require.NoError(t, err)
	assert.Equal(t, "PE TTM Price to Earnings", cm.Matched()["pe_ttm"])
}

func TestMapHeader_NoColumns(t *testing.T) {
	_, err := MapHeader([]string{"foo", "bar"})
	assert.ErrorIs(t, err, ErrNoColumns)
}

func TestColumnMap_Record(t *testing.T) {
	cm, err := MapHeader([]string{"Stock Name", "NSE Code", "Market Capitalization", "ROE Annual %", "Sector"})
	require.NoError(t, err)

	rec, bad := cm.Record([]string{" Alpha Ltd ", "ALPHA", "12,000", "oops", "-"})

	assert.Equal(t, 1, bad)
	assert.Equal(t, "Alpha Ltd", rec.Name)
	assert.Equal(t, "ALPHA", rec.Symbol)
	require.NotNil(t, rec.MarketCap)
	assert.InDelta(t, 12000, *rec.MarketCap, 1e-9)
	assert.Nil(t, rec.ROE)
	assert.Empty(t, rec.Sector)
}

func TestColumnMap_ShortRow(t *testing.T) {
	cm, err := MapHeader([]string{"Stock Name", "NSE Code", "ROE"})
	require.NoError(t, err)

	rec, bad := cm.Record([]string{"Alpha"})
	assert.Zero(t, bad)
	assert.Equal(t, "Alpha", rec.Name)
	assert.Nil(t, rec.ROE)
}

func TestReadHTMLTable(t *testing.T) {
	html := `<html><body><table>
		<thead><tr><th>Stock Name</th><th>NSE Code</th><th>ROE</th></tr></thead>
		<tbody>
			<tr><td>Alpha</td><td>ALPHA</td><td>15.5</td></tr>
			<tr><td>Beta</td><td>BETA</td><td>-</td></tr>
		</tbody></table></body></html>`

	header, rows, err := readHTMLTable(strings.NewReader(html))
	require.NoError(t, err)
	assert.Equal(t, []string{"Stock Name", "NSE Code", "ROE"}, header)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Beta", "BETA", "-"}, rows[1])
}

func TestReadHTMLTable_NoTable(t *testing.T) {
	_, _, err := readHTMLTable(strings.NewReader("<html><body><p>nothing</p></body></html>"))
	assert.ErrorIs(t, err, ErrNoColumns)
}

func ptr(v float64) *float64 { return &v }
