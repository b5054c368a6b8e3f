package mapping

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestParse_TrimsAndDeduplicates(t *testing.T) {
	input := strings.NewReader(strings.Join([]string{
		"01; Central ",
		"02;Filial",
		"01;Outro",  // duplicate cost center, first wins
		";Central",  // blank cost center dropped
		"03;",       // blank warehouse dropped
		"04;Filial", // second cost center for the same warehouse
	}, "\n"))

	table, err := Parse(input)
	require.NoError(t, err)

	require.Len(t, table.Rules, 3)
	assert.Equal(t, Rule{CostCenter: "01", Warehouse: "Central"}, table.Rules[0])

	w, ok := table.WarehouseFor("01")
	require.True(t, ok)
	assert.Equal(t, "Central", w)

	_, ok = table.WarehouseFor("99")
	assert.False(t, ok)

	assert.Equal(t, []string{"Central", "Filial"}, table.Warehouses())
}

func TestParse_SkipsHeaderRow(t *testing.T) {
	table, err := Parse(strings.NewReader("centro_custo;armazem\n01;Central\n"))
	require.NoError(t, err)
	require.Len(t, table.Rules, 1)
	assert.Equal(t, "01 - Central", table.Rules[0].DocName())
}

func TestParse_DecodesLatin1(t *testing.T) {
	// "05;Armazém São Paulo" encoded as ISO8859-1.
	encoded, err := charmap.ISO8859_1.NewEncoder().String("05;Armazém São Paulo\n")
	require.NoError(t, err)

	table, err := Parse(strings.NewReader(encoded))
	require.NoError(t, err)

	w, ok := table.WarehouseFor("05")
	require.True(t, ok)
	assert.Equal(t, "Armazém São Paulo", w)
}

func TestParse_EmptyFileFails(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.Error(t, err)
}
