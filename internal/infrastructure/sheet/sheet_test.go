package sheet_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/mfg-console/internal/infrastructure/sheet"
)

func TestReadCSV_ComaYPuntoYComa(t *testing.T) {
	for name, content := range map[string]string{
		"coma":         "SKU,Description,Primary Location Code\nTORN-1,Tornillo M6,A-01\n\n,,\nTUER-2,Tuerca,\n",
		"punto y coma": "\xef\xbb\xbfSKU;Description;Primary Location Code\nTORN-1;Tornillo M6;A-01\nTUER-2;Tuerca;\n",
	} {
		t.Run(name, func(t *testing.T) {
			tbl, err := sheet.Read(strings.NewReader(content), "items.csv")
			require.NoError(t, err)
			assert.True(t, tbl.HasColumn("primary_location_code"))
			require.Len(t, tbl.Rows, 2)
			assert.Equal(t, "TORN-1", tbl.Rows[0].Get("sku"))
			assert.Equal(t, "A-01", tbl.Rows[0].Get("Primary Location Code"))
			assert.Equal(t, 2, tbl.Rows[0].Line)
			assert.Equal(t, "", tbl.Rows[1].Get("primary_location_code"))
		})
	}
}

func TestReadCSV_Windows1252(t *testing.T) {
	enc, err := charmap.Windows1252.NewEncoder().String("sku;descripción\nVAL-1;Válvula de presión\n")
	require.NoError(t, err)

	tbl, err := sheet.ReadCSV(strings.NewReader(enc))
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "Válvula de presión", tbl.Rows[0].Get("descripción"))
}

func TestReadXLSX_PrimeraHoja(t *testing.T) {
	f := excelize.NewFile()
	sh := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sh, "A1", &[]any{"order_ref", "line_no", "sku", "quantity_open"}))
	require.NoError(t, f.SetSheetRow(sh, "A2", &[]any{"PV-1", 1, "TORN-1", "4.5"}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	tbl, err := sheet.Read(&buf, "pedidos.XLSX")
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "PV-1", tbl.Rows[0].Get("order_ref"))
	assert.Equal(t, "1", tbl.Rows[0].Get("line_no"))
	assert.Equal(t, "4.5", tbl.Rows[0].Get("quantity_open"))
}

func TestRead_FormatoNoSoportado(t *testing.T) {
	_, err := sheet.Read(strings.NewReader("x"), "items.pdf")
	assert.ErrorIs(t, err, sheet.ErrUnsupportedFormat)
}
