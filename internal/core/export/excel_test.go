package export

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func renderWorkbook(t *testing.T, wb *Workbook) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewExcelExporter().Export(&Job{Workbook: wb}, testNow, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestExcelExport(t *testing.T) {
	alerts := stockSheet()
	alerts.Name = "Alertes"
	alerts.Summary = nil

	f := renderWorkbook(t, &Workbook{
		Title:  "Inventaire",
		Period: "Mars 2024",
		Sheets: []Sheet{stockSheet(), alerts},
	})

	assert.Equal(t, []string{"Stock", "Alertes"}, f.GetSheetList())

	rows, err := f.GetRows("Stock")
	require.NoError(t, err)
	require.Len(t, rows, 8)
	assert.Equal(t, "STOCKMAN — INVENTAIRE", rows[0][0])
	assert.Equal(t, "Période : Mars 2024", rows[1][0])
	assert.Equal(t, []string{"Produit", "Quantité", "Mis à jour"}, rows[3])
	assert.Equal(t, []string{"Riz 25kg", "12", "01/03/2024"}, rows[4])
	assert.Equal(t, []string{"TOTAL PRODUITS", "2"}, rows[7])

	merged, err := f.GetMergeCells("Stock")
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "A1", merged[0].GetStartAxis())
	assert.Equal(t, "C1", merged[0].GetEndAxis())

	panes, err := f.GetPanes("Alertes")
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 4, panes.YSplit)
	assert.Equal(t, "A5", panes.TopLeftCell)

	width, err := f.GetColWidth("Stock", "A")
	require.NoError(t, err)
	assert.Equal(t, 30.0, width)

	props, err := f.GetDocProps()
	require.NoError(t, err)
	assert.Equal(t, "STOCKMAN — INVENTAIRE", props.Title)
}

func TestExcelExportEmptyRecords(t *testing.T) {
	sheet := stockSheet()
	sheet.Rows = nil
	sheet.Summary = []SummaryRow{{Label: "TOTAL PRODUITS", Value: 0}}

	f := renderWorkbook(t, &Workbook{Title: "Stock", Sheets: []Sheet{sheet}})

	rows, err := f.GetRows("Stock")
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"Produit", "Quantité", "Mis à jour"}, rows[3])
	assert.Equal(t, []string{"TOTAL PRODUITS", "0"}, rows[5])
}

func TestExcelExportWithoutSheets(t *testing.T) {
	f := renderWorkbook(t, &Workbook{Title: "Vide"})
	assert.Equal(t, []string{"Vide"}, f.GetSheetList())
}

func TestExcelExportRequiresWorkbook(t *testing.T) {
	var buf bytes.Buffer
	err := NewExcelExporter().Export(&Job{}, testNow, &buf)
	assert.ErrorIs(t, err, ErrNoWorkbook)
	assert.Zero(t, buf.Len())
}

func TestSheetNameTruncation(t *testing.T) {
	long := "Inventaire complet du magasin principal de Dakar"
	a := Sheet{Name: long, Columns: []Column{{Key: "a", Label: "A"}}}
	b := Sheet{Name: long + " (copie)", Columns: []Column{{Key: "a", Label: "A"}}}

	names := UniqueSheetNames([]Sheet{a, b})
	require.Len(t, names, 2)
	assert.Equal(t, string([]rune(long)[:MaxSheetNameLength]), names[0])
	assert.NotEqual(t, strings.ToLower(names[0]), strings.ToLower(names[1]))
	assert.True(t, strings.HasSuffix(names[1], "~2"))
	for _, n := range names {
		assert.LessOrEqual(t, utf8.RuneCountInString(n), MaxSheetNameLength)
	}

	f := renderWorkbook(t, &Workbook{Title: "Stock", Sheets: []Sheet{a, b}})
	assert.Equal(t, names, f.GetSheetList())
}

func TestSheetName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Ventes 01/03", "Ventes 01_03"},
		{"[Brouillon]?", "_Brouillon__"},
		{"'Notes'", "_Notes_"},
		{"Alertes & Ruptures", "Alertes & Ruptures"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SheetName(tt.in))
		})
	}
}

func TestUniqueSheetNamesCaseInsensitive(t *testing.T) {
	names := UniqueSheetNames([]Sheet{{Name: "Ventes"}, {Name: "VENTES"}, {Name: ""}, {Name: "ventes"}})
	assert.Equal(t, []string{"Ventes", "VENTES~2", "Feuille 3", "ventes~3"}, names)
}

func ExampleSheetName() {
	fmt.Println(SheetName("Performance: Produits/Catégories"))
	// Output: Performance_ Produits_Catégorie
}
