// Package sheet lee archivos tabulares (.csv y .xlsx) como filas con encabezado.
package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// MaxFileSize tamaño máximo aceptado para una carga (10 MB).
const MaxFileSize = 10 * 1024 * 1024

// ErrUnsupportedFormat la extensión no es .csv ni .xlsx.
var ErrUnsupportedFormat = errors.New("formato no soportado: solo .csv y .xlsx")

// Row fila de datos. Line es el número de fila en el archivo (el encabezado es la 1).
type Row struct {
	Line   int
	Values map[string]string
}

// Get valor de la columna (encabezado normalizado); "" si no existe.
func (r Row) Get(column string) string {
	return r.Values[NormalizeHeader(column)]
}

// Empty indica si todas las celdas están vacías.
func (r Row) Empty() bool {
	for _, v := range r.Values {
		if v != "" {
			return false
		}
	}
	return true
}

// Table encabezado normalizado y filas de datos (las filas vacías se omiten).
type Table struct {
	Header []string
	Rows   []Row
}

// HasColumn indica si el encabezado incluye la columna.
func (t *Table) HasColumn(column string) bool {
	c := NormalizeHeader(column)
	for _, h := range t.Header {
		if h == c {
			return true
		}
	}
	return false
}

// Read lee el archivo según su extensión.
func Read(r io.Reader, filename string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return ReadCSV(r)
	case ".xlsx":
		return ReadXLSX(r)
	default:
		return nil, fmt.Errorf("%s: %w", filename, ErrUnsupportedFormat)
	}
}

// ReadCSV lee un CSV en UTF-8 o Windows-1252 (exportaciones de Excel en español), con ',' o ';'.
func ReadCSV(r io.Reader) (*Table, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("leer csv: %w", err)
	}
	if len(raw) > MaxFileSize {
		return nil, fmt.Errorf("el archivo supera %d bytes", MaxFileSize)
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	var src io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		src = transform.NewReader(src, charmap.Windows1252.NewDecoder())
	}

	cr := csv.NewReader(src)
	cr.Comma = detectDelimiter(raw)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsear csv: %w", err)
	}
	return build(records)
}

// ReadXLSX lee la primera hoja de un libro .xlsx.
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("el libro no tiene hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer hoja %s: %w", sheets[0], err)
	}
	return build(rows)
}

func build(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, errors.New("el archivo está vacío")
	}
	t := &Table{Header: make([]string, len(records[0]))}
	for i, h := range records[0] {
		t.Header[i] = NormalizeHeader(h)
	}
	for i, rec := range records[1:] {
		row := Row{Line: i + 2, Values: make(map[string]string, len(t.Header))}
		for j, h := range t.Header {
			if h == "" {
				continue
			}
			if j < len(rec) {
				row.Values[h] = strings.TrimSpace(rec[j])
			} else {
				row.Values[h] = ""
			}
		}
		if row.Empty() {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// NormalizeHeader minúsculas, sin espacios extremos, con '_' en lugar de espacios y guiones.
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(h)
}

// detectDelimiter elige ';' si la primera línea tiene más ';' que ','.
func detectDelimiter(raw []byte) rune {
	first := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		first = raw[:i]
	}
	if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		return ';'
	}
	return ','
}
