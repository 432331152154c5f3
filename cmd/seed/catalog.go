package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Comercio-api/internal/application/dto"
)

// catalogRow fila del CSV con su número de línea (1 = cabecera).
type catalogRow struct {
	Line    int
	Product dto.CreateProductRequest
}

// Columnas aceptadas (sin distinguir mayúsculas). name y price son obligatorias.
var catalogColumns = map[string][]string{
	"sku":         {"sku", "codigo", "código"},
	"name":        {"name", "nombre"},
	"description": {"description", "descripcion", "descripción"},
	"price":       {"price", "precio"},
	"cost":        {"cost", "costo"},
	"quantity":    {"quantity", "cantidad", "stock"},
}

// decodeReader envuelve r según la codificación del archivo: utf8 o latin1 (ISO-8859-1, típico de exportaciones de Excel).
func decodeReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf8", "utf-8":
		return r, nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("codificación %q no soportada (utf8|latin1|cp1252)", encoding)
	}
}

// parseCatalog lee el CSV de productos. Los errores de una fila no detienen la lectura:
// se devuelven aparte con su número de línea.
func parseCatalog(r io.Reader, sep rune) ([]catalogRow, []error, error) {
	cr := csv.NewReader(r)
	cr.Comma = sep
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("CSV vacío")
		}
		return nil, nil, fmt.Errorf("leer cabecera: %w", err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, nil, err
	}

	var (
		rows    []catalogRow
		rowErrs []error
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// csv.ParseError ya lleva la línea
			rowErrs = append(rowErrs, err)
			continue
		}
		line, _ := cr.FieldPos(0)
		if blank(rec) {
			continue
		}
		p, err := toProduct(rec, idx)
		if err != nil {
			rowErrs = append(rowErrs, fmt.Errorf("línea %d: %w", line, err))
			continue
		}
		rows = append(rows, catalogRow{Line: line, Product: p})
	}
	return rows, rowErrs, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := map[string]int{}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for field, aliases := range catalogColumns {
			for _, a := range aliases {
				if h == a {
					idx[field] = i
				}
			}
		}
	}
	for _, required := range []string{"name", "price"} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("falta la columna %q en la cabecera", required)
		}
	}
	return idx, nil
}

func field(rec []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func toProduct(rec []string, idx map[string]int) (dto.CreateProductRequest, error) {
	p := dto.CreateProductRequest{
		SKU:         field(rec, idx, "sku"),
		Name:        field(rec, idx, "name"),
		Description: field(rec, idx, "description"),
	}
	price, err := parseAmount(field(rec, idx, "price"))
	if err != nil {
		return p, fmt.Errorf("precio: %w", err)
	}
	p.Price = price
	if raw := field(rec, idx, "cost"); raw != "" {
		if p.Cost, err = parseAmount(raw); err != nil {
			return p, fmt.Errorf("costo: %w", err)
		}
	}
	if raw := field(rec, idx, "quantity"); raw != "" {
		if p.Quantity, err = strconv.Atoi(raw); err != nil {
			return p, fmt.Errorf("cantidad %q inválida", raw)
		}
	}
	return p, nil
}

// parseAmount acepta "1234.50", "1234,50" y "1.234,50".
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return decimal.Zero, fmt.Errorf("valor vacío")
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("valor %q inválido", s)
	}
	return d, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
