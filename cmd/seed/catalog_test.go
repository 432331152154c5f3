package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/Comercio-api/internal/application/authz"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/pkg/logger"
)

func TestParseAmount(t *testing.T) {
	cases := map[string]string{
		"10":         "10",
		"1234.50":    "1234.5",
		"1234,50":    "1234.5",
		"1.234,50":   "1234.5",
		"$ 2.000,00": "2000",
	}
	for in, want := range cases {
		got, err := parseAmount(in)
		require.NoError(t, err, in)
		assert.True(t, got.Equal(decimal.RequireFromString(want)), "%s => %s", in, got)
	}

	_, err := parseAmount("")
	assert.Error(t, err)
	_, err = parseAmount("diez")
	assert.Error(t, err)
}

func TestParseCatalog_AliasYFilasConError(t *testing.T) {
	csv := "\ufeffCodigo;Nombre;Precio;Costo;Cantidad\n" +
		"W-1;Widget;10,50;5;100\n" +
		"\n" +
		";Tornillo;0,25;;\n" +
		"X-9;Roto;abc;1;1\n" +
		"Y-1;Sin stock;3;1;muchos\n"

	rows, rowErrs, err := parseCatalog(strings.NewReader(csv), ';')
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Len(t, rowErrs, 2)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "W-1", rows[0].Product.SKU)
	assert.Equal(t, "Widget", rows[0].Product.Name)
	assert.True(t, rows[0].Product.Price.Equal(decimal.RequireFromString("10.5")))
	assert.Equal(t, 100, rows[0].Product.Quantity)

	assert.Equal(t, 4, rows[1].Line)
	assert.Empty(t, rows[1].Product.SKU)
	assert.True(t, rows[1].Product.Cost.IsZero())
	assert.Equal(t, 0, rows[1].Product.Quantity)

	assert.Contains(t, rowErrs[0].Error(), "línea 5")
	assert.Contains(t, rowErrs[1].Error(), "línea 6")
}

func TestParseCatalog_CabeceraIncompleta(t *testing.T) {
	_, _, err := parseCatalog(strings.NewReader("sku,name\nA,B\n"), ',')
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price")

	_, _, err = parseCatalog(strings.NewReader(""), ',')
	assert.Error(t, err)
}

func TestDecodeReader_Latin1(t *testing.T) {
	latin1, err := charmap.ISO8859_1.NewEncoder().String("nombre,precio\nCafé Añejo,12\n")
	require.NoError(t, err)

	r, err := decodeReader(bytes.NewReader([]byte(latin1)), "latin1")
	require.NoError(t, err)
	rows, rowErrs, err := parseCatalog(r, ',')
	require.NoError(t, err)
	require.Empty(t, rowErrs)
	require.Len(t, rows, 1)
	assert.Equal(t, "Café Añejo", rows[0].Product.Name)

	_, err = decodeReader(strings.NewReader(""), "ebcdic")
	assert.Error(t, err)
}

type fakeCreator struct {
	names []string
}

func (f *fakeCreator) Create(_ context.Context, actor *authz.Identity, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if actor == nil || actor.Username != "seed" {
		return nil, errors.New("actor inesperado")
	}
	if in.Name == "Duplicado" {
		return nil, errors.New("duplicado")
	}
	f.names = append(f.names, in.Name)
	return &dto.ProductResponse{Name: in.Name}, nil
}

func TestImportCatalog_CuentaCreadosYFallidos(t *testing.T) {
	path := filepath.Join(t.TempDir(), "productos.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,price\nWidget,10\nDuplicado,2\nMalo,x\n"), 0o600))

	creator := &fakeCreator{}
	created, failed, err := importCatalog(context.Background(), creator, path, "utf8", ',', logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 2, failed)
	assert.Equal(t, []string{"Widget"}, creator.names)

	_, _, err = importCatalog(context.Background(), creator, filepath.Join(t.TempDir(), "no-existe.csv"), "utf8", ',', logger.Nop())
	assert.Error(t, err)
}
