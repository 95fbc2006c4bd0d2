package main

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeReader_Latin1Auto(t *testing.T) {
	raw := []byte("product,CAF-1,Caf\xe9 molido,Bebidas,kg,12.5\n")
	r, err := decodeReader(raw, "auto")
	require.NoError(t, err)
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "product,CAF-1,Café molido,Bebidas,kg,12.5\n", string(b))
}

func TestDecodeReader_UTF8ConBOM(t *testing.T) {
	r, err := decodeReader([]byte("\xef\xbb\xbfproduct,A,Acción\n"), "utf8")
	require.NoError(t, err)
	b, _ := io.ReadAll(r)
	assert.Equal(t, "product,A,Acción\n", string(b))
}

func TestDecodeReader_CodificacionDesconocida(t *testing.T) {
	_, err := decodeReader([]byte("x"), "ebcdic")
	assert.Error(t, err)
}

func TestParseCatalog(t *testing.T) {
	csv := `kind,code,name,extra,uom,cost
# comentario
warehouse,wh,Bodega Central,Calle 1,1000
product,SKU-2,Tornillo,Ferretería,pcs,0.15
product,SKU-1,Tuerca,Ferretería,,
product,SKU-2,Tornillo largo,Ferretería,pcs,0.20
`
	cat, err := parseCatalog(strings.NewReader(csv))
	require.NoError(t, err)

	require.Len(t, cat.warehouses, 1)
	assert.Equal(t, "WH", cat.warehouses[0].shortCode)
	require.NotNil(t, cat.warehouses[0].capacity)
	assert.Equal(t, "1000", cat.warehouses[0].capacity.String())

	require.Len(t, cat.products, 2)
	assert.Equal(t, "SKU-1", cat.products[0].sku)
	assert.Equal(t, "pcs", cat.products[0].uom)
	assert.True(t, cat.products[0].unitCost.IsZero())
	assert.Equal(t, "Tornillo largo", cat.products[1].name)
	assert.Equal(t, "0.2", cat.products[1].unitCost.String())
}

func TestParseCatalog_IDsEstables(t *testing.T) {
	a, err := parseCatalog(strings.NewReader("product,SKU-1,Uno\n"))
	require.NoError(t, err)
	b, err := parseCatalog(strings.NewReader("product,SKU-1,Otro nombre\n"))
	require.NoError(t, err)
	assert.Equal(t, a.products[0].id, b.products[0].id)
}

func TestParseCatalog_Errores(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"tipo desconocido", "supplier,X,Y\n"},
		{"producto sin nombre", "product,SKU-1\n"},
		{"costo inválido", "product,SKU-1,Uno,,pcs,abc\n"},
		{"costo negativo", "product,SKU-1,Uno,,pcs,-1\n"},
		{"capacidad inválida", "warehouse,WH,Central,,-5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseCatalog(strings.NewReader(tt.in))
			assert.Error(t, err)
		})
	}
}

func TestWriteSQL(t *testing.T) {
	cat, err := parseCatalog(strings.NewReader("warehouse,WH,O'Higgins\nproduct,SKU-1,Uno,,pcs,3\n"))
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, writeSQL(&b, cat))
	sql := b.String()

	assert.Contains(t, sql, "'O''Higgins'")
	assert.Contains(t, sql, "NULL)")
	assert.Contains(t, sql, "ON CONFLICT (short_code) DO UPDATE")
	assert.Contains(t, sql, "ON CONFLICT (sku) DO UPDATE")
	assert.Contains(t, sql, "'SKU-1', 'Uno', '', 'pcs', 3)")
	assert.Less(t, strings.Index(sql, "INSERT INTO warehouses"), strings.Index(sql, "INSERT INTO products"))
}
