package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Los IDs se derivan del código natural para que el script sea repetible.
var (
	productNamespace   = uuid.MustParse("6f1c2b9e-4d1a-4b7e-9a59-0c8e3f2d7a11")
	warehouseNamespace = uuid.MustParse("a3d5e8f0-1b2c-4d3e-8f9a-7b6c5d4e3f22")
)

type seedProduct struct {
	id       uuid.UUID
	sku      string
	name     string
	category string
	uom      string
	unitCost decimal.Decimal
}

type seedWarehouse struct {
	id        uuid.UUID
	shortCode string
	name      string
	address   string
	capacity  *decimal.Decimal
}

type catalog struct {
	products   []seedProduct
	warehouses []seedWarehouse
}

// decodeReader devuelve un lector UTF-8. En modo auto, si los bytes no son UTF-8 válido se asume Latin-1.
func decodeReader(raw []byte, encoding string) (io.Reader, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	switch strings.ToLower(encoding) {
	case "utf8", "utf-8":
		return bytes.NewReader(raw), nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(bytes.NewReader(raw), charmap.ISO8859_1.NewDecoder()), nil
	case "", "auto":
		if utf8.Valid(raw) {
			return bytes.NewReader(raw), nil
		}
		return transform.NewReader(bytes.NewReader(raw), charmap.ISO8859_1.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("codificación no soportada: %s", encoding)
	}
}

// parseCatalog lee filas con formato:
//
//	product,<sku>,<nombre>,<categoría>,<uom>,<costo>
//	warehouse,<código>,<nombre>,<dirección>,<capacidad>
//
// Ignora líneas vacías, comentarios (#) y una cabecera que empiece por "kind".
// Si un código se repite gana la última fila.
func parseCatalog(r io.Reader) (*catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	products := make(map[string]seedProduct)
	warehouses := make(map[string]seedWarehouse)
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, err
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		kind := strings.ToLower(rec[0])
		switch kind {
		case "", "kind":
			continue
		case "product":
			p, err := parseProduct(rec)
			if err != nil {
				return nil, fmt.Errorf("fila %d: %w", line, err)
			}
			products[p.sku] = p
		case "warehouse":
			w, err := parseWarehouse(rec)
			if err != nil {
				return nil, fmt.Errorf("fila %d: %w", line, err)
			}
			warehouses[w.shortCode] = w
		default:
			return nil, fmt.Errorf("fila %d: tipo desconocido %q", line, rec[0])
		}
	}

	cat := &catalog{}
	for _, p := range products {
		cat.products = append(cat.products, p)
	}
	for _, w := range warehouses {
		cat.warehouses = append(cat.warehouses, w)
	}
	sort.Slice(cat.products, func(i, j int) bool { return cat.products[i].sku < cat.products[j].sku })
	sort.Slice(cat.warehouses, func(i, j int) bool { return cat.warehouses[i].shortCode < cat.warehouses[j].shortCode })
	return cat, nil
}

func parseProduct(rec []string) (seedProduct, error) {
	if len(rec) < 3 || rec[1] == "" || rec[2] == "" {
		return seedProduct{}, errors.New("producto requiere sku y nombre")
	}
	p := seedProduct{
		sku:      rec[1],
		name:     rec[2],
		category: field(rec, 3),
		uom:      field(rec, 4),
		unitCost: decimal.Zero,
	}
	if p.uom == "" {
		p.uom = "pcs"
	}
	if s := field(rec, 5); s != "" {
		cost, err := decimal.NewFromString(s)
		if err != nil {
			return seedProduct{}, fmt.Errorf("costo inválido %q", s)
		}
		if cost.IsNegative() {
			return seedProduct{}, fmt.Errorf("costo negativo para %s", p.sku)
		}
		p.unitCost = cost
	}
	p.id = uuid.NewSHA1(productNamespace, []byte(p.sku))
	return p, nil
}

func parseWarehouse(rec []string) (seedWarehouse, error) {
	if len(rec) < 3 || rec[1] == "" || rec[2] == "" {
		return seedWarehouse{}, errors.New("bodega requiere código y nombre")
	}
	w := seedWarehouse{
		shortCode: strings.ToUpper(rec[1]),
		name:      rec[2],
		address:   field(rec, 3),
	}
	if s := field(rec, 4); s != "" {
		c, err := decimal.NewFromString(s)
		if err != nil || c.IsNegative() {
			return seedWarehouse{}, fmt.Errorf("capacidad inválida %q", s)
		}
		w.capacity = &c
	}
	w.id = uuid.NewSHA1(warehouseNamespace, []byte(w.shortCode))
	return w, nil
}

func field(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}

// writeSQL escribe los INSERT ... ON CONFLICT; ejecutarlo dos veces deja el mismo catálogo.
func writeSQL(w io.Writer, cat *catalog) error {
	var b strings.Builder
	b.WriteString("-- Catálogo inicial generado por cmd/seed\n\n")

	if len(cat.warehouses) > 0 {
		b.WriteString("-- 1. Bodegas\n")
		b.WriteString("INSERT INTO warehouses (id, name, short_code, address, capacity) VALUES\n")
		for i, wh := range cat.warehouses {
			capacity := "NULL"
			if wh.capacity != nil {
				capacity = wh.capacity.String()
			}
			fmt.Fprintf(&b, "  ('%s', '%s', '%s', '%s', %s)%s\n",
				wh.id, escapeSQL(wh.name), escapeSQL(wh.shortCode), escapeSQL(wh.address), capacity, sep(i, len(cat.warehouses)))
		}
		b.WriteString("ON CONFLICT (short_code) DO UPDATE SET name = EXCLUDED.name, address = EXCLUDED.address,\n")
		b.WriteString("  capacity = EXCLUDED.capacity, updated_at = now();\n\n")
	}

	if len(cat.products) > 0 {
		b.WriteString("-- 2. Productos\n")
		b.WriteString("INSERT INTO products (id, sku, name, category, uom, unit_cost) VALUES\n")
		for i, p := range cat.products {
			fmt.Fprintf(&b, "  ('%s', '%s', '%s', '%s', '%s', %s)%s\n",
				p.id, escapeSQL(p.sku), escapeSQL(p.name), escapeSQL(p.category), escapeSQL(p.uom), p.unitCost.String(), sep(i, len(cat.products)))
		}
		b.WriteString("ON CONFLICT (sku) DO UPDATE SET name = EXCLUDED.name, category = EXCLUDED.category,\n")
		b.WriteString("  uom = EXCLUDED.uom, unit_cost = EXCLUDED.unit_cost, updated_at = now();\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func sep(i, n int) string {
	if i < n-1 {
		return ","
	}
	return ""
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
