// Package pdf genera el comprobante imprimible de una transacción de inventario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de operación    │  Referencia + Estado        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BODEGAS: Origen / Destino + Contraparte                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | UdM | Cantidad | Valor              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: Fechas + QR con la referencia                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/VriVa/odoo-spit-hack/internal/application/inventory"
	"github.com/VriVa/odoo-spit-hack/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var typeTitles = map[string]string{
	entity.TxnTypeReceipt:            "RECEPCIÓN DE MERCANCÍA",
	entity.TxnTypeDelivery:           "ORDEN DE ENTREGA",
	entity.TxnTypeInternalTransfer:   "TRASLADO ENTRE BODEGAS",
	entity.TxnTypeInternalAdjustment: "AJUSTE DE INVENTARIO",
}

// ── Generator ─────────────────────────────────────────────────────────────────

var _ inventory.SlipGenerator = (*MarotoSlipGenerator)(nil)

// MarotoSlipGenerator implementa inventory.SlipGenerator usando Maroto v2.
type MarotoSlipGenerator struct{}

// NewMarotoSlipGenerator construye el generador.
func NewMarotoSlipGenerator() *MarotoSlipGenerator { return &MarotoSlipGenerator{} }

// GenerateSlip genera el PDF y devuelve sus bytes.
func (g *MarotoSlipGenerator) GenerateSlip(_ context.Context, data inventory.SlipData) ([]byte, error) {
	if data.Transaction == nil {
		return nil, fmt.Errorf("pdf: transacción requerida")
	}
	txn := data.Transaction

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(typeTitles[txn.Type]+" "+txn.ReferenceNumber, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(txn))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(warehousesRows(data)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(detailRow(txn, data.Product))
	if txn.Type == entity.TxnTypeInternalAdjustment {
		m.AddRows(adjustmentRow(txn))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(txn))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: tipo de operación (izq) y referencia + estado (der).
func headerRow(txn *entity.Transaction) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(typeTitles[txn.Type], txn.Type), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Creado por: "+nonEmpty(txn.CreatedBy, "-"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(txn.ReferenceNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Estado: "+txn.Status, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// warehousesRows: bodegas de origen y destino más la contraparte.
func warehousesRows(data inventory.SlipData) []core.Row {
	txn := data.Transaction
	counterpart := "Contacto: " + nonEmpty(txn.Contact, "-")
	switch txn.Type {
	case entity.TxnTypeReceipt:
		counterpart = "Proveedor: " + nonEmpty(txn.Supplier, "-") + "   |   " + counterpart
	case entity.TxnTypeDelivery:
		counterpart = "Dirección: " + nonEmpty(txn.DeliveryAddress, "-") + "   |   " + counterpart
	}
	return []core.Row{
		row.New(12).Add(
			col.New(6).Add(
				text.New("ORIGEN", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
				text.New(warehouseLabel(data.FromWarehouse), props.Text{Size: 9, Top: 6}),
			),
			col.New(6).Add(
				text.New("DESTINO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
				text.New(warehouseLabel(data.ToWarehouse), props.Text{Size: 9, Top: 6}),
			),
		),
		row.New(6).Add(col.New(12).Add(
			text.New(counterpart, props.Text{Size: 8, Top: 1, Color: colorGray}),
		)),
	}
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Producto", 4, align.Left),
		h("UdM", 1, align.Center),
		h("Cantidad", 2, align.Right),
		h("Valor", 3, align.Right),
	)
}

func detailRow(txn *entity.Transaction, product *entity.Product) core.Row {
	sku, name, uom := "-", "-", ""
	cost := decimal.Zero
	if product != nil {
		sku, name, uom, cost = product.SKU, product.Name, product.UOM, product.UnitCost
	}
	value := txn.Quantity.Abs().Mul(cost)
	return row.New(7).Add(
		col.New(2).Add(text.New(sku, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(4).Add(text.New(name, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(1).Add(text.New(uom, props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(2).Add(text.New(txn.Quantity.String(), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(3).Add(text.New("$"+formatMoney(value.StringFixed(0)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

// adjustmentRow: conteo físico frente al saldo del sistema.
func adjustmentRow(txn *entity.Transaction) core.Row {
	counted, system := "-", "-"
	if txn.CountedQty != nil {
		counted = txn.CountedQty.String()
	}
	if txn.SystemQty != nil {
		system = txn.SystemQty.String()
	}
	return row.New(7).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Contado: %s   |   Sistema: %s   |   Diferencia: %s", counted, system, txn.Quantity.String()),
			props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray}),
	))
}

// footerRow: fechas y QR con la referencia para escanear en bodega.
func footerRow(txn *entity.Transaction) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(txn.ReferenceNumber, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Programada: "+formatDate(txn.ScheduledDate), props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray}),
			text.New("Completada: "+formatDate(txn.CompletionDate), props.Text{Size: 8, Top: 10, Left: 3, Color: colorGray}),
			text.New("Escanee el código para ubicar la operación.", props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 20, Left: 3, Color: colorPrimary,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func warehouseLabel(w *entity.Warehouse) string {
	if w == nil {
		return "-"
	}
	return w.ShortCode + " · " + w.Name
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("02/01/2006")
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "-1000000" → "-1.000.000"
func formatMoney(s string) string {
	sign := ""
	if len(s) > 0 && s[0] == '-' {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
