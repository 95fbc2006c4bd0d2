package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VriVa/odoo-spit-hack/internal/application/inventory"
	"github.com/VriVa/odoo-spit-hack/internal/domain/entity"
	"github.com/VriVa/odoo-spit-hack/internal/infrastructure/pdf"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "25", pdf.FormatMoney("25"))
	assert.Equal(t, "25.000", pdf.FormatMoney("25000"))
	assert.Equal(t, "1.000.000", pdf.FormatMoney("1000000"))
	assert.Equal(t, "-1.500", pdf.FormatMoney("-1500"))
}

func TestMarotoSlipGenerator_GenerateSlip(t *testing.T) {
	now := time.Now()
	counted := decimal.NewFromInt(117)
	system := decimal.NewFromInt(120)
	data := inventory.SlipData{
		Transaction: &entity.Transaction{
			ID:              "t1",
			Type:            entity.TxnTypeInternalAdjustment,
			Status:          entity.TxnStatusDone,
			Quantity:        decimal.NewFromInt(-3),
			CountedQty:      &counted,
			SystemQty:       &system,
			ReferenceNumber: "WH1/ADJ/00001",
			CompletionDate:  &now,
		},
		Product:       &entity.Product{SKU: "REC-001", Name: "Tornillo", UOM: "pcs", UnitCost: decimal.NewFromInt(1200)},
		FromWarehouse: &entity.Warehouse{ShortCode: "WH1", Name: "Principal"},
	}

	out, err := pdf.NewMarotoSlipGenerator().GenerateSlip(context.Background(), data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestMarotoSlipGenerator_RequiresTransaction(t *testing.T) {
	_, err := pdf.NewMarotoSlipGenerator().GenerateSlip(context.Background(), inventory.SlipData{})
	assert.Error(t, err)
}
