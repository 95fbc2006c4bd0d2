package inventory

import (
	"fmt"
	"strings"

	"github.com/VriVa/odoo-spit-hack/internal/domain/entity"
)

// ReferencePrefix devuelve el segmento de operación de la referencia según el tipo.
func ReferencePrefix(txnType string) string {
	switch txnType {
	case entity.TxnTypeReceipt:
		return "IN"
	case entity.TxnTypeDelivery:
		return "OUT"
	case entity.TxnTypeInternalTransfer:
		return "INT"
	case entity.TxnTypeInternalAdjustment:
		return "ADJ"
	}
	return "TXN"
}

// SequenceKey es la clave del contador de referencias: "<CODE>/<OP>".
func SequenceKey(shortCode, txnType string) string {
	code := strings.ToUpper(strings.TrimSpace(shortCode))
	if code == "" {
		code = "WH"
	}
	return code + "/" + ReferencePrefix(txnType)
}

// FormatReference arma la referencia legible, p. ej. WH1/IN/00001.
func FormatReference(key string, seq int64) string {
	return fmt.Sprintf("%s/%05d", key, seq)
}
