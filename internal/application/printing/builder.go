// Package printing transforma una operación completada/despachada en el
// registro plano listo para imprimir. Transformación pura: consume las
// salidas de reglas y workflow solo como datos, nunca su comportamiento,
// y degrada las entradas opcionales ausentes a campos vacíos, jamás a
// errores.
package printing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockops-api/internal/domain/entity"
)

// Row un renglón del documento impreso.
type Row struct {
	StockItemName string
	BatchNo       string
	Expiration    *time.Time

	// QuantityRequested y QuantityIssued son mutuamente excluyentes con
	// la cantidad simple: dependen de si hay requisición padre y del tipo
	// de la operación actual.
	Quantity          *decimal.Decimal
	QuantityRequested *decimal.Decimal
	QuantityIssued    *decimal.Decimal
	UOMName           string

	UnitCost  *decimal.Decimal
	TotalCost *decimal.Decimal

	// BalanceOnHand existencia actual; presente solo si se aportó inventario.
	BalanceOnHand    *decimal.Decimal
	BalanceOnHandUOM string
}

// Data registro plano de impresión de una operación.
type Data struct {
	Organization    string
	Location        string
	DocumentTitle   string
	OperationNumber string
	OperationDate   time.Time
	ResponsibleBy   string
	AuthorizedBy    string
	Remarks         string
	SourceName      string
	DestinationName string
	Rows            []Row
}

// Input entradas del armado. Parent, Costs e Inventory son opcionales.
type Input struct {
	Operation    entity.StockOperation
	Parent       *entity.StockOperation
	Costs        []entity.StockOperationItemCost
	Inventory    []entity.StockItemInventory
	Organization string
}

// Build arma el registro de impresión. Nunca falla: lo que no se aportó
// simplemente no aparece.
func Build(in Input) Data {
	op := in.Operation

	data := Data{
		Organization:    in.Organization,
		Location:        op.AtLocationName,
		DocumentTitle:   documentTitle(op, in.Parent),
		OperationNumber: op.OperationNumber,
		OperationDate:   op.OperationDate,
		ResponsibleBy:   responsibleName(op),
		AuthorizedBy:    authorizedName(op),
		Remarks:         op.Remarks,
		SourceName:      op.SourceName,
		DestinationName: op.DestinationName,
	}

	costsByItem := make(map[string]entity.StockOperationItemCost, len(in.Costs))
	for _, c := range in.Costs {
		costsByItem[c.UUID] = c
	}
	balanceByStockItem := make(map[string]entity.StockItemInventory, len(in.Inventory))
	for _, inv := range in.Inventory {
		balanceByStockItem[inv.StockItemUUID] = inv
	}

	hasParent := in.Parent != nil
	for _, it := range op.Items {
		row := Row{
			StockItemName: it.StockItemName,
			BatchNo:       it.BatchNo,
			Expiration:    it.Expiration,
			UOMName:       it.StockItemPackagingUOMName,
		}
		switch {
		case hasParent || (op.OperationType == entity.KindStockIssue && op.RequisitionStockOperationUUID != ""):
			// Despacho derivado: pedido vs entregado.
			row.QuantityRequested = it.QuantityRequested
			row.QuantityIssued = it.Quantity
		case op.OperationType == entity.KindRequisition:
			row.QuantityRequested = it.Quantity
		default:
			row.Quantity = it.Quantity
		}
		if c, ok := costsByItem[it.UUID]; ok {
			unit := c.UnitCost
			total := c.TotalCost
			row.UnitCost = &unit
			row.TotalCost = &total
		}
		if b, ok := balanceByStockItem[it.StockItemUUID]; ok {
			balance := b.Quantity
			row.BalanceOnHand = &balance
			row.BalanceOnHandUOM = b.QuantityUOM
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

// documentTitle concatena tipo/número propios con los del padre cuando
// existe (p.ej. "Stock Issue SI-0002 de Requisition REQ-0001").
func documentTitle(op entity.StockOperation, parent *entity.StockOperation) string {
	title := op.OperationType.DisplayName()
	if op.OperationNumber != "" {
		title += " " + op.OperationNumber
	}
	if parent == nil {
		return title
	}
	parentTitle := parent.OperationType.DisplayName()
	if parent.OperationNumber != "" {
		parentTitle += " " + parent.OperationNumber
	}
	return title + " de " + parentTitle
}

func responsibleName(op entity.StockOperation) string {
	if op.ResponsiblePersonUUID == entity.ResponsiblePersonOtherUUID {
		return op.ResponsiblePersonOther
	}
	if op.ResponsiblePersonName != "" {
		return op.ResponsiblePersonName
	}
	return op.ResponsiblePersonOther
}

// authorizedName quien despachó o, en su defecto, quien completó.
func authorizedName(op entity.StockOperation) string {
	if op.DispatchedByName != "" {
		return op.DispatchedByName
	}
	return op.CompletedByName
}
