package workflow_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockops-api/internal/application/workflow"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/rules"
)

func TestNewDraft_ArrancaEnDetallesConReglasDelTipo(t *testing.T) {
	d := workflow.NewDraft(tipoStockIssue())

	assert.Equal(t, workflow.StepDetails, d.Step)
	assert.Equal(t, rules.For(entity.KindStockIssue), d.Rules)
	assert.Equal(t, "type-stockissue", d.Operation.OperationTypeUUID)
	assert.Equal(t, entity.StatusNew, d.Operation.Status)
	assert.True(t, d.IsNew())
	assert.Nil(t, d.Operation.ApprovalRequired, "el tri-estado arranca sin decidir")
}

// Reduce nunca muta el borrador de entrada.
func TestReduce_EsPuro(t *testing.T) {
	d := workflow.NewDraft(tipoStockIssue())
	d = workflow.Reduce(d, itemIssue("item-1"))

	antes := d.Operation
	antesItems := make([]entity.StockOperationItem, len(d.Operation.Items))
	copy(antesItems, d.Operation.Items)

	_ = workflow.Reduce(d, cabecera())
	_ = workflow.Reduce(d, workflow.RemoveItem{UUID: d.Operation.Items[0].UUID})
	_ = workflow.Reduce(d, workflow.SetApprovalRequired{Required: true})

	assert.Equal(t, antes.SourceUUID, d.Operation.SourceUUID)
	assert.Equal(t, antesItems, d.Operation.Items)
	assert.Nil(t, d.Operation.ApprovalRequired)
}

func TestReduce_UpsertAsignaCentinelaANuevos(t *testing.T) {
	d := workflow.NewDraft(tipoStockIssue())
	d = workflow.Reduce(d, itemIssue("item-1"))

	require.Len(t, d.Operation.Items, 1)
	assert.True(t, entity.IsNewItemUUID(d.Operation.Items[0].UUID))
	assert.Equal(t, d.Operation.Items[0].UUID, d.Operation.Items[0].ID)
}

func TestReduce_UpsertReemplazaPorUUID(t *testing.T) {
	d := workflow.NewDraft(tipoStockIssue())
	d = workflow.Reduce(d, itemIssue("item-1"))
	id := d.Operation.Items[0].UUID

	editado := itemIssue("item-1")
	editado.Item.UUID = id
	editado.Item.ID = id
	editado.Item.Quantity = qty(99)
	d = workflow.Reduce(d, editado)

	require.Len(t, d.Operation.Items, 1)
	assert.True(t, d.Operation.Items[0].Quantity.Equal(*qty(99)))
}

func TestReduce_RemoveItemQuitaSoloElIndicado(t *testing.T) {
	d := workflow.NewDraft(tipoStockIssue())
	d = workflow.Reduce(d, itemIssue("item-1"))
	d = workflow.Reduce(d, itemIssue("item-2"))
	id := d.Operation.Items[0].UUID

	d = workflow.Reduce(d, workflow.RemoveItem{UUID: id})
	require.Len(t, d.Operation.Items, 1)
	assert.Equal(t, "item-2", d.Operation.Items[0].StockItemUUID)
}

func TestDraftFromExisting_GuardaInstantaneaIndependiente(t *testing.T) {
	persistida := operacionPersistidaConItems("X", "Y")
	d := workflow.DraftFromExisting(persistida, tipoStockIssue())

	assert.False(t, d.IsNew())
	require.NotNil(t, d.Persisted)

	// Editar el borrador no toca la instantánea.
	d = workflow.Reduce(d, workflow.RemoveItem{UUID: "X"})
	assert.Len(t, d.Operation.Items, 1)
	assert.Len(t, d.Persisted.Items, 2)
}

func TestReduce_SetHeaderAplicaTodosLosCampos(t *testing.T) {
	fecha := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	d := workflow.NewDraft(tipoAdjustment())
	d = workflow.Reduce(d, workflow.SetHeader{
		SourceUUID:            "party-a",
		SourceName:            "Bodega Principal",
		ResponsiblePersonUUID: entity.ResponsiblePersonOtherUUID,
		ResponsiblePersonOther: "María Pérez",
		OperationDate:         fecha,
		Remarks:               "conteo trimestral",
		ReasonUUID:            "reason-1",
	})

	op := d.Operation
	assert.Equal(t, "party-a", op.SourceUUID)
	assert.Equal(t, "Bodega Principal", op.SourceName)
	assert.Equal(t, entity.ResponsiblePersonOtherUUID, op.ResponsiblePersonUUID)
	assert.Equal(t, "María Pérez", op.ResponsiblePersonOther)
	assert.Equal(t, fecha, op.OperationDate)
	assert.Equal(t, "conteo trimestral", op.Remarks)
	assert.Equal(t, "reason-1", op.ReasonUUID)
}
