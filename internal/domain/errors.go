package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// ErrNotEditable la operación ya no está en NEW: los campos son de
	// solo lectura salvo por acciones explícitas de transición.
	ErrNotEditable = errors.New("la operación ya no es editable")

	// ErrSaveInFlight ya hay un guardado en curso para esta operación;
	// equivale a deshabilitar el control de guardar mientras la promesa
	// anterior sigue pendiente.
	ErrSaveInFlight = errors.New("hay un guardado en curso")

	// ErrActionNotAllowed la acción de envío no corresponde a la decisión
	// de aprobación y a las reglas del tipo de operación.
	ErrActionNotAllowed = errors.New("acción no disponible para esta operación")

	// ErrApprovalUndecided aún no se declaró si la operación requiere
	// aprobación; ninguna acción de envío está habilitada.
	ErrApprovalUndecided = errors.New("declare si la operación requiere aprobación")

	// ErrNotRequisition solo una requisición puede derivar un despacho
	// de stock.
	ErrNotRequisition = errors.New("la operación origen no es una requisición")

	// ErrPrintingNotAllowed el tipo de operación no es imprimible.
	ErrPrintingNotAllowed = errors.New("este tipo de operación no es imprimible")
)
