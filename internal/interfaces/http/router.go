package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockops-api/internal/application/operations"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Operations *operations.Service
	PDF        operations.PrintPDFGenerator
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	handler := NewStockOperationHandler(deps.Operations, deps.PDF)

	// Referencia de tipos y parties (cualquier rol autenticado)
	types := protected.Group("/stock-operation-types")
	types.Get("/", handler.ListTypes)
	types.Get("/:uuid/parties", handler.EligibleParties)

	// Operaciones de stock: lectura para todos los roles, escritura solo
	// para admin y almacenista.
	ops := protected.Group("/stock-operations")
	ops.Get("/:uuid", handler.Get)
	ops.Get("/:uuid/print", handler.PrintRecord)
	ops.Get("/:uuid/print.pdf", handler.PrintPDF)
	ops.Post("/validate", RequireRole("admin", "almacenista"), handler.Validate)
	ops.Post("/submit", RequireRole("admin", "almacenista"), handler.Submit)
	ops.Post("/:uuid/issue", RequireRole("admin", "almacenista"), handler.DeriveIssue)
}
