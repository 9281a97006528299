package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestoria-api/internal/application/analytics"
	"github.com/jhoicas/gestoria-api/internal/application/billing"
	"github.com/jhoicas/gestoria-api/internal/application/casefile"
	"github.com/jhoicas/gestoria-api/internal/application/usecase"
	"github.com/jhoicas/gestoria-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ClientUC    *usecase.ClientUseCase
	TramiteUC   *usecase.TramiteUseCase
	CaseFileUC  *casefile.UseCase
	PaymentUC   *billing.PaymentUseCase
	ReceiptUC   *billing.ReceiptUseCase
	DashboardUC *analytics.DashboardUseCase
	ExportUC    *usecase.ExportUseCase
	UserUC      *usecase.UserUseCase
	SettingsUC  *usecase.SettingsUseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.UserUC))
	adminOnly := RequireRole(entity.RoleAdmin)

	// Clientes
	clients := api.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC, deps.PaymentUC)
	clients.Get("/", clientHandler.List)
	clients.Post("/", clientHandler.Create)
	clients.Get("/:id", clientHandler.Detail)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", adminOnly, clientHandler.Delete)
	clients.Get("/:id/rollup", clientHandler.Rollup)

	// Catálogo de trámites (lectura para todos, escritura solo admin)
	tramiteHandler := NewTramiteHandler(deps.TramiteUC)
	tramites := api.Group("/tramites")
	tramites.Get("/", tramiteHandler.ListTypes)
	tramites.Post("/", adminOnly, tramiteHandler.CreateType)
	tramites.Get("/:id", tramiteHandler.GetType)
	tramites.Put("/:id", adminOnly, tramiteHandler.UpdateType)
	tramites.Delete("/:id", adminOnly, tramiteHandler.DeleteType)
	tramites.Patch("/:id/active", adminOnly, tramiteHandler.SetTypeActive)
	tramites.Get("/:id/documents", tramiteHandler.ListDocuments)
	tramites.Post("/:id/documents", adminOnly, tramiteHandler.CreateDocument)

	requiredDocs := api.Group("/required-documents", adminOnly)
	requiredDocs.Put("/:id", tramiteHandler.UpdateDocument)
	requiredDocs.Delete("/:id", tramiteHandler.DeleteDocument)
	requiredDocs.Patch("/:id/active", tramiteHandler.SetDocumentActive)

	// Expedientes
	caseFiles := api.Group("/expedientes")
	caseFileHandler := NewCaseFileHandler(deps.CaseFileUC, deps.PaymentUC)
	caseFiles.Get("/", caseFileHandler.List)
	caseFiles.Post("/", caseFileHandler.Create)
	caseFiles.Get("/:id", caseFileHandler.Detail)
	caseFiles.Put("/:id", caseFileHandler.Update)
	caseFiles.Delete("/:id", caseFileHandler.Delete)
	caseFiles.Patch("/:id/status", caseFileHandler.SetStatus)
	caseFiles.Get("/:id/documents", caseFileHandler.Documents)
	caseFiles.Patch("/:id/documents/:docId", caseFileHandler.ToggleDocument)
	caseFiles.Get("/:id/history", caseFileHandler.History)
	caseFiles.Get("/:id/rollup", caseFileHandler.Rollup)

	// Pagos y recibos
	payments := api.Group("/payments")
	paymentHandler := NewPaymentHandler(deps.PaymentUC, deps.ReceiptUC)
	payments.Get("/", paymentHandler.List)
	payments.Post("/", paymentHandler.Create)
	payments.Delete("/:id", paymentHandler.Delete)
	payments.Get("/:id/receipt", paymentHandler.Receipt)

	// Panel y exportación
	api.Get("/dashboard", NewDashboardHandler(deps.DashboardUC).GetSummary)
	api.Get("/export", adminOnly, NewExportHandler(deps.ExportUC).Export)

	// Perfil propio (cualquier rol)
	userHandler := NewUserHandler(deps.UserUC)
	api.Get("/me", userHandler.Me)
	api.Put("/me", userHandler.UpdateMe)

	// Usuarios (solo admin)
	users := api.Group("/users", adminOnly)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Patch("/:id/role", userHandler.SetRole)

	// Ajustes de la gestoría
	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	api.Get("/settings", settingsHandler.Get)
	api.Put("/settings", adminOnly, settingsHandler.Update)
}
