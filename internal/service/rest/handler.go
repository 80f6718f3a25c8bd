package rest

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pos/internal/domain"
	"github.com/vladislavdragonenkov/pos/internal/service/auth"
	"github.com/vladislavdragonenkov/pos/internal/service/registry"
	"github.com/vladislavdragonenkov/pos/internal/service/report"
	"github.com/vladislavdragonenkov/pos/internal/service/sale"
)

// defaultIdempotencyTTL — срок хранения ключей идемпотентности POST /sales.
const defaultIdempotencyTTL = 24 * time.Hour

// Handler объединяет HTTP-обработчики API кассы.
type Handler struct {
	registry    *registry.Service
	sales       *sale.Service
	reports     *report.Service
	auth        *auth.Service
	idempotency domain.IdempotencyRepository
	logger      *log.Entry
}

// NewHandler создаёт HTTP-обработчики поверх сервисного слоя.
// idempotency может быть nil: тогда POST /sales обрабатывается без дедупликации.
func NewHandler(
	registrySvc *registry.Service,
	saleSvc *sale.Service,
	reportSvc *report.Service,
	authSvc *auth.Service,
	idempotency domain.IdempotencyRepository,
) *Handler {
	return &Handler{
		registry:    registrySvc,
		sales:       saleSvc,
		reports:     reportSvc,
		auth:        authSvc,
		idempotency: idempotency,
		logger:      log.WithField("component", "rest-handler"),
	}
}

// Routes собирает маршруты API версии v1.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Post("/", h.registerProduct)
			r.Get("/", h.listProducts)
			r.Get("/low-stock", h.listLowStock)
			r.Get("/{code}", h.getProduct)
			r.Delete("/{code}", h.removeProduct)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Post("/", h.registerEmployee)
			r.Get("/", h.listEmployees)
			r.Delete("/{name}", h.removeEmployee)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Post("/", h.registerCustomer)
			r.Get("/", h.listCustomers)
			r.Get("/{name}", h.getCustomer)
			r.Get("/{name}/balance", h.customerBalance)
			r.Post("/{name}/settle", h.settleCustomer)
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Post("/", h.registerSupplier)
			r.Get("/", h.listSuppliers)
			r.Delete("/{name}", h.removeSupplier)
		})

		r.Route("/sales", func(r chi.Router) {
			r.Post("/", h.registerSale)
			r.Get("/", h.listSales)
		})

		r.Get("/reports/{period}", h.buildReport)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.registerUser)
			r.Post("/login", h.login)
		})
	})

	return r
}

// urlName достаёт параметр {name} из пути с учётом URL-экранирования.
func urlName(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}
