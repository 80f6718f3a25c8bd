package rest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/vladislavdragonenkov/pos/internal/domain"
	"github.com/vladislavdragonenkov/pos/internal/service/registry"
)

type productRequest struct {
	Name              string `json:"name"`
	Quantity          int32  `json:"quantity"`
	PriceMinor        int64  `json:"price_minor"`
	LowStockThreshold int32  `json:"low_stock_threshold,omitempty"`
}

type productResponse struct {
	Code              int64  `json:"code"`
	Name              string `json:"name"`
	Quantity          int32  `json:"quantity"`
	PriceMinor        int64  `json:"price_minor"`
	LowStockThreshold int32  `json:"low_stock_threshold"`
	LowStock          bool   `json:"low_stock"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		Code:              p.Code,
		Name:              p.Name,
		Quantity:          p.Quantity,
		PriceMinor:        p.PriceMinor,
		LowStockThreshold: p.LowStockThreshold,
		LowStock:          p.LowStock(),
	}
}

func (h *Handler) registerProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	product, err := h.registry.RegisterProduct(registry.ProductInput{
		Name:              req.Name,
		Quantity:          req.Quantity,
		PriceMinor:        req.PriceMinor,
		LowStockThreshold: req.LowStockThreshold,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *Handler) listProducts(w http.ResponseWriter, _ *http.Request) {
	products, err := h.registry.ListProducts()
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) listLowStock(w http.ResponseWriter, _ *http.Request) {
	products, err := h.registry.LowStockProducts()
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.ParseInt(chi.URLParam(r, "code"), 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid product code"})
		return
	}

	product, err := h.registry.GetProduct(code)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *Handler) removeProduct(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.ParseInt(chi.URLParam(r, "code"), 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid product code"})
		return
	}

	if err := h.registry.RemoveProduct(code); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

type nameRequest struct {
	Name string `json:"name"`
}

type employeeResponse struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toEmployeeResponse(e domain.Employee) employeeResponse {
	return employeeResponse{Name: e.Name, CreatedAt: e.CreatedAt}
}

func (h *Handler) registerEmployee(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	employee, err := h.registry.RegisterEmployee(req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toEmployeeResponse(employee))
}

func (h *Handler) listEmployees(w http.ResponseWriter, _ *http.Request) {
	employees, err := h.registry.ListEmployees()
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]employeeResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, toEmployeeResponse(e))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) removeEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.RemoveEmployee(urlName(r)); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

type historyEntryResponse struct {
	SaleID      string    `json:"sale_id"`
	ProductName string    `json:"product_name"`
	Qty         int32     `json:"qty"`
	TotalMinor  int64     `json:"total_minor"`
	Kind        string    `json:"kind"`
	RecordedAt  time.Time `json:"recorded_at"`
}

type customerResponse struct {
	Name             string                 `json:"name"`
	History          []historyEntryResponse `json:"history"`
	OpenBalanceMinor int64                  `json:"open_balance_minor"`
}

func toCustomerResponse(c domain.Customer) customerResponse {
	history := make([]historyEntryResponse, 0, len(c.History))
	for _, entry := range c.History {
		history = append(history, historyEntryResponse{
			SaleID:      entry.SaleID,
			ProductName: entry.ProductName,
			Qty:         entry.Qty,
			TotalMinor:  entry.TotalMinor,
			Kind:        string(entry.Kind),
			RecordedAt:  entry.RecordedAt,
		})
	}
	return customerResponse{
		Name:             c.Name,
		History:          history,
		OpenBalanceMinor: c.OpenBalanceMinor(),
	}
}

func (h *Handler) registerCustomer(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	customer, err := h.registry.RegisterCustomer(req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCustomerResponse(customer))
}

func (h *Handler) listCustomers(w http.ResponseWriter, _ *http.Request) {
	customers, err := h.registry.ListCustomers()
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]customerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, toCustomerResponse(c))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.registry.GetCustomer(urlName(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCustomerResponse(customer))
}

type supplierRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
}

type supplierResponse struct {
	Name      string    `json:"name"`
	Contact   string    `json:"contact,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toSupplierResponse(s domain.Supplier) supplierResponse {
	return supplierResponse{Name: s.Name, Contact: s.Contact, CreatedAt: s.CreatedAt}
}

func (h *Handler) registerSupplier(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	supplier, err := h.registry.RegisterSupplier(req.Name, req.Contact)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toSupplierResponse(supplier))
}

func (h *Handler) listSuppliers(w http.ResponseWriter, _ *http.Request) {
	suppliers, err := h.registry.ListSuppliers()
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]supplierResponse, 0, len(suppliers))
	for _, s := range suppliers {
		out = append(out, toSupplierResponse(s))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) removeSupplier(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.RemoveSupplier(urlName(r)); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
