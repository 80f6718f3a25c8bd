package rest

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pos/internal/domain"
	"github.com/vladislavdragonenkov/pos/internal/service/sale"
)

type saleRequest struct {
	ProductCode int64  `json:"product_code"`
	Clerk       string `json:"clerk"`
	Customer    string `json:"customer,omitempty"`
	Qty         int32  `json:"qty"`
	Kind        string `json:"kind"`
}

type saleResponse struct {
	ID             string    `json:"id"`
	ProductCode    int64     `json:"product_code"`
	ProductName    string    `json:"product_name"`
	Qty            int32     `json:"qty"`
	UnitPriceMinor int64     `json:"unit_price_minor"`
	TotalMinor     int64     `json:"total_minor"`
	Kind           string    `json:"kind"`
	Clerk          string    `json:"clerk"`
	Customer       string    `json:"customer,omitempty"`
	SoldAt         time.Time `json:"sold_at"`
}

func toSaleResponse(record domain.SaleRecord) saleResponse {
	return saleResponse{
		ID:             record.ID,
		ProductCode:    record.ProductCode,
		ProductName:    record.ProductName,
		Qty:            record.Qty,
		UnitPriceMinor: record.UnitPriceMinor,
		TotalMinor:     record.TotalMinor,
		Kind:           string(record.Kind),
		Clerk:          record.Clerk,
		Customer:       record.Customer,
		SoldAt:         record.SoldAt,
	}
}

// registerSale оформляет продажу. Заголовок Idempotency-Key защищает от
// повторной отправки формы: повтор с тем же телом возвращает сохранённый
// ответ, повтор с другим телом отклоняется конфликтом.
func (h *Handler) registerSale(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read request body"})
		return
	}

	var req saleRequest
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	key := r.Header.Get("Idempotency-Key")
	if key != "" && h.idempotency != nil {
		requestHash := hashRequestBody(body)
		if done := h.beginIdempotent(w, key, requestHash); done {
			return
		}

		status, payload := h.processSale(req)
		if markErr := h.finishIdempotent(key, status, payload); markErr != nil {
			h.logger.WithError(markErr).WithField("idempotency_key", key).Warn("failed to store idempotent response")
		}
		respondRaw(w, status, payload)
		return
	}

	status, payload := h.processSale(req)
	respondRaw(w, status, payload)
}

// processSale выполняет регистрацию и возвращает готовый HTTP-ответ.
func (h *Handler) processSale(req saleRequest) (int, []byte) {
	record, err := h.sales.Register(sale.Input{
		ProductCode: req.ProductCode,
		Clerk:       req.Clerk,
		Customer:    req.Customer,
		Qty:         req.Qty,
		Kind:        domain.SaleKind(req.Kind),
	})
	if err != nil {
		payload, _ := json.Marshal(errorResponse{Error: err.Error()})
		return statusForError(err), payload
	}

	payload, err := json.Marshal(toSaleResponse(record))
	if err != nil {
		h.logger.WithError(err).Error("failed to marshal sale response")
		fallback, _ := json.Marshal(errorResponse{Error: "internal error"})
		return http.StatusInternalServerError, fallback
	}
	return http.StatusCreated, payload
}

// beginIdempotent регистрирует ключ и возвращает true, если ответ уже отправлен
// (повтор или конфликт).
func (h *Handler) beginIdempotent(w http.ResponseWriter, key, requestHash string) bool {
	_, err := h.idempotency.CreateProcessing(key, requestHash, time.Now().UTC().Add(defaultIdempotencyTTL))
	if err == nil {
		return false
	}

	if errors.Is(err, domain.ErrIdempotencyHashMismatch) {
		respondError(w, err)
		return true
	}
	if !errors.Is(err, domain.ErrIdempotencyKeyAlreadyExists) {
		respondError(w, err)
		return true
	}

	record, getErr := h.idempotency.Get(key)
	if getErr != nil {
		respondError(w, getErr)
		return true
	}
	if record.RequestHash != requestHash {
		respondError(w, domain.ErrIdempotencyHashMismatch)
		return true
	}
	if record.Status == domain.IdempotencyStatusProcessing {
		// Первый запрос ещё обрабатывается.
		respondJSON(w, http.StatusConflict, errorResponse{Error: "request is still being processed"})
		return true
	}

	respondRaw(w, record.HTTPStatus, record.ResponseBody)
	return true
}

func (h *Handler) finishIdempotent(key string, status int, payload []byte) error {
	if status >= 200 && status < 300 {
		return h.idempotency.MarkDone(key, payload, status)
	}
	return h.idempotency.MarkFailed(key, payload, status)
}

func (h *Handler) listSales(w http.ResponseWriter, _ *http.Request) {
	records, err := h.sales.ListSales()
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]saleResponse, 0, len(records))
	for _, record := range records {
		out = append(out, toSaleResponse(record))
	}
	respondJSON(w, http.StatusOK, out)
}

type settlementResponse struct {
	Customer     string    `json:"customer"`
	SettledMinor int64     `json:"settled_minor"`
	Entries      int       `json:"entries"`
	SettledAt    time.Time `json:"settled_at"`
}

func (h *Handler) settleCustomer(w http.ResponseWriter, r *http.Request) {
	settlement, err := h.sales.Settle(urlName(r))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, settlementResponse{
		Customer:     settlement.Customer,
		SettledMinor: settlement.SettledMinor,
		Entries:      settlement.Entries,
		SettledAt:    settlement.SettledAt,
	})
}

type balanceResponse struct {
	Customer         string `json:"customer"`
	OpenBalanceMinor int64  `json:"open_balance_minor"`
}

func (h *Handler) customerBalance(w http.ResponseWriter, r *http.Request) {
	name := urlName(r)

	balance, err := h.sales.OpenBalance(name)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, balanceResponse{Customer: name, OpenBalanceMinor: balance})
}

func respondRaw(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if len(payload) == 0 {
		return
	}
	if _, err := w.Write(payload); err != nil {
		log.WithError(err).Warn("failed to write response body")
	}
}

func hashRequestBody(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
