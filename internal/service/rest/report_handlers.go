package rest

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/vladislavdragonenkov/pos/internal/service/report"
)

type reportResponse struct {
	Period     string         `json:"period"`
	From       time.Time      `json:"from"`
	To         time.Time      `json:"to"`
	Records    []saleResponse `json:"records"`
	TotalMinor int64          `json:"total_minor"`
}

// buildReport строит отчёт за период daily|weekly|monthly.
// Параметр ?format=csv выгружает отчёт файлом.
func (h *Handler) buildReport(w http.ResponseWriter, r *http.Request) {
	period := report.Period(chi.URLParam(r, "period"))

	rep, err := h.reports.Build(period, time.Now().UTC())
	if err != nil {
		respondError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", csvFilename(rep)))
		if err := rep.WriteCSV(w); err != nil {
			h.logger.WithError(err).Error("failed to write csv report")
		}
		return
	}

	records := make([]saleResponse, 0, len(rep.Records))
	for _, record := range rep.Records {
		records = append(records, toSaleResponse(record))
	}

	respondJSON(w, http.StatusOK, reportResponse{
		Period:     string(rep.Period),
		From:       rep.From,
		To:         rep.To,
		Records:    records,
		TotalMinor: rep.TotalMinor,
	})
}

func csvFilename(rep report.Report) string {
	return fmt.Sprintf("sales-%s-%s.csv", rep.Period, rep.From.Format("2006-01-02"))
}
