package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pos/internal/domain"
)

// Period определяет отчётный период.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// Valid проверяет, что период поддерживается.
func (p Period) Valid() bool {
	return p == PeriodDaily || p == PeriodWeekly || p == PeriodMonthly
}

// ErrPeriodInvalid возвращается для неизвестного отчётного периода.
var ErrPeriodInvalid = fmt.Errorf("report: invalid period")

// Report агрегирует записи журнала за отчётное окно.
type Report struct {
	Period Period
	// Окно отчёта — полуинтервал [From, To).
	From    time.Time
	To      time.Time
	Records []domain.SaleRecord
	// TotalMinor — суммарная выручка окна в минимальных единицах.
	TotalMinor int64
}

// Service строит отчёты о продажах по журналу.
type Service struct {
	ledger domain.LedgerRepository
	logger *log.Entry
}

// NewService создаёт сервис отчётов.
func NewService(ledger domain.LedgerRepository) *Service {
	return &Service{
		ledger: ledger,
		logger: log.WithField("component", "report-service"),
	}
}

// Build собирает отчёт за период, содержащий момент now.
// Дневное окно — календарные сутки, недельное начинается с понедельника,
// месячное — с первого числа.
func (s *Service) Build(period Period, now time.Time) (Report, error) {
	if !period.Valid() {
		return Report{}, ErrPeriodInvalid
	}

	from, to := periodWindow(period, now)

	records, err := s.ledger.ListBetween(from, to)
	if err != nil {
		return Report{}, fmt.Errorf("list ledger window: %w", err)
	}

	var total int64
	for _, record := range records {
		total += record.TotalMinor
	}

	s.logger.WithFields(log.Fields{
		"period":      period,
		"from":        from,
		"to":          to,
		"records":     len(records),
		"total_minor": total,
	}).Debug("report built")

	return Report{
		Period:     period,
		From:       from,
		To:         to,
		Records:    records,
		TotalMinor: total,
	}, nil
}

// periodWindow возвращает границы окна [from, to) для периода, содержащего now.
func periodWindow(period Period, now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch period {
	case PeriodWeekly:
		// Неделя начинается с понедельника.
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7)
	case PeriodMonthly:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0)
	default:
		return day, day.AddDate(0, 0, 1)
	}
}

// WriteCSV выгружает отчёт в CSV с заголовком и итоговой строкой.
func (r *Report) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	header := []string{"sale_id", "sold_at", "product_code", "product_name", "qty", "unit_price_minor", "total_minor", "kind", "clerk", "customer"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, record := range r.Records {
		row := []string{
			record.ID,
			record.SoldAt.UTC().Format(time.RFC3339),
			strconv.FormatInt(record.ProductCode, 10),
			record.ProductName,
			strconv.FormatInt(int64(record.Qty), 10),
			strconv.FormatInt(record.UnitPriceMinor, 10),
			strconv.FormatInt(record.TotalMinor, 10),
			string(record.Kind),
			record.Clerk,
			record.Customer,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	totalRow := []string{"total", "", "", "", "", "", strconv.FormatInt(r.TotalMinor, 10), "", "", ""}
	if err := writer.Write(totalRow); err != nil {
		return fmt.Errorf("write csv total: %w", err)
	}

	writer.Flush()
	return writer.Error()
}
