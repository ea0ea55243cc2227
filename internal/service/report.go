package service

import (
	"context"
	"fmt"
	"time"

	"github.com/kmazurov/order_service/internal/logging"
	"github.com/kmazurov/order_service/internal/models"
	"github.com/kmazurov/order_service/internal/repo"
	"github.com/kmazurov/order_service/internal/transport"
)

const dateLayout = "2006-01-02"

type ReportService struct {
	Orders *repo.OrderRepo
	Logs   *repo.OrderLogRepo
}

// dayWindow is [00:00:00, 23:59:59.999999999] of the given day, server time.
func dayWindow(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.Add(24*time.Hour - time.Nanosecond)
	return start, end
}

func (svc *ReportService) GenerateDailyReport(ctx context.Context, date time.Time) (*transport.DailyReport, error) {
	l := logging.FromContext(ctx).With("svc", "report.daily")

	start, end := dayWindow(date)
	l.Info("generating_daily_report", "date", start.Format(dateLayout))

	orders, err := svc.Orders.FindCreatedBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	totalAmount := sumTotals(orders)
	report := &transport.DailyReport{
		Date:              start.Format(dateLayout),
		TotalOrders:       len(orders),
		TotalAmount:       totalAmount,
		AverageOrderValue: average(totalAmount, len(orders)),
		OrdersByStatus:    countByStatus(orders),
	}

	svc.Logs.CreateLog(ctx, repo.SystemOrderID, "REPORT_GENERATED", map[string]any{"report": report}, "success", "")
	return report, nil
}

func (svc *ReportService) GenerateDateRangeReport(ctx context.Context, startDate, endDate time.Time) (*transport.RangeReport, error) {
	l := logging.FromContext(ctx).With("svc", "report.range")

	start, _ := dayWindow(startDate)
	_, end := dayWindow(endDate)
	if start.After(end) {
		return nil, fmt.Errorf("%w: startDate after endDate", ErrValidation)
	}
	l.Info("generating_range_report", "start", start.Format(dateLayout), "end", end.Format(dateLayout))

	orders, err := svc.Orders.FindCreatedBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	totalAmount := sumTotals(orders)
	report := &transport.RangeReport{
		Date:              time.Now().Format(dateLayout),
		StartDate:         start.Format(dateLayout),
		EndDate:           end.Format(dateLayout),
		TotalOrders:       len(orders),
		TotalAmount:       totalAmount,
		AverageOrderValue: average(totalAmount, len(orders)),
		OrdersByStatus:    countByStatus(orders),
		OrdersByDay:       groupByDay(orders),
	}

	svc.Logs.CreateLog(ctx, repo.SystemOrderID, "REPORT_GENERATED", map[string]any{"report": report}, "success", "")
	return report, nil
}

// GenerateAutomaticDailyReport covers yesterday; it runs on the scheduler and
// must never propagate an error.
func (svc *ReportService) GenerateAutomaticDailyReport(ctx context.Context) {
	l := logging.FromContext(ctx).With("svc", "report.automatic")

	yesterday := time.Now().AddDate(0, 0, -1)
	report, err := svc.GenerateDailyReport(ctx, yesterday)
	if err != nil {
		l.Error("automatic_report_failed", "error", err)
		return
	}
	l.Info("automatic_report_generated",
		"date", report.Date,
		"total_orders", report.TotalOrders,
		"total_amount", report.TotalAmount,
	)
}

func sumTotals(orders []models.Order) float64 {
	var sum float64
	for i := range orders {
		sum += orders[i].TotalAmount
	}
	return sum
}

func average(totalAmount float64, totalOrders int) float64 {
	if totalOrders == 0 {
		return 0
	}
	return totalAmount / float64(totalOrders)
}

func countByStatus(orders []models.Order) map[models.OrderStatus]int {
	counts := make(map[models.OrderStatus]int, len(models.AllOrderStatuses))
	for _, s := range models.AllOrderStatuses {
		counts[s] = 0
	}
	for i := range orders {
		counts[orders[i].Status]++
	}
	return counts
}

func groupByDay(orders []models.Order) map[string]transport.DayBucket {
	result := make(map[string]transport.DayBucket)
	for i := range orders {
		key := orders[i].CreatedAt.Format(dateLayout)
		bucket := result[key]
		bucket.Count++
		bucket.Amount += orders[i].TotalAmount
		result[key] = bucket
	}
	return result
}
