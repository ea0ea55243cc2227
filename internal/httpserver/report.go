package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kmazurov/order_service/internal/logging"
	"github.com/kmazurov/order_service/internal/service"
)

const dateLayout = "2006-01-02"

type ReportHTTP struct {
	Svc *service.ReportService
}

func parseDate(c echo.Context, param string, def time.Time) (time.Time, error) {
	raw := c.QueryParam(param)
	if raw == "" {
		return def, nil
	}
	date, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, param+" must be YYYY-MM-DD")
	}
	return date, nil
}

func (h *ReportHTTP) Daily(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "report.daily")

	date, err := parseDate(c, "date", time.Now())
	if err != nil {
		return err
	}

	report, err := h.Svc.GenerateDailyReport(ctx, date)
	if err != nil {
		l.Error("daily_report_error", "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, report)
}

func (h *ReportHTTP) Range(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "report.range")

	if c.QueryParam("startDate") == "" || c.QueryParam("endDate") == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "startDate and endDate required")
	}
	start, err := parseDate(c, "startDate", time.Time{})
	if err != nil {
		return err
	}
	end, err := parseDate(c, "endDate", time.Time{})
	if err != nil {
		return err
	}

	report, err := h.Svc.GenerateDateRangeReport(ctx, start, end)
	if err != nil {
		l.Warn("range_report_error", "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, report)
}
