package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kmazurov/order_service/internal/logging"
	"github.com/kmazurov/order_service/internal/service"
)

type ProcessingHTTP struct {
	Svc *service.ProcessingService
}

// ProcessOrder is the manual trigger; unlike the consumer path it runs the
// whole transition synchronously with the request.
func (h *ProcessingHTTP) ProcessOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "processing.process")

	id, err := orderID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.ProcessOrder(ctx, id); err != nil {
		l.Warn("process_order_error", "order_id", id, "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "order processed"})
}
