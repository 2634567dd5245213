package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookkeep/library-records/internal/api/metrics"
	"github.com/bookkeep/library-records/internal/core/domain"
	"github.com/bookkeep/library-records/internal/core/ports"
)

const (
	headerIdempotencyKey     = "Idempotency-Key"
	headerIdempotentReplayed = "Idempotent-Replayed"
	maxIdempotencyKeyLength  = 255
)

// BorrowHandler handles the borrow workflow endpoint.
type BorrowHandler struct {
	service ports.BorrowService
}

func NewBorrowHandler(service ports.BorrowService) *BorrowHandler {
	return &BorrowHandler{service: service}
}

// Borrow handles POST /borrow.
//
// @Summary      Borrow a book
// @Tags         borrow
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string         false  "Replays the first result for a repeated key"
// @Param        body             body      borrowRequest  true   "Member and book"
// @Success      201              {object}  borrowResponse
// @Failure      400              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /borrow [post]
func (h *BorrowHandler) Borrow(c echo.Context) error {
	start := time.Now()

	var req borrowRequest
	if err := bindAndValidate(c, &req); err != nil {
		observeBorrow(metrics.ResultInvalid, start)
		return err
	}

	key := c.Request().Header.Get(headerIdempotencyKey)
	if len(key) > maxIdempotencyKeyLength {
		observeBorrow(metrics.ResultInvalid, start)
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "Idempotency-Key is too long")
	}

	result, err := h.service.Borrow(c.Request().Context(), ports.BorrowInput{
		BookID:         req.BookID,
		MemberID:       req.MemberID,
		IdempotencyKey: key,
	})
	if err != nil {
		observeBorrow(borrowFailure(err), start)
		return err
	}

	if result.Replayed {
		c.Response().Header().Set(headerIdempotentReplayed, "true")
		observeBorrow(metrics.ResultReplayed, start)
	} else {
		observeBorrow(metrics.ResultSuccess, start)
	}
	return c.JSON(http.StatusCreated, toBorrowResponse(result))
}

func borrowFailure(err error) string {
	switch {
	case errors.Is(err, domain.ErrBookNotFound), errors.Is(err, domain.ErrMemberNotFound):
		return metrics.ResultNotFound
	case errors.Is(err, domain.ErrNoCopiesAvailable):
		return metrics.ResultNoCopies
	case errors.Is(err, domain.ErrIdempotencyKeyReused):
		return metrics.ResultInvalid
	default:
		return metrics.ResultError
	}
}

func observeBorrow(result string, start time.Time) {
	metrics.BorrowsTotal.WithLabelValues(result).Inc()
	metrics.BorrowDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}
