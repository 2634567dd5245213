package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookkeep/library-records/internal/api/metrics"
	"github.com/bookkeep/library-records/internal/core/ports"
)

// BookHandler handles HTTP requests for the book catalogue.
type BookHandler struct {
	service ports.BookService
}

func NewBookHandler(service ports.BookService) *BookHandler {
	return &BookHandler{service: service}
}

// List handles GET /books.
//
// @Summary      List books
// @Tags         books
// @Produce      json
// @Success      200  {array}   bookResponse
// @Router       /books [get]
func (h *BookHandler) List(c echo.Context) error {
	books, err := h.service.ListBooks(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookResponses(books))
}

// Get handles GET /books/:id.
//
// @Summary      Get a book
// @Tags         books
// @Produce      json
// @Param        id   path      int  true  "Book id"
// @Success      200  {object}  bookResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /books/{id} [get]
func (h *BookHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	book, err := h.service.GetBook(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookResponse(book))
}

// Create handles POST /books.
//
// @Summary      Create a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      bookRequest  true  "Book"
// @Success      201   {object}  bookResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /books [post]
func (h *BookHandler) Create(c echo.Context) error {
	var req bookRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	book, err := h.service.CreateBook(c.Request().Context(), toBookInput(req))
	if err != nil {
		return err
	}

	metrics.CatalogMutationsTotal.WithLabelValues("book", "create").Inc()
	return c.JSON(http.StatusCreated, toBookResponse(book))
}

// Update handles PUT /book/:id.
//
// @Summary      Replace a book
// @Tags         books
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  int          true  "Book id"
// @Param        body  body  bookRequest  true  "Book"
// @Success      204
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /book/{id} [put]
func (h *BookHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req bookRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.UpdateBook(c.Request().Context(), id, toBookInput(req)); err != nil {
		return err
	}

	metrics.CatalogMutationsTotal.WithLabelValues("book", "update").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /book/:id.
//
// @Summary      Delete a book
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Book id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /book/{id} [delete]
func (h *BookHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteBook(c.Request().Context(), id); err != nil {
		return err
	}

	metrics.CatalogMutationsTotal.WithLabelValues("book", "delete").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Book deleted successfully"})
}
