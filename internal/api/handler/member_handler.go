package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookkeep/library-records/internal/api/metrics"
	"github.com/bookkeep/library-records/internal/core/ports"
)

// MemberHandler handles HTTP requests for library members.
type MemberHandler struct {
	service ports.MemberService
}

func NewMemberHandler(service ports.MemberService) *MemberHandler {
	return &MemberHandler{service: service}
}

// List handles GET /members_all.
//
// @Summary      List members
// @Tags         members
// @Produce      json
// @Success      200  {array}   memberResponse
// @Router       /members_all [get]
func (h *MemberHandler) List(c echo.Context) error {
	members, err := h.service.ListMembers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMemberResponses(members))
}

// Get handles GET /members/:id.
//
// @Summary      Get a member
// @Tags         members
// @Produce      json
// @Param        id   path      int  true  "Member id"
// @Success      200  {object}  memberResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /members/{id} [get]
func (h *MemberHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	member, err := h.service.GetMember(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMemberResponse(member))
}

// Create handles POST /member.
//
// @Summary      Create a member
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      memberRequest  true  "Member"
// @Success      201   {object}  memberResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /member [post]
func (h *MemberHandler) Create(c echo.Context) error {
	var req memberRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	member, err := h.service.CreateMember(c.Request().Context(), toMemberInput(req))
	if err != nil {
		return err
	}

	metrics.CatalogMutationsTotal.WithLabelValues("member", "create").Inc()
	return c.JSON(http.StatusCreated, toMemberResponse(member))
}

// Update handles PUT /member/:id.
//
// @Summary      Replace a member
// @Tags         members
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  int            true  "Member id"
// @Param        body  body  memberRequest  true  "Member"
// @Success      204
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /member/{id} [put]
func (h *MemberHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req memberRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.UpdateMember(c.Request().Context(), id, toMemberInput(req)); err != nil {
		return err
	}

	metrics.CatalogMutationsTotal.WithLabelValues("member", "update").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /member/:id.
//
// @Summary      Delete a member
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Member id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /member/{id} [delete]
func (h *MemberHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteMember(c.Request().Context(), id); err != nil {
		return err
	}

	metrics.CatalogMutationsTotal.WithLabelValues("member", "delete").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Member deleted successfully"})
}
