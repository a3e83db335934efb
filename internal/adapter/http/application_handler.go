package http

import (
	"net/http"

	"incorporation-portal/internal/usecase/application"

	"github.com/labstack/echo/v4"
)

type ApplicationHandler struct{ uc *application.Usecase }

func NewApplicationHandler(uc *application.Usecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

func (h *ApplicationHandler) Submit(c echo.Context) error {
	var req application.SubmitInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: "validation"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Code:    "validation",
			Details: ToFieldErrors(err),
		})
	}
	res, err := h.uc.Submit(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *ApplicationHandler) List(c echo.Context) error {
	var q application.ListInput
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query", Code: "validation"})
	}
	views, err := h.uc.List(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"applications": views, "count": len(views)})
}

func (h *ApplicationHandler) ListMine(c echo.Context) error {
	views, err := h.uc.ListMine(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"applications": views, "count": len(views)})
}

func (h *ApplicationHandler) Get(c echo.Context) error {
	v, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

func (h *ApplicationHandler) History(c echo.Context) error {
	changes, err := h.uc.History(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"history": changes})
}

type updateStatusReq struct {
	Status          string `json:"status" validate:"required,oneof=pending in-progress approved rejected completed"`
	ExpectedVersion uint64 `json:"expected_version" validate:"required,gte=1"`
}

func (h *ApplicationHandler) UpdateStatus(c echo.Context) error {
	ref := c.Param("id")
	if ref == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing id path param", Code: "validation"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: "validation"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Code:    "validation",
			Details: ToFieldErrors(err),
		})
	}
	v, err := h.uc.TransitionStatus(c.Request().Context(), application.TransitionInput{
		Ref:             ref,
		Status:          req.Status,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

func (h *ApplicationHandler) Delete(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ApplicationHandler) Stats(c echo.Context) error {
	st, err := h.uc.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}
