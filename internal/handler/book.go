package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/readstack/library-service/internal/model"
)

func (h *Handler) GetBooks(c echo.Context) error {
	q, err := listQuery(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	books, err := h.catalog.ListBooks(c.Request().Context(), q)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) CountBooks(c echo.Context) error {
	total, err := h.catalog.CountBooks(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total})
}

func (h *Handler) GetBook(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	book, err := h.catalog.GetBook(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) CreateBook(c echo.Context) error {
	var req model.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if isMultipart(c) {
		if upload, src, err := formUpload(c, "image"); err == nil {
			defer src.Close()
			req.Image = upload
		}
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resp, err := h.catalog.CreateBook(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *Handler) UpdateBook(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var req model.UpdateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.catalog.UpdateBook(c.Request().Context(), id, req); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *Handler) DeleteBook(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.catalog.DeleteBook(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UpdateBookImage(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	upload, src, err := formUpload(c, "image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image file is required")
	}
	defer src.Close()

	key, err := h.catalog.SetBookImage(c.Request().Context(), id, *upload)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"imageKey": key})
}
