package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/readstack/library-service/internal/model"
)

func (h *Handler) GetAuthors(c echo.Context) error {
	q, err := listQuery(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	authors, err := h.catalog.ListAuthors(c.Request().Context(), q)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, authors)
}

func (h *Handler) CountAuthors(c echo.Context) error {
	total, err := h.catalog.CountAuthors(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total})
}

func (h *Handler) GetAuthor(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	author, err := h.catalog.GetAuthor(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, author)
}

func (h *Handler) CreateAuthor(c echo.Context) error {
	var req model.CreateAuthorRequest
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

	author, err := h.catalog.CreateAuthor(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, author)
}

func (h *Handler) UpdateAuthor(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var req model.UpdateAuthorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.catalog.UpdateAuthor(c.Request().Context(), id, req); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *Handler) DeleteAuthor(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.catalog.DeleteAuthor(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UpdateAuthorImage(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	upload, src, err := formUpload(c, "image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image file is required")
	}
	defer src.Close()

	key, err := h.catalog.SetAuthorImage(c.Request().Context(), id, *upload)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"imageKey": key})
}
