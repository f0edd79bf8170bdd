package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/readstack/library-service/internal/errs"
	"github.com/readstack/library-service/internal/model"
	"github.com/readstack/library-service/pkg/auth"
)

func (h *Handler) GetProfile(c echo.Context) error {
	userName := c.QueryParam("username")
	if userName == "" {
		return httpError(errs.ErrUserName)
	}
	profile, err := h.profile.GetProfile(c.Request().Context(), userName)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	userName, err := auth.GetUserName(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	var req model.UpdateProfileRequest
	if v := c.FormValue("description"); v != "" {
		req.Description = &v
	}
	if isMultipart(c) {
		if upload, src, err := formUpload(c, "image"); err == nil {
			defer src.Close()
			req.Image = upload
		}
	}

	profile, err := h.profile.UpdateProfile(ctx, userName, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *Handler) SetFavorite(c echo.Context) error {
	ctx := c.Request().Context()
	userName, err := auth.GetUserName(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	bookID, err := idParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.profile.SetFavorite(ctx, userName, bookID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *Handler) GetFavorite(c echo.Context) error {
	userName := c.QueryParam("username")
	if userName == "" {
		return httpError(errs.ErrUserName)
	}
	book, err := h.profile.GetFavorite(c.Request().Context(), userName)
	if err != nil {
		return httpError(err)
	}
	if book == nil {
		return c.JSON(http.StatusOK, nil)
	}
	return c.JSON(http.StatusOK, book)
}
