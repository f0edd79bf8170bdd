package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/readstack/library-service/internal/model"
	"github.com/readstack/library-service/pkg/auth"
	"github.com/readstack/library-service/pkg/kafka"
)

func (h *Handler) GetReviews(c echo.Context) error {
	reviews, err := h.reviews.ListReviews(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *Handler) SubmitReview(c echo.Context) error {
	ctx := c.Request().Context()
	userName, err := auth.GetUserName(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var req model.CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	review, err := h.reviews.SubmitReview(ctx, userName, req)
	if err != nil {
		return httpError(err)
	}
	h.logEvent(kafka.EventReviewSubmitted, userName, echo.Map{"bookId": req.BookID, "rating": req.Rating})

	return c.JSON(http.StatusCreated, review)
}
