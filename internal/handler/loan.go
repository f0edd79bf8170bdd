package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/readstack/library-service/pkg/auth"
	"github.com/readstack/library-service/pkg/kafka"
)

func (h *Handler) RentBook(c echo.Context) error {
	ctx := c.Request().Context()
	userName, err := auth.GetUserName(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	bookID, err := idParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	loan, err := h.loans.Rent(ctx, userName, bookID)
	if err != nil {
		return httpError(err)
	}
	h.logEvent(kafka.EventBookRented, userName, echo.Map{"bookId": bookID, "loanUid": loan.LoanUID})

	return c.JSON(http.StatusCreated, loan)
}

func (h *Handler) ReturnLoan(c echo.Context) error {
	ctx := c.Request().Context()
	userName, err := auth.GetUserName(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	loanID, err := idParam(c, "loanId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	loan, err := h.loans.Return(ctx, userName, auth.IsAdmin(ctx), loanID)
	if err != nil {
		return httpError(err)
	}
	h.logEvent(kafka.EventBookReturned, userName, echo.Map{"loanId": loanID})

	return c.JSON(http.StatusOK, loan)
}

func (h *Handler) GetLoans(c echo.Context) error {
	ctx := c.Request().Context()
	userName, err := auth.GetUserName(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	if param := c.QueryParam("username"); param != "" && param != userName {
		if !auth.IsAdmin(ctx) {
			return echo.NewHTTPError(http.StatusForbidden, "cannot list another user's loans")
		}
		userName = param
	}

	loans, err := h.loans.ListLoans(ctx, userName)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, loans)
}
