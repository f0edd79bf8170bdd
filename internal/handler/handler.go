package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/readstack/library-service/config"
	"github.com/readstack/library-service/internal/errs"
	"github.com/readstack/library-service/internal/model"
	md "github.com/readstack/library-service/pkg/middleware"
	"github.com/readstack/library-service/pkg/validate"
)

type Services struct {
	Auth    AuthService
	Catalog CatalogService
	Loans   LoanService
	Reviews ReviewService
	Profile ProfileService
	Stats   StatsService
}

type Handler struct {
	auth    AuthService
	catalog CatalogService
	loans   LoanService
	reviews ReviewService
	profile ProfileService
	stats   StatsService
	audit   StatsLog
	static  config.Static
	log     *zap.Logger
}

func New(svc Services, audit StatsLog, static config.Static, log *zap.Logger) *Handler {
	return &Handler{
		auth:    svc.Auth,
		catalog: svc.Catalog,
		loans:   svc.Loans,
		reviews: svc.Reviews,
		profile: svc.Profile,
		stats:   svc.Stats,
		audit:   audit,
		static:  static,
		log:     log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()

	apiMW := []echo.MiddlewareFunc{
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	}
	// every route is mirrored under /api for clients that expect the prefix
	h.register(e.Group("", apiMW...))
	h.register(e.Group("/api", apiMW...))

	e.Any("/api/*", h.APINotFound)
	if h.static.UploadsDir != "" {
		e.Static("/uploads", h.static.UploadsDir)
	}
	if h.static.ClientDir != "" {
		e.GET("/*", h.SPA)
	}

	return e
}

func (h *Handler) register(api *echo.Group) {
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.POST("/forgot-password", h.ForgotPassword)

	api.GET("/books", h.GetBooks)
	api.GET("/books/count", h.CountBooks)
	api.GET("/books/:id", h.GetBook)
	api.GET("/authors", h.GetAuthors)
	api.GET("/authors/count", h.CountAuthors)
	api.GET("/authors/:id", h.GetAuthor)

	api.GET("/reviews", h.GetReviews)
	api.GET("/get-profile", h.GetProfile)
	api.GET("/users/favorite", h.GetFavorite)

	admin := api.Group("", md.JwtAuthentication, md.RequireAdmin)
	admin.POST("/books", h.CreateBook)
	admin.PUT("/books/:id", h.UpdateBook)
	admin.DELETE("/books/:id", h.DeleteBook)
	admin.POST("/books/:id/update", h.UpdateBookImage)
	admin.POST("/authors", h.CreateAuthor)
	admin.PUT("/authors/:id", h.UpdateAuthor)
	admin.DELETE("/authors/:id", h.DeleteAuthor)
	admin.POST("/authors/:id/update", h.UpdateAuthorImage)
	admin.GET("/stats", h.GetStats)

	authed := api.Group("", md.JwtAuthentication)
	authed.POST("/rent/:id", h.RentBook)
	authed.POST("/return/:loanId", h.ReturnLoan)
	authed.GET("/loans", h.GetLoans)
	authed.POST("/reviews", h.SubmitReview)
	authed.POST("/favorite/:id", h.SetFavorite)
	authed.POST("/update-profile", h.UpdateProfile)
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) APINotFound(c echo.Context) error {
	return echo.NewHTTPError(http.StatusNotFound, "not found")
}

// httpError maps sentinel errors to response codes.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrDuplicateUsername),
		errors.Is(err, errs.ErrLoanActive),
		errors.Is(err, errs.ErrAuthorReferenced):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, errs.ErrAuthorRequired), errors.Is(err, errs.ErrUserName):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func idParam(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, errors.Errorf("%s is invalid", name)
	}
	return id, nil
}

func listQuery(c echo.Context) (model.ListQuery, error) {
	var (
		q   model.ListQuery
		err error
	)
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		if q.Limit, err = strconv.Atoi(limitParam); err != nil {
			return model.ListQuery{}, errors.New("limit is invalid")
		}
	}
	if offsetParam := c.QueryParam("offset"); offsetParam != "" {
		if q.Offset, err = strconv.Atoi(offsetParam); err != nil {
			return model.ListQuery{}, errors.New("offset is invalid")
		}
	}
	q.Search = c.QueryParam("search")
	return q, nil
}
