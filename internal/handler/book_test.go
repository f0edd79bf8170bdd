package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/readstack/library-service/config"
	"github.com/readstack/library-service/internal/errs"
	"github.com/readstack/library-service/internal/handler"
	service_mocks "github.com/readstack/library-service/internal/handler/mocks"
	"github.com/readstack/library-service/internal/model"
	"github.com/readstack/library-service/pkg/auth"
	md "github.com/readstack/library-service/pkg/middleware"
	"github.com/readstack/library-service/pkg/validate"
)

func strPtr(s string) *string { return &s }

func bearer(t *testing.T, username, role string) string {
	t.Helper()
	token, _, err := auth.BuildToken(username, role, time.Minute)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestHandler_GetBooks(t *testing.T) {
	t.Parallel()
	type input struct {
		query string
	}
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockCatalogService)

	createdAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		input        input
		response     response
		wantErr      bool
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					ListBooks(context.Background(), model.ListQuery{Limit: 20, Search: "trial"}).
					Return(model.BookList{
						Total: 1,
						Items: []model.Book{
							{
								ID:         1,
								Title:      "The Trial",
								AuthorID:   2,
								AuthorName: "Franz Kafka",
								CreatedAt:  createdAt,
							},
						},
					}, nil)
			},
			input: input{query: "?limit=20&search=trial"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"total":1,"items":[{"id":1,"title":"The Trial","authorId":2,"authorName":"Franz Kafka","description":null,"imageKey":null,"createdAt":"2024-03-01T10:00:00Z"}]}`,
			},
			wantErr: false,
		},
		{
			name:         "err. bad limit",
			mockBehavior: func(r *service_mocks.MockCatalogService) {},
			input:        input{query: "?limit=abc"},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"limit is invalid"}`,
			},
			wantErr: true,
		},
		{
			name: "err. internal",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					ListBooks(context.Background(), model.ListQuery{}).
					Return(model.BookList{}, errors.New("db internal"))
			},
			input: input{query: ""},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"db internal"}`,
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			catalog := service_mocks.NewMockCatalogService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(handler.Services{Catalog: catalog}, nil, config.Static{}, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.GET("/books", h.GetBooks)

			r := httptest.NewRequest(http.MethodGet, "/books"+tt.input.query, http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(catalog)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_CreateBook(t *testing.T) {
	t.Parallel()
	type input struct {
		body  string
		token string
	}
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockCatalogService)

	createdAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		input        input
		response     response
		wantErr      bool
	}{
		{
			name: "ok. author created on the fly",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					CreateBook(gomock.Any(), model.CreateBookRequest{
						Title:      "the trial",
						AuthorName: strPtr("Franz Kafka"),
					}).
					Return(model.CreateBookResponse{
						Book: model.Book{
							ID:         7,
							Title:      "The Trial",
							AuthorID:   2,
							AuthorName: "Franz Kafka",
							CreatedAt:  createdAt,
						},
						AuthorCreated: true,
					}, nil)
			},
			input: input{
				body:  `{"title":"the trial","authorName":"Franz Kafka"}`,
				token: "admin",
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"id":7,"title":"The Trial","authorId":2,"authorName":"Franz Kafka","description":null,"imageKey":null,"createdAt":"2024-03-01T10:00:00Z","authorCreated":true}`,
			},
			wantErr: false,
		},
		{
			name:         "err. title required",
			mockBehavior: func(r *service_mocks.MockCatalogService) {},
			input: input{
				body:  `{"authorName":"Franz Kafka"}`,
				token: "admin",
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"Key: 'CreateBookRequest.Title' Error:Field validation for 'Title' failed on the 'required' tag"}`,
			},
			wantErr: true,
		},
		{
			name:         "err. not admin",
			mockBehavior: func(r *service_mocks.MockCatalogService) {},
			input: input{
				body:  `{"title":"the trial","authorName":"Franz Kafka"}`,
				token: "user",
			},
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"message":"admin role required"}`,
			},
			wantErr: true,
		},
		{
			name:         "err. no token",
			mockBehavior: func(r *service_mocks.MockCatalogService) {},
			input: input{
				body:  `{"title":"the trial","authorName":"Franz Kafka"}`,
				token: "",
			},
			response: response{
				expectedCode: http.StatusUnauthorized,
				expectedBody: `{"message":"No Authorization Header"}`,
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			catalog := service_mocks.NewMockCatalogService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(handler.Services{Catalog: catalog}, nil, config.Static{}, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/books", h.CreateBook, md.JwtAuthentication, md.RequireAdmin)

			r := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(tt.input.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			switch tt.input.token {
			case "admin":
				r.Header.Set(md.AuthorizationHeader, bearer(t, "admin", auth.RoleAdmin))
			case "user":
				r.Header.Set(md.AuthorizationHeader, bearer(t, "reader", auth.RoleUser))
			}
			w := httptest.NewRecorder()

			tt.mockBehavior(catalog)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_DeleteAuthor(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockCatalogService)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		authorID     string
		response     response
		wantErr      bool
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					DeleteAuthor(gomock.Any(), 3).
					Return(nil)
			},
			authorID: "3",
			response: response{
				expectedCode: http.StatusNoContent,
				expectedBody: ``,
			},
			wantErr: false,
		},
		{
			name: "err. author still referenced",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					DeleteAuthor(gomock.Any(), 3).
					Return(errs.ErrAuthorReferenced)
			},
			authorID: "3",
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"author still referenced by books"}`,
			},
			wantErr: true,
		},
		{
			name:         "err. bad id",
			mockBehavior: func(r *service_mocks.MockCatalogService) {},
			authorID:     "abc",
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"id is invalid"}`,
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			catalog := service_mocks.NewMockCatalogService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(handler.Services{Catalog: catalog}, nil, config.Static{}, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.DELETE("/authors/:id", h.DeleteAuthor, md.JwtAuthentication, md.RequireAdmin)

			r := httptest.NewRequest(http.MethodDelete, "/authors/"+tt.authorID, http.NoBody)
			r.Header.Set(md.AuthorizationHeader, bearer(t, "admin", auth.RoleAdmin))
			w := httptest.NewRecorder()

			tt.mockBehavior(catalog)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}
