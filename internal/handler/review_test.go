package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
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

func TestHandler_SubmitReview(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockReviewService, audit *service_mocks.MockStatsLog)

	createdAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		body         string
		response     response
		wantErr      bool
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockReviewService, audit *service_mocks.MockStatsLog) {
				r.EXPECT().
					SubmitReview(gomock.Any(), "reader", model.CreateReviewRequest{
						BookID:  3,
						Rating:  5,
						Comment: strPtr("a classic"),
					}).
					Return(model.Review{
						ID:        1,
						BookID:    3,
						Rating:    5,
						Comment:   strPtr("a classic"),
						CreatedAt: createdAt,
					}, nil)
				audit.EXPECT().Log(gomock.Any()).Return(nil)
			},
			body: `{"bookId":3,"rating":5,"comment":"a classic"}`,
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"id":1,"bookId":3,"rating":5,"comment":"a classic","createdAt":"2024-03-01T10:00:00Z"}`,
			},
			wantErr: false,
		},
		{
			name:         "err. rating out of range",
			mockBehavior: func(r *service_mocks.MockReviewService, audit *service_mocks.MockStatsLog) {},
			body:         `{"bookId":3,"rating":9}`,
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"Key: 'CreateReviewRequest.Rating' Error:Field validation for 'Rating' failed on the 'max' tag"}`,
			},
			wantErr: true,
		},
		{
			name: "err. book not found",
			mockBehavior: func(r *service_mocks.MockReviewService, audit *service_mocks.MockStatsLog) {
				r.EXPECT().
					SubmitReview(gomock.Any(), "reader", model.CreateReviewRequest{BookID: 42, Rating: 4}).
					Return(model.Review{}, errs.ErrNotFound)
			},
			body: `{"bookId":42,"rating":4}`,
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
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
			reviews := service_mocks.NewMockReviewService(c)
			audit := service_mocks.NewMockStatsLog(c)
			log := zap.NewExample().Named("test")
			h := handler.New(handler.Services{Reviews: reviews}, audit, config.Static{}, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/reviews", h.SubmitReview, md.JwtAuthentication)

			r := httptest.NewRequest(http.MethodPost, "/reviews", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			r.Header.Set(md.AuthorizationHeader, bearer(t, "reader", auth.RoleUser))
			w := httptest.NewRecorder()

			tt.mockBehavior(reviews, audit)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_SetFavorite(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockProfileService)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		bookID       string
		response     response
		wantErr      bool
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockProfileService) {
				r.EXPECT().
					SetFavorite(gomock.Any(), "reader", 3).
					Return(nil)
			},
			bookID: "3",
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: ``,
			},
			wantErr: false,
		},
		{
			name: "err. book not found",
			mockBehavior: func(r *service_mocks.MockProfileService) {
				r.EXPECT().
					SetFavorite(gomock.Any(), "reader", 42).
					Return(errs.ErrNotFound)
			},
			bookID: "42",
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
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
			profile := service_mocks.NewMockProfileService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(handler.Services{Profile: profile}, nil, config.Static{}, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/favorite/:id", h.SetFavorite, md.JwtAuthentication)

			r := httptest.NewRequest(http.MethodPost, "/favorite/"+tt.bookID, http.NoBody)
			r.Header.Set(md.AuthorizationHeader, bearer(t, "reader", auth.RoleUser))
			w := httptest.NewRecorder()

			tt.mockBehavior(profile)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}
