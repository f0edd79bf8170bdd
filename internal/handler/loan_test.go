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

func TestHandler_RentBook(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLoanService, audit *service_mocks.MockStatsLog)

	startDate := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		bookID       string
		response     response
		wantErr      bool
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockLoanService, audit *service_mocks.MockStatsLog) {
				r.EXPECT().
					Rent(gomock.Any(), "reader", 3).
					Return(model.Loan{
						ID:        1,
						LoanUID:   "f7cdc58f-2caf-4b15-9727-f89dcc629b27",
						BookID:    3,
						Status:    model.StatusRented,
						StartDate: startDate,
					}, nil)
				audit.EXPECT().Log(gomock.Any()).Return(nil)
			},
			bookID: "3",
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"id":1,"loanUid":"f7cdc58f-2caf-4b15-9727-f89dcc629b27","bookId":3,"status":"RENTED","startDate":"2024-03-01T10:00:00Z","returnDate":null}`,
			},
			wantErr: false,
		},
		{
			name: "err. already rented",
			mockBehavior: func(r *service_mocks.MockLoanService, audit *service_mocks.MockStatsLog) {
				r.EXPECT().
					Rent(gomock.Any(), "reader", 3).
					Return(model.Loan{}, errs.ErrLoanActive)
			},
			bookID: "3",
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"book already rented by this user"}`,
			},
			wantErr: true,
		},
		{
			name: "err. book not found",
			mockBehavior: func(r *service_mocks.MockLoanService, audit *service_mocks.MockStatsLog) {
				r.EXPECT().
					Rent(gomock.Any(), "reader", 42).
					Return(model.Loan{}, errs.ErrNotFound)
			},
			bookID: "42",
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
			wantErr: true,
		},
		{
			name:         "err. bad id",
			mockBehavior: func(r *service_mocks.MockLoanService, audit *service_mocks.MockStatsLog) {},
			bookID:       "0",
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
			loans := service_mocks.NewMockLoanService(c)
			audit := service_mocks.NewMockStatsLog(c)
			log := zap.NewExample().Named("test")
			h := handler.New(handler.Services{Loans: loans}, audit, config.Static{}, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/rent/:id", h.RentBook, md.JwtAuthentication)

			r := httptest.NewRequest(http.MethodPost, "/rent/"+tt.bookID, http.NoBody)
			r.Header.Set(md.AuthorizationHeader, bearer(t, "reader", auth.RoleUser))
			w := httptest.NewRecorder()

			tt.mockBehavior(loans, audit)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_ReturnLoan(t *testing.T) {
	t.Parallel()
	type input struct {
		loanID   string
		username string
		role     string
	}
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLoanService, audit *service_mocks.MockStatsLog)

	startDate := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	returnDate := time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		input        input
		response     response
		wantErr      bool
	}{
		{
			name: "ok. borrower returns",
			mockBehavior: func(r *service_mocks.MockLoanService, audit *service_mocks.MockStatsLog) {
				r.EXPECT().
					Return(gomock.Any(), "reader", false, 5).
					Return(model.Loan{
						ID:         5,
						LoanUID:    "f7cdc58f-2caf-4b15-9727-f89dcc629b27",
						BookID:     3,
						Status:     model.StatusReturned,
						StartDate:  startDate,
						ReturnDate: &returnDate,
					}, nil)
				audit.EXPECT().Log(gomock.Any()).Return(nil)
			},
			input: input{loanID: "5", username: "reader", role: auth.RoleUser},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"id":5,"loanUid":"f7cdc58f-2caf-4b15-9727-f89dcc629b27","bookId":3,"status":"RETURNED","startDate":"2024-03-01T10:00:00Z","returnDate":"2024-03-08T12:00:00Z"}`,
			},
			wantErr: false,
		},
		{
			name: "ok. admin returns on behalf",
			mockBehavior: func(r *service_mocks.MockLoanService, audit *service_mocks.MockStatsLog) {
				r.EXPECT().
					Return(gomock.Any(), "admin", true, 5).
					Return(model.Loan{
						ID:         5,
						LoanUID:    "f7cdc58f-2caf-4b15-9727-f89dcc629b27",
						BookID:     3,
						Status:     model.StatusReturned,
						StartDate:  startDate,
						ReturnDate: &returnDate,
					}, nil)
				audit.EXPECT().Log(gomock.Any()).Return(nil)
			},
			input: input{loanID: "5", username: "admin", role: auth.RoleAdmin},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"id":5,"loanUid":"f7cdc58f-2caf-4b15-9727-f89dcc629b27","bookId":3,"status":"RETURNED","startDate":"2024-03-01T10:00:00Z","returnDate":"2024-03-08T12:00:00Z"}`,
			},
			wantErr: false,
		},
		{
			name: "err. no active loan",
			mockBehavior: func(r *service_mocks.MockLoanService, audit *service_mocks.MockStatsLog) {
				r.EXPECT().
					Return(gomock.Any(), "reader", false, 9).
					Return(model.Loan{}, errs.ErrNotFound)
			},
			input: input{loanID: "9", username: "reader", role: auth.RoleUser},
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
			loans := service_mocks.NewMockLoanService(c)
			audit := service_mocks.NewMockStatsLog(c)
			log := zap.NewExample().Named("test")
			h := handler.New(handler.Services{Loans: loans}, audit, config.Static{}, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/return/:loanId", h.ReturnLoan, md.JwtAuthentication)

			r := httptest.NewRequest(http.MethodPost, "/return/"+tt.input.loanID, http.NoBody)
			r.Header.Set(md.AuthorizationHeader, bearer(t, tt.input.username, tt.input.role))
			w := httptest.NewRecorder()

			tt.mockBehavior(loans, audit)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_GetLoans(t *testing.T) {
	t.Parallel()
	type input struct {
		query    string
		username string
		role     string
	}
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLoanService)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		input        input
		response     response
		wantErr      bool
	}{
		{
			name: "ok. own loans",
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().
					ListLoans(gomock.Any(), "reader").
					Return([]model.LoanView{}, nil)
			},
			input: input{query: "", username: "reader", role: auth.RoleUser},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `[]`,
			},
			wantErr: false,
		},
		{
			name: "ok. admin lists another user",
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().
					ListLoans(gomock.Any(), "reader").
					Return([]model.LoanView{}, nil)
			},
			input: input{query: "?username=reader", username: "admin", role: auth.RoleAdmin},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `[]`,
			},
			wantErr: false,
		},
		{
			name:         "err. user peeks at another user",
			mockBehavior: func(r *service_mocks.MockLoanService) {},
			input:        input{query: "?username=victim", username: "reader", role: auth.RoleUser},
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"message":"cannot list another user's loans"}`,
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
			loans := service_mocks.NewMockLoanService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(handler.Services{Loans: loans}, nil, config.Static{}, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.GET("/loans", h.GetLoans, md.JwtAuthentication)

			r := httptest.NewRequest(http.MethodGet, "/loans"+tt.input.query, http.NoBody)
			r.Header.Set(md.AuthorizationHeader, bearer(t, tt.input.username, tt.input.role))
			w := httptest.NewRecorder()

			tt.mockBehavior(loans)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}
