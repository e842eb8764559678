package accountdelivery

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/peerbank/ledgercore/internal/domain"
	"github.com/peerbank/ledgercore/internal/middleware"
	"github.com/peerbank/ledgercore/pkg/errorspkg"
	"github.com/peerbank/ledgercore/pkg/randompkg"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("accountnumber", ValidAccountNumber); err != nil {
			panic(err)
		}
	}

	os.Exit(m.Run())
}

func newTestServer(t *testing.T) (*gin.Engine, *MockService) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	service := NewMockService(ctrl)
	handler := NewHandler(service)

	server := gin.New()
	server.POST("/accounts", handler.Create)

	authed := server.Group("/").Use(middleware.GatewayAuth())
	authed.GET("/accounts/:account_number", handler.Search)

	return server, service
}

func randomAccount() domain.Account {
	return domain.Account{
		ID:            randompkg.Intn(100) + 1,
		Name:          randompkg.HolderName(),
		AccountNumber: randompkg.AccountNumber(),
		Balance:       "0.00",
		CreatedAt:     time.Now().Truncate(time.Second).UTC(),
	}
}

func TestCreate(t *testing.T) {
	account := randomAccount()

	testCases := []struct {
		name           string
		requestBody    gin.H
		buildStubs     func(service *MockService)
		wantStatusCode int
		checkResponse  func(t *testing.T, recorder *httptest.ResponseRecorder)
	}{
		{
			name:        "MissingName",
			requestBody: gin.H{},
			buildStubs: func(service *MockService) {
				service.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:        "NumberExhaustion",
			requestBody: gin.H{"name": account.Name},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Create(gomock.Any(), gomock.Eq(account.Name)).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNumberTaken)
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name:        "InternalError",
			requestBody: gin.H{"name": account.Name},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Create(gomock.Any(), gomock.Eq(account.Name)).
					Times(1).
					Return(domain.Account{}, errorspkg.ErrInternal)
			},
			wantStatusCode: http.StatusInternalServerError,
		},
		{
			name:        "OK",
			requestBody: gin.H{"name": account.Name},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Create(gomock.Any(), gomock.Eq(account.Name)).
					Times(1).
					Return(account, nil)
			},
			wantStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				var res response
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))

				compareCreatedAt := cmpopts.EquateApproxTime(time.Second)
				if diff := cmp.Diff(account, res.Data.Account, compareCreatedAt); diff != "" {
					t.Errorf("account mismatch (-want +got):\n%s", diff)
				}
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			server, service := newTestServer(t)

			tc.buildStubs(service)

			body, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			request := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, request)

			require.Equal(t, tc.wantStatusCode, recorder.Code)

			if tc.checkResponse != nil {
				tc.checkResponse(t, recorder)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	callerID := int64(1)
	account := randomAccount()

	testCases := []struct {
		name           string
		accountNumber  string
		setupAuth      func(r *http.Request)
		buildStubs     func(service *MockService)
		wantStatusCode int
		checkResponse  func(t *testing.T, recorder *httptest.ResponseRecorder)
	}{
		{
			name:          "NoIdentity",
			accountNumber: account.AccountNumber,
			setupAuth:     func(r *http.Request) {},
			buildStubs: func(service *MockService) {
				service.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:          "MalformedAccountNumber",
			accountNumber: "12ab",
			setupAuth:     func(r *http.Request) { middleware.SetIdentity(r, callerID) },
			buildStubs: func(service *MockService) {
				service.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:          "SelfLookup",
			accountNumber: account.AccountNumber,
			setupAuth:     func(r *http.Request) { middleware.SetIdentity(r, callerID) },
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Search(gomock.Any(), gomock.Eq(callerID), gomock.Eq(account.AccountNumber)).
					Times(1).
					Return(domain.Account{}, domain.ErrSelfLookup)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:          "NotFound",
			accountNumber: account.AccountNumber,
			setupAuth:     func(r *http.Request) { middleware.SetIdentity(r, callerID) },
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Search(gomock.Any(), gomock.Eq(callerID), gomock.Eq(account.AccountNumber)).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:          "OK",
			accountNumber: account.AccountNumber,
			setupAuth:     func(r *http.Request) { middleware.SetIdentity(r, callerID) },
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Search(gomock.Any(), gomock.Eq(callerID), gomock.Eq(account.AccountNumber)).
					Times(1).
					Return(account, nil)
			},
			wantStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				var got searchResponseData
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))

				require.Equal(t, account.Name, got.Name)
				require.Equal(t, account.AccountNumber, got.AccountNumber)

				// The balance must never appear in a lookup response.
				require.NotContains(t, recorder.Body.String(), "balance")
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			server, service := newTestServer(t)

			tc.buildStubs(service)

			request := httptest.NewRequest(http.MethodGet, "/accounts/"+tc.accountNumber, nil)
			tc.setupAuth(request)

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, request)

			require.Equal(t, tc.wantStatusCode, recorder.Code)

			if tc.checkResponse != nil {
				tc.checkResponse(t, recorder)
			}
		})
	}
}
