package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/core"
	"hrportal/internal/domain/payroll"
	"hrportal/internal/domain/performance"
	"hrportal/internal/requestctx"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := New(Options{BaseURL: srv.URL, Timeout: 2 * time.Second, RetryMax: 2, RetryWaitMin: time.Millisecond, RetryWaitMax: 5 * time.Millisecond})
	require.NoError(t, err)
	return client, srv
}

var creds = Credentials{Token: "backend-token", Role: auth.RoleManager}

func TestHeadersAreSent(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/employees", r.URL.Path)
		assert.Equal(t, "Bearer backend-token", r.Header.Get("Authorization"))
		assert.Equal(t, "MANAGER", r.Header.Get("X-User-Role"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "req-42", r.Header.Get("X-Request-ID"))
		_, _ = io.WriteString(w, `[{"id":1,"name":"Erin","department":null,"status":"ACTIVE"}]`)
	}))

	ctx := requestctx.WithRequestID(context.Background(), "req-42")
	employees, err := client.ListEmployees(ctx, creds)
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, "", employees[0].Department)
}

func TestRoleDefaultsToEmployee(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "EMPLOYEE", r.Header.Get("X-User-Role"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"id":5,"name":"Erin"}`)
	}))
	emp, err := client.GetEmployee(context.Background(), Credentials{}, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), emp.ID)
}

func TestAPIErrorUsesPayloadMessage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"Employee not found"}`)
	}))
	_, err := client.GetEmployee(context.Background(), creds, 9)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Employee not found", apiErr.Message)
	assert.Equal(t, http.StatusNotFound, StatusOf(err))
	assert.False(t, Unavailable(err))
}

func TestAPIErrorFallbackMessageAndTextPayload(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, "nope")
	}))
	err := client.DeactivateEmployee(context.Background(), creds, 3)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "request to /api/employees/3 failed with status 403", apiErr.Message)
	assert.Equal(t, "nope", apiErr.Payload)
}

func TestGetRetriedOnServerError(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, `[]`)
	}))
	employees, err := client.ListEmployees(context.Background(), creds)
	require.NoError(t, err)
	assert.Empty(t, employees)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetGivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	_, err := client.ListEmployees(context.Background(), creds)
	assert.Equal(t, http.StatusServiceUnavailable, StatusOf(err))
	assert.Equal(t, int32(3), calls.Load())
}

func TestMutationsNeverRetried(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	_, err := client.CreateEmployee(context.Background(), creds, core.Employee{Name: "x"})
	assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
	_, err = client.UpdateReview(context.Background(), creds, 1, 2, performance.Review{Rating: 3})
	assert.Error(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestTransportFailureIsUnavailable(t *testing.T) {
	client, srv := newTestClient(t, http.NotFoundHandler())
	srv.Close()
	_, err := client.CreateEmployee(context.Background(), creds, core.Employee{Name: "x"})
	require.Error(t, err)
	assert.True(t, Unavailable(err))
	assert.Zero(t, StatusOf(err))
}

func TestLogin(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "manager@company.com", body["email"])
		_, _ = io.WriteString(w, `{"userId":2,"name":"Manny","email":"manager@company.com","role":"MANAGER","token":"abc"}`)
	}))
	res, err := client.Login(context.Background(), "manager@company.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleManager, res.Principal.Role)
	assert.Equal(t, int64(2), res.Principal.UserID)
	assert.Equal(t, "abc", res.Token)
}

func TestLoginUnknownRole(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"userId":2,"role":"ROOT","token":"abc"}`)
	}))
	_, err := client.Login(context.Background(), "a", "b")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestPayrollRecordsDecodedAsReported(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/employees/1/payroll", r.URL.Path)
		_, _ = io.WriteString(w, `[{"id":100,"employeeId":1,"month":"2025-12","baseSalary":8000,"bonus":500,"deductions":200,"netPay":1}]`)
	}))
	records, err := client.ListPayroll(context.Background(), creds, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1", records[0].NetPay.String())
	assert.Equal(t, "8000", records[0].BaseSalary.String())
}

func TestCreatePayrollRecordSendsNumbers(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(raw), `"baseSalary":1000`)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(raw)
	}))
	rec, err := payroll.NewRecord(1, payroll.RecordInput{Month: "2025-11", BaseSalary: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	created, err := client.CreatePayrollRecord(context.Background(), creds, 1, rec)
	require.NoError(t, err)
	assert.Equal(t, "1000", created.NetPay.String())
}

func TestGlobalPayrollQuery(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2025-11", r.URL.Query().Get("month"))
		_, hasDept := r.URL.Query()["department"]
		assert.False(t, hasDept)
		_, _ = io.WriteString(w, `[{"id":1,"employeeId":1,"employeeName":"Erin","department":"Development","month":"2025-11","netPay":8150}]`)
	}))
	rows, err := client.GlobalPayroll(context.Background(), creds, "2025-11", "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "8150", rows[0].NetPay.String())
}

func TestEmptyBodyDecodesToZero(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	reviews, err := client.ListReviews(context.Background(), creds, 1)
	require.NoError(t, err)
	assert.NotNil(t, reviews)
	assert.Empty(t, reviews)
}

func TestOnCallObserved(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()
	var seen []int
	client, err := New(Options{BaseURL: srv.URL, OnCall: func(_ string, status int) { seen = append(seen, status) }})
	require.NoError(t, err)
	_, err = client.GetEmployee(context.Background(), creds, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{200}, seen)
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New(Options{BaseURL: "/api"})
	assert.Error(t, err)
}
