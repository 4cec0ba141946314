package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hrpay/internal/app/server"
	"hrpay/internal/domain/auth"
	"hrpay/internal/platform/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

// TestPayrollJourney walks the whole settlement path: hire an employee,
// record a salary structure, file and approve a weekly timesheet, generate
// payroll and download the payslip PDF.
func TestPayrollJourney(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := config.Config{
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		Environment:        "test",
		SeedAdminEmail:     "admin@test.local",
		SeedAdminPassword:  "ChangeMe123!",
		CompanyName:        "Test Co",
		EmailFrom:          "no-reply@test.local",
		RunMigrations:      true,
		MigrationsDir:      "../../../../migrations",
		RunSeed:            true,
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 1000,
		CORSOrigins:        []string{"*"},
	}

	app, err := server.New(context.Background(), cfg)
	require.NoError(t, err)
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()
	client := ts.Client()

	adminToken, adminUserID := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	nonce := time.Now().UnixNano()
	employeeID := postForID(t, client, ts.URL+"/api/v1/employees", adminToken, map[string]any{
		"employeeCode": fmt.Sprintf("E%d", nonce),
		"firstName":    "Asha",
		"lastName":     "Verma",
		"email":        fmt.Sprintf("asha-%d@test.local", nonce),
		"isActive":     true,
	})
	projectID := postForID(t, client, ts.URL+"/api/v1/projects", adminToken, map[string]any{
		"name": fmt.Sprintf("Apollo %d", nonce),
	})
	taskID := postForID(t, client, ts.URL+"/api/v1/projects/"+projectID+"/tasks", adminToken, map[string]any{
		"name": fmt.Sprintf("Development %d", nonce),
	})

	employeeToken, err := auth.GenerateToken(cfg.JWTSecret, auth.Claims{
		UserID:     adminUserID,
		EmployeeID: employeeID,
		Role:       auth.RoleEmployee,
	}, time.Hour)
	require.NoError(t, err)

	// Salary structure with the figures from the standard worked example.
	resp := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/salary-structures", adminToken, map[string]any{
		"employeeId":      employeeID,
		"basicSalary":     50000,
		"pfContribution":  6000,
		"professionalTax": 200,
		"tds":             5000,
		"effectiveFrom":   "2025-01-01",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	weekStart := lastMonday(time.Now().UTC())

	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	resp = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/timesheets", employeeToken, map[string]any{
		"projectId":        projectID,
		"taskId":           taskID,
		"weekStartDate":    weekStart.Format("2006-01-02"),
		"dailyHours":       []float64{8, 8, 8, 8, 8, 0, 0},
		"totalHoursWorked": 40,
	})
	decodeData(t, resp, http.StatusCreated, &created)
	require.Equal(t, "Draft", created.Status)

	// Duplicate tuple must be rejected.
	resp = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/timesheets", employeeToken, map[string]any{
		"projectId":        projectID,
		"taskId":           taskID,
		"weekStartDate":    weekStart.Format("2006-01-02"),
		"dailyHours":       []float64{8, 8, 8, 8, 8, 0, 0},
		"totalHoursWorked": 40,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	var submitted struct {
		Status string `json:"status"`
	}
	resp = doJSON(t, client, http.MethodPut, ts.URL+"/api/v1/timesheets/"+created.ID+"/submit", employeeToken, nil)
	decodeData(t, resp, http.StatusOK, &submitted)
	require.Equal(t, "Submitted", submitted.Status)

	var approved struct {
		Status     string `json:"status"`
		ApprovedAt string `json:"approvedAt"`
	}
	resp = doJSON(t, client, http.MethodPut, ts.URL+"/api/v1/timesheets/"+created.ID+"/approve", adminToken, map[string]any{
		"action":           "approve",
		"approverComments": "looks good",
	})
	decodeData(t, resp, http.StatusOK, &approved)
	require.Equal(t, "Approved", approved.Status)
	require.NotEmpty(t, approved.ApprovedAt)

	// A second hire with no active salary structure: generation must skip
	// them without failing the batch.
	unsalariedID := postForID(t, client, ts.URL+"/api/v1/employees", adminToken, map[string]any{
		"employeeCode": fmt.Sprintf("E%d-2", nonce),
		"firstName":    "Ravi",
		"lastName":     "Nair",
		"email":        fmt.Sprintf("ravi-%d@test.local", nonce),
		"isActive":     true,
	})

	var generated struct {
		Payrolls []struct {
			ID          string  `json:"id"`
			EmployeeID  string  `json:"employeeId"`
			GrossSalary float64 `json:"grossSalary"`
			NetSalary   float64 `json:"netSalary"`
		} `json:"payrolls"`
		Skipped []string `json:"skipped"`
	}
	generatePayload := map[string]any{
		"employeeIds": []string{employeeID, unsalariedID},
		"month":       int(weekStart.Month()),
		"year":        weekStart.Year(),
	}
	resp = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/payroll/generate", adminToken, generatePayload)
	decodeData(t, resp, http.StatusCreated, &generated)
	require.Len(t, generated.Payrolls, 1)
	require.Equal(t, employeeID, generated.Payrolls[0].EmployeeID)
	require.Equal(t, []string{unsalariedID}, generated.Skipped)
	require.Greater(t, generated.Payrolls[0].GrossSalary, 0.0)
	require.Less(t, generated.Payrolls[0].NetSalary, generated.Payrolls[0].GrossSalary)
	payrollID := generated.Payrolls[0].ID

	// Idempotent: a second run finds the same record.
	var regenerated struct {
		Payrolls []struct {
			ID string `json:"id"`
		} `json:"payrolls"`
	}
	resp = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/payroll/generate", adminToken, generatePayload)
	decodeData(t, resp, http.StatusCreated, &regenerated)
	require.Len(t, regenerated.Payrolls, 1)
	require.Equal(t, payrollID, regenerated.Payrolls[0].ID)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/payroll/"+payrollID+"/download", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+employeeToken)
	pdfResp, err := client.Do(req)
	require.NoError(t, err)
	defer pdfResp.Body.Close()
	require.Equal(t, http.StatusOK, pdfResp.StatusCode)
	require.Equal(t, "application/pdf", pdfResp.Header.Get("Content-Type"))
	pdf, err := io.ReadAll(pdfResp.Body)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(pdf, []byte("%PDF")), "expected a PDF stream")

	var slip struct {
		ID            string             `json:"id"`
		NetPayInWords string             `json:"netPayInWords"`
		Earnings      map[string]float64 `json:"earnings"`
	}
	resp = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/payslips/by-payroll/"+payrollID, adminToken, nil)
	decodeData(t, resp, http.StatusOK, &slip)
	require.True(t, strings.HasSuffix(slip.NetPayInWords, "Only"))

	resp = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/payslips/"+slip.ID+"/finalize", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Locked payslips refuse mutation.
	resp = doJSON(t, client, http.MethodPut, ts.URL+"/api/v1/payslips/"+slip.ID, adminToken, map[string]any{
		"earnings": map[string]float64{"Basic Salary": 1},
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Unlocking reopens the slip for correction.
	resp = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/payslips/"+slip.ID+"/unlock", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, client, http.MethodPut, ts.URL+"/api/v1/payslips/"+slip.ID, adminToken, map[string]any{
		"earnings": map[string]float64{"Basic Salary": slip.Earnings["Basic Salary"]},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// An empty week can be drafted but never submitted.
	prevWeek := weekStart.AddDate(0, 0, -7)
	var empty struct {
		ID string `json:"id"`
	}
	resp = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/timesheets", employeeToken, map[string]any{
		"projectId":        projectID,
		"taskId":           taskID,
		"weekStartDate":    prevWeek.Format("2006-01-02"),
		"dailyHours":       []float64{0, 0, 0, 0, 0, 0, 0},
		"totalHoursWorked": 0,
	})
	decodeData(t, resp, http.StatusCreated, &empty)

	resp = doJSON(t, client, http.MethodPut, ts.URL+"/api/v1/timesheets/"+empty.ID+"/submit", employeeToken, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// A rejected week stays editable and can go through approval again.
	resp = doJSON(t, client, http.MethodPut, ts.URL+"/api/v1/timesheets/"+empty.ID, employeeToken, map[string]any{
		"dailyHours":       []float64{4, 4, 4, 4, 4, 0, 0},
		"totalHoursWorked": 20,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, client, http.MethodPut, ts.URL+"/api/v1/timesheets/"+empty.ID+"/submit", employeeToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var rejected struct {
		Status     string `json:"status"`
		RejectedAt string `json:"rejectedAt"`
	}
	resp = doJSON(t, client, http.MethodPut, ts.URL+"/api/v1/timesheets/"+empty.ID+"/approve", adminToken, map[string]any{
		"action":           "reject",
		"approverComments": "half days need a note",
	})
	decodeData(t, resp, http.StatusOK, &rejected)
	require.Equal(t, "Rejected", rejected.Status)
	require.NotEmpty(t, rejected.RejectedAt)

	resp = doJSON(t, client, http.MethodPut, ts.URL+"/api/v1/timesheets/"+empty.ID, employeeToken, map[string]any{
		"dailyHours":       []float64{4, 4, 4, 4, 4, 0, 0},
		"totalHoursWorked": 20,
		"description":      "client onboarding, half days",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var resubmitted struct {
		Status     string `json:"status"`
		RejectedAt string `json:"rejectedAt"`
	}
	resp = doJSON(t, client, http.MethodPut, ts.URL+"/api/v1/timesheets/"+empty.ID+"/submit", employeeToken, nil)
	decodeData(t, resp, http.StatusOK, &resubmitted)
	require.Equal(t, "Submitted", resubmitted.Status)
	require.Empty(t, resubmitted.RejectedAt)
}

func TestEmployeeCannotApproveOwnTimesheet(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := config.Config{
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		Environment:        "test",
		SeedAdminEmail:     "admin@test.local",
		SeedAdminPassword:  "ChangeMe123!",
		CompanyName:        "Test Co",
		EmailFrom:          "no-reply@test.local",
		RunMigrations:      true,
		MigrationsDir:      "../../../../migrations",
		RunSeed:            true,
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 1000,
		CORSOrigins:        []string{"*"},
	}

	app, err := server.New(context.Background(), cfg)
	require.NoError(t, err)
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()
	client := ts.Client()

	adminToken, adminUserID := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	nonce := time.Now().UnixNano()
	employeeID := postForID(t, client, ts.URL+"/api/v1/employees", adminToken, map[string]any{
		"employeeCode": fmt.Sprintf("E%d", nonce),
		"firstName":    "Ravi",
		"lastName":     "Iyer",
		"email":        fmt.Sprintf("ravi-%d@test.local", nonce),
		"isActive":     true,
	})
	projectID := postForID(t, client, ts.URL+"/api/v1/projects", adminToken, map[string]any{
		"name": fmt.Sprintf("Borealis %d", nonce),
	})
	taskID := postForID(t, client, ts.URL+"/api/v1/projects/"+projectID+"/tasks", adminToken, map[string]any{
		"name": fmt.Sprintf("Review %d", nonce),
	})

	employeeToken, err := auth.GenerateToken(cfg.JWTSecret, auth.Claims{
		UserID:     adminUserID,
		EmployeeID: employeeID,
		Role:       auth.RoleEmployee,
	}, time.Hour)
	require.NoError(t, err)

	weekStart := lastMonday(time.Now().UTC())
	var created struct {
		ID string `json:"id"`
	}
	resp := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/timesheets", employeeToken, map[string]any{
		"projectId":        projectID,
		"taskId":           taskID,
		"weekStartDate":    weekStart.Format("2006-01-02"),
		"dailyHours":       []float64{4, 4, 0, 0, 0, 0, 0},
		"totalHoursWorked": 8,
	})
	decodeData(t, resp, http.StatusCreated, &created)

	resp = doJSON(t, client, http.MethodPut, ts.URL+"/api/v1/timesheets/"+created.ID+"/submit", employeeToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// The employee role lacks the approve permission outright.
	resp = doJSON(t, client, http.MethodPut, ts.URL+"/api/v1/timesheets/"+created.ID+"/approve", employeeToken, map[string]any{
		"action": "approve",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func lastMonday(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for day.Weekday() != time.Monday {
		day = day.AddDate(0, 0, -1)
	}
	return day
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) (token, userID string) {
	t.Helper()
	resp := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	var payload struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decodeData(t, resp, http.StatusOK, &payload)
	require.NotEmpty(t, payload.Token)
	return payload.Token, payload.User.ID
}

func postForID(t *testing.T, client *http.Client, url, token string, body map[string]any) string {
	t.Helper()
	resp := doJSON(t, client, http.MethodPost, url, token, body)
	var payload struct {
		ID string `json:"id"`
	}
	decodeData(t, resp, http.StatusCreated, &payload)
	require.NotEmpty(t, payload.ID)
	return payload.ID
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body map[string]any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeData(t *testing.T, resp *http.Response, wantStatus int, out any) {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, wantStatus, resp.StatusCode, "body: %s", raw)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	require.True(t, env.Success, "body: %s", raw)
	require.NoError(t, json.Unmarshal(env.Data, out))
}
