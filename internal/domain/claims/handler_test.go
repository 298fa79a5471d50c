package claims

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func invoke(t *testing.T, h echo.HandlerFunc, method, target, body string, params map[string]string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}

	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	var out map[string]interface{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("invalid response JSON: %v", err)
		}
	}
	return rec, out
}

func TestHandler_Submit(t *testing.T) {
	svc, _ := newTestService()
	h := NewHandler(svc)

	rec, body := invoke(t, h.submit, http.MethodPost, "/api/claims/submit",
		`{"patient_id":"P001","diagnosis_codes":["I10"],"procedure_codes":["99213"],"amount":350}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if body["status"] != StatusSubmitted {
		t.Errorf("expected submitted, got %v", body["status"])
	}
	if body["estimated_processing_time"] != "7-14 business days" {
		t.Errorf("unexpected processing time: %v", body["estimated_processing_time"])
	}
	if body["claim_id"] == nil {
		t.Error("expected claim_id")
	}
	if _, ok := body["scrubbing_results"].(map[string]interface{}); !ok {
		t.Error("expected scrubbing_results object")
	}
}

func TestHandler_BatchSubmit(t *testing.T) {
	svc, _ := newTestService()
	h := NewHandler(svc)

	rec, body := invoke(t, h.batchSubmit, http.MethodPost, "/api/claims/batch-submit",
		`{"claims":[
			{"patient_id":"P001","diagnosis_codes":["I10"],"procedure_codes":["99213"],"amount":350},
			{"patient_id":"P002","diagnosis_codes":["Z00.00"],"procedure_codes":["70553"],"amount":900}
		]}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	summary, ok := body["summary"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected summary object, got %v", body["summary"])
	}
	if summary["total"] != float64(2) {
		t.Errorf("expected total 2, got %v", summary["total"])
	}
	if summary["review_required"] != float64(1) {
		t.Errorf("expected 1 review_required, got %v", summary["review_required"])
	}
}

func TestHandler_Status_NotFound(t *testing.T) {
	svc, _ := newTestService()
	h := NewHandler(svc)

	rec, _ := invoke(t, h.status, http.MethodGet, "/api/claims/status/CLM000000", "",
		map[string]string{"claim_number": "CLM000000"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandler_List(t *testing.T) {
	svc, _ := newTestService()
	h := NewHandler(svc)

	if _, err := svc.Submit(context.Background(), cleanClaim()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	rec, body := invoke(t, h.list, http.MethodGet, "/api/claims/list?status=submitted", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if body["total"] != float64(1) {
		t.Errorf("expected total 1, got %v", body["total"])
	}
	if _, ok := body["summary"].(map[string]interface{}); !ok {
		t.Error("expected summary object")
	}

	rec, _ = invoke(t, h.list, http.MethodGet, "/api/claims/list?date_from=not-a-date", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad date, got %d", rec.Code)
	}
}

func TestHandler_Analytics(t *testing.T) {
	svc, _ := newTestService()
	h := NewHandler(svc)

	rec, body := invoke(t, h.analytics, http.MethodGet, "/api/claims/analytics", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["data_source"] != "simulated" {
		t.Errorf("expected simulated label, got %v", body["data_source"])
	}
}
