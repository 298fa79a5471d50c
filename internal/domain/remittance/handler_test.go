package remittance

import (
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

func TestHandler_Payments(t *testing.T) {
	h := NewHandler(newTestService())

	rec, body := invoke(t, h.payments, http.MethodGet, "/api/remittance/payments", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["success"] != true {
		t.Errorf("expected success true, got %v", body["success"])
	}
	if body["total"] != float64(3) {
		t.Errorf("expected total 3, got %v", body["total"])
	}

	rec, body = invoke(t, h.payments, http.MethodGet, "/api/remittance/payments?status=posted", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["total"] != float64(1) {
		t.Errorf("expected 1 posted payment, got %v", body["total"])
	}

	rec, body = invoke(t, h.payments, http.MethodGet, "/api/remittance/payments?payer=tawuniya", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["total"] != float64(1) {
		t.Errorf("expected 1 tawuniya payment, got %v", body["total"])
	}
}

func TestHandler_Post(t *testing.T) {
	h := NewHandler(newTestService())

	rec, _ := invoke(t, h.post, http.MethodPost, "/api/remittance/payments/post/PAY003", "",
		map[string]string{"payment_id": "PAY003"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec, _ = invoke(t, h.post, http.MethodPost, "/api/remittance/payments/post/PAY001", "",
		map[string]string{"payment_id": "PAY001"})
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for already posted, got %d", rec.Code)
	}

	rec, _ = invoke(t, h.post, http.MethodPost, "/api/remittance/payments/post/PAY999", "",
		map[string]string{"payment_id": "PAY999"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown payment, got %d", rec.Code)
	}
}

func TestHandler_BatchPost(t *testing.T) {
	h := NewHandler(newTestService())

	rec, body := invoke(t, h.batchPost, http.MethodPost, "/api/remittance/payments/batch-post",
		`{"payment_ids":["PAY003","PAY999"]}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	summary, ok := body["summary"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected summary, got %v", body["summary"])
	}
	if summary["posted"] != float64(1) || summary["failed"] != float64(1) {
		t.Errorf("unexpected summary: %v", summary)
	}
}

func TestHandler_AutoReconcile(t *testing.T) {
	h := NewHandler(newTestService())

	rec, body := invoke(t, h.autoReconcile, http.MethodPost, "/api/remittance/reconciliation/auto", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["data_source"] != "simulated" {
		t.Errorf("expected simulated label, got %v", body["data_source"])
	}
}

func TestHandler_DenialPrediction(t *testing.T) {
	h := NewHandler(newTestService())

	rec, body := invoke(t, h.denialPrediction, http.MethodPost, "/api/remittance/denial-prediction",
		`{"patient_id":"P001","diagnosis_codes":["I10"],"procedure_codes":["99213"],"amount":350}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if body["denial_probability"] == nil {
		t.Error("expected denial_probability")
	}

	rec, _ = invoke(t, h.denialPrediction, http.MethodPost, "/api/remittance/denial-prediction", `{}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty request, got %d", rec.Code)
	}
}

func TestHandler_AgingReport(t *testing.T) {
	h := NewHandler(newTestService())

	rec, body := invoke(t, h.agingReport, http.MethodGet, "/api/remittance/aging-report", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	buckets, ok := body["buckets"].([]interface{})
	if !ok || len(buckets) != 5 {
		t.Errorf("expected 5 buckets, got %v", body["buckets"])
	}
}
