package priorauth

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func invoke(t *testing.T, h echo.HandlerFunc, req *http.Request, params map[string]string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	e := echo.New()
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

	req := httptest.NewRequest(http.MethodPost, "/api/prior-auth/submit",
		strings.NewReader(`{"patient_id":"P001","procedure":"knee arthroscopy","diagnosis":"M23.51","estimated_cost":4500}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec, body := invoke(t, h.submit, req, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if body["status"] != StatusPending {
		t.Errorf("expected pending, got %v", body["status"])
	}
	if body["estimated_decision_time"] != "2-3 business days" {
		t.Errorf("unexpected decision time: %v", body["estimated_decision_time"])
	}
	if _, ok := body["ai_analysis"].(map[string]interface{}); !ok {
		t.Error("expected ai_analysis object")
	}
}

func TestHandler_Submit_MissingFields(t *testing.T) {
	svc, _ := newTestService()
	h := NewHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/prior-auth/submit", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec, _ := invoke(t, h.submit, req, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func multipartUpload(t *testing.T, filename string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("stub content")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/prior-auth/upload/PA000000", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestHandler_Upload(t *testing.T) {
	svc, _ := newTestService()
	h := NewHandler(svc)

	pa, err := svc.Submit(context.Background(), SubmitRequest{PatientID: "P001", Procedure: "mri", Diagnosis: "G43.909"})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	rec, body := invoke(t, h.upload, multipartUpload(t, "mri_report.pdf"),
		map[string]string{"auth_number": pa.AuthNumber})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if body["filename"] != "mri_report.pdf" {
		t.Errorf("unexpected filename: %v", body["filename"])
	}
	if body["total_documents"] != float64(1) {
		t.Errorf("expected 1 document, got %v", body["total_documents"])
	}
	analysis, ok := body["updated_analysis"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected updated_analysis object, got %v", body["updated_analysis"])
	}
	if analysis["approval_likelihood"] == nil {
		t.Error("expected approval_likelihood in updated_analysis")
	}
	if _, ok := analysis["notes"]; !ok {
		t.Error("expected notes for an imaging document")
	}
}

func TestHandler_Upload_UnknownAuth(t *testing.T) {
	svc, _ := newTestService()
	h := NewHandler(svc)

	rec, _ := invoke(t, h.upload, multipartUpload(t, "doc.pdf"),
		map[string]string{"auth_number": "PA999999"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandler_Upload_MissingFile(t *testing.T) {
	svc, _ := newTestService()
	h := NewHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/prior-auth/upload/PA000000", nil)
	rec, _ := invoke(t, h.upload, req, map[string]string{"auth_number": "PA000000"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_Upload_BadExtension(t *testing.T) {
	svc, _ := newTestService()
	h := NewHandler(svc)

	pa, err := svc.Submit(context.Background(), SubmitRequest{PatientID: "P001", Procedure: "mri", Diagnosis: "G43.909"})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	rec, _ := invoke(t, h.upload, multipartUpload(t, "script.exe"),
		map[string]string{"auth_number": pa.AuthNumber})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_Status(t *testing.T) {
	svc, _ := newTestService()
	h := NewHandler(svc)

	pa, err := svc.Submit(context.Background(), SubmitRequest{PatientID: "P001", Procedure: "mri", Diagnosis: "G43.909"})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/prior-auth/status/"+pa.AuthNumber, nil)
	rec, body := invoke(t, h.status, req, map[string]string{"auth_number": pa.AuthNumber})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["authorization_number"] != pa.AuthNumber {
		t.Errorf("unexpected authorization number: %v", body["authorization_number"])
	}

	req = httptest.NewRequest(http.MethodGet, "/api/prior-auth/status/PA999999", nil)
	rec, _ = invoke(t, h.status, req, map[string]string{"auth_number": "PA999999"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown auth, got %d", rec.Code)
	}
}

func TestHandler_UpdateStatus(t *testing.T) {
	svc, _ := newTestService()
	h := NewHandler(svc)

	pa, err := svc.Submit(context.Background(), SubmitRequest{PatientID: "P001", Procedure: "mri", Diagnosis: "G43.909"})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPut, "/api/prior-auth/update-status/"+pa.AuthNumber,
		strings.NewReader(`{"status":"approved"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec, body := invoke(t, h.updateStatus, req, map[string]string{"auth_number": pa.AuthNumber})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if body["status"] != StatusApproved {
		t.Errorf("unexpected status: %v", body["status"])
	}
	if body["decision_date"] == nil {
		t.Error("expected a decision date for approved")
	}

	req = httptest.NewRequest(http.MethodPut, "/api/prior-auth/update-status/"+pa.AuthNumber,
		strings.NewReader(`{"status":"bogus"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec, _ = invoke(t, h.updateStatus, req, map[string]string{"auth_number": pa.AuthNumber})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid status, got %d", rec.Code)
	}
}
