package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/pwcheck/pwcheck-go/internal/crypto"
	"github.com/pwcheck/pwcheck-go/internal/model"
	"github.com/pwcheck/pwcheck-go/internal/service"
)

type stubBreach map[string]bool

func (s stubBreach) IsLeaked(_ context.Context, password string) bool { return s[password] }

func newTestEvaluateHandler(leaked ...string) *EvaluateHandler {
	b := stubBreach{}
	for _, pw := range leaked {
		b[pw] = true
	}
	svc := service.NewEvaluatorService(b, crypto.NewGenerator(), 2)
	return NewEvaluateHandler(svc, 1<<20)
}

func multipartBody(t *testing.T, fileContent *string, password string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if fileContent != nil {
		fw, err := mw.CreateFormFile("password_file", "passwords.txt")
		if err != nil {
			t.Fatalf("creating form file: %v", err)
		}
		fw.Write([]byte(*fileContent))
	}
	if err := mw.WriteField("password", password); err != nil {
		t.Fatalf("writing field: %v", err)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestHandleForm(t *testing.T) {
	h := newTestEvaluateHandler()
	rec := httptest.NewRecorder()
	h.HandleForm(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `name="password_file"`) || strings.Contains(body, "<table>") {
		t.Errorf("unexpected form page: %s", body)
	}
}

func TestHandleSubmit_FileThenSingle(t *testing.T) {
	h := newTestEvaluateHandler("hunter2")
	file := "alpha-one\nbravo-two\n"
	body, contentType := multipartBody(t, &file, "hunter2")

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.HandleSubmit(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	out := rec.Body.String()
	a, b, c := strings.Index(out, "alpha-one"), strings.Index(out, "bravo-two"), strings.Index(out, "hunter2")
	if a < 0 || b < 0 || c < 0 || !(a < b && b < c) {
		t.Errorf("rows missing or out of order (%d, %d, %d)", a, b, c)
	}
	if !strings.Contains(out, "Yes") {
		t.Error("expected leaked row")
	}
}

func TestHandleSubmit_InvalidLineIsolated(t *testing.T) {
	h := newTestEvaluateHandler()
	file := "first\n\xfe\xfe\nthird\n"
	body, contentType := multipartBody(t, &file, "")

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.HandleSubmit(rec, req)

	out := rec.Body.String()
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	for _, want := range []string{"first", "invalid UTF-8", "third"} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestHandleSubmit_EscapesPasswords(t *testing.T) {
	h := newTestEvaluateHandler()
	form := url.Values{"password": {"<script>alert(1)</script>"}}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.HandleSubmit(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	out := rec.Body.String()
	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Error("password rendered without escaping")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Error("escaped password missing from page")
	}
}

func TestHandleSubmit_NoInput(t *testing.T) {
	h := newTestEvaluateHandler()
	body, contentType := multipartBody(t, nil, "")

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.HandleSubmit(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "<table>") {
		t.Error("expected no result table without input")
	}
}

func TestHandleSubmit_TooManyLines(t *testing.T) {
	h := newTestEvaluateHandler()
	file := strings.Repeat("x\n", MaxBatchPasswords+1)
	body, contentType := multipartBody(t, &file, "")

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.HandleSubmit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleSubmit_BatchLimitIncludesSingleField(t *testing.T) {
	tests := []struct {
		name       string
		lines      int
		password   string
		wantStatus int
	}{
		{name: "full file plus field", lines: MaxBatchPasswords, password: "hunter2", wantStatus: http.StatusBadRequest},
		{name: "full file without field", lines: MaxBatchPasswords, password: "", wantStatus: http.StatusOK},
		{name: "one short plus field", lines: MaxBatchPasswords - 1, password: "hunter2", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestEvaluateHandler()
			file := strings.Repeat("x\n", tt.lines)
			body, contentType := multipartBody(t, &file, tt.password)

			req := httptest.NewRequest(http.MethodPost, "/", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			h.HandleSubmit(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusBadRequest && !strings.Contains(rec.Body.String(), "too many passwords") {
				t.Error("expected batch limit message")
			}
		})
	}
}

func TestHandleEvaluate(t *testing.T) {
	h := newTestEvaluateHandler("abc")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluate",
		strings.NewReader(`{"passwords":["abc","Password1!"],"password":""}`))
	rec := httptest.NewRecorder()
	h.HandleEvaluate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp model.EvaluateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Results) != 3 {
		t.Fatalf("got %d results, want 3", len(resp.Results))
	}

	want := []struct {
		password string
		leaked   bool
		secure   bool
	}{
		{"abc", true, false},
		{"Password1!", false, true},
		{"", false, false},
	}
	for i, w := range want {
		got := resp.Results[i]
		if got.Password != w.password || got.Leaked != w.leaked || got.Secure != w.secure {
			t.Errorf("result %d = %+v, want %+v", i, got, w)
		}
		if (got.SuggestedPassword == "") != got.Secure {
			t.Errorf("result %d suggestion inconsistent with secure", i)
		}
	}
	if resp.Results[2].Entropy != 0 {
		t.Errorf("empty password entropy = %v, want 0", resp.Results[2].Entropy)
	}
}

func TestHandleEvaluate_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "invalid json", body: `{`, want: http.StatusBadRequest},
		{name: "nothing to evaluate", body: `{}`, want: http.StatusBadRequest},
		{name: "too many passwords", body: `{"passwords":[` + strings.TrimSuffix(strings.Repeat(`"x",`, MaxBatchPasswords+1), ",") + `]}`, want: http.StatusBadRequest},
	}

	h := newTestEvaluateHandler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.HandleEvaluate(rec, httptest.NewRequest(http.MethodPost, "/api/v1/evaluate", strings.NewReader(tt.body)))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandleEvaluate_BodyTooLarge(t *testing.T) {
	svc := service.NewEvaluatorService(stubBreach{}, crypto.NewGenerator(), 1)
	h := NewEvaluateHandler(svc, 64)

	body := `{"password":"` + strings.Repeat("a", 128) + `"}`
	rec := httptest.NewRecorder()
	h.HandleEvaluate(rec, httptest.NewRequest(http.MethodPost, "/api/v1/evaluate", strings.NewReader(body)))

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}
