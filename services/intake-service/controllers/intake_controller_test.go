package controllers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/metalstreets/contact-backend/services/common/errors"
	"github.com/metalstreets/contact-backend/services/intake-service/controllers"
	"github.com/metalstreets/contact-backend/services/intake-service/models"
	"github.com/metalstreets/contact-backend/services/intake-service/services"
)

// ---- concrete mock implementing services.IntakeService ----

type concreteMockSvc struct {
	submitted []models.SubmissionRecord
	submitErr error
	exportCSV string
	exportErr error
	panicMsg  string
}

func (m *concreteMockSvc) Submit(_ context.Context, rec models.SubmissionRecord) (*services.SubmitResult, error) {
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	m.submitted = append(m.submitted, rec)
	if m.submitErr != nil {
		return &services.SubmitResult{State: models.StateReceived}, m.submitErr
	}
	return &services.SubmitResult{State: models.StateNotified}, nil
}

func (m *concreteMockSvc) Export(_ context.Context, w io.Writer) error {
	if m.exportErr != nil {
		return m.exportErr
	}
	_, err := io.WriteString(w, m.exportCSV)
	return err
}

// ---- helpers ----

func setupRouter(svc services.IntakeService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(apperrors.Recovery(zap.NewNop()), apperrors.ErrorMiddleware(zap.NewNop()))
	c := controllers.NewIntakeController(svc, zap.NewNop())

	r.GET("/", c.Get)
	r.POST("/", c.Submit)
	r.GET("/export", c.ExportCSV)
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) apperrors.Payload {
	t.Helper()
	var p apperrors.Payload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	return p
}

func janeForm() url.Values {
	return url.Values{
		"timestamp":    {"3/7/2026, 2:05:09 PM"},
		"name":         {"Jane Doe"},
		"email":        {"jane@x.com"},
		"phone":        {"+1 5551234"},
		"country":      {"US"},
		"businessType": {"Startup"},
		"services":     {"SEO, Branding"},
	}
}

// ---- tests ----

func TestGet_WithoutParamsIsLiveness(t *testing.T) {
	svc := &concreteMockSvc{}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	p := decode(t, w)
	assert.Equal(t, "success", p.Status)
	assert.Equal(t, controllers.LivenessMessage, p.Message)
	assert.Equal(t, controllers.LivenessUsage, p.Usage)
	assert.Empty(t, svc.submitted)
}

func TestGet_WithParamsSubmits(t *testing.T) {
	svc := &concreteMockSvc{}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?"+janeForm().Encode(), nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, apperrors.Success("Data saved successfully"), decode(t, w))
	require.Len(t, svc.submitted, 1)
	assert.Equal(t, "Jane Doe", svc.submitted[0].Name)
	assert.Equal(t, "SEO, Branding", svc.submitted[0].Services)
}

func TestGet_CacheBusterIsLiveness(t *testing.T) {
	for _, target := range []string{"/?_=1760000000", "/?utm_source=newsletter&fbclid=abc", "/?name=&email="} {
		t.Run(target, func(t *testing.T) {
			svc := &concreteMockSvc{}
			r := setupRouter(svc)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			p := decode(t, w)
			assert.Equal(t, controllers.LivenessMessage, p.Message)
			assert.Equal(t, controllers.LivenessUsage, p.Usage)
			assert.Empty(t, svc.submitted)
		})
	}
}

func TestGet_SingleFieldSubmits(t *testing.T) {
	svc := &concreteMockSvc{}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?_=1760000000&email=jane%40x.com", nil))

	assert.Equal(t, apperrors.Success("Data saved successfully"), decode(t, w))
	require.Len(t, svc.submitted, 1)
	assert.Equal(t, "jane@x.com", svc.submitted[0].Email)
}

func TestPost_FormBody(t *testing.T) {
	svc := &concreteMockSvc{}
	r := setupRouter(svc)

	form := janeForm()
	form.Set("budget", "5000 USD")
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", decode(t, w).Status)
	require.Len(t, svc.submitted, 1)
	assert.Equal(t, models.SubmissionRecord{
		Timestamp:    "3/7/2026, 2:05:09 PM",
		Name:         "Jane Doe",
		Email:        "jane@x.com",
		Phone:        "+1 5551234",
		Country:      "US",
		BusinessType: "Startup",
		Services:     "SEO, Branding",
		Budget:       "5000 USD",
	}, svc.submitted[0])
}

func TestPost_MissingFieldsBindEmpty(t *testing.T) {
	svc := &concreteMockSvc{}
	r := setupRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/?name=OnlyName", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "success", decode(t, w).Status)
	require.Len(t, svc.submitted, 1)
	assert.Equal(t, "OnlyName", svc.submitted[0].Name)
	assert.Empty(t, svc.submitted[0].Email)
}

func TestPost_StoreErrorIsPayloadNotStatus(t *testing.T) {
	svc := &concreteMockSvc{submitErr: apperrors.Wrap(apperrors.ErrStore, errors.New("disk full"))}
	r := setupRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(janeForm().Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, apperrors.Payload{Status: "error", Message: "disk full"}, decode(t, w))
}

func TestPost_PanicIsRecovered(t *testing.T) {
	svc := &concreteMockSvc{panicMsg: "boom"}
	r := setupRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(janeForm().Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	p := decode(t, w)
	assert.Equal(t, "error", p.Status)
	assert.Contains(t, p.Message, "boom")
}

func TestExportCSV(t *testing.T) {
	svc := &concreteMockSvc{exportCSV: "Timestamp,Name,Email,Phone,Country,Business Type,Services\n"}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, svc.exportCSV, w.Body.String())
}

func TestExportCSV_Error(t *testing.T) {
	svc := &concreteMockSvc{exportErr: apperrors.Wrap(apperrors.ErrStore, errors.New("no such bucket"))}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export", nil))

	assert.Equal(t, apperrors.Payload{Status: "error", Message: "no such bucket"}, decode(t, w))
}
