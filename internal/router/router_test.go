package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/BerylCAtieno/cfo-service/internal/analyzer"
	"github.com/BerylCAtieno/cfo-service/internal/cache"
	"github.com/BerylCAtieno/cfo-service/internal/config"
	"github.com/BerylCAtieno/cfo-service/internal/db"
	"github.com/BerylCAtieno/cfo-service/internal/extractor"
	"github.com/BerylCAtieno/cfo-service/internal/middleware"
	"github.com/BerylCAtieno/cfo-service/internal/questionnaire"
	"github.com/BerylCAtieno/cfo-service/internal/repository"
	"github.com/BerylCAtieno/cfo-service/internal/services"
	"github.com/BerylCAtieno/cfo-service/internal/storage"
	"github.com/BerylCAtieno/cfo-service/internal/utils"
)

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memoryStorage) Upload(_ context.Context, key string, data []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memoryStorage) Download(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return data, nil
}

func (m *memoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memoryStorage) Ping(context.Context) error { return nil }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := utils.NewNopLogger()

	database, err := db.Open(filepath.Join(t.TempDir(), "cfo.db"), true)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	tpl, err := questionnaire.Default()
	if err != nil {
		t.Fatal(err)
	}

	repos := repository.New(database)
	store := &memoryStorage{objects: map[string][]byte{}}
	results := cache.New(nil, time.Minute, logger)

	cfg := &config.Config{
		MaxFileSize: 1024 * 1024,
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
		},
	}
	limiter := middleware.NewRateLimiter(config.RateLimitConfig{RequestsPerMinute: 6000, Burst: 100, CleanupInterval: time.Minute})

	handler := NewRouter(cfg, Services{
		Companies:      services.NewCompanyService(repos, store, logger),
		Questionnaires: services.NewQuestionnaireService(tpl, repos, logger),
		Documents:      services.NewDocumentService(repos, store, extractor.NewSimulatedExtractor(), cfg.MaxFileSize, logger),
		Analysis:       services.NewAnalysisService(analyzer.NewEngine(logger), results, repos, logger),
	}, HealthChecks{DB: database, Cache: results, Storage: store}, limiter, logger)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	out := map[string]any{}
	if resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
	return resp, out
}

func TestCompanyLifecycle(t *testing.T) {
	srv := newTestServer(t)
	api := srv.URL + "/api/v1"

	resp, company := doJSON(t, http.MethodPost, api+"/companies", map[string]any{"name": "Padaria Pão Quente", "segment": "Varejo"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create company: %d %v", resp.StatusCode, company)
	}
	if resp.Header.Get(middleware.RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
	id := company["id"].(string)

	answers := map[string]any{"setor_atuacao": "Varejo", "num_funcionarios": "12", "csrf_token": "x"}
	for i, r := range []string{"1000000", "1200000", "1440000", "1728000", "2073600"} {
		year := string(rune('1' + i))
		answers["receita_ano"+year] = r
		answers["custos_ano"+year] = "800000"
	}
	resp, saved := doJSON(t, http.MethodPut, api+"/companies/"+id+"/questionnaire", answers)
	if resp.StatusCode != http.StatusOK || saved["status"] != questionnaire.StatusCompleted {
		t.Fatalf("save questionnaire: %d %v", resp.StatusCode, saved)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("document_type", "dre")
	fw, _ := mw.CreateFormFile("file", "dre_2023.txt")
	fw.Write([]byte("Demonstração do Resultado do Exercício\nReceita líquida 1.000.000"))
	mw.Close()
	uploadResp, err := http.Post(api+"/companies/"+id+"/documents", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatal(err)
	}
	uploadResp.Body.Close()
	if uploadResp.StatusCode != http.StatusCreated {
		t.Fatalf("upload: %d", uploadResp.StatusCode)
	}

	resp, detail := doJSON(t, http.MethodGet, api+"/companies/"+id, nil)
	if resp.StatusCode != http.StatusOK || detail["progress"] != 100.0 {
		t.Errorf("company detail: %d %v", resp.StatusCode, detail)
	}

	resp, diag := doJSON(t, http.MethodGet, api+"/companies/"+id+"/diagnostic", nil)
	if resp.StatusCode != http.StatusOK || resp.Header.Get("X-Cache") != "MISS" {
		t.Fatalf("diagnostic: %d %s", resp.StatusCode, resp.Header.Get("X-Cache"))
	}
	if diag["status"] != analyzer.StatusQuestionnaireAndFiles {
		t.Errorf("diagnostic status = %v", diag["status"])
	}

	resp, _ = doJSON(t, http.MethodGet, api+"/companies/"+id+"/diagnostic", nil)
	if resp.Header.Get("X-Cache") != "HIT" {
		t.Errorf("second diagnostic X-Cache = %q", resp.Header.Get("X-Cache"))
	}

	resp, val := doJSON(t, http.MethodGet, api+"/companies/"+id+"/valuation", nil)
	if resp.StatusCode != http.StatusOK || val["status"] == nil {
		t.Errorf("valuation: %d %v", resp.StatusCode, val)
	}

	resp, _ = doJSON(t, http.MethodDelete, api+"/companies/"+id, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete: %d", resp.StatusCode)
	}
	resp, errBody := doJSON(t, http.MethodGet, api+"/companies/"+id, nil)
	if resp.StatusCode != http.StatusNotFound || errBody["code"] != "not_found" {
		t.Errorf("after delete: %d %v", resp.StatusCode, errBody)
	}
}

func TestRouting(t *testing.T) {
	srv := newTestServer(t)

	resp, health := doJSON(t, http.MethodGet, srv.URL+"/api/v1/health", nil)
	if resp.StatusCode != http.StatusOK || health["status"] != "healthy" {
		t.Errorf("health: %d %v", resp.StatusCode, health)
	}

	resp, schema := doJSON(t, http.MethodGet, srv.URL+"/api/v1/questionnaire/schema", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("schema: %d", resp.StatusCode)
	}
	if sections, _ := schema["sections"].([]any); len(sections) != 9 {
		t.Errorf("schema sections = %d", len(sections))
	}

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/v1/companies/x/documents", nil)
	req.Header.Set("Origin", "http://app.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	pre, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	pre.Body.Close()
	if pre.StatusCode != http.StatusNoContent || !strings.Contains(pre.Header.Get("Access-Control-Allow-Methods"), "POST") {
		t.Errorf("preflight: %d %q", pre.StatusCode, pre.Header.Get("Access-Control-Allow-Methods"))
	}

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/v1/companies", map[string]any{"name": " "})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("blank name: %d", resp.StatusCode)
	}
}
