package services

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/BerylCAtieno/cfo-service/internal/analyzer"
	"github.com/BerylCAtieno/cfo-service/internal/cache"
	"github.com/BerylCAtieno/cfo-service/internal/db"
	"github.com/BerylCAtieno/cfo-service/internal/extractor"
	"github.com/BerylCAtieno/cfo-service/internal/models"
	"github.com/BerylCAtieno/cfo-service/internal/questionnaire"
	"github.com/BerylCAtieno/cfo-service/internal/repository"
	"github.com/BerylCAtieno/cfo-service/internal/storage"
	"github.com/BerylCAtieno/cfo-service/internal/utils"
)

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string][]byte)}
}

func (m *memoryStorage) Upload(_ context.Context, key string, data []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), data...)
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

func (m *memoryStorage) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

type failingExtractor struct{}

func (failingExtractor) ExtractFields(context.Context, extractor.Input) (map[string]float64, error) {
	return nil, errors.New("parser unavailable")
}

type testEnv struct {
	repos          *repository.Repositories
	store          *memoryStorage
	companies      CompanyService
	questionnaires QuestionnaireService
	documents      DocumentService
	analysis       AnalysisService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn, err := db.Open(filepath.Join(t.TempDir(), "services.db"), true)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	tpl, err := questionnaire.Default()
	if err != nil {
		t.Fatal(err)
	}

	logger := utils.NewNopLogger()
	repos := repository.New(conn)
	store := newMemoryStorage()

	return &testEnv{
		repos:          repos,
		store:          store,
		companies:      NewCompanyService(repos, store, logger),
		questionnaires: NewQuestionnaireService(tpl, repos, logger),
		documents:      NewDocumentService(repos, store, extractor.NewSimulatedExtractor(), 1024*1024, logger),
		analysis:       NewAnalysisService(analyzer.NewEngine(logger), cache.New(nil, time.Minute, logger), repos, logger),
	}
}

func (e *testEnv) createCompany(t *testing.T, name string) *models.Company {
	t.Helper()
	c, err := e.companies.CreateCompany(context.Background(), &models.CreateCompanyRequest{Name: name})
	if err != nil {
		t.Fatalf("CreateCompany: %v", err)
	}
	return c
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	appErr, ok := utils.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError with status %d, got %v", status, err)
	}
	if appErr.StatusCode != status {
		t.Fatalf("status = %d (%s), want %d", appErr.StatusCode, appErr.Message, status)
	}
}

func textUpload(companyID, filename, docType, body string) *models.UploadRequest {
	return &models.UploadRequest{
		CompanyID:    companyID,
		File:         []byte(body),
		Filename:     filename,
		ContentType:  "text/plain",
		DocumentType: docType,
	}
}

func hasPrefix(s, prefix string) bool { return strings.HasPrefix(s, prefix) }
