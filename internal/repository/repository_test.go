package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/BerylCAtieno/cfo-service/internal/db"
	"github.com/BerylCAtieno/cfo-service/internal/models"
)

func newTestRepositories(t *testing.T) *Repositories {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "test.db"), true)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return New(conn)
}

func newCompany(id, name string, cnpj *string) *models.Company {
	now := time.Now().UTC().Truncate(time.Second)
	return &models.Company{ID: id, Name: name, CNPJ: cnpj, CreatedAt: now, UpdatedAt: now}
}

func strPtr(s string) *string { return &s }

func TestCompanyRepository(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	acme := newCompany("c1", "Acme", strPtr("11.222.333/0001-81"))
	if err := repos.Companies.Create(ctx, acme); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repos.Companies.Create(ctx, newCompany("c2", "Sem CNPJ", nil)); err != nil {
		t.Fatalf("Create without cnpj: %v", err)
	}
	if err := repos.Companies.Create(ctx, newCompany("c3", "Outra sem CNPJ", nil)); err != nil {
		t.Fatalf("companies without cnpj must not collide: %v", err)
	}

	err := repos.Companies.Create(ctx, newCompany("c4", "Clone", strPtr("11.222.333/0001-81")))
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	got, err := repos.Companies.GetByID(ctx, "c1")
	if err != nil || got == nil {
		t.Fatalf("GetByID: %v, %v", got, err)
	}
	if got.Name != "Acme" || got.CNPJ == nil || *got.CNPJ != "11.222.333/0001-81" || !got.CreatedAt.Equal(acme.CreatedAt) {
		t.Errorf("unexpected company: %+v", got)
	}

	byCNPJ, err := repos.Companies.GetByCNPJ(ctx, "11.222.333/0001-81")
	if err != nil || byCNPJ == nil || byCNPJ.ID != "c1" {
		t.Errorf("GetByCNPJ = %+v, %v", byCNPJ, err)
	}

	missing, err := repos.Companies.GetByID(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("missing company = %+v, %v", missing, err)
	}

	all, err := repos.Companies.List(ctx)
	if err != nil || len(all) != 3 {
		t.Errorf("List = %d, %v", len(all), err)
	}
}

func TestQuestionnaireUpsert(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	if err := repos.Companies.Create(ctx, newCompany("c1", "Acme", nil)); err != nil {
		t.Fatal(err)
	}

	created := time.Now().UTC().Truncate(time.Second)
	q := &models.Questionnaire{
		CompanyID: "c1",
		Answers:   models.JSONMap{"receita_ano1": 1000.0, "setor_atuacao": "Tecnologia"},
		Status:    "draft",
		CreatedAt: created,
		UpdatedAt: created,
	}
	if err := repos.Questionnaires.Upsert(ctx, q); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	later := created.Add(time.Hour)
	q2 := &models.Questionnaire{CompanyID: "c1", Answers: models.JSONMap{"receita_ano1": 2000.0}, Status: "completed", CreatedAt: later, UpdatedAt: later}
	if err := repos.Questionnaires.Upsert(ctx, q2); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	got, err := repos.Questionnaires.GetByCompany(ctx, "c1")
	if err != nil || got == nil {
		t.Fatalf("GetByCompany: %v, %v", got, err)
	}
	if got.Status != "completed" || got.Answers["receita_ano1"] != 2000.0 || len(got.Answers) != 1 {
		t.Errorf("unexpected questionnaire: %+v", got)
	}
	if !got.CreatedAt.Equal(created) || !got.UpdatedAt.Equal(later) {
		t.Errorf("timestamps = %v / %v", got.CreatedAt, got.UpdatedAt)
	}

	none, err := repos.Questionnaires.GetByCompany(ctx, "other")
	if err != nil || none != nil {
		t.Errorf("expected no questionnaire, got %+v, %v", none, err)
	}
}

func TestDocumentRepository(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	if err := repos.Companies.Create(ctx, newCompany("c1", "Acme", nil)); err != nil {
		t.Fatal(err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	doc := &models.Document{
		ID:            "d1",
		CompanyID:     "c1",
		Filename:      "dre.pdf",
		DocumentType:  "dre",
		FileSize:      1024,
		ContentType:   "application/pdf",
		StorageKey:    "companies/c1/documents/d1/dre.pdf",
		ExtractedData: models.Figures{"receita_liquida": 2000000},
		Status:        models.DocumentStatusProcessed,
		CreatedAt:     now,
		ProcessedAt:   &now,
	}
	if err := repos.Documents.Create(ctx, doc); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repos.Documents.GetByID(ctx, "c1", "d1")
	if err != nil || got == nil {
		t.Fatalf("GetByID: %v, %v", got, err)
	}
	if got.ExtractedData["receita_liquida"] != 2000000 || got.ProcessedAt == nil || !got.ProcessedAt.Equal(now) {
		t.Errorf("unexpected document: %+v", got)
	}

	if other, _ := repos.Documents.GetByID(ctx, "c2", "d1"); other != nil {
		t.Error("documents must be scoped to their company")
	}

	got.Status = models.DocumentStatusError
	got.StatusMessage = "falha"
	got.ExtractedData = models.Figures{}
	if err := repos.Documents.UpdateProcessing(ctx, got); err != nil {
		t.Fatalf("UpdateProcessing: %v", err)
	}
	updated, _ := repos.Documents.GetByID(ctx, "c1", "d1")
	if updated.Status != models.DocumentStatusError || len(updated.ExtractedData) != 0 || updated.StatusMessage != "falha" {
		t.Errorf("update not persisted: %+v", updated)
	}

	if n, err := repos.Documents.CountByCompany(ctx, "c1"); err != nil || n != 1 {
		t.Errorf("CountByCompany = %d, %v", n, err)
	}

	if err := repos.Documents.Delete(ctx, "c1", "d1"); err != nil {
		t.Fatal(err)
	}
	docs, err := repos.Documents.ListByCompany(ctx, "c1")
	if err != nil || len(docs) != 0 {
		t.Errorf("ListByCompany after delete = %d, %v", len(docs), err)
	}
}

func TestDeleteCompanyCascades(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	now := time.Now().UTC()
	if err := repos.Companies.Create(ctx, newCompany("c1", "Acme", nil)); err != nil {
		t.Fatal(err)
	}
	if err := repos.Questionnaires.Upsert(ctx, &models.Questionnaire{CompanyID: "c1", Answers: models.JSONMap{}, Status: "draft", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatal(err)
	}
	if err := repos.Documents.Create(ctx, &models.Document{ID: "d1", CompanyID: "c1", Filename: "a.txt", DocumentType: "other", StorageKey: "k", Status: models.DocumentStatusProcessed, CreatedAt: now}); err != nil {
		t.Fatal(err)
	}

	if err := repos.Companies.Delete(ctx, "c1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if c, _ := repos.Companies.GetByID(ctx, "c1"); c != nil {
		t.Error("company still present")
	}
	if q, _ := repos.Questionnaires.GetByCompany(ctx, "c1"); q != nil {
		t.Error("questionnaire still present")
	}
	if n, _ := repos.Documents.CountByCompany(ctx, "c1"); n != 0 {
		t.Errorf("documents left: %d", n)
	}
}
