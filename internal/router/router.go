package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/BerylCAtieno/cfo-service/internal/config"
	"github.com/BerylCAtieno/cfo-service/internal/handlers"
	"github.com/BerylCAtieno/cfo-service/internal/middleware"
	"github.com/BerylCAtieno/cfo-service/internal/services"
	"github.com/BerylCAtieno/cfo-service/internal/utils"
)

type Services struct {
	Companies      services.CompanyService
	Questionnaires services.QuestionnaireService
	Documents      services.DocumentService
	Analysis       services.AnalysisService
}

type HealthChecks struct {
	DB      handlers.Pinger
	Cache   handlers.CacheHealth
	Storage handlers.StoragePinger
}

func NewRouter(cfg *config.Config, svc Services, health HealthChecks, limiter *middleware.RateLimiter, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))
	if limiter != nil {
		r.Use(limiter.Middleware())
	}

	companyHandler := handlers.NewCompanyHandler(svc.Companies, logger)
	questionnaireHandler := handlers.NewQuestionnaireHandler(svc.Questionnaires, logger)
	docHandler := handlers.NewDocumentHandler(svc.Documents, cfg.MaxFileSize, logger)
	analysisHandler := handlers.NewAnalysisHandler(svc.Analysis, logger)
	healthHandler := handlers.NewHealthHandler(health.DB, health.Cache, health.Storage, logger)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", healthHandler.Check).Methods(http.MethodGet)

	// Companies
	api.HandleFunc("/companies", companyHandler.CreateCompany).Methods(http.MethodPost)
	api.HandleFunc("/companies", companyHandler.ListCompanies).Methods(http.MethodGet)
	api.HandleFunc("/companies/{id}", companyHandler.GetCompany).Methods(http.MethodGet)
	api.HandleFunc("/companies/{id}", companyHandler.DeleteCompany).Methods(http.MethodDelete)

	// Questionnaire
	api.HandleFunc("/questionnaire/schema", questionnaireHandler.GetSchema).Methods(http.MethodGet)
	api.HandleFunc("/companies/{id}/questionnaire", questionnaireHandler.SaveAnswers).Methods(http.MethodPut)
	api.HandleFunc("/companies/{id}/questionnaire", questionnaireHandler.GetAnswers).Methods(http.MethodGet)

	// Documents
	api.HandleFunc("/companies/{id}/documents", docHandler.UploadDocument).Methods(http.MethodPost)
	api.HandleFunc("/companies/{id}/documents", docHandler.ListDocuments).Methods(http.MethodGet)
	api.HandleFunc("/companies/{id}/documents/{docID}", docHandler.GetDocument).Methods(http.MethodGet)
	api.HandleFunc("/companies/{id}/documents/{docID}", docHandler.DeleteDocument).Methods(http.MethodDelete)
	api.HandleFunc("/companies/{id}/documents/{docID}/reprocess", docHandler.ReprocessDocument).Methods(http.MethodPost)

	// Analysis
	api.HandleFunc("/companies/{id}/diagnostic", analysisHandler.GetDiagnostic).Methods(http.MethodGet)
	api.HandleFunc("/companies/{id}/valuation", analysisHandler.GetValuation).Methods(http.MethodGet)

	// CORS wraps the router so preflight requests are answered before route matching
	return middleware.CORS(cfg.CORS)(r)
}
