package services

import (
	"context"
	"net/http"
	"reflect"
	"testing"

	"github.com/BerylCAtieno/cfo-service/internal/questionnaire"
	"github.com/BerylCAtieno/cfo-service/internal/utils"
)

func TestSaveAnswers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.createCompany(t, "Acme")

	resp, err := env.questionnaires.SaveAnswers(ctx, c.ID, map[string]any{
		"receita_ano1":  "1.500.000",
		"setor_atuacao": "Tecnologia",
		"unknown_field": 1,
	})
	if err != nil {
		t.Fatalf("SaveAnswers: %v", err)
	}
	if resp.Status != questionnaire.StatusDraft || resp.Answers["receita_ano1"] != 1500000.0 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if !reflect.DeepEqual(resp.IgnoredKeys, []string{"unknown_field"}) {
		t.Errorf("ignored = %v", resp.IgnoredKeys)
	}

	stored, err := env.questionnaires.GetAnswers(ctx, c.ID)
	if err != nil || stored.Answers["setor_atuacao"] != "Tecnologia" {
		t.Errorf("GetAnswers = %+v, %v", stored, err)
	}
}

func TestSaveAnswersRejectsInvalidValues(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.createCompany(t, "Acme")

	_, err := env.questionnaires.SaveAnswers(ctx, c.ID, map[string]any{"receita_ano1": "abc"})
	requireStatus(t, err, http.StatusUnprocessableEntity)

	appErr, _ := utils.AsAppError(err)
	fields, ok := appErr.Details.(map[string]string)
	if !ok || fields["receita_ano1"] == "" {
		t.Errorf("details = %#v", appErr.Details)
	}

	_, err = env.questionnaires.GetAnswers(ctx, c.ID)
	requireStatus(t, err, http.StatusNotFound)
}
