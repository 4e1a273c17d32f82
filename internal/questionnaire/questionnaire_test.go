package questionnaire

import (
	"errors"
	"reflect"
	"testing"
)

func mustDefault(t *testing.T) *Template {
	t.Helper()
	tpl, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	return tpl
}

func TestDefaultSchema(t *testing.T) {
	tpl := mustDefault(t)

	if len(tpl.Sections) != 9 {
		t.Errorf("sections = %d, want 9", len(tpl.Sections))
	}
	for _, id := range []string{"receita_ano1", "custos_ano5", "setor_atuacao", "modelo_negocios", "tam_valor", "custos_fixos_pct", "principais_riscos"} {
		if _, ok := tpl.Question(id); !ok {
			t.Errorf("question %q missing from schema", id)
		}
	}

	q, _ := tpl.Question("setor_atuacao")
	if q.Type != TypeSelect || len(q.Options) != 9 || q.Options[0] != "Indústria" {
		t.Errorf("unexpected setor_atuacao: %+v", q)
	}
}

func TestParseRejectsBrokenSchemas(t *testing.T) {
	tests := map[string]string{
		"empty":        "sections: []",
		"duplicate id": "sections:\n- id: a\n  questions:\n  - {id: x, type: text}\n  - {id: x, type: number}\n",
		"no options":   "sections:\n- id: a\n  questions:\n  - {id: x, type: select}\n",
		"unknown type": "sections:\n- id: a\n  questions:\n  - {id: x, type: slider}\n",
		"bad yaml":     "sections: [",
	}
	for name, doc := range tests {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestNormalize(t *testing.T) {
	tpl := mustDefault(t)

	sub, err := tpl.Normalize(map[string]any{
		"receita_ano1":    "R$ 1.000.000,00",
		"custos_ano1":     700000,
		"setor_atuacao":   "tecnologia",
		"nome_empresa":    "  Acme  ",
		"tam_valor":       "",
		"modelo_negocios": nil,
		"csrf_token":      "abc",
		"submit":          "Salvar",
	})
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}

	want := map[string]any{
		"receita_ano1":  1000000.0,
		"custos_ano1":   700000.0,
		"setor_atuacao": "Tecnologia",
		"nome_empresa":  "Acme",
	}
	if !reflect.DeepEqual(sub.Answers, want) {
		t.Errorf("answers = %v, want %v", sub.Answers, want)
	}
	if !reflect.DeepEqual(sub.IgnoredKeys, []string{"csrf_token", "submit"}) {
		t.Errorf("ignored = %v", sub.IgnoredKeys)
	}
	if sub.Status != StatusDraft {
		t.Errorf("status = %q, want draft", sub.Status)
	}
}

func TestNormalizeRejectsInvalidAnswers(t *testing.T) {
	tpl := mustDefault(t)

	_, err := tpl.Normalize(map[string]any{
		"receita_ano1":     "muito",
		"setor_atuacao":    "Mineração",
		"permite_protecao": true,
		"custos_ano1":      "500000",
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Fields) != 3 {
		t.Errorf("fields = %v", verr.Fields)
	}
	for _, k := range []string{"receita_ano1", "setor_atuacao", "permite_protecao"} {
		if _, ok := verr.Fields[k]; !ok {
			t.Errorf("%s should be reported", k)
		}
	}
	if verr.Error() != "invalid answers: permite_protecao, receita_ano1, setor_atuacao" {
		t.Errorf("Error() = %q", verr.Error())
	}
}

func TestStatusCompletedWhenProjectionsAnswered(t *testing.T) {
	tpl := mustDefault(t)

	raw := map[string]any{}
	for i := 1; i <= 5; i++ {
		raw["receita_ano"+string(rune('0'+i))] = i * 1000
		raw["custos_ano"+string(rune('0'+i))] = i * 500
	}

	sub, err := tpl.Normalize(raw)
	if err != nil {
		t.Fatal(err)
	}
	if sub.Status != StatusCompleted {
		t.Errorf("status = %q, want completed", sub.Status)
	}

	delete(sub.Answers, "custos_ano3")
	if tpl.Status(sub.Answers) != StatusDraft {
		t.Error("missing projection should leave the questionnaire in draft")
	}
}
