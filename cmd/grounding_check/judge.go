package main

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"resume-ragu/internal/domain"
	"resume-ragu/internal/llm"
)

// judgeResponse representa la respuesta estructurada del juez evaluador en formato JSON.
type judgeResponse struct {
	Reasoning      string `json:"reasoning"`
	GroundingScore int    `json:"grounding_score"`
	RelevanceScore int    `json:"relevance_score"`
}

func evaluateResponse(
	ctx context.Context,
	judge llm.LLMClient,
	profile domain.Profile,
	input, response string,
	sc Scenario,
) (judgeResponse, error) {
	invented := detectInventedFigures(profile, response)
	heuristicLine := fmt.Sprintf("Indicadores heurísticos: cifras_inventadas=%t (%s)", len(invented) > 0, strings.Join(invented, ", "))

	prompt := buildJudgePrompt(formatProfile(profile), heuristicLine, input, response, sc.ExpectedBehavior)
	resp, err := judge.Complete(ctx, llm.Request{
		Messages: []domain.ConversationMessage{{Role: domain.RoleUser, Content: prompt}},
	})
	if err != nil {
		return judgeResponse{}, err
	}

	// el juez a veces envuelve el JSON en texto; tomamos el primer objeto balanceado
	jsonStr := extractFirstJSONObject(resp.Text)
	if jsonStr == "" {
		return judgeResponse{}, fmt.Errorf("juez devolvió no-json: %q", resp.Text)
	}

	var jr judgeResponse
	if err := json.Unmarshal([]byte(jsonStr), &jr); err != nil {
		return judgeResponse{}, fmt.Errorf("error parseando JSON juez: %w (raw=%q)", err, jsonStr)
	}

	jr.GroundingScore = clamp1to5(jr.GroundingScore)
	jr.RelevanceScore = clamp1to5(jr.RelevanceScore)

	// Penalización dura por cifras que no estan en el perfil
	if len(invented) > 0 && jr.GroundingScore > 2 {
		jr.GroundingScore = 2
	}
	return jr, nil
}

func clamp1to5(v int) int {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}

var figurePattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// detectInventedFigures devuelve cifras de la respuesta que no aparecen en ningun texto del perfil.
// Ignora numeros de un digito.
func detectInventedFigures(profile domain.Profile, response string) []string {
	data, err := json.Marshal(profile)
	if err != nil {
		return nil
	}
	known := string(data)

	var invented []string
	seen := map[string]bool{}
	for _, fig := range figurePattern.FindAllString(response, -1) {
		if len(fig) < 2 || seen[fig] {
			continue
		}
		seen[fig] = true
		if !strings.Contains(known, fig) {
			invented = append(invented, fig)
		}
	}
	return invented
}

func formatProfile(p domain.Profile) string {
	var parts []string
	for _, j := range p.Jobs {
		parts = append(parts, fmt.Sprintf("%s @ %s", j.Title, j.Company))
	}
	for _, a := range p.Accomplishments {
		parts = append(parts, "logro: "+a.Statement)
	}
	return strings.Join(parts, "; ")
}

func buildJudgePrompt(profileStr, heuristicLine, input, response, expected string) string {
	return fmt.Sprintf(
		`Eres un juez experto que evalúa un asistente de redacción de CV.

Perfil (resumen): %s
%s

Input Usuario: %q
Respuesta Asistente: %q
Expectativa del escenario: %s

Evalúa (1-5):
1) Grounding: ¿Usa solo empresas, cargos, cifras y logros presentes en el perfil?
   - 5/5: todo lo afirmado sale del perfil.
   - 3/5: agrega adjetivos o contexto genérico pero no hechos nuevos.
   - 1/5: inventa empleadores, cifras o logros.
   Regla extra: si cifras_inventadas=true => Grounding máximo 2/5.
2) Relevancia: ¿Responde lo que el usuario pidió?

Responde SOLO JSON (sin markdown):
{
  "reasoning": "...",
  "grounding_score": 0,
  "relevance_score": 0
}`,
		profileStr, heuristicLine, input, response, expected,
	)
}

// extractFirstJSONObject devuelve el primer objeto {...} balanceado.
func extractFirstJSONObject(s string) string {
	start := strings.Index(s, "{")
	if start < 0 {
		return ""
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
