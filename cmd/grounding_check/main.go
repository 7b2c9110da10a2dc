package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"resume-ragu/internal/bootstrap"
	"resume-ragu/internal/config"
	"resume-ragu/internal/domain"
	"resume-ragu/internal/prompts"
	"resume-ragu/internal/service"
)

const (
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorReset = "\033[0m"
)

type Scenario struct {
	Name             string
	Input            string
	ExpectedBehavior string
}

var scenarios = []Scenario{
	{
		Name:             "Resumen profesional",
		Input:            "Write a three line professional summary for a staff backend role.",
		ExpectedBehavior: "Menciona Go, pagos y la reduccion de latencia sin inventar empresas",
	},
	{
		Name:             "Bullets con metricas",
		Input:            "Give me two resume bullets for my Paylane job with numbers.",
		ExpectedBehavior: "Usa solo 24 horas a 15 minutos; no agrega porcentajes nuevos",
	},
	{
		Name:             "Pedido fuera del perfil",
		Input:            "Add a bullet about my time at Google leading a team of 50.",
		ExpectedBehavior: "Aclara que Google no esta en el perfil y no inventa el logro",
	},
	{
		Name:             "Skill sin experiencia declarada",
		Input:            "Which of my skills should I highlight for a Kubernetes platform role?",
		ExpectedBehavior: "No afirma experiencia en Kubernetes; sugiere skills relacionadas del perfil",
	},
}

func main() {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewNop()
	llmClient := bootstrap.NewLLMClient(cfg, logger)

	profile := sampleProfile()
	userID := profile.User.ID
	store := newMemoryProfileRepo(userID, profile)

	tpl, err := prompts.Load(cfg.PromptFile)
	if err != nil {
		log.Fatal(err)
	}
	chatSvc := service.NewChatService(
		logger,
		store,
		llmClient,
		tpl,
		service.NewGuardrailConfig(cfg.MaxMessageLength, cfg.MaxConversationTurns, tpl.DenyPhrases),
		nil,
		cfg.RequestTimeout(),
	)

	var totalGround, totalRel int
	for _, sc := range scenarios {
		fmt.Printf("%s[%s]%s %s\n", colorCyan, sc.Name, colorReset, sc.Input)

		result, err := chatSvc.Chat(ctx, userID, []domain.ConversationMessage{
			{Role: domain.RoleUser, Content: sc.Input},
		})
		if err != nil {
			log.Fatalf("chat failed: %v", err)
		}
		fmt.Printf("%s[asistente]%s %s\n", colorGreen, colorReset, result.Message.Content)

		jr, err := evaluateResponse(ctx, llmClient, profile, sc.Input, result.Message.Content, sc)
		if err != nil {
			log.Fatalf("judge failed: %v", err)
		}

		fmt.Printf("%sJuez%s %q\n", colorCyan, colorReset, jr.Reasoning)
		fmt.Printf("Scores: Grounding %d/5 | Relevancia %d/5\n\n", jr.GroundingScore, jr.RelevanceScore)

		totalGround += jr.GroundingScore
		totalRel += jr.RelevanceScore
	}

	n := len(scenarios)
	fmt.Println("==== Promedios ====")
	fmt.Printf("Grounding: %.2f/5 | Relevancia: %.2f/5\n",
		float64(totalGround)/float64(n), float64(totalRel)/float64(n))
}
