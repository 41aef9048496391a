package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"hackquest/agent-api/internal/config"
	"hackquest/agent-api/internal/models"
	"hackquest/agent-api/internal/repositories"
	"hackquest/agent-api/internal/services"
)

type hackathonSeed struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	ProblemStatement string   `json:"problem_statement"`
	Platform         string   `json:"platform"`
	URL              string   `json:"url"`
	Difficulty       string   `json:"difficulty"`
	RequiredSkills   []string `json:"required_skills"`
	PrizePool        string   `json:"prize_pool"`
}

func main() {
	file := flag.String("file", "./seed/hackathons.json", "path to the hackathon seed file")
	flag.Parse()

	log.Println("Starting hackathon ingestion...")

	cfg := config.Load()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	hackathonRepo := repositories.NewHackathonRepository(db)

	ctx := context.Background()

	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini: %v", err)
	}

	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("Failed to initialize Qdrant: %v", err)
	}
	if err := qdrantService.InitCollection(ctx); err != nil {
		log.Fatalf("Failed to initialize collection: %v", err)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Failed to read seed file: %v", err)
	}

	var seeds []hackathonSeed
	if err := json.Unmarshal(data, &seeds); err != nil {
		log.Fatalf("Failed to parse seed file: %v", err)
	}

	ingested := 0
	for _, seed := range seeds {
		if seed.Title == "" || seed.ProblemStatement == "" {
			log.Printf("Skipping entry without title or problem statement: %+v", seed)
			continue
		}

		hackathon := &models.Hackathon{
			ID:               uuid.New(),
			Title:            seed.Title,
			Description:      seed.Description,
			ProblemStatement: seed.ProblemStatement,
			Platform:         seed.Platform,
			URL:              seed.URL,
			Difficulty:       seed.Difficulty,
			RequiredSkills:   pq.StringArray(seed.RequiredSkills),
			PrizePool:        seed.PrizePool,
			IsActive:         true,
		}

		if err := hackathonRepo.Upsert(hackathon); err != nil {
			log.Printf("Failed to store %q: %v", seed.Title, err)
			continue
		}

		embedText := fmt.Sprintf("%s\n%s", seed.Title, seed.ProblemStatement)
		embedding, err := geminiService.Embed(ctx, embedText)
		if err != nil {
			log.Printf("Failed to embed %q: %v", seed.Title, err)
			continue
		}

		if err := qdrantService.UpsertHackathon(
			ctx,
			hackathon.ID.String(),
			hackathon.Title,
			hackathon.ProblemStatement,
			embedding,
		); err != nil {
			log.Printf("Failed to index %q: %v", seed.Title, err)
			continue
		}

		ingested++
		log.Printf("Ingested %q", seed.Title)
	}

	log.Printf("Done. %d/%d hackathons ingested.", ingested, len(seeds))
}
