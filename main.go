package main

import (
	"context"

	"github.com/cppla/qaforum/config"
	"github.com/cppla/qaforum/models"
	"github.com/cppla/qaforum/routes"
	"github.com/cppla/qaforum/service"
	"github.com/cppla/qaforum/storage"
	"github.com/cppla/qaforum/storage/gormdb"
	"github.com/cppla/qaforum/storage/memory"
	"github.com/cppla/qaforum/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	store, err := openStorage(cfg)
	if err != nil {
		utils.Sugar.Fatalf("open %s storage: %v", cfg.Storage, err)
	}

	svc := service.NewQuestionService(store, store)
	r := routes.SetupRouter(cfg, svc, store)

	utils.Sugar.Infof("Starting server on port %s with %s storage (graceful)", cfg.AppPort, cfg.Storage)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server error: %v", err)
	}
}

func openStorage(cfg config.AppConfig) (storage.Storage, error) {
	if cfg.Storage == config.StorageMemory {
		store := memory.New()
		if cfg.SeedDemo {
			if err := seedDemoData(context.Background(), store); err != nil {
				return nil, err
			}
		}
		return store, nil
	}

	db, err := config.InitDatabase(cfg, &models.Question{}, &models.Reply{})
	if err != nil {
		return nil, err
	}
	return gormdb.New(db), nil
}

// seedDemoData fills an empty store with a small thread for local testing.
func seedDemoData(ctx context.Context, s storage.Storage) error {
	q, err := s.SaveQuestion(ctx, &models.Question{
		Author:  "alice",
		Message: "How do I attach a reply to a question?",
	})
	if err != nil {
		return err
	}

	for _, r := range []models.Reply{
		{Author: "bob", Message: "POST it to /questions/{id}/reply."},
		{Author: "carol", Message: "Then GET /questions/{id} to see the whole thread."},
	} {
		r.QuestionID = q.ID
		if _, err := s.SaveReply(ctx, &r); err != nil {
			return err
		}
	}

	if _, err := s.SaveQuestion(ctx, &models.Question{Author: "dave", Message: "Is anyone here?"}); err != nil {
		return err
	}

	utils.Sugar.Infof("demo data seeded, first question id=%d", q.ID)
	return nil
}
