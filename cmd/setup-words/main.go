// cmd/setup-words/main.go
//
// コーパスから語彙を構築し、words テーブルに投入するコマンドです。
// すでに投入済みの場合は何もしません (冪等)。
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"semantus/internal/config"
	"semantus/internal/embedding"
	"semantus/internal/lemma"
	"semantus/internal/model"
	"semantus/internal/repository"
	"semantus/internal/service"
)

func main() {
	configPath := flag.String("config", "configs", "設定ファイルのディレクトリ")
	corpusPath := flag.String("corpus", "", "コーパスファイルのパス (設定より優先)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := config.LoadConfig(*configPath); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if *corpusPath != "" {
		config.Cfg.Corpus.Path = *corpusPath
	}

	db, err := repository.NewDB(config.Cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.AutoMigrate(&model.Word{}); err != nil {
		slog.Error("Error migrating words table", slog.Any("error", err))
		os.Exit(1)
	}

	lem, err := lemma.New(&config.Cfg)
	if err != nil {
		slog.Error("Error initializing lemmatizer", slog.Any("error", err))
		os.Exit(1)
	}

	corpusFile, err := os.Open(config.Cfg.Corpus.Path)
	if err != nil {
		slog.Error("Error opening corpus file", slog.String("path", config.Cfg.Corpus.Path), slog.Any("error", err))
		os.Exit(1)
	}
	defer corpusFile.Close()

	ctx := context.Background()
	idx, err := embedding.Build(ctx, corpusFile, lem)
	if err != nil {
		slog.Error("Error building embedding index", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("Embedding index built", slog.Int("vocabulary", idx.Len()), slog.Int("dimension", idx.Dimension()))

	vocabService := service.NewVocabService(db, repository.NewGormWordRepository())
	created, err := vocabService.PopulateWords(ctx, idx.Lemmas())
	if err != nil {
		slog.Error("Error populating words table", slog.Any("error", err))
		os.Exit(1)
	}
	if created == 0 {
		slog.Info("Words table already populated, nothing to do")
	} else {
		slog.Info("Words table populated", slog.Int("count", created))
	}
}
