// policy-indexer 将酒店政策文档写入 Elasticsearch 向量索引
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"

	"github.com/ashwinyue/travel-planner/internal/config"
	"github.com/ashwinyue/travel-planner/internal/logger"
	"github.com/ashwinyue/travel-planner/internal/service"
	"github.com/ashwinyue/travel-planner/internal/service/policy"
)

// Options 命令行参数
type Options struct {
	Config   string `short:"f" long:"config" default:"./configs/config.yaml" description:"config YAML path"`
	Manifest string `short:"m" long:"manifest" required:"true" description:"policy manifest YAML path"`
	Index    string `short:"i" long:"index" description:"override the policy index name"`
	Debug    bool   `short:"d" long:"debug" description:"enable debug logging"`
}

func main() {
	opts := &Options{}
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(os.Args[1:]); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Println(err)
			return
		}
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		log.Fatalf("policy indexing failed: %v", err)
	}
}

func run(ctx context.Context, opts *Options) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return err
	}
	if opts.Index != "" {
		cfg.Policy.Index = opts.Index
	}

	appLog, err := logger.New("development", opts.Debug)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer appLog.Sync()

	manifest, err := policy.LoadManifest(opts.Manifest)
	if err != nil {
		return err
	}

	embedder := service.NewEmbedder(ctx, cfg, appLog)
	if embedder == nil {
		return errors.New("embedding is not configured")
	}

	client, err := policy.NewESClient(cfg.Elastic)
	if err != nil {
		return err
	}
	created, err := policy.EnsureIndex(ctx, client, cfg.Policy.Index, cfg.AI.Embedding.Dimensions)
	if err != nil {
		return err
	}
	if created {
		appLog.Info("policy index created", "index", cfg.Policy.Index)
	}

	idx, err := policy.NewIndexer(ctx, client, cfg.Policy.Index, embedder)
	if err != nil {
		return err
	}
	ingestor, err := policy.NewIngestor(ctx, idx, appLog)
	if err != nil {
		return err
	}

	result, err := ingestor.Ingest(ctx, manifest)
	if err != nil {
		return err
	}
	appLog.Info("policy indexing finished",
		"index", cfg.Policy.Index,
		"documents", result.Documents,
		"chunks", result.Chunks,
		"failed", len(result.Failed),
	)
	return nil
}
