package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"coursedeck/internal/config"
	"coursedeck/internal/otel"
	"coursedeck/internal/pipeline"
	"coursedeck/internal/storage"
)

func main() {
	var (
		file       = flag.String("file", "pipeline.yml", "path to the workflow definition")
		dryRun     = flag.Bool("dry-run", false, "parse and schedule the workflow without executing steps")
		jobTimeout = flag.Duration("timeout", 15*time.Minute, "per-job timeout (0 disables)")
		notify     = flag.Bool("notify", false, "post the run result to the Slack webhook")
		deploy     = flag.Bool("deploy", false, "trigger a Render deploy after a successful run")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	wf, err := pipeline.ParseWorkflowFile(*file)
	if err != nil {
		log.Fatalf("invalid workflow: %v", err)
	}

	secrets := pipeline.SecretsFromEnv()

	opts := []pipeline.RunnerOption{
		pipeline.WithDryRun(*dryRun),
		pipeline.WithJobTimeout(*jobTimeout),
	}

	// Artifact uploads are optional; runs work without object storage.
	cfg := config.Load()
	if cfg.MinIO.Endpoint != "" {
		objStore, err := storage.NewMinIO(cfg.MinIO)
		if err != nil {
			log.Fatalf("failed to initialize object storage: %v", err)
		}
		opts = append(opts, pipeline.WithArtifactStore(pipeline.NewArtifactStore(objStore)))
	}

	runner := pipeline.NewRunner(secrets, opts...)
	report, runErr := runner.Run(ctx, wf)
	if report == nil {
		log.Fatalf("run aborted: %v", runErr)
	}

	if *notify {
		notifier := pipeline.NewSlackNotifier(secrets["SLACK_WEBHOOK_URL"])
		if err := notifier.NotifyRun(ctx, report); err != nil {
			log.Printf("slack notification failed: %v", err)
		}
	}

	if runErr != nil {
		os.Exit(1)
	}

	if *deploy && !*dryRun {
		deployer := pipeline.NewRenderDeployer("", secrets["SERVICE_ID"], secrets["RENDER_API_KEY"])
		dep, err := deployer.Trigger(ctx)
		if err != nil {
			log.Fatalf("deploy failed: %v", err)
		}
		log.Printf("deploy %s created with status %s", dep.ID, dep.Status)
	}
}
