package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"registrobo/config"
	"registrobo/connection"
	"registrobo/database"
	"registrobo/logger"
	"registrobo/metrics"
	"registrobo/pdfexport"
	"registrobo/scheduler"
	"registrobo/services"
)

var (
	envFiles []string

	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "registrobo",
	Short:         "API de registro de boletins de ocorrência",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(envFiles...)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		log, err = logger.New(cfg.System.LogLevel, cfg.System.LogDevelopment)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the token purge scheduler",
	RunE:  serve,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(false)
		if err != nil {
			return err
		}
		defer database.Close(db)

		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Info("migration finished", zap.String("driver", cfg.Database.Driver))
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed [path]",
	Short: "Register the officers listed in a YAML file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.Auth.SeedPath
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			return errors.New("no seed file: pass a path or set OFFICERS_SEED_PATH")
		}

		db, err := openDatabase(cfg.Database.AutoMigrate)
		if err != nil {
			return err
		}
		defer database.Close(db)

		created, err := services.NewPolicialService(db).SeedFromFile(cmd.Context(), path)
		if err != nil {
			return err
		}
		log.Info("officers seeded", zap.String("path", path), zap.Int("created", created))
		return nil
	},
}

func openDatabase(migrate bool) (*gorm.DB, error) {
	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if migrate {
		if err := database.Migrate(db); err != nil {
			_ = database.Close(db)
			return nil, err
		}
	}
	return db, nil
}

func serve(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	gin.SetMode(cfg.System.GinMode)

	db, err := openDatabase(cfg.Database.AutoMigrate)
	if err != nil {
		return err
	}
	defer database.Close(db)

	policiais := services.NewPolicialService(db)
	if cfg.Auth.SeedPath != "" {
		created, err := policiais.SeedFromFile(cmd.Context(), cfg.Auth.SeedPath)
		if err != nil {
			return fmt.Errorf("seed officers: %w", err)
		}
		log.Info("officers seeded", zap.Int("created", created))
	}

	m := metrics.New(cfg.Metrics.Namespace, cfg.Metrics.Subsystem)
	tokens := services.NewTokenService(db, cfg.Auth.JWTSecret, cfg.Auth.JWTRefreshSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	exporter, err := pdfexport.NewExporter(pdfexport.DefaultFontSet(), log.Named("pdf"))
	if err != nil {
		return err
	}

	router := connection.NewRouter(connection.Dependencies{
		Config:    cfg,
		Logger:    log,
		Metrics:   m,
		BOs:       services.NewBOServiceWithMetrics(services.NewBOService(db), m),
		Policiais: policiais,
		Tokens:    tokens,
		Exporter:  exporter,
	})
	server := connection.NewServer(cfg.System.Addr(), router, log)

	jobs := scheduler.New(log.Named("scheduler"))
	if err := jobs.AddTokenPurge(cfg.Scheduler.TokenPurgeSpec, tokens); err != nil {
		return fmt.Errorf("schedule token purge: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(gctx) })
	g.Go(func() error { return jobs.Run(gctx) })
	return g.Wait()
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load (default .env)")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
