package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	formatter "github.com/bluexlab/logrus-formatter"
	otlp_util "github.com/bluexlab/otlp-util-go"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/kreditmy/signing-orchestrator/pkg/config"
	"github.com/kreditmy/signing-orchestrator/pkg/orchestrator/api"
	"github.com/kreditmy/signing-orchestrator/pkg/orchestrator/mtsa"
	"github.com/kreditmy/signing-orchestrator/pkg/orchestrator/notifier"
	"github.com/kreditmy/signing-orchestrator/pkg/orchestrator/signing"
	"github.com/kreditmy/signing-orchestrator/pkg/orchestrator/storage"
	"github.com/sirupsen/logrus"
)

const appName string = "signing-orchestrator"

type CLI struct {
	Server struct {
	} `cmd:"" help:"Run the server"`
	Config string `short:"c" long:"config" help:"Path to the configuration file" type:"existingfile" default:"config.yaml"`
}

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`
	API struct {
		APIToken          string   `yaml:"api_token"`
		WebhookSecret     string   `yaml:"webhook_secret"`
		AllowOrigins      []string `yaml:"allow_origins"`
		RateLimitMax      int      `yaml:"rate_limit_max"`
		RateLimitWindowMs int      `yaml:"rate_limit_window_ms"`
		WorkflowTimeoutMs int      `yaml:"workflow_timeout_ms"`
		MaxUploadMB       int      `yaml:"max_upload_mb"`
	} `yaml:"api"`
	MTSA         mtsa.Config     `yaml:"mtsa"`
	Signing      signing.Config  `yaml:"signing"`
	Storage      storage.Config  `yaml:"storage"`
	Notifier     notifier.Config `yaml:"notifier"`
	OTLPEndpoint string          `yaml:"otlp_endpoint"`
}

func (c Config) Validate() error {
	if err := validation.ValidateStruct(&c.API,
		validation.Field(&c.API.APIToken, validation.Required),
		validation.Field(&c.API.WebhookSecret, validation.Required),
	); err != nil {
		return err
	}
	return validation.ValidateStruct(&c.MTSA,
		validation.Field(&c.MTSA.Username, validation.Required),
		validation.Field(&c.MTSA.Password, validation.Required),
	)
}

type App struct{}

func (a *App) Run() {
	formatter.InitLogger()

	var cli CLI
	ctx := kong.Parse(&cli, kong.UsageOnError())
	switch ctx.Command() {
	case "server":
		a.runServer(cli)
	default:
	}
}

func (a *App) runServer(cli CLI) {
	ctx := context.Background()

	var appConfig Config
	if err := config.FromFile(cli.Config, &appConfig); err != nil {
		logrus.Errorf("failed to load config: %v", err)
		os.Exit(128)
	}
	if err := appConfig.Validate(); err != nil {
		logrus.Errorf("invalid config: %v", err)
		os.Exit(128)
	}

	if endpoint := appConfig.OTLPEndpoint; endpoint != "" {
		exporter, err := otlp_util.InitExporter(
			otlp_util.WithContext(ctx),
			otlp_util.WithEndPoint(endpoint),
			otlp_util.WithServiceName(appName),
			otlp_util.WithInSecure(),
			otlp_util.WithErrorHandler(func(err error) {
				logrus.Warnf("OTLP error: %v", err)
			}),
		)
		if err != nil {
			logrus.Errorf("failed to initialize OTLP exporter: %v", err)
			os.Exit(128)
		}
		defer func() { _ = exporter.Shutdown(ctx) }()
	}

	gateway, err := mtsa.NewClientWithConfig(appConfig.MTSA)
	if err != nil {
		logrus.Errorf("failed to create MTSA gateway: %v", err)
		os.Exit(128)
	}

	fileStore, err := storage.NewFileStore(appConfig.Storage.SignedFilesDir)
	if err != nil {
		logrus.Errorf("failed to create file store: %v", err)
		os.Exit(128)
	}

	signingService := signing.NewService(gateway, fileStore, appConfig.Signing)
	resultNotifier := notifier.NewNotifierWithConfig(appConfig.Notifier)

	apiConfig := api.Config{
		LocalAddress:      net.JoinHostPort(appConfig.Server.Host, strconv.Itoa(appConfig.Server.Port)),
		APIToken:          appConfig.API.APIToken,
		WebhookSecret:     appConfig.API.WebhookSecret,
		AllowOrigins:      appConfig.API.AllowOrigins,
		RateLimitMax:      appConfig.API.RateLimitMax,
		RateLimitWindowMs: appConfig.API.RateLimitWindowMs,
		WorkflowTimeoutMs: appConfig.API.WorkflowTimeoutMs,
		MaxUploadMB:       appConfig.API.MaxUploadMB,
	}
	apiServer, err := api.NewAPIWithController(signingService, gateway, fileStore, resultNotifier, apiConfig)
	if err != nil {
		logrus.Errorf("failed to create API server: %v", err)
		os.Exit(128)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wg := &sync.WaitGroup{}

	wg.Add(1)
	go func(wg *sync.WaitGroup) {
		defer wg.Done()

		if err := apiServer.Run(); err != nil {
			logrus.Errorf("failed to run API server: %v", err)
			os.Exit(1)
		}
	}(wg)

	logrus.Infof("%s is now running on %s", appName, apiConfig.LocalAddress)

	// listen for the stop signal
	<-ctx.Done()

	// Restore default behavior on the signals we are listening to
	stop()
	logrus.Info("shutting down gracefully, press Ctrl+C again to force")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Close(ctx); err != nil {
		logrus.Warnf("failed to close API server: %v", err)
		os.Exit(1)
	}

	wg.Wait()
}
