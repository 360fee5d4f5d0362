package main

import (
	"context"
	"os"
	"time"

	"meallog/internal/amqp"
	"meallog/internal/api"
	"meallog/internal/cli"
	"meallog/internal/sheets"
	gsheet "meallog/internal/sheets/google"
	"meallog/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting meallog-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	sess := cli.OpenSession(logger, cfg.SessionDBPath)
	defer sess.Close()

	client := api.New(cfg.APIBaseURL, sess, api.WithTimeout(cfg.HTTPTimeout))

	// Sheets export is optional: without a spreadsheet the worker still
	// consumes events and logs the computed summaries.
	var writer sheets.SummaryWriter
	if cfg.SheetsExportEnabled() {
		gclient, err := gsheet.New(context.Background(), cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		writer = gclient
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	summaryWorker := worker.NewSummaryWorker(client, writer)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	go func() {
		err := amqp.ConsumeWithReconnect(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, summaryWorker.HandleMealEvent)
		if err != nil && err != context.Canceled {
			logger.Error("Event consumption failed", "error", err)
			os.Exit(1)
		}
	}()

	cli.WaitForShutdown(ctx, done)
}
