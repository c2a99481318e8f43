package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/salonkeep/salonkeep/internal/config"
	"github.com/salonkeep/salonkeep/internal/logger"
	"github.com/salonkeep/salonkeep/migrations"
)

func main() {
	ctx := context.Background()

	// Initialize logger for bootstrapping
	loggerService, err := logger.NewService(&logger.Config{Level: "debug"})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Load configuration
	configService := config.NewConfigService(loggerService)
	cfg, err := configService.Load(".")
	if err != nil {
		loggerService.LogFatal(err, "Failed to load configuration")
	}

	// Create a context that will be canceled on interrupt
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	// Create and run application. Pending migrations on an existing store
	// wait for the operator's go-ahead on stdin unless --yes was given.
	app, err := NewApp(ctx, cfg, configService, loggerService, confirmFromTerminal())
	if err != nil {
		loggerService.LogFatal(err, "Failed to initialize application")
	}

	// Start the application
	if err := app.Run(); err != nil {
		log.Printf("Application error: %v", err)
	}

	// Wait for context cancellation
	<-ctx.Done()

	// Perform graceful shutdown
	if err := app.Shutdown(); err != nil {
		fmt.Printf("Error during shutdown: %v\n", err)
		os.Exit(1)
	}
}

// confirmFromTerminal builds the migration confirmation hook: --yes (or -y)
// on the command line answers for the operator, otherwise stdin is asked
func confirmFromTerminal() migrations.ConfirmFunc {
	for _, arg := range os.Args[1:] {
		if arg == "--yes" || arg == "-y" {
			return func() bool { return true }
		}
	}
	return func() bool {
		fmt.Print("The database schema needs an update. A backup is taken first. Continue? [y/N] ")
		reader := bufio.NewReader(os.Stdin)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	}
}
