package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	echoapi "github.com/trezcool/darasa/apps/stubapi/echo"
	"github.com/trezcool/darasa/core"
	logsvc "github.com/trezcool/darasa/services/logger"
	inmemdb "github.com/trezcool/darasa/storage/inmem"
)

const shutdownTimeout = 5 * time.Second

func main() {
	conf := core.NewConfig()

	stdLogger := log.New(os.Stdout, "STUB : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)

	db := inmemdb.Open()
	fx := inmemdb.Seed(db)
	logger.Info(fmt.Sprintf("seeded school %d; users %q, %q, %q, %q share the password %q",
		fx.SchoolID, fx.SuperAdmin.Username, fx.SchoolAdmin.Username, fx.Staff.Username, fx.Student.Username,
		inmemdb.SeedPassword))

	server := echoapi.NewServer(conf, logger, db, echoapi.Options{})
	go server.Start()
	defer logger.Info("Stub API stopped")

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
