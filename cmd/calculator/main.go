package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/GGmuzem/calculator-api/internal/auth"
	"github.com/GGmuzem/calculator-api/internal/calculate"
	"github.com/GGmuzem/calculator-api/internal/config"
	"github.com/GGmuzem/calculator-api/internal/database"
	"github.com/GGmuzem/calculator-api/internal/grpcapi"
	"github.com/GGmuzem/calculator-api/internal/history"
	"github.com/GGmuzem/calculator-api/internal/logger"
	"github.com/GGmuzem/calculator-api/internal/server"
	gfshutdown "github.com/gelmium/graceful-shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	structuredLogger := logger.NewStdout()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Ошибка инициализации базы данных: %v", err)
	}

	authenticator, err := auth.New(db, cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("Ошибка инициализации аутентификации: %v", err)
	}

	service := calculate.NewService(calculate.NewRegistry(), structuredLogger)
	recorder := history.NewRecorder(db, structuredLogger)

	// HTTP сервер
	httpServer := server.New(cfg, service, authenticator, db, recorder, structuredLogger).HTTPServer()
	go func() {
		log.Printf("%s %s: HTTP сервер запущен на %s", cfg.AppName, cfg.AppVersion, httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Ошибка HTTP сервера: %v", err)
		}
	}()

	operations := map[string]gfshutdown.Operation{
		"http-server": func(ctx context.Context) error {
			return httpServer.Shutdown(ctx)
		},
	}

	// gRPC сервер, если задан порт
	if addr := cfg.GRPCAddr(); addr != "" {
		lis, err := grpcapi.Listen(addr)
		if err != nil {
			log.Fatalf("Ошибка при прослушивании gRPC порта: %v", err)
		}
		grpcServer := grpcapi.NewGRPCServer(grpcapi.NewCalculatorServer(service, recorder), authenticator)
		go func() {
			log.Printf("gRPC сервер запущен на %s", addr)
			if err := grpcServer.Serve(lis); err != nil {
				log.Fatalf("Ошибка gRPC сервера: %v", err)
			}
		}()

		operations["grpc-server"] = func(ctx context.Context) error {
			stopped := make(chan struct{})
			go func() {
				grpcServer.GracefulStop()
				close(stopped)
			}()
			select {
			case <-stopped:
				return nil
			case <-ctx.Done():
				grpcServer.Stop()
				return ctx.Err()
			}
		}
	}

	wait := gfshutdown.GracefulShutdown(context.Background(), cfg.ShutdownTimeout, operations)
	exitCode := <-wait

	// База закрывается после остановки серверов, чтобы не терять записи истории
	if err := db.Close(); err != nil {
		log.Printf("Ошибка при закрытии базы данных: %v", err)
	}
	log.Printf("Сервис остановлен с кодом %d", exitCode)
	os.Exit(exitCode)
}
