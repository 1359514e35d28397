package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/synccube/server/internal/controller"
	connInmemory "github.com/synccube/server/internal/repository/connection/inmemory"
	roomInmemory "github.com/synccube/server/internal/repository/room/inmemory"
	"github.com/synccube/server/internal/service/room"
	"github.com/synccube/server/pkg/ctxlogger"
)

type AppConfig struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	LogLevel     string `json:"log_level"`
	PublicUrl    string `json:"public_url"`
	RoomIdLength int    `json:"room_id_length"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port must be in range 1-65535")
	}
	if cfg.RoomIdLength < 1 {
		return fmt.Errorf("room id length must be greater than 0")
	}
	return nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel,
		}),
	}
	logger := slog.New(&h)

	roomRepo := roomInmemory.NewRepo()
	connRepo := connInmemory.NewRepo()
	roomService := room.NewService(roomRepo, connRepo, clockwork.NewRealClock(), &room.Config{
		PublicUrl:    cfg.PublicUrl,
		RoomIdLength: cfg.RoomIdLength,
	}, logger)
	controller := controller.NewController(roomService, cfg.PublicUrl, logger)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.GetMux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr, "public_url", cfg.PublicUrl)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
