package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"signaling-server/config"
	"signaling-server/core"
	"signaling-server/handlers/api/tokens"
	"signaling-server/handlers/websocket"
	"signaling-server/presence"
	"signaling-server/stores"
	"signaling-server/token"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
	socketio "github.com/zishang520/socket.io/v2/socket"
)

func setupRouter(issuer *token.Issuer, callStore core.CallStore) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Content-Length"},
		AllowCredentials: false,
		MaxAge:           300,
	}

	r.Use(cors.Handler(corsOptions))

	r.With(tokens.NoCache).Post("/generate-token", tokens.HandleGenerate(issuer))

	r.Get("/api/calls", func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, map[string]string{"error": "limit must be a valid number"})
				return
			}
			limit = parsed
		}

		calls, err := callStore.ListCalls(r.Context(), limit)
		if err != nil {
			logrus.WithError(err).Error("Failed to list call attempts")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "failed to list calls"})
			return
		}

		if calls == nil {
			calls = []core.CallRecord{}
		}
		render.JSON(w, r, calls)
	})

	return r
}

func waitForShutdown(ioo *socketio.Server) {
	exit := make(chan struct{})
	SignalC := make(chan os.Signal, 1)

	signal.Notify(SignalC, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range SignalC {
			switch s {
			case os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				close(exit)
				return
			}
		}
	}()

	<-exit
	ioo.Close(nil)
	fmt.Println("Shutting down...")
	os.Exit(0)
}

func main() {
	logLevel := flag.String("loglevel", "info", "Set the logging level: debug, info, warn, error, fatal, panic")
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level: %v\n", err)
		os.Exit(1)
	}
	logrus.SetLevel(level)

	cfg := config.Load()

	callStore := stores.GetStore()
	registry := presence.NewRegistry()
	router := presence.NewRouter(registry)
	issuer := token.NewIssuer(token.NewRTCSigner(cfg.AppID, cfg.AppCertificate))

	r := setupRouter(issuer, callStore)
	ioo := websocket.SetupSocketIO(registry, router, callStore)
	r.Handle("/socket.io/", ioo.ServeHandler(nil))

	listenAddr := ":" + cfg.Port
	logrus.WithField("addr", listenAddr).Info("starting server")
	go func() {
		if err := http.ListenAndServe(listenAddr, r); err != nil {
			logrus.WithField("event", "start server").Fatal(err)
		}
	}()

	logrus.Debug("Server is running in the background")
	waitForShutdown(ioo)
}
