// CLAUDE:SUMMARY Entry point for the uxaudit HTTP service — chi router, shared Chrome, MCP stdio optional.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/uxaudit/collector"
	"github.com/hazyhaar/uxaudit/dbopen"
	"github.com/hazyhaar/uxaudit/design"
	"github.com/hazyhaar/uxaudit/mission"
	"github.com/hazyhaar/uxaudit/observability"
	"github.com/hazyhaar/uxaudit/plan"
	"github.com/hazyhaar/uxaudit/provider"
	"github.com/hazyhaar/uxaudit/shield"
)

func main() {
	// Logging.
	var lvl slog.Level
	switch env("LOG_LEVEL", "info") {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	// Configuration: YAML file if given, env vars on top.
	cfg := &mission.Config{}
	if path := os.Getenv("CONFIG"); path != "" {
		loaded, err := mission.LoadFile(path)
		if err != nil {
			slog.Error("config", "path", path, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	cfg.ApplyDefaults()

	apiKey := env("GEMINI_API_KEY", cfg.Gemini.APIKey)
	if apiKey == "" {
		slog.Error("GEMINI_API_KEY is required")
		os.Exit(1)
	}
	figmaToken := env("FIGMA_TOKEN", cfg.Figma.Token)
	figmaFile := env("FIGMA_FILE_KEY", cfg.Figma.FileKey)
	listen := env("LISTEN", cfg.Listen)
	mcpTransport := env("MCP_TRANSPORT", "")

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Events DB — operational telemetry only, never audit results.
	eventsDB, err := dbopen.Open(env("EVENTS_DB", cfg.EventsDB), dbopen.WithMkdirAll())
	if err != nil {
		slog.Error("events db", "error", err)
		os.Exit(1)
	}
	defer eventsDB.Close()
	events := observability.NewEventLogger(eventsDB)
	if err := events.Init(); err != nil {
		slog.Error("events init", "error", err)
		os.Exit(1)
	}

	// Shared Chrome.
	mgr := collector.NewManager(collector.ManagerConfig{
		RemoteURL: env("BROWSER_REMOTE", cfg.Browser.Remote),
		Logger:    logger,
	})
	if err := mgr.Start(); err != nil {
		slog.Error("browser", "error", err)
		os.Exit(1)
	}
	defer mgr.Close()

	// Pipeline components.
	var provOpts []provider.Option
	if cfg.Gemini.BaseURL != "" {
		provOpts = append(provOpts, provider.WithBaseURL(cfg.Gemini.BaseURL))
	}
	if len(cfg.Gemini.Chain) > 0 {
		provOpts = append(provOpts, provider.WithChain(cfg.Gemini.Chain))
	}
	provOpts = append(provOpts, provider.WithLogger(logger))
	gen := provider.New(apiKey, provOpts...)

	coll := collector.New(mgr, collector.Config{
		NavTimeout:   cfg.Collector.NavTimeout,
		SettleDelay:  cfg.Collector.SettleDelay,
		SnippetLimit: cfg.Collector.SnippetLimit,
		Logger:       logger,
	})
	planner := plan.New(gen, logger)

	var designOpts []design.Option
	if cfg.Figma.BaseURL != "" {
		designOpts = append(designOpts, design.WithFigmaBaseURL(cfg.Figma.BaseURL))
	}
	designOpts = append(designOpts, design.WithLogger(logger))
	comparator := design.New(gen, designOpts...)

	orch := mission.New(coll, planner, comparator, gen,
		mission.WithCredentialDefaults(mission.Credentials{
			FigmaToken:   figmaToken,
			FigmaFileKey: figmaFile,
		}),
		mission.WithEvents(events),
		mission.WithLogger(logger))

	// Optional MCP over stdio.
	if mcpTransport == "stdio" {
		mcpSrv := mcp.NewServer(&mcp.Implementation{
			Name:    "uxaudit",
			Version: "1.0.0",
		}, nil)
		orch.RegisterMCP(mcpSrv)
		go func() {
			if err := mcpSrv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
				slog.Error("MCP stdio", "error", err)
			}
		}()
	}

	// Router.
	r := chi.NewRouter()
	for _, mw := range shield.DefaultAPIStack() {
		r.Use(mw)
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Post("/api/start-test", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			URL        string   `json:"url"`
			Devices    []string `json:"devices"`
			FigmaToken string   `json:"figmaToken"`
			FigmaFile  string   `json:"figmaFile"`
			LLMModel   string   `json:"llmModel"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, 400, err)
			return
		}

		// One device per mission: only the first requested profile runs.
		device := ""
		if len(req.Devices) > 0 {
			device = req.Devices[0]
		}

		result, err := orch.Run(r.Context(), mission.MissionConfig{
			TargetURL:      req.URL,
			Device:         collector.ParseDevice(device),
			FigmaToken:     req.FigmaToken,
			FigmaFileKey:   req.FigmaFile,
			PreferredModel: req.LLMModel,
		})
		if err != nil {
			writeError(w, 500, err)
			return
		}
		writeJSON(w, 200, map[string]any{"success": true, "data": result})
	})

	// HTTP server.
	srv := &http.Server{
		Addr:              listen,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		// Missions hold the connection through browser capture plus up to
		// three generation calls.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}

// --- Helpers ---

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]any{"success": false, "error": err.Error()})
}
