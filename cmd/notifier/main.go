// cmd/notifier/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"agency-notify/internal/common/config"
	"agency-notify/internal/common/database"
	"agency-notify/internal/common/logger"
	"agency-notify/internal/common/observability"
	"agency-notify/internal/models"
	"agency-notify/internal/notify"
	"agency-notify/internal/settings"
	"agency-notify/internal/store"
	"agency-notify/internal/transport"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting notifier...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New("notifier")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch (optional audit mirror) ---
	var mirror notify.LogMirror
	if cfg.Database.Elasticsearch.Enabled {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 10, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		mirror = store.NewLogIndexer(esClient.Client, cfg.Database.Elasticsearch.LogIndex, log)
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Settings provider with redis read-through cache ---
	provider := settings.NewCachedProvider(
		pg.DB, rdb.Client,
		time.Duration(cfg.Notifications.SettingsTTL)*time.Second,
		log,
	)

	// --- Stores ---
	templates := store.NewTemplateStore(pg.DB)
	logs := store.NewLogStore(pg.DB)

	// --- Transports ---
	whatsapp := transport.NewWhatsAppClient(*cfg, provider, log)

	var email notify.EmailSender
	switch cfg.Notifications.EmailProvider {
	case "ses":
		sender, err := transport.NewSESSender(ctx, *cfg, provider, log)
		if err != nil {
			zapLog.Fatal("ses sender init failed", zap.Error(err))
		}
		email = sender
	default:
		email = transport.NewSMTPSender(*cfg, provider, log)
	}

	sms, err := transport.NewSNSSender(ctx, *cfg, provider, log)
	if err != nil {
		zapLog.Fatal("sns sender init failed", zap.Error(err))
	}

	// --- Core wiring ---
	builder := notify.NewContextBuilder(provider)
	renderer := notify.NewTemplateService(templates, builder, log)
	manager := notify.NewChannelManager(notify.ChannelManagerDeps{
		Renderer:      renderer,
		Logs:          logs,
		LogFinder:     logs,
		Mirror:        mirror,
		WhatsApp:      whatsapp,
		Email:         email,
		SMS:           sms,
		Observability: obs,
		Logger:        log,
	})

	// --- HTTP surface ---
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pg.Ping(r.Context()); err != nil {
			http.Error(w, "postgres unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.HandleFunc("/api/notifications/dispatch", dispatchHandler(manager, cfg, log))
	mux.HandleFunc("/api/notifications/resend", resendHandler(manager, log))

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: mux,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("http shutdown failed", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("observability shutdown failed", zap.Error(err))
	}
}

// dispatchRequest carries one fully-hydrated source entity; the service
// performs no lazy loading on behalf of callers.
type dispatchRequest struct {
	TypeCode  string             `json:"typeCode"`
	Channels  []string           `json:"channels"`
	Source    string             `json:"source"` // customer | policy | claim | quotation
	Customer  *models.Customer   `json:"customer,omitempty"`
	Policy    *models.Policy     `json:"policy,omitempty"`
	Claim     *models.Claim      `json:"claim,omitempty"`
	Quotation *models.Quotation  `json:"quotation,omitempty"`
}

func (r *dispatchRequest) toSource() (notify.Source, error) {
	switch r.Source {
	case "customer":
		return notify.CustomerSource(r.Customer), nil
	case "policy":
		return notify.PolicySource(r.Policy), nil
	case "claim":
		return notify.ClaimSource(r.Claim), nil
	case "quotation":
		return notify.QuotationSource(r.Quotation), nil
	}
	return notify.Source{}, fmt.Errorf("unknown source kind %q", r.Source)
}

func dispatchHandler(manager *notify.ChannelManager, cfg *config.Config, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req dispatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, fmt.Sprintf("invalid request: %v", err), http.StatusBadRequest)
			return
		}
		if req.TypeCode == "" || len(req.Channels) == 0 {
			http.Error(w, "typeCode and channels are required", http.StatusBadRequest)
			return
		}

		src, err := req.toSource()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(),
			time.Duration(cfg.Notifications.DispatchTimeout)*time.Millisecond)
		defer cancel()

		result := manager.SendToAllChannels(ctx, req.TypeCode, src, req.Channels)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			log.Error("response encode failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

type resendRequest struct {
	LogID string `json:"logId"`
}

func resendHandler(manager *notify.ChannelManager, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req resendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, fmt.Sprintf("invalid request: %v", err), http.StatusBadRequest)
			return
		}
		if req.LogID == "" {
			http.Error(w, "logId is required", http.StatusBadRequest)
			return
		}

		result, err := manager.Resend(r.Context(), req.LogID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			log.Error("response encode failed", map[string]interface{}{"error": err.Error()})
		}
	}
}
