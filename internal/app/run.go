package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"tidegauge-server/internal/config"
	db "tidegauge-server/internal/db"
	httpapi "tidegauge-server/internal/httpapi"
	"tidegauge-server/internal/migrate"
	"tidegauge-server/internal/modules/status"
	"tidegauge-server/internal/modules/tide"
	tideviews "tidegauge-server/internal/modules/tide/views"
	"tidegauge-server/internal/mqtt"
)

func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"sensorApiUrl", cfg.SensorAPIURL,
		"sensorApiKeySet", cfg.SensorAPIKey != "",
		"sensorTimeout", cfg.SensorTimeout,
		"timezone", cfg.Location.String(),
		"pageCount", cfg.PageCount,
		"tickMode", cfg.TickMode,
		"heartbeatInterval", cfg.HeartbeatInterval,
		"sqliteDriver", cfg.SQLiteDriver,
		"sqlitePath", cfg.SQLitePath,
		"sqliteMaxOpenConns", cfg.SQLiteMaxOpenConns,
		"sqliteMaxIdleConns", cfg.SQLiteMaxIdleConns,
		"sqliteConnMaxLifetime", cfg.SQLiteConnMaxLifetime,
		"mqttBroker", cfg.MQTTBroker,
		"mqttPort", cfg.MQTTPort,
		"mqttTopic", cfg.MQTTTopic,
	)

	dbConn, err := db.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(dbConn); closeErr != nil {
			logger.Error("db close", "error", closeErr)
		}
	}()

	if err := migrate.Run(ctx, dbConn); err != nil {
		return err
	}
	logger.Info("database ready")

	if err := tideviews.LoadTemplates(); err != nil {
		return err
	}

	publisher, disconnect := startPublisher(ctx, cfg, logger)
	defer disconnect()

	mux := httpapi.NewMux(dbConn)
	tideService, err := tide.RegisterFeature(mux, dbConn, cfg, publisher, logger)
	if err != nil {
		return err
	}
	heartbeat, hub := status.RegisterFeature(mux, cfg.HeartbeatInterval, tideService, logger)

	hbCtx, hbCancel := context.WithCancel(ctx)
	defer hbCancel()
	go func() { _ = heartbeat.Run(hbCtx) }()

	srv := httpapi.NewServer(cfg, mux)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hbCancel()
	// Hijacked websocket connections are not tracked by Shutdown.
	hub.Close()

	logger.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}

// startPublisher connects to the broker when one is configured. A broker
// that is down at startup is logged and retried in the background so page
// serving is never blocked on it.
func startPublisher(ctx context.Context, cfg config.Config, logger *slog.Logger) (mqtt.FetchPublisher, func()) {
	if cfg.MQTTBroker == "" {
		logger.Info("mqtt disabled (MQTT_BROKER unset)")
		return mqtt.Noop{}, func() {}
	}

	p := mqtt.NewPublisher(cfg, logger)
	connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
	err := p.Connect(connectCtx)
	connectCancel()
	if err != nil {
		logger.Warn("mqtt connection failed (continuing, publishing resumes on reconnect)", "error", err)
	}

	return p, func() {
		logger.Info("mqtt disconnecting")
		p.Disconnect()
	}
}
