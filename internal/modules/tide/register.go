package tide

import (
	"database/sql"
	"log/slog"
	"net/http"

	"tidegauge-server/internal/config"
	"tidegauge-server/internal/modules/tide/chart"
	"tidegauge-server/internal/modules/tide/controller"
	"tidegauge-server/internal/modules/tide/repository"
	"tidegauge-server/internal/modules/tide/sensorapi"
	"tidegauge-server/internal/modules/tide/service"
	"tidegauge-server/internal/mqtt"
)

// RegisterFeature wires the tide pages onto mux and returns the service so
// other modules can read the last fetch.
func RegisterFeature(
	mux *http.ServeMux,
	db *sql.DB,
	cfg config.Config,
	publisher mqtt.FetchPublisher,
	logger *slog.Logger,
) (*service.Service, error) {
	client, err := sensorapi.NewClient(cfg.SensorAPIURL, cfg.SensorAPIKey, cfg.SensorTimeout)
	if err != nil {
		return nil, err
	}

	tideRepository := repository.NewRepository(db)
	tideService := service.NewService(
		client,
		tideRepository,
		publisher,
		chart.Options{TickMode: cfg.TickMode, Location: cfg.Location},
		logger,
	)
	tideController := controller.NewTideController(tideService, cfg.Location, cfg.PageCount)
	tideController.RegisterRoutes(mux)
	return tideService, nil
}
