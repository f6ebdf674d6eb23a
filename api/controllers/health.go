package controllers

import (
	"net/http"

	"go.uber.org/multierr"

	"github.com/storeratehq/storerate-backend/api/responses"
	"github.com/storeratehq/storerate-backend/pkg/config"
	"github.com/storeratehq/storerate-backend/pkg/db"
	pkgerrors "github.com/storeratehq/storerate-backend/pkg/errors"
	"github.com/storeratehq/storerate-backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-StoreRate-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every registered dependency and reports not-ready when
// any of them fail.
func HealthReady(cfg *config.Config, logg *logger.Logger, pingers ...db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-StoreRate-Env", cfg.App.Env)

		var combined error
		for _, pinger := range pingers {
			if pinger == nil {
				continue
			}
			combined = multierr.Append(combined, pinger.Ping(r.Context()))
		}
		if combined != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "dependencies unavailable"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
