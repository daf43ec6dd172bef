// Copyright 2025 NetApp, Inc. All Rights Reserved.

package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/kr/secureheader"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/netapp/storage-api/config"
)

// NewRouter is used to set up HTTP and HTTPS endpoints for the storage API. A non-positive
// limit disables rate limiting.
func NewRouter(h *Handlers, https bool, limit rate.Limit, burst int) *mux.Router {
	router := mux.NewRouter().StrictSlash(true).UseEncodedPath()
	for _, route := range h.routes() {
		var handler http.Handler = route.HandlerFunc
		if route.Admin {
			handler = h.authorize(handler)
		}
		handler = Logger(handler, route.Name, logLevelFor(route.Admin))
		if https {
			handler = secureheader.Handler(handler)
		}

		router.
			Methods(route.Method).
			Path(route.Pattern).
			Name(route.Name).
			Handler(handler)
	}

	router.
		Methods(http.MethodGet).
		Path(config.MetricsURL).
		Name("Metrics").
		Handler(promhttp.Handler())

	if limit > 0 {
		router.Use(rateLimiterMiddleware(limit, burst))
	}

	return router
}
