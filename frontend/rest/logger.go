// Copyright 2025 NetApp, Inc. All Rights Reserved.

package rest

import (
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	. "github.com/netapp/storage-api/logging"
)

const requestIDHeader = "X-Request-ID"

// statusRecorder remembers the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Logger attaches a request context to r, logs the call at level and records its metrics.
// An X-Request-ID supplied by the caller is reused.
func Logger(inner http.Handler, routeName string, logLevel log.Level) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ctx := GenerateRequestContext(r.Context(), r.Header.Get(requestIDHeader), ContextSourceREST)
		r = r.WithContext(ctx)
		w.Header().Set(requestIDHeader, ctx.Value(ContextKeyRequestID).(string))

		logRestCallInfo("REST API call received.", r, start, routeName, logLevel, 0)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		inner.ServeHTTP(recorder, r)

		logRestCallInfo("REST API call complete.", r, start, routeName, logLevel, recorder.status)

		restOpsTotal.WithLabelValues(r.Method, routeName).Inc()
		restOpsSecondsTotal.WithLabelValues(r.Method, routeName).Observe(time.Since(start).Seconds())
		if recorder.status >= http.StatusBadRequest {
			restErrorsTotal.WithLabelValues(r.Method, routeName, strconv.Itoa(recorder.status)).Inc()
		}
	})
}

func logRestCallInfo(msg string, r *http.Request, start time.Time, name string, logLevel log.Level, status int) {
	fields := LogFields{
		"method":   r.Method,
		"uri":      r.RequestURI,
		"route":    name,
		"duration": time.Since(start),
	}
	if status != 0 {
		fields["status"] = status
	}
	Logc(r.Context()).WithFields(fields).Log(logLevel, msg)
}
