// Copyright 2025 NetApp, Inc. All Rights Reserved.

package rest

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/netapp/storage-api/config"
	. "github.com/netapp/storage-api/logging"
)

type APIServerHTTP struct {
	server   *http.Server
	certFile string
	keyFile  string

	mutex    sync.Mutex
	listener net.Listener
}

// NewHTTPServer builds the REST frontend for handlers. TLS is served when both a certificate and
// a key are configured.
func NewHTTPServer(handlers *Handlers, restConfig config.RESTConfig) *APIServerHTTP {
	https := restConfig.CertFile != "" && restConfig.KeyFile != ""

	readTimeout := restConfig.ReadTimeout.Duration
	if readTimeout <= 0 {
		readTimeout = config.HTTPTimeout
	}

	apiServer := &APIServerHTTP{
		server: &http.Server{
			Addr:         net.JoinHostPort(restConfig.Address, restConfig.Port),
			Handler:      NewRouter(handlers, https, rate.Limit(restConfig.RateLimit), restConfig.RateBurst),
			ReadTimeout:  readTimeout,
			WriteTimeout: config.HTTPTimeout,
		},
	}
	if https {
		apiServer.certFile = restConfig.CertFile
		apiServer.keyFile = restConfig.KeyFile
	}

	Logc(context.Background()).WithFields(LogFields{
		"address": apiServer.server.Addr,
		"https":   https,
	}).Info("Initializing REST frontend.")

	return apiServer
}

// Activate binds the listen address and starts serving in the background. Bind errors are
// returned to the caller.
func (s *APIServerHTTP) Activate() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.listener != nil {
		return fmt.Errorf("REST frontend is already active on %s", s.listener.Addr())
	}

	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("could not listen on %s; %w", s.server.Addr, err)
	}
	s.listener = listener

	go func() {
		Logc(context.Background()).WithField("address", listener.Addr().String()).Info("Activating REST frontend.")

		var err error
		if s.certFile != "" {
			err = s.server.ServeTLS(listener, s.certFile, s.keyFile)
		} else {
			err = s.server.Serve(listener)
		}
		if errors.Is(err, http.ErrServerClosed) {
			Logc(context.Background()).WithField("address", listener.Addr().String()).Info(
				"REST frontend server has closed.")
		} else if err != nil {
			Logc(context.Background()).WithError(err).Error("REST frontend server failed.")
		}
	}()
	return nil
}

func (s *APIServerHTTP) Deactivate() error {
	Logc(context.Background()).WithField("address", s.server.Addr).Info("Deactivating REST frontend.")
	ctx, cancel := context.WithTimeout(context.Background(), config.HTTPTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the bound address once active, or the configured one.
func (s *APIServerHTTP) Addr() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.server.Addr
}

func (s *APIServerHTTP) GetName() string {
	return "HTTP REST"
}

func (s *APIServerHTTP) Version() string {
	return config.OrchestratorAPIVersion
}
