package cli

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/themizzi/simplecom/internal/config"
)

// ServerDependencies holds all dependencies needed for the server
type ServerDependencies struct {
	ServerConfig            config.ServerConfig
	HomeHandler             http.Handler
	LoginHandler            http.Handler
	LogoutHandler           http.Handler
	CategoryProductsHandler http.Handler
	CategoriesAPIHandler    http.Handler
}

// RunServe starts the shop web server
func RunServe(deps ServerDependencies) error {
	listener, server, err := StartServer(deps)
	if err != nil {
		return err
	}
	defer listener.Close()

	return WaitForShutdown(server, nil)
}

// NewRouter maps the shop routes onto their handlers
func NewRouter(deps ServerDependencies) http.Handler {
	staticDir := deps.ServerConfig.StaticDir
	if staticDir == "" {
		staticDir = "static"
	}

	mux := http.NewServeMux()
	mux.Handle("/", deps.HomeHandler)
	mux.Handle("/login", deps.LoginHandler)
	mux.Handle("/logout", deps.LogoutHandler)
	mux.Handle("/category_products/", deps.CategoryProductsHandler)
	mux.Handle("/api/categories", deps.CategoriesAPIHandler)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	return mux
}

// StartServer creates and starts the HTTP server, returning the listener and server
func StartServer(deps ServerDependencies) (net.Listener, *http.Server, error) {
	// Create listener
	addr := fmt.Sprintf(":%s", deps.ServerConfig.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create listener: %w", err)
	}

	server := &http.Server{
		Handler:           NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", listener.Addr().String()).Msg("server listening")
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	return listener, server, nil
}

// WaitForShutdown waits for a shutdown signal and gracefully shuts down the server
// If shutdown channel is nil, a new channel will be created and registered with signal.Notify
func WaitForShutdown(server *http.Server, shutdown chan os.Signal) error {
	return WaitForShutdownWithTimeout(server, shutdown, 30*time.Second)
}

// WaitForShutdownWithTimeout allows specifying a custom shutdown timeout (primarily for testing)
func WaitForShutdownWithTimeout(server *http.Server, shutdown chan os.Signal, shutdownTimeout time.Duration) error {
	if shutdown == nil {
		shutdown = make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
		defer signal.Stop(shutdown)
	}

	sig := <-shutdown
	log.Info().Str("signal", sig.String()).Msg("shutting down server")

	// Give outstanding requests time to complete
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		// http.Server.Close does not report listener close errors, so this
		// only fails if closing the tracked connections fails.
		if err := server.Close(); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	log.Info().Msg("server stopped")
	return nil
}
