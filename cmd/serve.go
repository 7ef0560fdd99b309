package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "quickride/internal/config"
	router "quickride/internal/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web interface",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(loadEnv())
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	cobra.CheckErr(viper.BindPFlag("APP_ADDR", serveCmd.Flags().Lookup("addr")))
	rootCmd.AddCommand(serveCmd)
}

func serve(env intconfig.Env) error {
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	// A failed connection here is not fatal; pages report it and retry per request.
	if _, err := intconfig.ConnectDB(); err != nil {
		log.Printf("[DB] action=connect status=failed err=%v", err)
	}
	defer intconfig.CloseDB()

	r := router.NewRouter(env)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server running at http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	log.Println("Server stopped.")
	return nil
}
