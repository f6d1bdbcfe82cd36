package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/browser"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/clinic-sim/service"
)

// Environment variables read by serve, after loading the env file.
const (
	envAddr   = "CLINIC_SIM_ADDR"
	envSeed   = "CLINIC_SIM_SEED"
	envPreset = "CLINIC_SIM_PRESET"
)

var (
	serveAddr        string        // Listen address
	serveEnvFile     string        // Optional dotenv file
	serveOpen        bool          // Open the summary in a browser
	serveReadTimeout time.Duration // Timeout for read endpoints
	serveLogLevel    string        // Log verbosity level
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the latest run and re-run on demand over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel(serveLogLevel)

		if err := loadEnvFile(serveEnvFile); err != nil {
			logrus.Fatalf("Loading %s: %v", serveEnvFile, err)
		}
		applyServeEnv(cmd)

		cfg, err := resolveShiftConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid shift configuration: %v", err)
		}
		svcCfg := service.Config{Shift: cfg, ReadTimeout: serveReadTimeout}
		if cmd.Flags().Changed("seed") {
			s := seed
			svcCfg.Seed = &s
		}
		svc, err := service.New(svcCfg)
		if err != nil {
			logrus.Fatalf("Creating service: %v", err)
		}
		// The first run is available before the server accepts requests.
		if _, err := svc.Rerun(); err != nil {
			logrus.Fatalf("Initial run failed: %v", err)
		}

		listener, err := net.Listen("tcp", serveAddr)
		if err != nil {
			logrus.Fatalf("Listening on %s: %v", serveAddr, err)
		}
		url := fmt.Sprintf("http://localhost:%d/summary", listener.Addr().(*net.TCPAddr).Port)
		logrus.Infof("Serving clinic simulation on %s", url)

		server := &http.Server{
			Handler:           svc.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logrus.Fatalf("Server failed: %v", err)
			}
		}()
		if serveOpen {
			if err := browser.OpenURL(url); err != nil {
				logrus.Warnf("Could not open browser: %v", err)
			}
		}

		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logrus.Errorf("Shutdown: %v", err)
		}
		logrus.Info("Server stopped.")
	},
}

// loadEnvFile loads KEY=VALUE pairs into the environment. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// applyServeEnv fills flags that were not set on the command line from the environment.
func applyServeEnv(cmd *cobra.Command) {
	if v := os.Getenv(envAddr); v != "" && !cmd.Flags().Changed("addr") {
		serveAddr = v
	}
	if v := os.Getenv(envPreset); v != "" && !cmd.Flags().Changed("preset") {
		presetName = v
	}
	if v := os.Getenv(envSeed); v != "" && !cmd.Flags().Changed("seed") {
		if err := cmd.Flags().Set("seed", v); err != nil {
			logrus.Fatalf("Invalid %s=%q: %v", envSeed, v, err)
		}
	}
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":5000", "Listen address")
	serveCmd.Flags().StringVar(&serveEnvFile, "env-file", ".env", "Dotenv file to load before reading "+envAddr+", "+envSeed+", "+envPreset)
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "Open the summary endpoint in a browser")
	serveCmd.Flags().DurationVar(&serveReadTimeout, "read-timeout", 5*time.Second, "Timeout for read endpoints (0 disables)")
	serveCmd.Flags().StringVar(&serveLogLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	serveCmd.Flags().Int64Var(&seed, "seed", 42, "Base seed; run n uses seed+n (unset: random per run)")
	registerShiftFlags(serveCmd)

	rootCmd.AddCommand(serveCmd)
}
