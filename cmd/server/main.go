package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/anthill-platform/profile-service/internal/system/config"
	"github.com/anthill-platform/profile-service/internal/system/constants"
	syscontext "github.com/anthill-platform/profile-service/internal/system/context"
	"github.com/anthill-platform/profile-service/internal/system/database/provider"
	logger "github.com/anthill-platform/profile-service/internal/system/log"
	"github.com/anthill-platform/profile-service/internal/system/managers"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

const configFile = "config/deployment.yaml"

func main() {
	serviceHomeFlag := flag.String("serviceHome", "", "Path to the profile service home directory")
	initDB := flag.Bool("initDB", false, "Apply the database schema on startup")
	flag.Parse()

	serviceHome := resolveServiceHome(*serviceHomeFlag)

	envFiles, _ := filepath.Glob(filepath.Join(serviceHome, "config", "*.env"))
	_ = godotenv.Load(envFiles...)

	// Load the configuration file.
	cfg, err := config.LoadConfig(serviceHome, configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize runtime configuration.
	if err := config.InitializeRuntime(serviceHome, cfg); err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	// Initialize logger.
	if err := logger.Init(cfg.Log.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	validateDataSource(cfg)

	if *initDB {
		initDatabase(serviceHome)
	}

	serverAddr := fmt.Sprintf("%s:%d", cfg.Addr.Host, cfg.Addr.Port)
	mux := enableCORS(withTraceID(initMultiplexer()))

	ln, err := net.Listen("tcp", serverAddr)
	if err != nil {
		logger.GetLogger().Fatal("Failed to start listener", logger.Error(err))
	}

	logger.GetLogger().Info("Profile service started", logger.String("addr", serverAddr))

	server := &http.Server{Handler: mux}
	if err := server.Serve(ln); err != nil {
		logger.GetLogger().Fatal("Failed to serve requests", logger.Error(err))
	}
}

func validateDataSource(cfg *config.Config) {

	ds := cfg.DataSource
	if ds.Hostname == "" || ds.Port == 0 || ds.Username == "" || ds.Name == "" {
		log.Fatal("One or more PostgreSQL configuration values are missing")
	}
}

// initMultiplexer initializes the HTTP multiplexer and registers the services.
func initMultiplexer() *http.ServeMux {

	mux := http.NewServeMux()
	serviceManager := managers.NewServiceManager(mux)

	if err := serviceManager.RegisterServices(constants.ApiBasePath); err != nil {
		logger.GetLogger().Fatal("Failed to register the services", logger.Error(err))
	}

	return mux
}

// withTraceID assigns a trace ID to every incoming request so that error
// responses and logs can be correlated.
func withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := syscontext.WithTraceID(r.Context(), syscontext.GetOrGenerateTraceID(r.Context()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// initDatabase applies the schema file against the configured data source.
func initDatabase(serviceHome string) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		logger.GetLogger().Fatal("Failed to get database client", logger.Error(err))
	}
	defer dbClient.Close()

	if err := dbClient.InitDatabase(serviceHome, "dbscripts/schema.sql"); err != nil {
		logger.GetLogger().Fatal("Failed to apply database schema", logger.Error(err))
	}
}

func resolveServiceHome(fromFlag string) string {

	if fromFlag != "" {
		return fromFlag
	}
	if home := os.Getenv("PROFILE_SERVICE_HOME"); home != "" {
		return home
	}

	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("Failed to resolve working directory: %v", err)
	}
	return wd
}
