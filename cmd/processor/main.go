package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pluvialabs/rainproc/internal/api"
	"github.com/pluvialabs/rainproc/internal/config"
	"github.com/pluvialabs/rainproc/internal/logging"
	"github.com/pluvialabs/rainproc/internal/processor"
	"github.com/pluvialabs/rainproc/internal/state"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.Setup("rainproc", cfg.Env)

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Unable to open state store: %v", err)
	}
	defer store.Close()

	proc := processor.New(cfg, store, logger)
	handler := api.NewHandler(proc)

	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/health", handler.HealthCheckHandler)

	apiV1 := r.PathPrefix("/api/v1").Subrouter()
	apiV1.HandleFunc("/transactions", handler.SubmitTransactionHandler).Methods("POST")
	apiV1.HandleFunc("/policies/{purchase}", handler.GetPolicyHandler).Methods("GET")

	logger.Info("processor listening",
		"port", cfg.Port,
		"family", proc.FamilyName(),
		"versions", proc.FamilyVersions(),
		"namespace", proc.Namespaces()[0],
		"backend", cfg.Backend,
	)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}
}

func openStore(cfg *config.Config) (state.Store, error) {
	switch cfg.Backend {
	case "postgres":
		store, err := state.NewPostgresStore(context.Background(), cfg.DBSource)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureSchema(context.Background()); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	case "memory":
		return state.NewMemStore(), nil
	default:
		return state.NewBoltStore(cfg.StatePath)
	}
}
