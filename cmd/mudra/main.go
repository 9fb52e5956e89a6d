package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/classify"
	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/smooth"
	"github.com/ayusman/mudra/internal/store"
)

var serveOpts struct {
	addr          string
	dbPath        string
	staticDir     string
	variant       string
	k             int
	augment       bool
	windowSize    int
	minHoldFrames int
	minConfidence float64
}

var rootCmd = &cobra.Command{
	Use:   "mudra",
	Short: "Hand gesture recognition service",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the recognition API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveOpts.addr, "addr", "a", ":8080", "Listen address")
	serveCmd.Flags().StringVar(&serveOpts.dbPath, "db", "", "SQLite database path (default ~/.mudra/mudra.db)")
	serveCmd.Flags().StringVar(&serveOpts.staticDir, "static", "", "Directory of static files to serve")
	serveCmd.Flags().StringVar(&serveOpts.variant, "classifier", classify.TypeKNN, "Static classifier variant (knn or logistic)")
	serveCmd.Flags().IntVar(&serveOpts.k, "k", classify.DefaultK, "Neighbor count for nearest-neighbor classifiers")
	serveCmd.Flags().BoolVar(&serveOpts.augment, "augment", false, "Append pairwise fingertip distances to feature vectors")
	serveCmd.Flags().IntVar(&serveOpts.windowSize, "window", smooth.DefaultWindowSize, "Smoothing window size in frames")
	serveCmd.Flags().IntVar(&serveOpts.minHoldFrames, "hold", smooth.DefaultMinHoldFrames, "Consecutive frames a label must hold before emission")
	serveCmd.Flags().Float64Var(&serveOpts.minConfidence, "confidence", smooth.DefaultMinConfidence, "Minimum windowed mean confidence")

	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	dbPath := serveOpts.dbPath
	if dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("get home directory: %w", err)
		}
		dataDir := filepath.Join(homeDir, ".mudra")
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
		dbPath = filepath.Join(dataDir, "mudra.db")
	}

	st, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	cfg := engine.DefaultConfig()
	cfg.Variant = serveOpts.variant
	cfg.K = serveOpts.k
	cfg.Augment = serveOpts.augment
	cfg.Smoothing = smooth.Params{
		WindowSize:    serveOpts.windowSize,
		MinHoldFrames: serveOpts.minHoldFrames,
		MinConfidence: serveOpts.minConfidence,
	}

	eng := engine.New(cfg, st)

	// Restore the most recent models, if any were trained before.
	if err := eng.LoadLatest(serveOpts.variant); err != nil {
		log.Printf("restore static model: %v", err)
	}
	if err := eng.LoadLatest(classify.TypeDTW); err != nil {
		log.Printf("restore dynamic model: %v", err)
	}

	srv := server.New(server.Config{
		StaticDir: serveOpts.staticDir,
		Store:     st,
		Engine:    eng,
	})

	log.Printf("mudra listening on %s (db %s)", serveOpts.addr, dbPath)
	return srv.ListenAndServe(serveOpts.addr)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
