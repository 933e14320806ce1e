package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aeeint/lego/internal/config"
	"github.com/aeeint/lego/internal/storage"
)

// The loader replaces both collections wholesale with the current file
// contents, so repeated runs stay idempotent.
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Critical error loading configuration", "error", err)
		os.Exit(1)
	}
	if cfg.MongoURI == "" {
		slog.Error("MONGODB_URI is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			slog.Error("Failed to disconnect from MongoDB", "error", err)
		}
	}()

	db := client.Database(cfg.MongoDB)

	deals := storage.NewDealStore(cfg.DealsPath).Load()
	if err := replaceCollection(ctx, db.Collection("deals"), toDocuments(deals)); err != nil {
		slog.Error("Failed to load deals collection", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded deals collection", "count", len(deals))

	sales := storage.NewSaleStore(cfg.SalesPath).Load()
	if err := replaceCollection(ctx, db.Collection("sales"), toDocuments(sales)); err != nil {
		slog.Error("Failed to load sales collection", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded sales collection", "count", len(sales))
}

func replaceCollection(ctx context.Context, coll *mongo.Collection, docs []interface{}) error {
	if err := coll.Drop(ctx); err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}
	_, err := coll.InsertMany(ctx, docs)
	return err
}

func toDocuments[T any](items []T) []interface{} {
	docs := make([]interface{}, len(items))
	for i, item := range items {
		docs[i] = item
	}
	return docs
}
