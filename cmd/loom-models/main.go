// Command loom-models lists the models a provider endpoint advertises.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	// Ensure API Key is loaded
	_ "github.com/joho/godotenv/autoload"

	"github.com/casualjim/loom/provider"
	"github.com/casualjim/loom/provider/models"
	json "github.com/goccy/go-json"
	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"
)

var (
	log    zerolog.Logger
	osExit = os.Exit
)

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Stamp}
	log = zerolog.New(output).With().Timestamp().Logger()
	slog.SetDefault(slog.New(
		zeroslog.NewHandler(log, &zeroslog.HandlerOptions{Level: slog.LevelInfo}),
	))
}

func main() {
	baseURL := flag.String("base-url", envOr("OPENAI_BASE_URL", "https://api.openai.com/v1"), "provider endpoint to list models from")
	apiKey := flag.String("api-key", os.Getenv("OPENAI_API_KEY"), "bearer token for the endpoint")
	imagesOnly := flag.Bool("images", false, "only list models that look image-capable")
	asJSON := flag.Bool("json", false, "print the model ids as a JSON array")
	flag.Parse()

	if err := run(context.Background(), os.Stdout, *baseURL, *apiKey, *imagesOnly, *asJSON); err != nil {
		log.Error().Err(err).Msg("failed to list models")
		osExit(1)
	}
}

func run(ctx context.Context, w io.Writer, baseURL, apiKey string, imagesOnly, asJSON bool) error {
	disc := models.NewDiscovery(provider.Config{
		BaseURL: baseURL,
		APIKey:  apiKey,
	})

	ids, err := disc.List(ctx)
	if err != nil {
		return err
	}
	if imagesOnly {
		ids = models.FilterImageCapable(ids)
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ids)
	}
	for _, id := range ids {
		fmt.Fprintln(w, id)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
