package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aeeint/lego/internal/transport"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

type Config struct {
	DealabsURL      string
	VintedSearchURL string
	VintedBrand     string
	CatalogIDs      []string
	PerPage         int

	DealsPath string
	SalesPath string

	PageDelay  time.Duration
	QueryDelay time.Duration
	MaxPages   int
	MaxRetries int

	Port string

	MongoURI string
	MongoDB  string

	dealabsProfile transport.Profile
	vintedProfile  transport.Profile
}

func Load() (*Config, error) {
	cfg := &Config{
		DealabsURL:      getEnv("DEALABS_URL", "https://www.dealabs.com/groupe/lego"),
		VintedSearchURL: getEnv("VINTED_SEARCH_URL", "https://www.vinted.fr/api/v2/catalog/items"),
		VintedBrand:     getEnv("VINTED_BRAND", "Lego"),
		DealsPath:       getEnv("DEALS_PATH", "data/deals.json"),
		SalesPath:       getEnv("SALES_PATH", "data/sales.json"),
		Port:            getEnv("PORT", "8092"),
		MongoURI:        os.Getenv("MONGODB_URI"),
		MongoDB:         getEnv("MONGODB_DB", "lego"),
	}

	if ids := strings.TrimSpace(os.Getenv("LEGO_IDS")); ids != "" {
		for _, id := range strings.Split(ids, ",") {
			id = strings.TrimSpace(id)
			if id != "" {
				cfg.CatalogIDs = append(cfg.CatalogIDs, id)
			}
		}
	}

	var err error
	if cfg.PerPage, err = intEnv("PER_PAGE", 96); err != nil {
		return nil, err
	}
	if cfg.MaxPages, err = intEnv("MAX_PAGES", 50); err != nil {
		return nil, err
	}
	if cfg.MaxRetries, err = intEnv("MAX_RETRIES", 3); err != nil {
		return nil, err
	}
	if cfg.PageDelay, err = durationEnv("PAGE_DELAY", time.Second); err != nil {
		return nil, err
	}
	if cfg.QueryDelay, err = durationEnv("QUERY_DELAY", 2*time.Second); err != nil {
		return nil, err
	}

	userAgent := getEnv("USER_AGENT", defaultUserAgent)
	cfg.dealabsProfile = transport.Profile{Headers: map[string]string{
		"User-Agent":      userAgent,
		"Accept-Language": getEnv("DEALABS_ACCEPT_LANGUAGE", "en-US,en;q=0.9"),
		"Referer":         getEnv("DEALABS_REFERER", "https://www.google.com/"),
	}}

	cfg.vintedProfile, err = loadVintedProfile(userAgent)
	if err != nil {
		return nil, err
	}

	// A sales run cannot authenticate without session material.
	if len(cfg.CatalogIDs) > 0 && cfg.vintedProfile.Headers["Cookie"] == "" {
		return nil, fmt.Errorf("LEGO_IDS is set but no marketplace session is configured: provide %s or VINTED_COOKIE", profilePath())
	}

	return cfg, nil
}

// DealabsProfile returns the header set sent to the deal-aggregator source.
func (c *Config) DealabsProfile() transport.Profile { return c.dealabsProfile }

// VintedProfile returns the session header set sent to the marketplace
// source. All session material comes from configuration; nothing here is
// hardcoded, and an expired session is the operator's to refresh.
func (c *Config) VintedProfile() transport.Profile { return c.vintedProfile }

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func intEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return parsed, nil
}

func durationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if parsed < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, v)
	}
	return parsed, nil
}
