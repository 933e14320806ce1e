package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/aeeint/lego/internal/transport"
)

// sessionFile is the on-disk shape of a marketplace session profile. The
// header map is sent verbatim, so whatever a browser session recorded
// (cookie, CSRF token, anon id) survives round trips unchanged.
type sessionFile struct {
	Headers map[string]string `json:"headers"`
}

func profilePath() string {
	return getEnv("SESSION_PROFILE_PATH", "config/session.json")
}

// loadVintedProfile builds the marketplace header set from the optional
// session profile file, then applies env overrides so a rotated cookie can
// be swapped without editing the file.
func loadVintedProfile(userAgent string) (transport.Profile, error) {
	headers := map[string]string{
		"User-Agent": userAgent,
		"Accept":     "application/json, text/plain, */*",
	}

	path := profilePath()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var session sessionFile
		if unmarshalErr := json.Unmarshal(data, &session); unmarshalErr != nil {
			return transport.Profile{}, fmt.Errorf("failed to parse session profile %s: %w", path, unmarshalErr)
		}
		for k, v := range session.Headers {
			headers[k] = v
		}
		slog.Info("Loaded marketplace session profile", "path", path, "headers", len(session.Headers))
	case os.IsNotExist(err):
		slog.Debug("No session profile file, relying on env overrides", "path", path)
	default:
		return transport.Profile{}, fmt.Errorf("failed to read session profile %s: %w", path, err)
	}

	for header, env := range map[string]string{
		"Cookie":       "VINTED_COOKIE",
		"X-Csrf-Token": "VINTED_CSRF_TOKEN",
		"X-Anon-Id":    "VINTED_ANON_ID",
	} {
		if v := os.Getenv(env); v != "" {
			headers[header] = v
		}
	}

	return transport.Profile{Headers: headers}, nil
}
