package util

import (
	"net/url"
	"strings"
)

// dealabsDomains lists domains where NormalizeLink should force HTTPS and
// strip tracking parameters before the link is used as an identity key.
var dealabsDomains = []string{
	"dealabs.com",
	"www.dealabs.com",
}

func isDealabsDomain(host string) bool {
	for _, d := range dealabsDomains {
		if host == d {
			return true
		}
	}
	return false
}

// NormalizeLink canonicalizes a deal link so that the same thread always
// dedups to the same stored entry. Non-aggregator URLs pass through as is.
func NormalizeLink(rawURL string) (string, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return rawURL, err
	}

	if !isDealabsDomain(parsedURL.Hostname()) {
		return rawURL, nil
	}

	parsedURL.Scheme = "https"
	if parsedURL.Host == "dealabs.com" {
		parsedURL.Host = "www.dealabs.com"
	}
	if len(parsedURL.Path) > 1 && strings.HasSuffix(parsedURL.Path, "/") {
		parsedURL.Path = parsedURL.Path[:len(parsedURL.Path)-1]
		// Clear RawPath to ensure String() regenerates the URL path without the trailing slash
		parsedURL.RawPath = ""
	}
	queryParams := parsedURL.Query()
	trackingParams := []string{"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content"}
	for _, param := range trackingParams {
		if queryParams.Has(param) {
			queryParams.Del(param)
		}
	}
	parsedURL.RawQuery = queryParams.Encode()
	return parsedURL.String(), nil
}
