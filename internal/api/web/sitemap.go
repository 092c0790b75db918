package web

import (
	"encoding/xml"
	"net/http"
	"strings"

	zlog "github.com/rs/zerolog/log"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// pages lists the public pages relative to the hostname.
var pages = []sitemapURL{
	{Loc: "/", ChangeFreq: "daily", Priority: 1.0},
}

// BuildSitemap renders the sitemap for hostname.
func BuildSitemap(hostname string) ([]byte, error) {
	host := strings.TrimRight(hostname, "/")
	set := urlSet{XMLNS: sitemapNS}
	for _, p := range pages {
		p.Loc = host + p.Loc
		set.URLs = append(set.URLs, p)
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

func sitemapHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := BuildSitemap(cfg.Config.Server.Hostname)
		if err != nil {
			zlog.Error().Msgf("failed to build sitemap: %v", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write(body)
	}
}
