package versions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// Framework is one row of the framework-version dashboard.
type Framework struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	LastUpdated string `json:"lastUpdated"`
	Category    string `json:"category"`
	DocsURL     string `json:"docsUrl"`
}

var npmPackages = []struct {
	name     string
	pkg      string
	category string
	docsURL  string
}{
	{"React", "react", "frontend", "https://react.dev/"},
	{"Angular", "@angular/core", "frontend", "https://angular.io/docs"},
	{"Vue", "vue", "frontend", "https://vuejs.org/guide/introduction.html"},
	{"Next.js", "next", "frontend", "https://nextjs.org/docs"},
	{"Nuxt.js", "nuxt", "frontend", "https://nuxt.com/docs"},
	{"npm", "npm", "backend", "https://docs.npmjs.com/"},
	{"NestJS", "@nestjs/core", "backend", "https://docs.nestjs.com/"},
}

type registryLatest struct {
	Version string `json:"version"`
	Time    string `json:"time"`
}

type nodeRelease struct {
	Version string `json:"version"`
	Date    string `json:"date"`
}

// Service caches the latest published versions of a fixed set of
// frameworks. Refresh is called on start and every six hours by the
// scheduler; a failed fetch keeps the previous snapshot.
type Service struct {
	mu         sync.RWMutex
	http       *resty.Client
	frameworks []Framework

	registryURL string
	nodeDistURL string
}

func New() *Service {
	return &Service{
		http:        resty.New().SetTimeout(15 * time.Second),
		registryURL: "https://registry.npmjs.org",
		nodeDistURL: "https://nodejs.org/dist/index.json",
	}
}

// Snapshot returns the cached framework list.
func (s *Service) Snapshot() []Framework {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Framework, len(s.frameworks))
	copy(out, s.frameworks)
	return out
}

// Refresh fetches every framework's latest version. Individual failures
// are logged and skipped so one flaky registry entry does not blank the
// dashboard.
func (s *Service) Refresh(ctx context.Context) error {
	var fetched []Framework
	var failures int

	for _, p := range npmPackages {
		var latest registryLatest
		_, err := s.http.R().
			SetContext(ctx).
			SetResult(&latest).
			Get(fmt.Sprintf("%s/%s/latest", s.registryURL, p.pkg))
		if err != nil || latest.Version == "" {
			log.Warn().Err(err).Str("package", p.pkg).Msg("Failed to fetch package version")
			failures++
			continue
		}

		fetched = append(fetched, Framework{
			Name:        p.name,
			Version:     latest.Version,
			LastUpdated: latest.Time,
			Category:    p.category,
			DocsURL:     p.docsURL,
		})
	}

	var releases []nodeRelease
	_, err := s.http.R().SetContext(ctx).SetResult(&releases).Get(s.nodeDistURL)
	if err != nil || len(releases) == 0 {
		log.Warn().Err(err).Msg("Failed to fetch Node.js versions")
		failures++
	} else {
		fetched = append(fetched, Framework{
			Name:        "Node.js",
			Version:     releases[0].Version,
			LastUpdated: releases[0].Date,
			Category:    "backend",
			DocsURL:     "https://nodejs.org/en/docs",
		})
	}

	if len(fetched) == 0 {
		return fmt.Errorf("framework version refresh failed for all %d sources", failures)
	}

	s.mu.Lock()
	s.frameworks = fetched
	s.mu.Unlock()

	log.Info().Int("frameworks", len(fetched)).Int("failures", failures).
		Msg("Framework versions refreshed")
	return nil
}
