package services

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"time"

	"content-protect-assistant/internal/config"
	"content-protect-assistant/internal/logger"
	"content-protect-assistant/models"
)

const recentLimit = 5

func nowUTC() time.Time {
	return time.Now().UTC()
}

// ContextBuilder assembles the operational snapshot handed to the prompt
// composer. Every data source is optional; a missing or failing source
// contributes zeros and empty lists instead of failing the build.
type ContextBuilder struct {
	cfg      *config.Config
	codes    CodeStore
	videos   VideoStore
	sessions SessionStore
	events   EventStore
	scanner  FileScanner

	now func() time.Time
}

func NewContextBuilder(cfg *config.Config, codes CodeStore, videos VideoStore, sessions SessionStore, events EventStore, scanner FileScanner) *ContextBuilder {
	return &ContextBuilder{
		cfg:      cfg,
		codes:    codes,
		videos:   videos,
		sessions: sessions,
		events:   events,
		scanner:  scanner,
		now:      nowUTC,
	}
}

// Build produces a fresh AdminContext for the given administrator. It always
// succeeds: accessor failures are logged and degrade to empty defaults.
func (b *ContextBuilder) Build(ctx context.Context, user models.UserInfo) *models.AdminContext {
	stats := models.Stats{}
	recentCodes := make([]models.GiftCode, 0)
	protectedVideos := make([]models.ProtectedVideo, 0)
	recentErrors := make([]models.ErrorEntry, 0)

	if b.codes != nil {
		if n, err := b.codes.ActiveCount(ctx); err == nil {
			stats.ActiveCodes = n
		} else {
			logger.Warn("context build: active code count failed", "error", err)
		}
		if n, err := b.codes.TotalCount(ctx); err == nil {
			stats.TotalCodes = n
		}
		if n, err := b.codes.TotalRedemptions(ctx); err == nil {
			stats.TotalRedemptions = n
		}
		if codes, err := b.codes.Recent(ctx, recentLimit); err == nil {
			recentCodes = codes
		}
	}

	if b.videos != nil {
		if n, err := b.videos.ActiveCount(ctx); err == nil {
			stats.ProtectedVideos = n
		}
		if videos, err := b.videos.Recent(ctx, recentLimit); err == nil {
			protectedVideos = videos
		}
	}

	if b.sessions != nil {
		if n, err := b.sessions.ActiveCount(ctx); err == nil {
			stats.ActiveSessions = n
		}
	}

	if b.events != nil {
		if events, err := b.events.RecentErrors(ctx, recentLimit); err == nil {
			for _, event := range events {
				recentErrors = append(recentErrors, b.toErrorEntry(event))
			}
		} else {
			logger.Warn("context build: recent errors query failed", "error", err)
		}
	}

	files := map[string][]string{}
	if b.scanner != nil {
		files = b.scanner.Scan()
	}

	return &models.AdminContext{
		Role: "admin",
		User: user,
		Site: models.SiteInfo{
			URL:             b.cfg.SiteURL,
			Name:            b.cfg.SiteName,
			PlatformVersion: b.cfg.PlatformVersion,
			RuntimeVersion:  runtime.Version(),
		},
		Plugin: models.PluginInfo{
			Version:            b.cfg.AssistantVersion,
			ActiveIntegrations: b.integrations(),
			FileStructure:      files,
			Stats:              stats,
		},
		Database: models.DatabaseInfo{
			Tables: b.tables(),
			Prefix: b.cfg.TablePrefix,
		},
		RecentActivity: models.RecentActivity{
			Errors:          recentErrors,
			RecentCodes:     recentCodes,
			ProtectedVideos: protectedVideos,
		},
	}
}

// integrations reports feature availability as an explicit capability map,
// populated once per build.
func (b *ContextBuilder) integrations() map[string]bool {
	return map[string]bool{
		"presto_player": b.cfg.PrestoPlayerActive,
		"analytics":     b.events != nil,
		"gateway":       b.cfg.GatewayAPIKey != "",
	}
}

// tables names the host collections backing each data source; an unwired
// source keeps its key with an empty name so the prompt can show what is
// missing.
func (b *ContextBuilder) tables() map[string]string {
	tables := map[string]string{
		"giftcodes":        "",
		"sessions":         "",
		"protected_videos": "",
		"analytics":        "",
	}
	if b.codes != nil {
		tables["giftcodes"] = b.cfg.TablePrefix + "giftcodes"
	}
	if b.sessions != nil {
		tables["sessions"] = b.cfg.TablePrefix + "sessions"
	}
	if b.videos != nil {
		tables["protected_videos"] = b.cfg.TablePrefix + "protected_videos"
	}
	if b.events != nil {
		tables["analytics"] = b.cfg.TablePrefix + "analytics"
	}
	return tables
}

func (b *ContextBuilder) toErrorEntry(event models.AnalyticsEvent) models.ErrorEntry {
	details := map[string]interface{}{}
	if event.Metadata != "" {
		// Malformed metadata degrades to an empty map; the row survives
		if err := json.Unmarshal([]byte(event.Metadata), &details); err != nil {
			details = map[string]interface{}{}
		}
	}

	eventType := event.EventType
	if eventType == "" {
		eventType = "unknown"
	}

	return models.ErrorEntry{
		Time:    relativeTime(event.CreatedAt, b.now()),
		Type:    eventType,
		Details: details,
	}
}

// relativeTime renders "N units ago" for prompt display
func relativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	if diff < 0 {
		diff = 0
	}

	switch {
	case diff < time.Minute:
		return "moments ago"
	case diff < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(diff.Hours()))
	default:
		return fmt.Sprintf("%d days ago", int(diff.Hours()/24))
	}
}
