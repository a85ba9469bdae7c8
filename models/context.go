package models

// AdminContext is the operational snapshot handed to the prompt composer and
// returned verbatim by the context endpoint. It is built fresh per request
// and never mutated afterwards.
type AdminContext struct {
	Role           string         `json:"role"`
	User           UserInfo       `json:"user"`
	Site           SiteInfo       `json:"site"`
	Plugin         PluginInfo     `json:"plugin"`
	Database       DatabaseInfo   `json:"database"`
	RecentActivity RecentActivity `json:"recent_activity"`
}

type UserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type SiteInfo struct {
	URL             string `json:"url"`
	Name            string `json:"name"`
	PlatformVersion string `json:"platform_version"`
	RuntimeVersion  string `json:"runtime_version"`
}

type PluginInfo struct {
	Version            string              `json:"version"`
	ActiveIntegrations map[string]bool     `json:"active_integrations"`
	FileStructure      map[string][]string `json:"file_structure"`
	Stats              Stats               `json:"stats"`
}

// Stats holds the live counters surfaced in the system prompt. All values
// default to zero when the backing collection is absent.
type Stats struct {
	ActiveCodes      int64 `json:"active_codes"`
	TotalCodes       int64 `json:"total_codes"`
	ProtectedVideos  int64 `json:"protected_videos"`
	ActiveSessions   int64 `json:"active_sessions"`
	TotalRedemptions int64 `json:"total_redemptions"`
}

type DatabaseInfo struct {
	Tables map[string]string `json:"tables"`
	Prefix string            `json:"prefix"`
}

type RecentActivity struct {
	Errors          []ErrorEntry     `json:"errors"`
	RecentCodes     []GiftCode       `json:"recent_codes"`
	ProtectedVideos []ProtectedVideo `json:"protected_videos"`
}

// ErrorEntry is a single row from the analytics error log, shaped for the
// prompt. Details come from the row's metadata JSON blob; a malformed blob
// yields an empty map rather than dropping the row.
type ErrorEntry struct {
	Time    string                 `json:"time"`
	Type    string                 `json:"type"`
	Details map[string]interface{} `json:"details"`
}
