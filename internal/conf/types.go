package conf

import (
	"google.golang.org/protobuf/types/known/durationpb"
)

// Bootstrap is the top-level configuration for the bot service.
type Bootstrap struct {
	Server   *Server
	Data     *Data
	Telegram *Telegram
	Naver    *Naver
	Dispatch *Dispatch
	Quota    *Quota
	Log      *Log
}

// Server holds transport configuration.
type Server struct {
	Http *Server_HTTP
}

// Server_HTTP configures the webhook HTTP listener.
type Server_HTTP struct {
	Network string
	Addr    string
	Timeout *durationpb.Duration
}

// Data holds data-layer configuration.
type Data struct {
	Redis    *Data_Redis
	Database *Data_Database
}

// Data_Redis configures the usage-counter store.
// Url takes precedence over Addr when set (Vercel KV style connection string).
type Data_Redis struct {
	Network      string
	Addr         string
	Url          string
	ReadTimeout  *durationpb.Duration
	WriteTimeout *durationpb.Duration
}

// Data_Database configures the optional extraction-history database.
// History recording is disabled when Source is empty.
type Data_Database struct {
	Driver string
	Source string
}

// Telegram configures the Bot API credentials and endpoint.
type Telegram struct {
	Token   string
	ApiBase string
}

// Naver configures the upstream listing endpoints and session credentials.
// BearerToken and CookieHeader are static session state supplied by the
// operator; refreshing them is a configuration reload, not pipeline logic.
// CookieHeader is the raw Cookie header value ("NNB=...; NAC=...") because
// cookie names are case-sensitive.
type Naver struct {
	BearerToken  string
	CookieHeader string
	ArticleBase  string
	AgencyBase   string
	PageCap      int32
	PageDelay    *durationpb.Duration
	Timeout      *durationpb.Duration
}

// Dispatch configures how extraction jobs are executed.
// Mode "inline" runs the pipeline in-process; "github" triggers a
// repository_dispatch workflow in Repo using Token.
type Dispatch struct {
	Mode      string
	Repo      string
	Token     string
	EventType string
}

// Quota configures per-user usage limits.
// AllowedChats, when non-empty, restricts the bot to the listed chat IDs.
// FailOpen controls the ledger-unavailable policy: true skips the quota check
// when Redis is unreachable, false rejects the request.
type Quota struct {
	DailyLimit   int64
	TotalLimit   int64
	FailOpen     bool
	AllowedChats []int64
}

// Log configures the Zap logger.
type Log struct {
	Level      string
	Format     string
	Env        string
	OutputFile string
}
