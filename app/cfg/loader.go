package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

const DefaultSummary = "[[Wikipedia:Bots/Requests for approval/APersonBot 7|Bot]] merging redundant talk page banners into [[Template:Article history]]."

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Wiki configuration
	APIURL         string `long:"api-url" env:"API_URL" default:"https://en.wikipedia.org/w/api.php" description:"MediaWiki action API endpoint"`
	WikiURL        string `long:"wiki-url" env:"WIKI_URL" default:"https://en.wikipedia.org" description:"Base URL of the wiki, used for rendered pages"`
	Username       string `long:"username" env:"BOT_USERNAME" description:"Bot username (bot password login)"`
	Password       string `long:"password" env:"BOT_PASSWORD" description:"Bot password"`
	RequestTimeout int    `long:"request-timeout" env:"REQUEST_TIMEOUT" default:"30" description:"HTTP request timeout in seconds"`

	// Merge configuration
	TemplatesFile  string `long:"templates-file" env:"TEMPLATES_FILE" default:"./templates.yml" description:"YAML file listing template names and aliases"`
	DryRun         bool   `long:"dry-run" env:"DRY_RUN" description:"Compute merges without editing"`
	CreateIfAbsent bool   `long:"create" env:"CREATE_IF_ABSENT" description:"Add {{Article history}} to pages that lack one"`
	FindCloseDates bool   `long:"find-close-dates" env:"FIND_CLOSE_DATES" description:"Look up missing XfD dates on the discussion page"`
	EditLimit      int    `long:"limit" env:"EDIT_LIMIT" default:"0" description:"Stop after this many edits (0 for no limit)"`
	Summary        string `long:"summary" env:"EDIT_SUMMARY" description:"Edit summary"`

	// Page selection
	FeedURL string `long:"feed-url" env:"FEED_URL" description:"Take pages from this RSS/Atom feed instead of the transclusion list"`

	// Application configuration
	DBPath            string `long:"db-path" env:"DB_PATH" default:"./article-history.db" description:"SQLite run ledger"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers"`
	MaxRetries        int    `long:"max-retries" env:"MAX_RETRIES" default:"3" description:"Retries for a page after a transient failure"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"30" description:"Scheduler interval in seconds"`
	Serve             bool   `long:"serve" env:"SERVE" description:"Run the HTTP API and keep running after the pages are processed"`
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"ArticleHistoryBot/1.0 (https://en.wikipedia.org/wiki/User:APersonBot)" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`

	Args struct {
		Titles []string `positional-arg-name:"TITLE" description:"Process only these pages"`
	} `positional-args:"yes"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	return LoadArgs(os.Args[1:])
}

// LoadArgs parses args and the environment. It returns nil, nil when help
// was requested.
func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		APIURL:            raw.APIURL,
		WikiURL:           raw.WikiURL,
		Username:          raw.Username,
		Password:          raw.Password,
		RequestTimeout:    raw.RequestTimeout,
		TemplatesFile:     raw.TemplatesFile,
		DryRun:            raw.DryRun,
		CreateIfAbsent:    raw.CreateIfAbsent,
		FindCloseDates:    raw.FindCloseDates,
		EditLimit:         raw.EditLimit,
		Summary:           cmp.Or(raw.Summary, DefaultSummary),
		FeedURL:           raw.FeedURL,
		Titles:            raw.Args.Titles,
		DBPath:            raw.DBPath,
		WorkerCount:       raw.WorkerCount,
		MaxRetries:        raw.MaxRetries,
		SchedulerInterval: raw.SchedulerInterval,
		Serve:             raw.Serve,
		Port:              raw.Port,
		APIAccessKey:      raw.APIAccessKey,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func validate(cfg *Cfg) error {
	if cfg.WorkerCount < 1 {
		return fmt.Errorf("worker count must be at least 1, got %d", cfg.WorkerCount)
	}
	if cfg.SchedulerInterval < 1 {
		return fmt.Errorf("scheduler interval must be at least 1 second, got %d", cfg.SchedulerInterval)
	}
	if cfg.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative, got %d", cfg.MaxRetries)
	}
	if cfg.EditLimit < 0 {
		return fmt.Errorf("edit limit cannot be negative, got %d", cfg.EditLimit)
	}
	if !cfg.DryRun && (cfg.Username == "" || cfg.Password == "") {
		return fmt.Errorf("bot username and password are required unless --dry-run is set")
	}
	return nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
