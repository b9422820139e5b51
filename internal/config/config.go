package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/stahnma/gh-repofeed/internal/github"
)

// DefaultCacheFile is where the rate-limit snapshot is persisted between runs.
const DefaultCacheFile = "/tmp/gh-repofeed-cache.gob"

// DefaultRateLimit is GitHub's unauthenticated search budget per minute.
const DefaultRateLimit = 10

// Config holds application configuration loaded from environment variables
// and an optional config file.
type Config struct {
	Domain    github.Domain
	RateLimit int
	PageSize  int
	Sort      github.Sort
	Order     github.Order
	Language  string

	// ExportPages is how many pages export loads when not told otherwise.
	ExportPages int

	SlackMode bool
	DebugMode bool
	CacheFile string
	NoCache   bool

	S3Bucket    string
	S3ObjectKey string
	AWSRegion   string
}

// settings maps config file keys to the environment variables that override them.
var settings = map[string]string{
	"api_url":        "GITHUB_API_URL",
	"rate_limit":     "REPOFEED_RATE_LIMIT",
	"page_size":      "REPOFEED_PAGE_SIZE",
	"sort":           "REPOFEED_SORT",
	"order":          "REPOFEED_ORDER",
	"language":       "REPOFEED_LANGUAGE",
	"export_pages":   "REPOFEED_EXPORT_PAGES",
	"cache_file":     "REPOFEED_CACHE_FILE",
	"debug":          "DEBUG",
	"slack_mode":     "SLACK_MODE",
	"s3_bucket_name": "S3_BUCKET_NAME",
	"s3_object_key":  "S3_OBJECT_KEY",
	"aws_region":     "AWS_REGION",
}

// FromEnvironment creates a Config from environment variables only.
func FromEnvironment() (Config, error) {
	return Load("")
}

// Load reads the YAML file at path, when path is not empty, and applies
// environment overrides on top.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("api_url", github.DefaultScheme+"://"+github.DefaultHost)
	v.SetDefault("rate_limit", DefaultRateLimit)
	v.SetDefault("page_size", github.DefaultPageSize)
	v.SetDefault("sort", string(github.SortStars))
	v.SetDefault("order", string(github.OrderDescending))
	v.SetDefault("language", github.DefaultLanguage)
	v.SetDefault("export_pages", 1)
	v.SetDefault("cache_file", DefaultCacheFile)
	for key, env := range settings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	domain, err := github.ParseDomain(v.GetString("api_url"))
	if err != nil {
		return Config{}, NewValidationError("api_url", err.Error())
	}

	rateLimit := v.GetInt("rate_limit")
	if rateLimit < 1 {
		return Config{}, NewValidationError("rate_limit", "must be at least 1")
	}
	pageSize := v.GetInt("page_size")
	if pageSize < 1 || pageSize > github.MaxPageSize {
		return Config{}, NewValidationError("page_size", fmt.Sprintf("must be between 1 and %d", github.MaxPageSize))
	}
	sort, err := github.ParseSort(v.GetString("sort"))
	if err != nil {
		return Config{}, NewValidationError("sort", err.Error())
	}
	order, err := github.ParseOrder(v.GetString("order"))
	if err != nil {
		return Config{}, NewValidationError("order", err.Error())
	}
	language := strings.TrimSpace(v.GetString("language"))
	if language == "" {
		return Config{}, NewValidationError("language", "must not be empty")
	}

	exportPages := v.GetInt("export_pages")
	if exportPages < 1 {
		return Config{}, NewValidationError("export_pages", "must be at least 1")
	}

	return Config{
		Domain:      domain,
		RateLimit:   rateLimit,
		PageSize:    pageSize,
		Sort:        sort,
		Order:       order,
		Language:    language,
		ExportPages: exportPages,
		SlackMode:   truthy(v.GetString("slack_mode")),
		DebugMode:   truthy(v.GetString("debug")),
		CacheFile:   v.GetString("cache_file"),
		S3Bucket:    v.GetString("s3_bucket_name"),
		S3ObjectKey: v.GetString("s3_object_key"),
		AWSRegion:   v.GetString("aws_region"),
	}, nil
}

// truthy treats anything but "", "0" and "false" (any case) as true.
func truthy(s string) bool {
	return s != "" && s != "0" && strings.ToLower(s) != "false"
}
