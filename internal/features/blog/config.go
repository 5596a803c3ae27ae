package blog

import (
	"net/url"
	"time"

	"inspire-bytes/internal/core"
)

// Config represents blog feature configuration
type Config struct {
	Enabled     bool
	ArticlesURL string
	Location    *time.Location
	DateLayout  string
}

// NewConfig creates blog config from core config
func NewConfig(coreConfig *core.Config) (*Config, error) {
	blog := coreConfig.Features.Blog

	loc, err := time.LoadLocation(blog.TimeZone)
	if err != nil {
		return nil, core.NewConfigurationError("invalid blog time zone "+blog.TimeZone, err)
	}

	return &Config{
		Enabled:     blog.Enabled,
		ArticlesURL: blog.ArticlesURL,
		Location:    loc,
		DateLayout:  blog.DateLayout,
	}, nil
}

// Remote reports whether articles come from another portal
func (c *Config) Remote() bool {
	return c.ArticlesURL != ""
}

// Validate validates the blog configuration
func (c *Config) Validate() error {
	if c.DateLayout == "" {
		return core.NewConfigurationError("blog date layout is required", nil)
	}

	if c.Remote() {
		u, err := url.Parse(c.ArticlesURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return core.NewConfigurationError("IB_ARTICLES_URL must be an absolute http(s) URL", err)
		}
	}

	return nil
}
