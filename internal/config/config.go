// Package config loads glabtree configuration from an optional yaml file
// with environment variable overrides. Environment variables take
// precedence over file values; command-line flags are bound on top by the
// CLI layer.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultOutputPath is where the session transcript is written.
const DefaultOutputPath = "my_gitlab_tasks.txt"

// Config holds every setting the tool consumes.
type Config struct {
	// BaseURL is the GitLab instance URL, e.g. "https://gitlab.example.com".
	BaseURL string `yaml:"url"`
	// Token is the private token used for both REST and GraphQL calls.
	Token string `yaml:"token"`
	// ProjectID is the numeric project id (or full path) for REST calls.
	ProjectID string `yaml:"project-id"`
	// ProjectFullPath is the namespaced path for GraphQL queries.
	ProjectFullPath string `yaml:"project-full-path"`
	// Username scopes listings to one assignee.
	Username string `yaml:"username"`
	// OutputPath is the transcript file location.
	OutputPath string `yaml:"output"`
	// InsecureSkipVerify disables TLS certificate verification. Off by
	// default; enable only for instances with broken certificates.
	InsecureSkipVerify bool `yaml:"insecure-skip-verify"`
	// PageSize bounds every paginated request.
	PageSize int `yaml:"page-size"`
	// Parallel bounds concurrent link fetches; <=1 means sequential.
	Parallel int `yaml:"parallel"`
}

// Load reads the config file at path (missing file is not an error) and
// applies environment overrides. A malformed file is fatal.
func Load(path string) (*Config, error) {
	cfg := &Config{
		OutputPath: DefaultOutputPath,
		PageSize:   100,
	}

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 - path comes from the --config flag
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if cfg.OutputPath == "" {
		cfg.OutputPath = DefaultOutputPath
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	return cfg, nil
}

// applyEnv overrides file values from the environment.
//
// GITLAB_TOKEN is preferred; PRIVATE_TOKEN is accepted for compatibility
// with older setups.
func (c *Config) applyEnv() {
	if v := os.Getenv("GITLAB_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("GITLAB_TOKEN"); v != "" {
		c.Token = v
	} else if v := os.Getenv("PRIVATE_TOKEN"); v != "" {
		c.Token = v
	}
	if v := os.Getenv("GITLAB_PROJECT_ID"); v != "" {
		c.ProjectID = v
	}
	if v := os.Getenv("GITLAB_PROJECT_FULL_PATH"); v != "" {
		c.ProjectFullPath = v
	}
	if v := os.Getenv("GITLAB_USERNAME"); v != "" {
		c.Username = v
	}
	if v := os.Getenv("GLABTREE_INSECURE_SKIP_VERIFY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.InsecureSkipVerify = b
		}
	}
}

// Validate checks the settings a command needs. needRESTProject requires
// the numeric project id; needGraphQLProject requires the full path.
func (c *Config) Validate(needRESTProject, needGraphQLProject bool) error {
	if c.BaseURL == "" {
		return fmt.Errorf("GitLab URL not configured (set GITLAB_URL or url in the config file)")
	}
	if c.Token == "" {
		return fmt.Errorf("GitLab token not configured (set GITLAB_TOKEN or token in the config file)")
	}
	if needRESTProject && c.ProjectID == "" {
		return fmt.Errorf("project id not configured (set GITLAB_PROJECT_ID or project-id in the config file)")
	}
	if needGraphQLProject && c.ProjectFullPath == "" {
		return fmt.Errorf("project full path not configured (set GITLAB_PROJECT_FULL_PATH or project-full-path in the config file)")
	}
	return nil
}
