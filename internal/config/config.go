package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// KeywordsConfig holds the ordered classification keyword lists. An event
// description is matched against these lists in struct order (exam first,
// holiday last); the first list containing a matching term decides the
// category.
type KeywordsConfig struct {
	Exam        []string `yaml:"exam" json:"exam"`
	Trip        []string `yaml:"trip" json:"trip"`
	Celebration []string `yaml:"celebration" json:"celebration"`
	Holiday     []string `yaml:"holiday" json:"holiday"`
}

// BackupConfig controls periodic CSV snapshots of the schedule data.
type BackupConfig struct {
	// Cron is a cron-style schedule string (e.g. "0 * * * *").
	Cron string `yaml:"cron" json:"cron"`
	// Dir is the directory snapshot files are written into.
	Dir string `yaml:"dir" json:"dir"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the Web UI/API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the Web UI and API.
	Listen string `yaml:"listen" json:"listen"`

	// Database is the SQLite file backing the schedule store.
	Database string `yaml:"database" json:"database"`

	// SemesterStart seeds the term start date on a fresh database
	// ("2006-01-02"). Once the store exists its own value wins.
	SemesterStart string `yaml:"semester_start" json:"semester_start"`

	// TitleYear / TitleSemester seed the printable title fields on a fresh
	// database (ROC school year 100-999, semester 1 or 2).
	TitleYear     int `yaml:"title_year" json:"title_year"`
	TitleSemester int `yaml:"title_semester" json:"title_semester"`

	// Keywords are the event classification terms.
	Keywords KeywordsConfig `yaml:"keywords" json:"keywords"`

	// Backup, if non-nil, enables scheduled CSV snapshots.
	Backup *BackupConfig `yaml:"backup,omitempty" json:"backup,omitempty"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

func defaultKeywords() KeywordsConfig {
	return KeywordsConfig{
		Exam:        []string{"段考"},
		Trip:        []string{"校外教學"},
		Celebration: []string{"慶生會", "同樂會", "歡送會"},
		Holiday:     []string{"節日", "補假", "放假"},
	}
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:        "127.0.0.1:8080",
		Database:      "termcal.db",
		SemesterStart: "2025-08-31",
		TitleYear:     114,
		TitleSemester: 1,
		Keywords:      defaultKeywords(),
		Backup:        nil,
		BasicAuth:     nil,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.Database == "" {
		c.Database = "termcal.db"
	}
	if c.SemesterStart == "" {
		c.SemesterStart = "2025-08-31"
	}
	if c.TitleYear < 100 {
		c.TitleYear = 100
	} else if c.TitleYear > 999 {
		c.TitleYear = 999
	}
	if c.TitleSemester < 1 || c.TitleSemester > 2 {
		c.TitleSemester = 1
	}

	// An empty keyword list would silently disable a whole category, which
	// is never what a partial config means; backfill per list.
	def := defaultKeywords()
	if len(c.Keywords.Exam) == 0 {
		c.Keywords.Exam = def.Exam
	}
	if len(c.Keywords.Trip) == 0 {
		c.Keywords.Trip = def.Trip
	}
	if len(c.Keywords.Celebration) == 0 {
		c.Keywords.Celebration = def.Celebration
	}
	if len(c.Keywords.Holiday) == 0 {
		c.Keywords.Holiday = def.Holiday
	}

	if c.Backup != nil {
		if c.Backup.Cron == "" {
			c.Backup.Cron = "0 * * * *"
		}
		if c.Backup.Dir == "" {
			c.Backup.Dir = "./backups"
		}
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// Atomic write: write to temp file in same directory then rename.
	tmp, err := os.CreateTemp(dir, ".termcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	// Flush and close before chmod/rename.
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	return nil
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
