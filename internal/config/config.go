package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Config drives solver assembly: which backends to consult, in what
// order, and how large the resolution caches may grow.
type Config struct {
	Project struct {
		Root string `yaml:"root" json:"root,omitempty"`
	} `yaml:"project" json:"project"`
	Solvers struct {
		// Order lists backends by priority: "reflection", "source",
		// "index", "archive".
		Order       []string `yaml:"order" json:"order,omitempty"`
		SourceRoots []string `yaml:"source_roots" json:"source_roots,omitempty"`
		Archives    []string `yaml:"archives" json:"archives,omitempty"`
		IndexPath   string   `yaml:"index_path" json:"index_path,omitempty"`
	} `yaml:"solvers" json:"solvers"`
	Cache struct {
		Capacity int `yaml:"capacity" json:"capacity,omitempty"`
	} `yaml:"cache" json:"cache"`
}

const configSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"project": {
			"type": "object",
			"properties": {"root": {"type": "string"}}
		},
		"solvers": {
			"type": "object",
			"properties": {
				"order": {
					"type": "array",
					"items": {"enum": ["reflection", "source", "index", "archive"]}
				},
				"source_roots": {"type": "array", "items": {"type": "string"}},
				"archives": {"type": "array", "items": {"type": "string"}},
				"index_path": {"type": "string"}
			}
		},
		"cache": {
			"type": "object",
			"properties": {"capacity": {"type": "integer", "minimum": 0}}
		}
	}
}`

// Load reads the YAML config at path, validates it against the embedded
// schema and applies environment overrides. A missing .env file is fine.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)

	// Validate the effective config, after overrides and defaults: the
	// schema then sees filled-in lists instead of nulls, and env-supplied
	// values get checked too.
	if err := validateSchema(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	applyEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg
}

func applyEnv(cfg *Config) {
	if root := os.Getenv("JAVASYM_PROJECT_ROOT"); root != "" {
		cfg.Project.Root = root
	}
	if index := os.Getenv("JAVASYM_INDEX_PATH"); index != "" {
		cfg.Solvers.IndexPath = index
	}
	if capacity := os.Getenv("JAVASYM_CACHE_CAPACITY"); capacity != "" {
		if n, err := strconv.Atoi(capacity); err == nil {
			cfg.Cache.Capacity = n
		}
	}
	if order := os.Getenv("JAVASYM_SOLVER_ORDER"); order != "" {
		cfg.Solvers.Order = strings.Split(order, ",")
	}
}

func applyDefaults(cfg *Config) {
	if len(cfg.Solvers.Order) == 0 {
		cfg.Solvers.Order = []string{"reflection", "source"}
	}
	if cfg.Project.Root == "" {
		cfg.Project.Root = "."
	}
}

// validateSchema round-trips the config through JSON so the schema sees
// plain JSON values.
func validateSchema(cfg *Config) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("config.schema.json", strings.NewReader(configSchema)); err != nil {
		return err
	}
	schema, err := compiler.Compile("config.schema.json")
	if err != nil {
		return err
	}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	return schema.Validate(doc)
}
