package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/argo-crossover/internal/catalog"
	"github.com/rxtech-lab/argo-crossover/internal/datasource"
	"github.com/rxtech-lab/argo-crossover/internal/indicator"
	"github.com/rxtech-lab/argo-crossover/internal/version"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = "crossover.yaml"

// SchemaFileName is the file name the JSON schema is published under.
const SchemaFileName = "crossover-config.json"

type LogConfig struct {
	Level string `yaml:"level" json:"level" jsonschema:"title=Log Level,description=Minimum level written to the log,enum=debug,enum=info,enum=warn,enum=error" validate:"oneof=debug info warn error"`
	// OutputPaths are zap sink URLs such as stdout or a file path. Empty disables logging.
	OutputPaths []string `yaml:"output_paths" json:"output_paths" jsonschema:"title=Log Outputs,description=Where log lines are written (stdout/stderr/file paths)"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr" jsonschema:"title=Address,description=Listen address of the HTTP dashboard" validate:"required,hostname_port"`
}

type ChartConfig struct {
	Width  int `yaml:"width" json:"width" jsonschema:"title=Chart Width,description=Terminal chart width in columns,minimum=20" validate:"min=20"`
	Height int `yaml:"height" json:"height" jsonschema:"title=Chart Height,description=Terminal chart height in rows,minimum=5" validate:"min=5"`
}

// Config is the application configuration. The zero value is not usable; start from Default.
type Config struct {
	// Version is the crossover release that wrote the file. Empty skips the compatibility check.
	Version     string                `yaml:"version,omitempty" json:"version,omitempty" jsonschema:"title=Version,description=Crossover release that wrote this file"`
	DataDir     string                `yaml:"data_dir" json:"data_dir" jsonschema:"title=Data Directory,description=Directory holding one price file per stock" validate:"required"`
	Pattern     string                `yaml:"pattern" json:"pattern" jsonschema:"title=File Pattern,description=Glob selecting the stock files inside the data directory" validate:"required"`
	ShortWindow int                   `yaml:"short_window" json:"short_window" jsonschema:"title=Short Window,description=Short moving average window in trading days,minimum=1" validate:"gt=0,ltfield=LongWindow"`
	LongWindow  int                   `yaml:"long_window" json:"long_window" jsonschema:"title=Long Window,description=Long moving average window in trading days,minimum=2" validate:"gt=1"`
	Loader      datasource.LoaderType `yaml:"loader" json:"loader" jsonschema:"title=Loader,description=Price file reader,enum=csv,enum=duckdb" validate:"oneof=csv duckdb"`
	Log         LogConfig             `yaml:"log" json:"log"`
	Server      ServerConfig          `yaml:"server" json:"server"`
	Chart       ChartConfig           `yaml:"chart" json:"chart"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		DataDir:     "ndx100/ndx100",
		Pattern:     catalog.DefaultPattern,
		ShortWindow: indicator.DefaultShortWindow,
		LongWindow:  indicator.DefaultLongWindow,
		Loader:      datasource.LoaderCSV,
		Log: LogConfig{
			Level:       "info",
			OutputPaths: []string{"stderr"},
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		Chart: ChartConfig{
			Width:  100,
			Height: 24,
		},
	}
}

// Load reads a YAML file on top of the defaults. Keys missing from the file keep their
// default. A missing file is an error only when required is set.
func Load(path string, required bool) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return config, nil
		}

		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config %s", path)
	}

	if config.Version != "" {
		if err := version.CheckConfigCompatibility(version.GetVersion(), config.Version); err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "config %s is not compatible", path)
		}
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Validate checks field ranges and cross-field rules.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config: "+describe(err), err)
	}

	return nil
}

// describe flattens validator errors into "field: rule" pairs.
func describe(err error) string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		parts = append(parts, fe.Namespace()+" failed "+fe.Tag())
	}

	return strings.Join(parts, ", ")
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// GenerateSchema generates a JSON schema for Config.
func (c *Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
	}

	schema := reflector.Reflect(c)

	schema.Title = "crossover-config"
	schema.Description = "Configuration schema for the moving average crossover dashboard"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates the JSON schema as an indented string.
func (c *Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// SampleFileName is the sample config written next to the schema.
const SampleFileName = "crossover.sample.yaml"

// WriteSchemaFiles writes the JSON schema into dir and, unless it already exists, a sample
// config that points editors at the schema. It returns the paths of both files.
func WriteSchemaFiles(dir string) (string, string, error) {
	config := Default()
	config.Version = version.GetVersion()

	schemaJSON, err := config.GenerateSchemaJSON()
	if err != nil {
		return "", "", errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to generate schema", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to create %s", dir)
	}

	schemaPath := filepath.Join(dir, SchemaFileName)
	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0o644); err != nil {
		return "", "", errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to write %s", schemaPath)
	}

	samplePath := filepath.Join(dir, SampleFileName)
	if _, err := os.Stat(samplePath); os.IsNotExist(err) {
		yamlBytes, err := config.Marshal()
		if err != nil {
			return "", "", errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to marshal sample config", err)
		}

		yamlBytes = append([]byte("# yaml-language-server: $schema="+SchemaFileName+"\n"), yamlBytes...)

		if err := os.WriteFile(samplePath, yamlBytes, 0o644); err != nil {
			return "", "", errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to write %s", samplePath)
		}
	}

	return schemaPath, samplePath, nil
}
