package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"sdv/common"
	"sdv/keyboard"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	DocumentConfig struct {
		SlideExtensions  []string `yaml:"slide_extensions" validate:"min=1,dive,required,startswith=."`
		ZipNamesEncoding string   `yaml:"zip_names_encoding,omitempty"`
		NumberingStep    int      `yaml:"numbering_step" validate:"min=1"`
		NumberingDigits  int      `yaml:"numbering_digits" validate:"min=1,max=10"`
	}

	ExportConfig struct {
		NameTemplate string           `yaml:"name_template" validate:"required"`
		Format       common.ExportFmt `yaml:"format" validate:"gte=0"`
		Overwrite    bool             `yaml:"overwrite"`
	}

	// KeyboardConfig maps navigation action names to the key lists which
	// trigger them. Actions absent from the file keep their built-in keys.
	KeyboardConfig map[string][]string

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Document  DocumentConfig `yaml:"document"`
		Export    ExportConfig   `yaml:"export"`
		Keyboard  KeyboardConfig `yaml:"keyboard" validate:"dive,keys,oneof=nextStep previousStep nextSlide previousSlide start end blank,endkeys,min=1,dive,required"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"debug"`
	}
)

const (
	// NOTE: must match yaml field name above, alternative is to use struct
	// field name and reflection which I want to avoid for now
	ExportNameTemplateFieldName TemplateFieldName = "name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(ExportNameTemplateFieldName)),
)

// Shortcuts converts the configured table to the ordered form the keyboard
// package serves, overlaying built-in bindings with the configured key lists.
func (k KeyboardConfig) Shortcuts() (keyboard.Shortcuts, error) {
	table := keyboard.Defaults()
	for name, keys := range k {
		action, err := common.ParseAction(name)
		if err != nil {
			return nil, fmt.Errorf("bad keyboard binding: %w", err)
		}
		for i := range table {
			if table[i].Action == action {
				table[i].Keys = append([]string{}, keys...)
				break
			}
		}
	}
	return table, nil
}

// checkTemplates makes sure fields excluded from gencfg expansion still carry
// parsable template syntax, otherwise a typo would only surface during export.
func checkTemplates(cfg *Config) error {
	for name, text := range map[TemplateFieldName]string{
		ExportNameTemplateFieldName: cfg.Export.NameTemplate,
	} {
		if _, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(text); err != nil {
			return fmt.Errorf("bad template in field %q: %w", name, err)
		}
	}
	return nil
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
		if err := checkTemplates(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration tamplate to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
