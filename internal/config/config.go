// Package config resolves the engine's definition-file locations and
// runtime options from three layered sources, lowest precedence first: an
// optional ppjc.toml project file, environment variables, then CLI flags.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	envLexerDefPath     = "LEXER_DEFINITION_PATH"
	envParserDefPath    = "PARSER_DEFINITION_PATH"
	envSemanticsDefPath = "SEMANTICS_DEFINITION_PATH"

	defaultProjectFile    = "ppjc.toml"
	defaultLexerDefPath     = "config/lexer.def"
	defaultParserDefPath    = "config/grammar.def"
	defaultSemanticsDefPath = "config/semantics.def"
	defaultCacheDir         = ".ppjc-cache"
	defaultOutputDir        = "compiler-bin"
)

// fileConfig is the shape of an optional ppjc.toml project file. Every
// field is optional; zero values fall through to built-in defaults.
type fileConfig struct {
	LexerDefinitionPath     string `toml:"lexer_definition_path"`
	ParserDefinitionPath    string `toml:"parser_definition_path"`
	SemanticsDefinitionPath string `toml:"semantics_definition_path"`
	CacheDir                string `toml:"cache_dir"`
	OutputDir               string `toml:"output_dir"`
	Trace                   bool   `toml:"trace"`
}

// Config is the fully-resolved set of paths and options the CLI verbs run
// against.
type Config struct {
	LexerDefinitionPath     string
	ParserDefinitionPath    string
	SemanticsDefinitionPath string
	CacheDir                string
	OutputDir               string
	Trace                   bool
}

// Defaults returns the built-in configuration, before any project file,
// environment variable, or flag is applied.
func Defaults() Config {
	return Config{
		LexerDefinitionPath:     defaultLexerDefPath,
		ParserDefinitionPath:    defaultParserDefPath,
		SemanticsDefinitionPath: defaultSemanticsDefPath,
		CacheDir:                defaultCacheDir,
		OutputDir:               defaultOutputDir,
	}
}

// Load resolves Config starting from Defaults, then layering in
// projectRoot/ppjc.toml if present, then environment variables. CLI flags
// are applied afterward by the caller via ApplyFlagOverrides, since cobra
// only knows which flags were explicitly set at the call site.
func Load(projectRoot string) (Config, error) {
	cfg := Defaults()

	tomlPath := filepath.Join(projectRoot, defaultProjectFile)
	if data, err := os.ReadFile(tomlPath); err == nil {
		var fc fileConfig
		if _, err := toml.Decode(string(data), &fc); err != nil {
			return Config{}, err
		}
		applyFileConfig(&cfg, fc, projectRoot)
	} else if !os.IsNotExist(err) {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	return cfg, nil
}

func applyFileConfig(cfg *Config, fc fileConfig, projectRoot string) {
	if fc.LexerDefinitionPath != "" {
		cfg.LexerDefinitionPath = resolveRelative(projectRoot, fc.LexerDefinitionPath)
	}
	if fc.ParserDefinitionPath != "" {
		cfg.ParserDefinitionPath = resolveRelative(projectRoot, fc.ParserDefinitionPath)
	}
	if fc.SemanticsDefinitionPath != "" {
		cfg.SemanticsDefinitionPath = resolveRelative(projectRoot, fc.SemanticsDefinitionPath)
	}
	if fc.CacheDir != "" {
		cfg.CacheDir = resolveRelative(projectRoot, fc.CacheDir)
	}
	if fc.OutputDir != "" {
		cfg.OutputDir = resolveRelative(projectRoot, fc.OutputDir)
	}
	cfg.Trace = cfg.Trace || fc.Trace
}

func resolveRelative(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(envLexerDefPath); v != "" {
		cfg.LexerDefinitionPath = v
	}
	if v := os.Getenv(envParserDefPath); v != "" {
		cfg.ParserDefinitionPath = v
	}
	if v := os.Getenv(envSemanticsDefPath); v != "" {
		cfg.SemanticsDefinitionPath = v
	}
}

// FlagOverrides carries the subset of Config a cobra command may override
// via flags; a zero-value field means "not set, keep what Load produced".
type FlagOverrides struct {
	LexerDefinitionPath     string
	ParserDefinitionPath    string
	SemanticsDefinitionPath string
	CacheDir                string
	OutputDir               string
	TraceSet                bool
	Trace                   bool
}

// ApplyFlagOverrides layers explicitly-set CLI flags on top of cfg,
// flags taking precedence over both the project file and environment.
func ApplyFlagOverrides(cfg Config, o FlagOverrides) Config {
	if o.LexerDefinitionPath != "" {
		cfg.LexerDefinitionPath = o.LexerDefinitionPath
	}
	if o.ParserDefinitionPath != "" {
		cfg.ParserDefinitionPath = o.ParserDefinitionPath
	}
	if o.SemanticsDefinitionPath != "" {
		cfg.SemanticsDefinitionPath = o.SemanticsDefinitionPath
	}
	if o.CacheDir != "" {
		cfg.CacheDir = o.CacheDir
	}
	if o.OutputDir != "" {
		cfg.OutputDir = o.OutputDir
	}
	if o.TraceSet {
		cfg.Trace = o.Trace
	}
	return cfg
}
