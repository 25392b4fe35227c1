package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"exifsidecar/internal/domain"
)

const (
	KeySupportedFormats = "supported_formats"
	KeyVerbose          = "verbose"
	KeyTUI              = "tui"
	KeyLogFile          = "log_file"

	envPrefix  = "EXIFSIDECAR"
	configName = ".exifsidecar"
)

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"formats":  KeySupportedFormats,
	"verbose":  KeyVerbose,
	"tui":      KeyTUI,
	"log-file": KeyLogFile,
}

type Config struct {
	SupportedFormats domain.FormatSet
	Verbose          bool
	TUI              bool
	LogFile          string
	ConfigFileUsed   string
}

type Options struct {
	// ConfigFile is an explicit config path. When empty, .exifsidecar.* is
	// looked up in the home directory and the working directory.
	ConfigFile string
	// EnvFile is loaded before reading the environment. When empty, ./.env
	// is loaded if present.
	EnvFile string
	Flags   *pflag.FlagSet
	FS      afero.Fs
}

// Load resolves configuration from defaults, config file, environment and
// flags, in increasing order of precedence.
func Load(opts Options) (Config, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return Config{}, err
	}

	v := viper.New()
	if opts.FS != nil {
		v.SetFs(opts.FS)
	}
	v.SetDefault(KeySupportedFormats, domain.DefaultFormats)
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyTUI, false)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if opts.Flags != nil {
		for name, key := range flagKeys {
			flag := opts.Flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return Config{}, err
			}
		}
	}

	if err := readConfigFile(v, opts.ConfigFile); err != nil {
		return Config{}, err
	}

	formats, err := ParseFormats(v.GetStringSlice(KeySupportedFormats))
	if err != nil {
		return Config{}, err
	}

	return Config{
		SupportedFormats: formats,
		Verbose:          v.GetBool(KeyVerbose),
		TUI:              v.GetBool(KeyTUI),
		LogFile:          strings.TrimSpace(v.GetString(KeyLogFile)),
		ConfigFileUsed:   v.ConfigFileUsed(),
	}, nil
}

func loadEnvFile(path string) error {
	if path != "" {
		return godotenv.Load(path)
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		return v.ReadInConfig()
	}

	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")
	v.SetConfigName(configName)

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return err
	}
	return nil
}

// ParseFormats normalizes extensions to lowercase. Entries may themselves be
// comma separated, as they are when read from the environment.
func ParseFormats(raw []string) (domain.FormatSet, error) {
	var exts []string
	for _, item := range raw {
		for _, ext := range strings.Split(item, ",") {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") || len(ext) < 2 || strings.Count(ext, ".") != 1 || strings.ContainsAny(ext, `/\ `) {
				return nil, fmt.Errorf("invalid extension %q in %s, use the form .jpg", ext, KeySupportedFormats)
			}
			exts = append(exts, ext)
		}
	}
	if len(exts) == 0 {
		return nil, fmt.Errorf("%s must list at least one extension", KeySupportedFormats)
	}
	return domain.NewFormatSet(exts...), nil
}
