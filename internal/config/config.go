// Package config defines the Conf struct populated by viper from cobra
// flags, environment variables, or a config file, the same binding
// pattern go-i2p/newsgo uses: cobra commands register flags, viper
// binds them, and Unmarshal populates this struct once per invocation.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Conf holds every value the forgecrack CLI's commands read, whether it
// came from a flag, an environment variable (FORGECRACK_*), or a config
// file. mapstructure tags are only needed where the flag name doesn't
// match the lowercased field name.
type Conf struct {
	// LogLevel is one of logrus's level names ("debug", "info", "warn",
	// "error"); see internal/logging.ParseLevel.
	LogLevel string `mapstructure:"log-level"`
	// LogJSON switches the logger to JSON output for piping into a log
	// aggregator instead of an interactive terminal.
	LogJSON bool `mapstructure:"log-json"`

	// Workers is the default worker-pool size for a crack job; 0 means
	// runtime.NumCPU() at call time.
	Workers int `mapstructure:"workers"`

	// CommonListSize selects the bundled wordlist (10/100/1000); 0
	// disables the common-list candidate source.
	CommonListSize int `mapstructure:"common-list-size"`
	// Wordlist is a path to an analyst-supplied plain text wordlist.
	Wordlist string `mapstructure:"wordlist"`

	// Charset selects which brute-force character classes are enabled.
	UseLetters bool `mapstructure:"letters"`
	UseDigits  bool `mapstructure:"digits"`
	UseSpecial bool `mapstructure:"special"`
	UseAllSym  bool `mapstructure:"all-symbols"`
	MinLen     int  `mapstructure:"min-len"`
	MaxLen     int  `mapstructure:"max-len"`

	// AutoDecrypt, when true, has the orchestrator run the format's
	// best-effort decrypt hook once a password is confirmed.
	AutoDecrypt bool `mapstructure:"auto-decrypt"`
}

// BindAndLoad reads the config file and environment into v and
// unmarshals the result into a Conf. It does not bind flags itself: the
// commands bind their pflags to v (BindPFlags in their init), so flag
// values participate in the precedence chain (flag > env > file >
// default) the way newsgo's cmd/root.go wires cobra and viper together.
func BindAndLoad(v *viper.Viper, cfgFile string) (*Conf, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".forgecrack")
	}
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetEnvPrefix("forgecrack")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	c := &Conf{}
	if err := v.Unmarshal(c); err != nil {
		return nil, err
	}
	return c, nil
}
