package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestBindAndLoadPicksUpFlagDefaults(t *testing.T) {
	v := viper.New()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("workers", 4, "")
	flags.String("wordlist", "", "")
	require.NoError(t, v.BindPFlags(flags))

	c, err := BindAndLoad(v, "")
	require.NoError(t, err)
	require.Equal(t, 4, c.Workers)
}

func TestBindAndLoadReadsEnvironmentOverride(t *testing.T) {
	t.Setenv("FORGECRACK_WORKERS", "7")
	v := viper.New()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("workers", 4, "")
	require.NoError(t, v.BindPFlags(flags))

	c, err := BindAndLoad(v, "")
	require.NoError(t, err)
	require.Equal(t, 7, c.Workers)
}
