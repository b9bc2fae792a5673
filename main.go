package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/milk9111/kartcam/levels"
	"github.com/milk9111/kartcam/obj"
)

const envPrefix = "KARTCAM"

type runConfig struct {
	cfgFile string
	players int
	track   string
	mode    string
	watch   bool
	verbose bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := &runConfig{}
	root := &cobra.Command{
		Use:          "kartcam",
		Short:        "Split-screen kart chase camera demo",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, cfg.cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfg)
		},
	}

	f := root.Flags()
	f.StringVar(&cfg.cfgFile, "config", "", "config file (default is ./.kartcam.yaml or $HOME/.kartcam.yaml)")
	f.IntVarP(&cfg.players, "players", "n", 2, "number of players (1-4)")
	f.StringVarP(&cfg.track, "track", "t", "oval", fmt.Sprintf("track name %v", levels.Names()))
	f.StringVarP(&cfg.mode, "mode", "m", "", "initial camera mode (default from prefabs/camera.yaml)")
	f.BoolVarP(&cfg.watch, "watch", "w", false, "hot reload prefabs from disk")
	f.BoolVarP(&cfg.verbose, "verbose", "v", false, "enable verbose logging")
	return root
}

// initConfig reads the config file and KARTCAM_* env vars into unset flags.
func initConfig(cmd *cobra.Command, cfgFile string) error {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigType("yaml")
		v.SetConfigName(".kartcam")
	}
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("config: read: %w", err)
		}
	}
	return bindFlags(cmd, v)
}

// bindFlags applies viper values to every flag the user did not set.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var firstErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if strings.Contains(f.Name, "-") {
			suffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name, fmt.Sprintf("%s_%s", envPrefix, suffix)); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("config: bind env %s: %w", f.Name, err)
			}
		}
		if !f.Changed && v.IsSet(f.Name) {
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name))); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("config: flag %s: %w", f.Name, err)
			}
		}
	})
	return firstErr
}

func newLogger(verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          "kartcam",
	})
}

func (c *runConfig) validate() error {
	if c.players < 1 || c.players > obj.MaxPlayers {
		return fmt.Errorf("config: players must be 1-%d, got %d", obj.MaxPlayers, c.players)
	}
	if c.mode != "" {
		if _, err := obj.ParseMode(c.mode); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}

func run(cfg *runConfig) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	logger := newLogger(cfg.verbose)

	game, err := NewGame(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "err", err)
		return err
	}
	defer game.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("kartcam")

	if err := ebiten.RunGame(game); err != nil {
		logger.Error("game exited", "err", err)
		return err
	}
	return nil
}
