package main

import (
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"common-tools/codec"
	"common-tools/internal/mapping"
	"common-tools/logger"
)

type app struct {
	configPath string
	indent     string
	verbose    bool

	lggr logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{lggr: logger.Nop()}

	root := &cobra.Command{
		Use:          "common-tools",
		Short:        "JSON and XML conversion with the codec settings",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !a.verbose {
				return nil
			}

			lggr, err := logger.NewWith(func(cfg *zap.Config) {
				cfg.Level.SetLevel(zapcore.DebugLevel)
			})
			if err != nil {
				return err
			}
			a.lggr = lggr.Named("cli")
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "codec settings file (YAML)")
	root.PersistentFlags().StringVar(&a.indent, "indent", "", "indent output with the given string")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(
		a.newJSONCmd(),
		a.newXMLCmd(),
		a.newFromXMLCmd(),
		a.newProfileCmd(),
	)

	return root
}

// mapper builds the Mapper from --config, --indent and overrides.
func (a *app) mapper(override func(*codec.Config)) (*codec.Mapper, error) {
	cfg := codec.DefaultConfig()
	if a.configPath != "" {
		loaded, err := codec.LoadConfig(a.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if a.indent != "" {
		cfg.Indent = a.indent
	}
	if override != nil {
		override(&cfg)
	}

	a.lggr.Debugw("codec settings", "config", a.configPath, "settings", cfg)

	return codec.NewMapper(cfg), nil
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}

func (a *app) newJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "json [file]",
		Short: "Re-encode JSON: drop nulls, sort members",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			m, err := a.mapper(nil)
			if err != nil {
				return err
			}

			out, err := m.Normalize(input)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func (a *app) newXMLCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "xml [file]",
		Short: "Convert JSON to XML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			m, err := a.mapper(func(cfg *codec.Config) {
				if root != "" {
					cfg.XMLRoot = root
				}
			})
			if err != nil {
				return err
			}

			out, err := m.JSONToXML(input)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&root, "root", "", "root element name")

	return cmd
}

func (a *app) newFromXMLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fromxml [file]",
		Short: "Convert XML to JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			m, err := a.mapper(nil)
			if err != nil {
				return err
			}

			value, err := m.Decode(codec.FormatXML, input, reflect.TypeFor[any]())
			if err != nil {
				return err
			}

			out, err := m.Marshal(codec.FormatJSON, value)
			if err != nil {
				return err
			}

			a.lggr.Debugw("converted", "bytes", len(input))
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func (a *app) newProfileCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "profile <file>",
		Short: "Validate a copy profile file and print it normalized",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mf, err := mapping.LoadFile(args[0])
			if err != nil {
				return err
			}
			a.lggr.Debugw("profile loaded", "path", args[0], "mappings", len(mf.TypeMappings))

			if out != "" {
				return mapping.WriteFile(mf, out)
			}

			data, err := mapping.Marshal(mf)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the normalized profile to this path")

	return cmd
}
