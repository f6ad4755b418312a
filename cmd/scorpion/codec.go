package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/scorpion/codec"
)

// input returns the joined args, or stdin when there are none.
func input(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}

	return strings.TrimRight(string(raw), "\r\n"), nil
}

func newEncodeCmd() *cobra.Command {
	var header bool

	cmd := &cobra.Command{
		Use:   "encode [TEXT]",
		Short: "Base64-encode text, or build a Basic Authorization header",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := input(cmd, args)
			if err != nil {
				return err
			}

			if header {
				user, pass, ok := strings.Cut(text, ":")
				if !ok {
					return fmt.Errorf("--header expects user:password")
				}
				fmt.Fprintln(cmd.OutOrStdout(), codec.BasicAuthHeader(user, pass))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), codec.EncodeString(text))
			return nil
		},
	}

	cmd.Flags().BoolVar(&header, "header", false, "print a full Authorization header for user:password")

	return cmd
}

func newDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [TEXT]",
		Short: "Decode Base64 text; characters outside the alphabet are ignored",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := input(cmd, args)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), codec.DecodeString(text))
			return nil
		},
	}

	return cmd
}
