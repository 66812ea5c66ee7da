package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newIdentitiesCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "identities <dataset-dir>",
		Short: "Print the canonical identity mapping of one dataset as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIdentities(cmd.Context(), cmd.OutOrStdout(), root, args[0])
		},
	}
}

func runIdentities(ctx context.Context, out io.Writer, root *rootOptions, dir string) error {
	a, err := newApp(root, nil)
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.pipeline.Run(ctx, dir)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result.Identities); err != nil {
		return fmt.Errorf("failed to encode identity mapping: %w", err)
	}
	return nil
}
