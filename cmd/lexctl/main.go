package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"lexical/internal/config"
	"lexical/internal/kv"
	"lexical/internal/sample"
	"lexical/internal/spreadsheet"
	"lexical/internal/types"
	"lexical/internal/vocab"
)

var configPath string

// openStorage and newRand are replaced in tests.
var (
	openStorage = func(ctx context.Context) (kv.Storage, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		return kv.Open(ctx, cfg.StorageBackend, cfg.DataDir, cfg.DatabaseURL)
	}
	newRand = func() *rand.Rand { return sample.NewSource() }
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "lexctl",
		Short:        "English-Turkish vocabulary trainer",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML config file (default $LEXICAL_CONFIG)")

	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(editCmd())
	rootCmd.AddCommand(rmCmd())
	rootCmd.AddCommand(countCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(examCmd())
	rootCmd.AddCommand(gameCmd())
	return rootCmd
}

func getStore(ctx context.Context) (*vocab.Store, kv.Storage, error) {
	storage, err := openStorage(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	return vocab.NewStore(storage), storage, nil
}

func addCmd() *cobra.Command {
	var idiom bool

	cmd := &cobra.Command{
		Use:   "add [english] [turkish]",
		Short: "Add a word or idiom",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, storage, err := getStore(ctx)
			if err != nil {
				return err
			}
			defer storage.Close()

			kind := types.Word
			if idiom {
				kind = types.Idiom
			}
			entry, err := s.Add(ctx, kind, args[0], args[1])
			if errors.Is(err, types.ErrDuplicate) {
				return fmt.Errorf("%q is already in your %ss", args[0], kind)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %d: %s = %s\n", kind, entry.ID, entry.Source, entry.Target)
			fmt.Fprintf(cmd.OutOrStdout(), "Vocabulary %s\n", s.CountByKind(ctx))
			return nil
		},
	}

	cmd.Flags().BoolVar(&idiom, "idiom", false, "add an idiom or useful phrase instead of a word")
	return cmd
}

func listCmd() *cobra.Command {
	var kindFlag, search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			kind, err := types.ParseKind(kindFlag)
			if err != nil {
				return err
			}
			s, storage, err := getStore(ctx)
			if err != nil {
				return err
			}
			defer storage.Close()

			entries := vocab.View(s.List(ctx), kind, search)
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No entries found. Use 'lexctl add' to create one.")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%d  %-5s  %s = %s\n", e.ID, e.Kind, e.Source, e.Target)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "", "only show words or idioms")
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive substring of either side")
	return cmd
}

func editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [id] [english] [turkish]",
		Short: "Change both sides of an entry",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, storage, err := getStore(ctx)
			if err != nil {
				return err
			}
			defer storage.Close()

			entry, err := s.Update(ctx, id, args[1], args[2])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %d: %s = %s\n", entry.Kind, entry.ID, entry.Source, entry.Target)
			return nil
		},
	}
}

func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, storage, err := getStore(ctx)
			if err != nil {
				return err
			}
			defer storage.Close()

			if err := s.Remove(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d\n", id)
			return nil
		},
	}
}

func countCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Show how many words and idioms are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, storage, err := getStore(ctx)
			if err != nil {
				return err
			}
			defer storage.Close()

			counts := s.CountByKind(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "Words:  %d\nIdioms: %d\n", counts.Words, counts.Idioms)
			if counts.GameAvailable() {
				fmt.Fprintln(cmd.OutOrStdout(), "Matching game: available")
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Matching game: needs %d more idioms\n", types.GameMinIdioms-counts.Idioms)
			}
			return nil
		},
	}
}

func importCmd() *cobra.Command {
	var sheet string
	var idiom bool

	cmd := &cobra.Command{
		Use:   "import [file.xlsx|file.csv]",
		Short: "Import entries from a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, storage, err := getStore(ctx)
			if err != nil {
				return err
			}
			defer storage.Close()

			cfg := spreadsheet.ImportConfig{FilePath: args[0], SheetName: sheet, DefaultKind: types.Word}
			if idiom {
				cfg.DefaultKind = types.Idiom
			}
			result, err := spreadsheet.Import(ctx, s, cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Processed %d rows: %d created, %d skipped, %d errors\n",
				result.TotalProcessed, result.Created, result.Skipped, len(result.Errors))
			for _, e := range result.Errors {
				fmt.Fprintf(out, "  %s\n", e)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Excel sheet to read (default: first sheet)")
	cmd.Flags().BoolVar(&idiom, "idiom", false, "treat rows without a type as idioms")
	return cmd
}

func exportCmd() *cobra.Command {
	var kindFlag string

	cmd := &cobra.Command{
		Use:   "export [file.xlsx|file.csv]",
		Short: "Export entries to a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			kind, err := types.ParseKind(kindFlag)
			if err != nil {
				return err
			}
			s, storage, err := getStore(ctx)
			if err != nil {
				return err
			}
			defer storage.Close()

			entries := vocab.FilterByKind(s.List(ctx), kind)
			if err := spreadsheet.Export(entries, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", len(entries), args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "", "only export words or idioms")
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, types.ErrValidation)
	}
	return id, nil
}
