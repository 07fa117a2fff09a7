package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"viyarschedule/config"
	"viyarschedule/services/importer"
	"viyarschedule/services/intermediate"
	"viyarschedule/services/roster"
	"viyarschedule/utils"

	"github.com/spf13/cobra"
)

func newImporter(s *stores, workers int, scope string) *importer.Importer {
	if workers <= 0 {
		workers = config.AppConfig.ImportWorkers
	}
	if scope == "" {
		scope = config.AppConfig.ImportReplaceScope
	}
	logger := utils.GetLogger()
	return importer.New(importer.Dependencies{
		Employees: s.employees,
		Schedules: s.schedules,
		Decoder:   roster.NewDecoder(roster.DefaultLayout(), logger),
		Artifacts: intermediate.NewArtifactWriter(config.AppConfig.IntermediateDir),
		Logger:    logger,
	}, importer.Options{
		ReplaceScope: importer.ParseReplaceScope(scope),
		Workers:      workers,
	})
}

func newImportCmd(g *globalFlags) *cobra.Command {
	var (
		dir     string
		workers int
		scope   string
	)
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import roster spreadsheets; without arguments every spreadsheet in --dir",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := sourcePaths(args, dir)
			if err != nil {
				return err
			}
			files, err := readSources(paths)
			if err != nil {
				return err
			}
			s, err := openStores(cmd.Context(), g.dryRun)
			if err != nil {
				return err
			}
			defer s.close()

			report, err := newImporter(s, workers, scope).ImportFiles(cmd.Context(), files)
			if err != nil {
				return err
			}
			if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if !report.OK() {
				return fmt.Errorf("import finished with failed files")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Input directory (default INPUT_DIR)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent writers (default IMPORT_WORKERS)")
	cmd.Flags().StringVar(&scope, "replace-scope", "", "day or none (default IMPORT_REPLACE_SCOPE)")
	return cmd
}

// sourcePaths returns args, or the spreadsheets of dir when args is empty.
func sourcePaths(args []string, dir string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if dir == "" {
		dir = config.AppConfig.InputDir
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && roster.IsSpreadsheet(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no spreadsheets in %s", dir)
	}
	sort.Strings(paths)
	return paths, nil
}

func readSources(paths []string) ([]importer.SourceFile, error) {
	files := make([]importer.SourceFile, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		files = append(files, importer.SourceFile{Name: filepath.Base(p), Data: data})
	}
	return files, nil
}
