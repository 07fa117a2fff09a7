package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"viyarschedule/services/intermediate"
	"viyarschedule/services/roster"
	"viyarschedule/utils"

	"github.com/spf13/cobra"
)

type dumpedSheet struct {
	File      string `json:"file"`
	Sheet     string `json:"sheet"`
	Employees int    `json:"employees"`
	Text      string `json:"text,omitempty"`
	JSON      string `json:"json,omitempty"`
	Error     string `json:"error,omitempty"`
}

func newDumpCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "dump <spreadsheet>...",
		Short: "Decode spreadsheets into text and JSON artifacts without touching the store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return fmt.Errorf("--out is required")
			}
			writer := intermediate.NewArtifactWriter(out)
			decoder := roster.NewDecoder(roster.DefaultLayout(), utils.GetLogger())

			files, err := readSources(args)
			if err != nil {
				return err
			}
			var result []dumpedSheet
			for _, f := range files {
				sheets, err := roster.ReadWorkbook(f.Name, f.Data)
				if err != nil {
					result = append(result, dumpedSheet{File: f.Name, Error: err.Error()})
					continue
				}
				stem := strings.TrimSuffix(f.Name, filepath.Ext(f.Name))
				for _, s := range decoder.DecodeWorkbook(sheets).Sheets {
					d := dumpedSheet{File: f.Name, Sheet: s.Name, Employees: len(s.Roster.Employees)}
					if s.Err != nil {
						d.Error = s.Err.Error()
					} else {
						base := stem + "_" + s.Name
						if m := roster.MonthName(s.Month); m != "" {
							base = m + "_" + s.Name
						}
						d.Text, d.JSON, err = writer.Write(base, s.Roster)
						if err != nil {
							return err
						}
					}
					result = append(result, d)
				}
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Directory for the artifacts")
	return cmd
}
