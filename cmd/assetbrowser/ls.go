package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wgergely0/bookmarks-core/internal/bookmarkdb"
	"github.com/wgergely0/bookmarks-core/internal/model"
	"github.com/wgergely0/bookmarks-core/internal/proxy"
	"github.com/wgergely0/bookmarks-core/internal/scan"
	"github.com/wgergely0/bookmarks-core/internal/workers"
)

var (
	lsSortKey    string
	lsDescending bool
	lsFilter     string
	lsFavourite  bool
	lsArchived   bool
	lsActive     bool
	lsSequences  bool
	lsFormat     string
)

// lsRow is the YAML-marshalled shape of one listed row (--format yaml).
type lsRow struct {
	Name    string `yaml:"name"`
	Kind    string `yaml:"kind"`
	Size    int64  `yaml:"size"`
	Details string `yaml:"details,omitempty"`
}

var lsCmd = &cobra.Command{
	Use:   "ls <server> <job> <root> <asset> <task_folder>",
	Short: "Scan a task folder, enrich its rows, and print the sort/filter proxy's view",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		parent := tierArgs(args)
		proj, err := scan.Files(1, parent)
		if err != nil {
			return err
		}

		db, err := openBookmarkDB(parent.Join())
		if err != nil {
			return fmt.Errorf("opening bookmark database: %w", err)
		}
		defer db.Close()

		rows := proj.Files
		if lsSequences {
			rows = proj.Sequences
		}

		info := workers.InfoProcessor(0, func(*model.RowRecord) *bookmarkdb.DB { return db })
		for _, r := range rows {
			info(context.Background(), r)
		}

		p := proxy.New()
		switch strings.ToLower(lsSortKey) {
		case "lastmodified", "mtime":
			p.SetSortKey(proxy.SortByLastModified)
		case "size":
			p.SetSortKey(proxy.SortBySize)
		default:
			p.SetSortKey(proxy.SortByName)
		}
		p.SetAscending(!lsDescending)
		p.SetTextFilter(lsFilter)
		p.SetFlagFilters(proxy.FlagFilters{Active: lsActive, Favourite: lsFavourite, Archived: lsArchived})

		view := p.View(rows)

		if strings.ToLower(lsFormat) == "yaml" {
			out := make([]lsRow, len(view))
			for i, r := range view {
				out[i] = lsRow{Name: r.DisplayName, Kind: r.Kind.String(), Size: r.SortSize(), Details: r.DetailsString()}
			}
			enc := yaml.NewEncoder(os.Stdout)
			defer enc.Close()
			return enc.Encode(out)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "NAME\tKIND\tSIZE\tDETAILS")
		for _, r := range view {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", r.DisplayName, r.Kind, r.SortSize(), r.DetailsString())
		}
		return w.Flush()
	},
}

func init() {
	lsCmd.Flags().StringVar(&lsSortKey, "sort", "name", "sort key: name, lastmodified, size")
	lsCmd.Flags().BoolVar(&lsDescending, "descending", false, "sort descending instead of ascending")
	lsCmd.Flags().StringVar(&lsFilter, "filter", "", "case-insensitive substring filter")
	lsCmd.Flags().BoolVar(&lsFavourite, "favourite", false, "show only favourited rows")
	lsCmd.Flags().BoolVar(&lsArchived, "archived", false, "include archived rows")
	lsCmd.Flags().BoolVar(&lsActive, "active", false, "show only the active row")
	lsCmd.Flags().BoolVar(&lsSequences, "sequences", false, "list the sequence projection instead of the file projection")
	lsCmd.Flags().StringVar(&lsFormat, "format", "table", "output format: table or yaml")
	rootCmd.AddCommand(lsCmd)
}
