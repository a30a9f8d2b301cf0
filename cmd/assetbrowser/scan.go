package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wgergely0/bookmarks-core/internal/model"
	"github.com/wgergely0/bookmarks-core/internal/scan"
)

// tierArgs decodes the positional <server> <job> <root> [asset] [task_folder]
// arguments every tier-scoped subcommand accepts, picking the tier implied
// by how many segments were given.
func tierArgs(args []string) model.ParentPath {
	p := model.ParentPath{Server: args[0], Job: args[1], Root: args[2]}
	if len(args) > 3 {
		p.Asset = args[3]
	}
	if len(args) > 4 {
		p.TaskFolder = args[4]
	}
	return p
}

var scanCmd = &cobra.Command{
	Use:   "scan <server> <job> <root> [asset] [task_folder]",
	Short: "Scan one tier and report the rows it produced",
	Long: `scan runs the filesystem scanner for the tier implied by how many
path segments are given: 3 segments scans a bookmark's assets, 4 scans an
asset's task folders, 5 scans a task folder's files (producing both the
File and Sequence projections).`,
	Args: cobra.RangeArgs(3, 5),
	RunE: func(cmd *cobra.Command, args []string) error {
		parent := tierArgs(args)

		switch len(args) {
		case 3:
			db, err := openBookmarkDB(parent.Join())
			if err != nil {
				return fmt.Errorf("opening bookmark database: %w", err)
			}
			defer db.Close()
			isAsset := func(folder string) bool {
				marker, ok := db.Identifier()
				if !ok || marker == "" {
					return true // no identifier declared -> always an asset
				}
				_, err := os.Stat(filepath.Join(folder, marker))
				return err == nil
			}
			rows, err := scan.Assets(1, parent, isAsset)
			if err != nil {
				return err
			}
			fmt.Printf("%d asset(s)\n", len(rows))
			for _, r := range rows {
				fmt.Println(" ", r.DisplayName)
			}
		case 4:
			rows, err := scan.TaskFolders(1, parent)
			if err != nil {
				return err
			}
			fmt.Printf("%d task folder(s)\n", len(rows))
			for _, r := range rows {
				fmt.Println(" ", r.DisplayName)
			}
		case 5:
			proj, err := scan.Files(1, parent)
			if err != nil {
				return err
			}
			fmt.Printf("%d file row(s), %d sequence row(s)\n", len(proj.Files), len(proj.Sequences))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
