package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wgergely0/bookmarks-core/internal/bookmarkdb"
	"github.com/wgergely0/bookmarks-core/internal/model"
	"github.com/wgergely0/bookmarks-core/internal/workers"
)

var thumbnailCmd = &cobra.Command{
	Use:   "thumbnail <server> <job> <root> <asset> <task_folder> <file>",
	Short: "Generate (or fetch from cache) a single row's thumbnail",
	Args:  cobra.ExactArgs(6),
	RunE: func(cmd *cobra.Command, args []string) error {
		parent := tierArgs(args[:5])
		file := args[5]

		db, err := openBookmarkDB(parent.Join())
		if err != nil {
			return fmt.Errorf("opening bookmark database: %w", err)
		}
		defer db.Close()

		row := model.NewRow(1, 1, model.KindFile, file, file, parent)

		proc := workers.ThumbnailProcessor(sharedCache, func(*model.RowRecord) *bookmarkdb.DB { return db }, nil)
		proc(context.Background(), row)

		fmt.Println(row.ThumbnailPath())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(thumbnailCmd)
}
