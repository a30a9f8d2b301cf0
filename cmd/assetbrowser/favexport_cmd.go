package main

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wgergely0/bookmarks-core/internal/favexport"
	"github.com/wgergely0/bookmarks-core/internal/settingsstore"
)

var exportFavouritesCmd = &cobra.Command{
	Use:   "export-favourites <archive.zip>",
	Short: "Export the current favourites set (and their cached thumbnails) to a zip archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, lock, err := openStore()
		if err != nil {
			return err
		}
		defer lock.Release()

		favs := settingsstore.NewFavourites(store)
		paths := favs.All()

		dir, err := dataDir()
		if err != nil {
			return err
		}
		thumbDir := filepath.Join(dir, "favourite-thumbnails")
		lookup := func(path string) (string, bool) {
			candidate := filepath.Join(thumbDir, filepath.Base(path)+".png")
			if _, err := os.Stat(candidate); err != nil {
				return "", false
			}
			return candidate, true
		}

		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("creating archive: %w", err)
		}
		defer f.Close()

		if err := favexport.Export(f, paths, lookup); err != nil {
			return err
		}
		fmt.Printf("exported %d favourite(s) to %s\n", len(paths), args[0])
		return nil
	},
}

var importFavouritesCmd = &cobra.Command{
	Use:   "import-favourites <archive.zip>",
	Short: "Import a favourites archive, appending its paths to the current set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, lock, err := openStore()
		if err != nil {
			return err
		}
		defer lock.Release()

		info, err := os.Stat(args[0])
		if err != nil {
			return fmt.Errorf("opening archive: %w", err)
		}
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening archive: %w", err)
		}
		defer f.Close()

		zr, err := zip.NewReader(f, info.Size())
		if err != nil {
			return fmt.Errorf("reading archive: %w", err)
		}

		dir, err := dataDir()
		if err != nil {
			return err
		}
		thumbDir := filepath.Join(dir, "favourite-thumbnails")

		res, err := favexport.Import(zr, thumbDir)
		if err != nil {
			return err
		}

		favs := settingsstore.NewFavourites(store)
		for _, p := range res.Paths {
			if err := favs.Add(p); err != nil {
				return err
			}
		}
		fmt.Printf("imported %d favourite(s), %d thumbnail(s)\n", len(res.Paths), len(res.ExtractedFiles))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportFavouritesCmd)
	rootCmd.AddCommand(importFavouritesCmd)
}
