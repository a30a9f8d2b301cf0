// Command assetbrowser is a terminal driver for the asset-browser core:
// it exercises the scanners, workers, proxy, and stores from outside a
// GUI, one subcommand per operation a front-end would perform.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/wgergely0/bookmarks-core/internal/bookmarkdb"
	"github.com/wgergely0/bookmarks-core/internal/imagecache"
	"github.com/wgergely0/bookmarks-core/internal/settingsstore"
)

// runID distinguishes this process's log lines from a concurrent
// invocation's when both write to the same terminal or log aggregator.
var runID = uuid.NewString()

var (
	dataDirFlag string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "assetbrowser",
	Short: "Indexed, incrementally loaded asset browser core",
	Long: `assetbrowser drives the bookmarks-core library from a terminal:
scanning tiers, listing enriched rows through the sort/filter proxy,
generating thumbnails, and managing favourites/active-path state:
the same operations a GUI front-end would perform through the core.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLogging)
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "override the settings/cache data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
}

func initLogging() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler).With("run_id", runID))
}

// dataDir resolves the directory the settings store and lock files live
// under, rooted at os.UserConfigDir unless overridden by --data-dir.
func dataDir() (string, error) {
	if dataDirFlag != "" {
		return dataDirFlag, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config directory: %w", err)
	}
	return filepath.Join(dir, "assetbrowser"), nil
}

// openStore opens (creating if absent) the settings store and establishes
// this process's place in the solo-mode lock-file protocol.
func openStore() (*settingsstore.Store, *settingsstore.LockFile, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, nil, err
	}
	store, err := settingsstore.Open(filepath.Join(dir, "settings.json"))
	if err != nil {
		return nil, nil, err
	}
	lock := settingsstore.NewLockFile(dir)
	solo, err := lock.Establish()
	if err != nil {
		return nil, nil, err
	}
	store.SetSolo(solo)
	if solo {
		slog.Debug("starting in solo mode: another session is active")
	}
	return store, lock, nil
}

// sharedCache is the process-wide image/thumbnail cache: one
// instance per process, shared by every subcommand invocation's thumbnail
// work within that process's lifetime.
var sharedCache = imagecache.New()

// bookmarkCacheDir is the writable generated-data directory under a
// bookmark root; it holds the bookmark database and generated thumbnails.
const bookmarkCacheDir = ".bookmark"

// openBookmarkDB opens the per-bookmark database for the bookmark rooted
// at root, creating its cache directory on first use.
func openBookmarkDB(root string) (*bookmarkdb.DB, error) {
	cacheDir := filepath.Join(root, bookmarkCacheDir)
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating bookmark cache directory: %w", err)
	}
	dbPath := filepath.Join(cacheDir, "bookmark.db")
	thumbDir := filepath.Join(cacheDir, "thumbnails")
	return bookmarkdb.Open(dbPath, root, thumbDir)
}
