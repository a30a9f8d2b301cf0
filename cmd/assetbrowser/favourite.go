package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wgergely0/bookmarks-core/internal/settingsstore"
)

var favouriteRemove bool

var favouriteCmd = &cobra.Command{
	Use:   "favourite <path>",
	Short: "Add (or, with --remove, drop) a path in the favourites set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, lock, err := openStore()
		if err != nil {
			return err
		}
		defer lock.Release()

		favs := settingsstore.NewFavourites(store)
		path := args[0]

		if favouriteRemove {
			favs.Remove(path)
			return nil
		}
		return favs.Add(path)
	},
}

var favouriteListCmd = &cobra.Command{
	Use:   "favourite-list",
	Short: "Print every favourited path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, lock, err := openStore()
		if err != nil {
			return err
		}
		defer lock.Release()

		favs := settingsstore.NewFavourites(store)
		for _, p := range favs.All() {
			fmt.Println(p)
		}
		return nil
	},
}

func init() {
	favouriteCmd.Flags().BoolVar(&favouriteRemove, "remove", false, "remove the path instead of adding it")
	rootCmd.AddCommand(favouriteCmd)
	rootCmd.AddCommand(favouriteListCmd)
}
