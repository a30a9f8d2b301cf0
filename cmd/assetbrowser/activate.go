package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wgergely0/bookmarks-core/internal/model"
	"github.com/wgergely0/bookmarks-core/internal/settingsstore"
)

var activateCmd = &cobra.Command{
	Use:   "activate [server] [job] [root] [asset] [task_folder] [file]",
	Short: "Persist (or print, with no arguments) the active-path tuple",
	Args:  cobra.MaximumNArgs(6),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, lock, err := openStore()
		if err != nil {
			return err
		}
		defer lock.Release()

		tuple := settingsstore.NewActiveTuple(store)

		if len(args) == 0 {
			p := tuple.Get()
			fmt.Printf("%s/%s/%s/%s/%s/%s\n", p.Server, p.Job, p.Root, p.Asset, p.TaskFolder, p.File)
			return nil
		}

		p := model.ParentPath{}
		fields := []*string{&p.Server, &p.Job, &p.Root, &p.Asset, &p.TaskFolder, &p.File}
		for i, a := range args {
			*fields[i] = a
		}
		return tuple.Set(p)
	},
}

func init() {
	rootCmd.AddCommand(activateCmd)
}
