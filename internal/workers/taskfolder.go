package workers

import (
	"context"
	"os"

	"github.com/wgergely0/bookmarks-core/internal/model"
)

// maxTaskFolderCount caps the count so a folder with an enormous number
// of children does not stall the worker.
const maxTaskFolderCount = 999

// TaskFolderProcessor counts (capped) visible entries under a task-folder
// row's path and publishes the count as todo_count. Hidden entries are
// skipped; only immediate children are counted.
func TaskFolderProcessor() Processor {
	return func(_ context.Context, row *model.RowRecord) {
		defer row.PublishInfoLoaded()

		entries, err := os.ReadDir(row.Path)
		if err != nil {
			return
		}
		count := 0
		for _, e := range entries {
			if isHiddenEntry(e.Name()) {
				continue
			}
			count++
			if count >= maxTaskFolderCount {
				break
			}
		}
		row.SetTodoCount(count)
	}
}

func isHiddenEntry(name string) bool {
	return len(name) > 0 && name[0] == '.'
}
