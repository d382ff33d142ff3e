package contract

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"tuneport/logger"
)

// OverrideFileName is the template override file looked up inside the
// configured template directory.
const OverrideFileName = "contract_template.html"

// WatchTemplateDir loads a template override from dir (if present) and keeps
// watching the directory, hot-reloading the generator's template whenever the
// override file is written. Returns a stop function.
func WatchTemplateDir(dir string, g *Generator) (func(), error) {
	overridePath := filepath.Join(dir, OverrideFileName)
	if data, err := os.ReadFile(overridePath); err == nil {
		g.SetTemplate(string(data))
		logger.Info("loaded contract template override", logger.String("path", overridePath))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if filepath.Base(event.Name) != OverrideFileName {
					continue
				}
				data, err := os.ReadFile(overridePath)
				if err != nil {
					logger.Warn("failed to reload contract template",
						logger.String("path", overridePath),
						logger.ErrorField(err),
					)
					continue
				}
				g.SetTemplate(string(data))
				logger.Info("reloaded contract template override",
					logger.String("path", overridePath))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("contract template watcher error", logger.ErrorField(err))
			}
		}
	}()

	return func() { watcher.Close() }, nil
}
