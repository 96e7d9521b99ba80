// Package history keeps a journal of synchronization runs.
package history

import (
	"github.com/cinelist-cli/cinelist/filesystem"
	"github.com/cinelist-cli/cinelist/key"
	"github.com/cinelist-cli/cinelist/where"
	"github.com/metafates/gache"
	"github.com/spf13/viper"
)

var cacher = gache.New[[]*Run](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns the recorded runs, oldest first.
func Get() ([]*Run, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return []*Run{}, nil
	}
	return cached, nil
}

// Record appends run, dropping the oldest entries past history.limit.
func Record(run *Run) error {
	runs, err := Get()
	if err != nil {
		return err
	}

	runs = append(runs, run)

	if limit := viper.GetInt(key.HistoryLimit); limit > 0 && len(runs) > limit {
		runs = runs[len(runs)-limit:]
	}

	return cacher.Set(runs)
}

// Last returns the most recent run, if any.
func Last() (*Run, bool, error) {
	runs, err := Get()
	if err != nil || len(runs) == 0 {
		return nil, false, err
	}
	return runs[len(runs)-1], true, nil
}

// Clear forgets every run.
func Clear() error {
	return cacher.Set([]*Run{})
}
