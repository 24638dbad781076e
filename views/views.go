// Package views counts how often each scene has been played.
package views

import (
	"sort"
	"time"

	"github.com/metafates/gache"
	"github.com/quarrel-cli/quarrel/filesystem"
	"github.com/quarrel-cli/quarrel/where"
)

// Record is the persisted view count of one scene.
type Record struct {
	Scene    string    `json:"scene"`
	Title    string    `json:"title"`
	Count    int       `json:"count"`
	LastSeen time.Time `json:"last_seen"`
}

var cacher = gache.New[map[string]*Record](
	&gache.Options{
		Path:       where.Views(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// All returns every stored record keyed by scene id.
func All() (map[string]*Record, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Record), nil
	}
	return cached, nil
}

// Get returns the view count of a scene. Unknown scenes have zero views.
func Get(scene string) (int, error) {
	all, err := All()
	if err != nil {
		return 0, err
	}
	if r, ok := all[scene]; ok {
		return r.Count, nil
	}
	return 0, nil
}

// Increment adds one view to a scene and returns the new count.
func Increment(scene, title string) (int, error) {
	all, err := All()
	if err != nil {
		return 0, err
	}

	r, ok := all[scene]
	if !ok {
		r = &Record{Scene: scene}
		all[scene] = r
	}
	r.Count++
	r.LastSeen = time.Now()
	if title != "" {
		r.Title = title
	}

	return r.Count, cacher.Set(all)
}

// Top returns records ordered by count, most viewed first.
func Top() ([]*Record, error) {
	all, err := All()
	if err != nil {
		return nil, err
	}

	records := make([]*Record, 0, len(all))
	for _, r := range all {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Count != records[j].Count {
			return records[i].Count > records[j].Count
		}
		return records[i].Scene < records[j].Scene
	})
	return records, nil
}

// Reset forgets every count.
func Reset() error {
	return cacher.Set(make(map[string]*Record))
}
