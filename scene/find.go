package scene

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/quarrel-cli/quarrel/constant"
	"github.com/quarrel-cli/quarrel/filesystem"
	"github.com/quarrel-cli/quarrel/util"
	"github.com/quarrel-cli/quarrel/where"
	"github.com/samber/lo"
)

// List returns the paths of all saved scenes, sorted by name.
func List() ([]string, error) {
	return ListIn(where.Scenes())
}

// ListIn returns the manifests found directly inside dir.
func ListIn(dir string) ([]string, error) {
	entries, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !isManifest(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}

	sort.Strings(paths)
	return paths, nil
}

func isManifest(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == constant.SceneExtension || ext == ".yml"
}

// Find locates a scene by path or by name among the saved scenes.
// Exact names win. Otherwise the closest fuzzy match is picked.
func Find(query string) (string, error) {
	if exists, _ := filesystem.API().Exists(query); exists && isManifest(query) {
		return query, nil
	}

	paths, err := List()
	if err != nil {
		return "", err
	}

	return match(query, paths)
}

func match(query string, paths []string) (string, error) {
	stems := lo.Map(paths, func(p string, _ int) string { return util.FileStem(p) })
	query = strings.TrimSuffix(strings.TrimSpace(query), constant.SceneExtension)

	if i := lo.IndexOf(stems, query); i >= 0 {
		return paths[i], nil
	}

	ranks := fuzzy.RankFindNormalizedFold(query, stems)
	if len(ranks) == 0 {
		return "", fmt.Errorf("%w: %q", ErrNotFound, query)
	}

	sort.Sort(ranks)
	return paths[ranks[0].OriginalIndex], nil
}
