package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/anima-hapi/engine/core"
	"github.com/spaghettifunk/anima-hapi/engine/hapi"
	"github.com/spaghettifunk/anima-hapi/engine/scene"
)

type AssetInfo struct {
	Path       string
	Type       AssetType
	LastLoaded time.Time
}

// AssetManager indexes fixture files, cooks them into the host and, when
// watching, reports fixture edits on the event bus.
type AssetManager struct {
	assets  map[string]AssetInfo
	loaded  map[string]*Asset
	loaders map[AssetType]Loader

	host  *hapi.MemoryHost
	scene *scene.Scene

	// EnableLogging is copied onto every asset built by the manager.
	EnableLogging bool

	mutex sync.RWMutex

	done     chan struct{}
	fsnotify *fsnotify.Watcher
	watching bool
	isClosed bool
	wg       sync.WaitGroup
}

func NewAssetManager(host *hapi.MemoryHost, s *scene.Scene) (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	am := &AssetManager{
		assets:   make(map[string]AssetInfo),
		loaded:   make(map[string]*Asset),
		loaders:  make(map[AssetType]Loader),
		host:     host,
		scene:    s,
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}
	am.registerLoader(AssetTypeFixture, &FixtureLoader{})
	return am, nil
}

// Initialize indexes assetsDir and, if watch is set, starts watching it.
func (am *AssetManager) Initialize(assetsDir string, watch bool) error {
	if am.isClosed {
		return errors.New("asset manager already shut down")
	}
	if err := am.watchRecursive(assetsDir, watch); err != nil {
		return err
	}
	if watch {
		am.watching = true
		am.wg.Add(1)
		go am.start()
	}
	return nil
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType AssetType, loader Loader) {
	am.loaders[assetType] = loader
}

// Paths returns the indexed fixture paths, sorted.
func (am *AssetManager) Paths() []string {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	out := make([]string, 0, len(am.assets))
	for p := range am.assets {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Get returns the asset cooked from path, if loaded.
func (am *AssetManager) Get(path string) (*Asset, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	a, ok := am.loaded[filepath.Clean(path)]
	return a, ok
}

// Loaded returns every loaded asset ordered by path.
func (am *AssetManager) Loaded() []*Asset {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	paths := make([]string, 0, len(am.loaded))
	for p := range am.loaded {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	out := make([]*Asset, len(paths))
	for i, p := range paths {
		out[i] = am.loaded[p]
	}
	return out
}

func (am *AssetManager) readFixture(path string) (*hapi.Fixture, error) {
	assetType := determineAssetType(path)
	loader, ok := am.loaders[assetType]
	if !ok {
		return nil, fmt.Errorf("no loader registered for asset type: %d", assetType)
	}
	return loader.Load(path)
}

// Load cooks the fixture at path and builds its scene objects. Loading an
// already loaded path reloads it.
func (am *AssetManager) Load(path string) (*Asset, error) {
	path = filepath.Clean(path)
	if a, ok := am.Get(path); ok {
		return a, am.reload(a, path)
	}

	f, err := am.readFixture(path)
	if err != nil {
		return nil, err
	}
	id, err := am.host.LoadAsset(f)
	if err != nil {
		return nil, err
	}
	a, err := NewAsset(am.host, am.scene, id, f)
	if err != nil {
		_ = am.host.UnloadAsset(id)
		return nil, err
	}
	a.Path = path
	a.EnableLogging = am.EnableLogging

	am.mutex.Lock()
	am.loaded[path] = a
	am.assets[path] = AssetInfo{Path: path, Type: AssetTypeFixture, LastLoaded: time.Now()}
	am.mutex.Unlock()

	core.LogInfo("loaded asset '%s' from %s", a.Name, path)
	return a, nil
}

// Reload recooks a loaded asset from its fixture on disk.
func (am *AssetManager) Reload(path string) (*Asset, error) {
	path = filepath.Clean(path)
	a, ok := am.Get(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrAssetNotFound, path)
	}
	return a, am.reload(a, path)
}

func (am *AssetManager) reload(a *Asset, path string) error {
	f, err := am.readFixture(path)
	if err != nil {
		return err
	}
	if err := am.host.ReloadAsset(a.AssetID, f); err != nil {
		return err
	}
	if err := a.Rebuild(f); err != nil {
		return err
	}
	am.mutex.Lock()
	am.assets[path] = AssetInfo{Path: path, Type: AssetTypeFixture, LastLoaded: time.Now()}
	am.mutex.Unlock()
	core.LogInfo("reloaded asset '%s' from %s", a.Name, path)
	return nil
}

// Unload destroys the scene objects of the asset at path and releases it
// from the host.
func (am *AssetManager) Unload(path string) error {
	path = filepath.Clean(path)
	am.mutex.Lock()
	a, ok := am.loaded[path]
	delete(am.loaded, path)
	am.mutex.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrAssetNotFound, path)
	}
	am.scene.DestroyImmediate(a.Root)
	return am.host.UnloadAsset(a.AssetID)
}

func (am *AssetManager) Shutdown() error {
	if am.isClosed {
		return nil
	}
	am.isClosed = true
	if am.watching {
		close(am.done)
		am.wg.Wait()
		return nil
	}
	return am.fsnotify.Close()
}

func (am *AssetManager) start() {
	defer am.wg.Done()
	for {
		select {

		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := am.watchRecursive(e.Name, true); err != nil {
						core.LogError(err.Error())
					}
				}
				continue
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				if am.handleFileEvent(e.Name) {
					core.EventFire(core.EVENT_CODE_ASSET_CHANGED, am, core.EventContext{
						Data: &core.AssetEvent{Path: filepath.Clean(e.Name)},
					})
				}
			}
			// Can't stat a deleted directory, so just pretend that it's always a directory and
			// try to remove from the watch list...  we really have no clue if it's a directory or not...
			if e.Op&fsnotify.Remove != 0 {
				am.removeAsset(e.Name)
				_ = am.fsnotify.Remove(e.Name)
			}

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(err.Error())

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

// watchRecursive indexes every fixture under path and, if watch is set,
// adds each directory to the watch list.
func (am *AssetManager) watchRecursive(path string, watch bool) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if watch {
				return am.fsnotify.Add(walkPath)
			}
			return nil
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

// Handle the creation or modification of a file. Reports whether the file
// is a known asset type.
func (am *AssetManager) handleFileEvent(path string) bool {
	assetType := determineAssetType(path)
	if assetType == AssetTypeNone {
		return false
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	path = filepath.Clean(path)
	info, ok := am.assets[path]
	if !ok {
		info = AssetInfo{Path: path, Type: assetType}
	}
	am.assets[path] = info
	return true
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	delete(am.assets, filepath.Clean(path))
}

func determineAssetType(path string) AssetType {
	switch filepath.Ext(path) {
	case ".toml":
		return AssetTypeFixture
	default:
		return AssetTypeNone
	}
}
