package hapi

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/anima-hapi/engine/core"
	"github.com/spaghettifunk/anima-hapi/engine/math"
)

type memoryAttribute struct {
	info    AttributeInfo
	floats  []float32
	handles []int32
}

type memoryObject struct {
	partCount  int32
	pointCount int32
	transforms []Transform
	attributes map[string]*memoryAttribute
}

type memoryAsset struct {
	fixture   *Fixture
	objects   []ObjectInfo
	data      []*memoryObject
	cookCount int
}

// MemoryHost serves cooked fixtures from memory. It is safe for concurrent use.
type MemoryHost struct {
	mu          sync.RWMutex
	assets      map[int32]*memoryAsset
	strings     []string
	stringIndex map[string]int32
}

func NewMemoryHost() *MemoryHost {
	return &MemoryHost{
		assets:      make(map[int32]*memoryAsset),
		stringIndex: make(map[string]int32),
	}
}

// LoadAsset cooks f and returns the id of the new asset.
func (h *MemoryHost) LoadAsset(f *Fixture) (int32, error) {
	if err := f.Validate(); err != nil {
		return -1, err
	}
	a := &memoryAsset{}
	id := int32(core.IdentifierAcquireNewID(a))

	h.mu.Lock()
	defer h.mu.Unlock()
	h.cook(a, f)
	h.assets[id] = a
	return id, nil
}

// ReloadAsset recooks an already loaded asset from a new fixture.
func (h *MemoryHost) ReloadAsset(assetID int32, f *Fixture) error {
	if err := f.Validate(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	a, ok := h.assets[assetID]
	if !ok {
		return fmt.Errorf("%w: %d", core.ErrAssetNotFound, assetID)
	}
	h.cook(a, f)
	return nil
}

func (h *MemoryHost) UnloadAsset(assetID int32) error {
	h.mu.Lock()
	_, ok := h.assets[assetID]
	delete(h.assets, assetID)
	h.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %d", core.ErrAssetNotFound, assetID)
	}
	return core.IdentifierReleaseID(uint32(assetID))
}

// CookCount reports how many times the asset was cooked.
func (h *MemoryHost) CookCount(assetID int32) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if a, ok := h.assets[assetID]; ok {
		return a.cookCount
	}
	return 0
}

func (h *MemoryHost) Fixture(assetID int32) (*Fixture, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	a, ok := h.assets[assetID]
	if !ok {
		return nil, false
	}
	return a.fixture, true
}

// RegisterString adds s to the string table and returns its handle.
func (h *MemoryHost) RegisterString(s string) int32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.registerString(s)
}

func (h *MemoryHost) registerString(s string) int32 {
	if handle, ok := h.stringIndex[s]; ok {
		return handle
	}
	handle := int32(len(h.strings))
	h.strings = append(h.strings, s)
	h.stringIndex[s] = handle
	return handle
}

// cook turns a fixture into host data. Must hold h.mu.
func (h *MemoryHost) cook(a *memoryAsset, f *Fixture) {
	a.fixture = f
	a.cookCount++
	a.objects = make([]ObjectInfo, len(f.Objects))
	a.data = make([]*memoryObject, len(f.Objects))

	for i, fo := range f.Objects {
		info := ObjectInfo{
			ID:                 int32(i),
			Name:               fo.Name,
			IsInstancer:        fo.IsInstancer,
			ObjectToInstanceID: int32(f.ObjectIndex(fo.ObjectToInstance)),
			GeoCount:           1,
		}
		if fo.ObjectToInstance == "" {
			info.ObjectToInstanceID = -1
		}
		a.objects[i] = info

		obj := &memoryObject{
			partCount:  1,
			pointCount: int32(len(fo.Points)),
			attributes: make(map[string]*memoryAttribute, len(fo.Attributes)),
		}
		if fo.NoGeometry {
			obj.partCount = 0
		}
		if fo.PointCount > obj.pointCount {
			obj.pointCount = fo.PointCount
		}

		for _, fa := range fo.Attributes {
			owner, _ := ParseAttributeOwner(fa.Owner)
			attr := &memoryAttribute{
				info: AttributeInfo{
					Name:      fa.Name,
					Exists:    true,
					Owner:     owner,
					TupleSize: fa.TupleSize,
				},
			}
			if len(fa.Strings) > 0 {
				if attr.info.TupleSize < 1 {
					attr.info.TupleSize = 1
				}
				attr.handles = make([]int32, len(fa.Strings))
				for j, s := range fa.Strings {
					attr.handles[j] = h.registerString(s)
				}
				attr.info.Count = int32(len(fa.Strings)) / attr.info.TupleSize
			} else {
				if attr.info.TupleSize < 1 {
					attr.info.TupleSize = 1
					if fa.Name == "scale" {
						attr.info.TupleSize = 3
					}
				}
				attr.floats = fa.Floats
				attr.info.Count = int32(len(fa.Floats)) / attr.info.TupleSize
			}
			obj.attributes[fa.Name] = attr
		}

		obj.transforms = make([]Transform, obj.pointCount)
		scale := obj.attributes["scale"]
		for j := int32(0); j < obj.pointCount; j++ {
			t := Transform{
				Position:           math.NewVec3Zero(),
				RotationQuaternion: math.NewQuatIdentity(),
				Scale:              math.NewVec3One(),
				RSTOrder:           SRT,
			}
			if int(j) < len(fo.Points) {
				p := fo.Points[j]
				if len(p.Position) == 3 {
					t.Position = math.NewVec3(p.Position[0], p.Position[1], p.Position[2])
				}
				if len(p.Rotation) == 4 {
					t.RotationQuaternion = math.Quaternion{X: p.Rotation[0], Y: p.Rotation[1], Z: p.Rotation[2], W: p.Rotation[3]}
				}
				if len(p.Scale) == 3 {
					t.Scale = math.NewVec3(p.Scale[0], p.Scale[1], p.Scale[2])
				}
			}
			// The host folds a point scale attribute into the instance transform.
			if scale != nil && scale.info.Owner == ATTROWNER_POINT && scale.info.TupleSize == 3 && len(scale.floats) >= int(j+1)*3 {
				t.Scale = math.NewVec3(scale.floats[j*3], scale.floats[j*3+1], scale.floats[j*3+2])
			}
			obj.transforms[j] = t
		}
		a.data[i] = obj
	}
}

func (h *MemoryHost) object(assetID, objectID int32) (*memoryAsset, *memoryObject, error) {
	a, ok := h.assets[assetID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %d", core.ErrAssetNotFound, assetID)
	}
	if objectID < 0 || int(objectID) >= len(a.data) {
		return nil, nil, fmt.Errorf("%w: asset %d object %d", core.ErrObjectNotFound, assetID, objectID)
	}
	return a, a.data[objectID], nil
}

func (h *MemoryHost) part(assetID, objectID, geoID, partID int32) (*memoryObject, error) {
	_, obj, err := h.object(assetID, objectID)
	if err != nil {
		return nil, err
	}
	if geoID != 0 || partID < 0 || partID >= obj.partCount {
		return nil, fmt.Errorf("%w: asset %d object %d geo %d part %d", core.ErrPartNotFound, assetID, objectID, geoID, partID)
	}
	return obj, nil
}

func (h *MemoryHost) GetObjects(assetID int32) ([]ObjectInfo, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	a, ok := h.assets[assetID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", core.ErrAssetNotFound, assetID)
	}
	out := make([]ObjectInfo, len(a.objects))
	copy(out, a.objects)
	return out, nil
}

func (h *MemoryHost) GetGeoInfo(assetID, objectID, geoID int32) (GeoInfo, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, obj, err := h.object(assetID, objectID)
	if err != nil {
		return GeoInfo{}, err
	}
	if geoID != 0 {
		return GeoInfo{}, fmt.Errorf("%w: geo %d", core.ErrPartNotFound, geoID)
	}
	return GeoInfo{ID: geoID, PartCount: obj.partCount}, nil
}

func (h *MemoryHost) GetPartInfo(assetID, objectID, geoID, partID int32) (PartInfo, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	obj, err := h.part(assetID, objectID, geoID, partID)
	if err != nil {
		return PartInfo{}, err
	}
	return PartInfo{ID: partID, PointCount: obj.pointCount}, nil
}

func (h *MemoryHost) GetInstanceTransforms(assetID, objectID, geoID int32, order RSTOrder, start, length int32) ([]Transform, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	obj, err := h.part(assetID, objectID, geoID, 0)
	if err != nil {
		return nil, err
	}
	if start < 0 || length < 0 || start+length > obj.pointCount {
		return nil, fmt.Errorf("transform range [%d, %d) outside of %d points", start, start+length, obj.pointCount)
	}
	out := make([]Transform, length)
	copy(out, obj.transforms[start:start+length])
	for i := range out {
		out[i].RSTOrder = order
	}
	return out, nil
}

func (h *MemoryHost) GetAttributeInfo(assetID, objectID, geoID, partID int32, name string) (AttributeInfo, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	obj, err := h.part(assetID, objectID, geoID, partID)
	if err != nil {
		return AttributeInfo{}, err
	}
	attr, ok := obj.attributes[name]
	if !ok {
		return AttributeInfo{Name: name, Owner: ATTROWNER_INVALID}, nil
	}
	return attr.info, nil
}

func (h *MemoryHost) attribute(assetID, objectID, geoID, partID int32, name string, start, length int32) (*memoryAttribute, error) {
	obj, err := h.part(assetID, objectID, geoID, partID)
	if err != nil {
		return nil, err
	}
	attr, ok := obj.attributes[name]
	if !ok {
		return nil, fmt.Errorf("attribute %q does not exist", name)
	}
	if start < 0 || length < 0 || start+length > attr.info.Count {
		return nil, fmt.Errorf("attribute %q range [%d, %d) outside of %d elements", name, start, start+length, attr.info.Count)
	}
	return attr, nil
}

func (h *MemoryHost) GetAttributeFloatData(assetID, objectID, geoID, partID int32, name string, start, length int32) ([]float32, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	attr, err := h.attribute(assetID, objectID, geoID, partID, name, start, length)
	if err != nil {
		return nil, err
	}
	if attr.handles != nil {
		return nil, fmt.Errorf("attribute %q is not a float attribute", name)
	}
	ts := attr.info.TupleSize
	out := make([]float32, length*ts)
	copy(out, attr.floats[start*ts:(start+length)*ts])
	return out, nil
}

func (h *MemoryHost) GetAttributeStrData(assetID, objectID, geoID, partID int32, name string, start, length int32) ([]int32, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	attr, err := h.attribute(assetID, objectID, geoID, partID, name, start, length)
	if err != nil {
		return nil, err
	}
	if attr.handles == nil {
		return nil, fmt.Errorf("attribute %q is not a string attribute", name)
	}
	ts := attr.info.TupleSize
	out := make([]int32, length*ts)
	copy(out, attr.handles[start*ts:(start+length)*ts])
	return out, nil
}

func (h *MemoryHost) GetString(handle int32) (string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if handle < 0 || int(handle) >= len(h.strings) {
		return "", fmt.Errorf("%w: %d", core.ErrInvalidStringHandle, handle)
	}
	return h.strings[handle], nil
}
