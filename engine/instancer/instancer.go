// Package instancer turns the instancing points of a host object into
// copies of template objects placed in the scene.
package instancer

import (
	"time"

	"github.com/spaghettifunk/anima-hapi/engine/assets"
	"github.com/spaghettifunk/anima-hapi/engine/core"
	"github.com/spaghettifunk/anima-hapi/engine/hapi"
	"github.com/spaghettifunk/anima-hapi/engine/math"
	"github.com/spaghettifunk/anima-hapi/engine/scene"
)

// MaxPointCount is the largest number of points a single pass accepts.
const MaxPointCount = 65000

const (
	scaleAttribute    = "scale"
	instanceAttribute = "instance"
)

// Instancer sits on the container object of an instancing host object. Each
// call to InstanceObjects replaces the container's children with one copy per
// resolved point.
type Instancer struct {
	Asset    *assets.Asset
	ObjectID int32

	// OverrideInstances copies ObjToInstantiate for every resolved point in
	// place of the point's own template.
	OverrideInstances bool
	ObjToInstantiate  *scene.GameObject

	// Progress defaults to a LogProgress.
	Progress ProgressBar

	container *scene.GameObject
}

// NewInstancer attaches a new instancer for objectID of asset to container.
func NewInstancer(container *scene.GameObject, asset *assets.Asset, objectID int32) *Instancer {
	in := &Instancer{
		Asset:     asset,
		ObjectID:  objectID,
		container: container,
	}
	container.AddComponent(in)
	return in
}

// Clone drops the instancer from copied objects. The instances it created
// are plain objects and are copied with the container.
func (in *Instancer) Clone() scene.Component {
	return nil
}

func (in *Instancer) Container() *scene.GameObject {
	return in.container
}

// InstanceRecord is one object created by a pass.
type InstanceRecord struct {
	Point    int
	Kind     TemplateKind
	Template *scene.GameObject
	Object   *scene.GameObject
}

// Report describes a finished pass. Err is the error that aborted it; the
// instances created before the abort stay in the scene.
type Report struct {
	AssetID    int32
	ObjectID   int32
	ObjectName string
	PointCount int
	// Removed counts the container children destroyed by the teardown.
	Removed   int
	Instances []InstanceRecord
	Skipped   int
	Elapsed   time.Duration
	Err       error
}

func (r *Report) Created() int {
	return len(r.Instances)
}

// pointData joins every per-point array of a pass on the point index.
type pointData struct {
	transforms []hapi.Transform
	// hasScale is set when the scale attribute exists, in which case the
	// transform scale is applied to the copies.
	hasScale bool
	// instance holds string handles, nil when the attribute does not exist.
	instance []int32
}

// InstanceObjects rebuilds the container's children from the host's current
// points. The returned error is already logged; callers handling several
// objects use core.IsIgnorable to decide whether to carry on.
func (in *Instancer) InstanceObjects() (report *Report, err error) {
	clock := core.NewClock()
	clock.Start()
	report = &Report{ObjectID: in.ObjectID}

	defer func() {
		clock.Stop()
		report.Elapsed = clock.Elapsed()
		report.Err = err
		if err != nil {
			core.LogWarn(err.Error())
		}
		core.MetricsRecordPass(report.Created(), report.Skipped, report.Elapsed, err != nil)
		core.EventFire(core.EVENT_CODE_INSTANCING_COMPLETED, in, core.EventContext{
			Data: &core.InstancingEvent{
				AssetID:  report.AssetID,
				ObjectID: report.ObjectID,
				Created:  report.Created(),
				Skipped:  report.Skipped,
				Err:      err,
			},
		})
	}()

	if in.container != nil {
		report.Removed = in.container.DestroyChildren()
	}
	if err := in.validate(); err != nil {
		return report, err
	}

	asset := in.Asset
	host := asset.Host
	object := asset.Objects[in.ObjectID]
	report.AssetID = asset.AssetID
	report.ObjectName = object.Name

	geo, err := host.GetGeoInfo(asset.AssetID, in.ObjectID, 0)
	if err != nil {
		return report, core.WrapFatal(err, "get geo info of object %d", in.ObjectID)
	}
	if geo.PartCount == 0 {
		return report, nil
	}

	part, err := host.GetPartInfo(asset.AssetID, in.ObjectID, geo.ID, 0)
	if err != nil {
		return report, core.WrapFatal(err, "get part info of object %d", in.ObjectID)
	}
	report.PointCount = int(part.PointCount)
	if asset.EnableLogging {
		core.LogDebug("Instancer #%d (%s): points: %d", in.ObjectID, object.Name, part.PointCount)
	}
	if part.PointCount > MaxPointCount {
		return report, core.ErrorFatal("Point count (%d) above limit (%d)!", part.PointCount, MaxPointCount)
	}

	data, err := in.fetchPoints(geo.ID, part)
	if err != nil {
		return report, err
	}

	progress := in.Progress
	if progress == nil {
		progress = &LogProgress{}
	}
	resolver := newTemplateResolver(asset, object, in.container.Scene(), data.instance)

	for i := 0; i < report.PointCount; i++ {
		progress.Report(i, report.PointCount, progressMessage)

		lookup, err := resolver.resolve(i)
		if err != nil {
			return report, err
		}
		if !lookup.Resolved() {
			report.Skipped++
			continue
		}

		obj := in.materialize(lookup.Object, data.transforms[i], data.hasScale, i)
		if obj == nil {
			report.Skipped++
			continue
		}
		in.attach(obj)
		report.Instances = append(report.Instances, InstanceRecord{
			Point:    i,
			Kind:     lookup.Kind,
			Template: lookup.Object,
			Object:   obj,
		})
	}
	return report, nil
}

func (in *Instancer) validate() error {
	if in.container == nil || in.Asset == nil || in.Asset.Host == nil {
		return core.ErrInstancerNotConfigured
	}
	if in.ObjectID < 0 || int(in.ObjectID) >= len(in.Asset.Objects) {
		return core.ErrInstancerNotConfigured
	}
	if in.OverrideInstances && in.ObjToInstantiate == nil {
		return core.ErrInstancerNotConfigured
	}
	return nil
}

func (in *Instancer) fetchPoints(geoID int32, part hapi.PartInfo) (*pointData, error) {
	asset := in.Asset
	host := asset.Host
	count := part.PointCount

	transforms, err := hapi.GetInstanceTransforms(host, asset.AssetID, in.ObjectID, geoID, hapi.SRT, count)
	if err != nil {
		return nil, core.WrapFatal(err, "fetch transforms for asset: %d", asset.AssetID)
	}
	if int32(len(transforms)) != count {
		return nil, core.ErrorFatal("Unexpected transform array length found for asset: %d!", asset.AssetID)
	}
	data := &pointData{transforms: transforms}

	scaleInfo, scales, err := hapi.GetFloatAttribute(host, asset.AssetID, in.ObjectID, geoID, part.ID, scaleAttribute)
	if err != nil {
		return nil, core.WrapFatal(err, "fetch scale for asset: %d", asset.AssetID)
	}
	if scaleInfo.Exists {
		if scaleInfo.Owner != hapi.ATTROWNER_POINT {
			return nil, core.ErrorIgnorable("I only understand scale as point attributes!")
		}
		if len(scales) != int(count)*3 {
			return nil, core.ErrorFatal("Unexpected scale array length found for asset: %d!", asset.AssetID)
		}
		data.hasScale = true
	}

	instanceInfo, handles, err := hapi.GetStringAttribute(host, asset.AssetID, in.ObjectID, geoID, part.ID, instanceAttribute)
	if err != nil {
		return nil, core.WrapFatal(err, "fetch instance for asset: %d", asset.AssetID)
	}
	if instanceInfo.Exists {
		if instanceInfo.Owner != hapi.ATTROWNER_POINT {
			return nil, core.ErrorIgnorable("I only understand instance as point attributes!")
		}
		if len(handles) != int(count) {
			return nil, core.ErrorFatal("Unexpected instance array length found for asset: %d!", asset.AssetID)
		}
		data.instance = handles
	}
	return data, nil
}

// materialize copies the template of one point and poses it in engine space.
func (in *Instancer) materialize(template *scene.GameObject, t hapi.Transform, hasScale bool, point int) *scene.GameObject {
	s := in.container.Scene()
	position := math.AuthoringToEnginePosition(t.Position)
	_, rotation := math.AuthoringToEngineRotation(t.RotationQuaternion)

	if in.OverrideInstances {
		var obj *scene.GameObject
		withCookingSuspended(in.ObjToInstantiate, func() {
			obj = s.InstantiatePrefab(in.ObjToInstantiate)
			if obj == nil {
				obj = s.Instantiate(in.ObjToInstantiate, math.NewVec3Zero(), math.NewQuatIdentity())
			}
		})
		if obj == nil {
			return nil
		}
		obj.Transform.SetPositionRotation(position, rotation)
		if hasScale {
			obj.Transform.SetScale(t.Scale)
		}
		return obj
	}

	var obj *scene.GameObject
	withCookingSuspended(template, func() {
		obj = s.Instantiate(template, position, rotation)
	})
	if obj == nil {
		return nil
	}
	if hasScale {
		if hasZeroComponent(t.Scale) {
			core.LogWarn("Instance %d: Scale has a zero component!", point)
		}
		obj.Transform.SetScale(t.Scale)
	}
	for _, r := range scene.GetComponentsInChildren[*scene.MeshRenderer](obj) {
		r.Enabled = true
	}
	return obj
}

func (in *Instancer) attach(obj *scene.GameObject) {
	obj.SetParent(in.container)
	pc := scene.GetOrAddComponent(obj, func() *assets.PartControl {
		return &assets.PartControl{}
	})
	pc.Asset = in.Asset
}

func hasZeroComponent(v math.Vec3) bool {
	return math.Approximately(v.X, 0) || math.Approximately(v.Y, 0) || math.Approximately(v.Z, 0)
}
