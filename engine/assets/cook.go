package assets

// CookSettings are the asset behaviours that can trigger a recook or push
// transforms back to the host.
type CookSettings struct {
	LiveTransformPropagation bool
	SyncAssetTransform       bool
	EnableCooking            bool
}

func (a *Asset) CookSettings() CookSettings {
	return CookSettings{
		LiveTransformPropagation: a.LiveTransformPropagation,
		SyncAssetTransform:       a.SyncAssetTransform,
		EnableCooking:            a.EnableCooking,
	}
}

func (a *Asset) SetCookSettings(cs CookSettings) {
	a.LiveTransformPropagation = cs.LiveTransformPropagation
	a.SyncAssetTransform = cs.SyncAssetTransform
	a.EnableCooking = cs.EnableCooking
}

// CookSuspension holds the settings an asset had before SuspendCooking.
type CookSuspension struct {
	asset   *Asset
	saved   CookSettings
	resumed bool
}

// SuspendCooking turns every cook behaviour of a off until Resume.
func (a *Asset) SuspendCooking() *CookSuspension {
	cs := &CookSuspension{asset: a, saved: a.CookSettings()}
	a.SetCookSettings(CookSettings{})
	return cs
}

// Resume restores the saved settings. Only the first call has an effect.
func (cs *CookSuspension) Resume() {
	if cs == nil || cs.resumed {
		return
	}
	cs.asset.SetCookSettings(cs.saved)
	cs.resumed = true
}

func (cs *CookSuspension) Saved() CookSettings {
	return cs.saved
}
