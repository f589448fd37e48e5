package instancer

import (
	"github.com/spaghettifunk/anima-hapi/engine/assets"
	"github.com/spaghettifunk/anima-hapi/engine/scene"
)

// withCookingSuspended runs fn with every cook behaviour of template's asset
// switched off. The settings are back in place when it returns, panics
// included.
func withCookingSuspended(template *scene.GameObject, fn func()) {
	if asset, ok := scene.GetComponent[*assets.Asset](template); ok {
		suspension := asset.SuspendCooking()
		defer suspension.Resume()
	}
	fn()
}
