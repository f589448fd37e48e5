package testbed

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/spaghettifunk/anima-hapi/engine/assets"
	"github.com/spaghettifunk/anima-hapi/engine/instancer"
	"github.com/spaghettifunk/anima-hapi/engine/scene"
)

var (
	rootStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	hiddenStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#777777"))
	enumeratorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444")).MarginRight(1)
)

// RenderScene draws the scene hierarchy, one tree per root object.
func RenderScene(s *scene.Scene) string {
	var b strings.Builder
	for _, root := range s.Roots() {
		t := objectTree(root).
			Enumerator(tree.RoundedEnumerator).
			EnumeratorStyle(enumeratorStyle).
			RootStyle(rootStyle)
		b.WriteString(t.String())
		b.WriteString("\n")
	}
	return b.String()
}

func objectTree(o *scene.GameObject) *tree.Tree {
	t := tree.Root(objectLabel(o))
	for _, c := range o.Children() {
		if c.ChildCount() == 0 {
			t.Child(objectLabel(c))
			continue
		}
		t.Child(objectTree(c))
	}
	return t
}

func objectLabel(o *scene.GameObject) string {
	label := o.Name
	if _, ok := scene.GetComponent[*assets.Asset](o); ok {
		label += " [asset]"
	}
	if in, ok := scene.GetComponent[*instancer.Instancer](o); ok {
		label += fmt.Sprintf(" [instancer #%d]", in.ObjectID)
	}
	if _, ok := scene.GetComponent[*assets.PartControl](o); ok {
		p := o.Transform.Position
		s := o.Transform.Scale
		label += fmt.Sprintf(" pos(%.2f, %.2f, %.2f) scale(%.2f, %.2f, %.2f)", p.X, p.Y, p.Z, s.X, s.Y, s.Z)
	}
	if r, ok := scene.GetComponent[*scene.MeshRenderer](o); ok && !r.Enabled {
		return hiddenStyle.Render(label + " (hidden)")
	}
	return label
}
