// Package icon provides a flexible multi-variant rendering engine for UI symbols and transport indicators.
//
// Icons can be displayed as emoji, nerd-font glyphs or plain ASCII
// depending on user preference.
package icon

import (
	"github.com/soi-cli/soi/key"
	"github.com/spf13/viper"
)

// Visual Variant Constants - these define the supported aesthetic styles for icon rendering.
const (
	emoji = "emoji"
	nerd  = "nerd"
	plain = "plain"
)

// AvailableVariants returns a slice of all registered icon style identifiers.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain}
}

// Icon identifies one renderable UI symbol.
type Icon int

const (
	// Playing marks the current track while audio is audible.
	Playing Icon = iota
	// Paused marks the current track while playback is suspended.
	Paused
	// Muted marks the current track while output is silenced.
	Muted
	// Fail prefixes fatal diagnostics on the error stream.
	Fail
	// Success prefixes confirmation messages.
	Success
	// Progress prefixes transient status messages.
	Progress
)

// iconDef encapsulates the visual representations of a single UI symbol across all supported variants.
type iconDef struct {
	emoji string
	nerd  string
	plain string
}

// Get retrieves the visual representation for the receiver Def based on the global icons variant configuration.
func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	default:
		return ""
	}
}

var icons = map[Icon]*iconDef{
	Playing:  {emoji: "▶️", nerd: "", plain: ">"},
	Paused:   {emoji: "⏸️", nerd: "", plain: "|"},
	Muted:    {emoji: "🔇", nerd: "", plain: "x"},
	Fail:     {emoji: "💀", nerd: "", plain: "x"},
	Success:  {emoji: "✅", nerd: "", plain: "+"},
	Progress: {emoji: "⌛", nerd: "", plain: "*"},
}

// Get returns the rendered string for a specified Icon identifier from the global registry.
func Get(i Icon) string {
	return icons[i].Get()
}
