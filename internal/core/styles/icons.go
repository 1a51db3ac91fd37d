package styles

import (
	"path/filepath"
	"strings"
)

// Tip: To find icons use https://github.com/loichyan/nerdfix

// Note status icons.
var (
	IconNote    = "\U000F039A" // 󰎚
	IconCheck   = "\uf00c"
	IconError   = "\uf057"
	IconPending = "\uf017"
)

// File type icons
var (
	IconFileDefault  = "\uf15b"
	IconFileGo       = "\ue627"
	IconFileJS       = "\U000F031E" // 󰌞
	IconFileTS       = "\U000F06E6" // 󰛦
	IconFilePython   = "\ue606"
	IconFileMarkdown = "\ue609"
	IconFileJSON     = "\ue60b"
	IconFileYAML     = "\ue6a8"
	IconFileRust     = "\ue7a8"
	IconFileShell    = "\uf489"
)

var fileIcons = map[string]string{
	".go":   IconFileGo,
	".js":   IconFileJS,
	".jsx":  IconFileJS,
	".ts":   IconFileTS,
	".tsx":  IconFileTS,
	".py":   IconFilePython,
	".md":   IconFileMarkdown,
	".json": IconFileJSON,
	".yaml": IconFileYAML,
	".yml":  IconFileYAML,
	".rs":   IconFileRust,
	".sh":   IconFileShell,
	".bash": IconFileShell,
}

// FileIcon returns the icon for a file name based on its extension.
func FileIcon(name string) string {
	if icon, ok := fileIcons[strings.ToLower(filepath.Ext(name))]; ok {
		return icon
	}
	return IconFileDefault
}

