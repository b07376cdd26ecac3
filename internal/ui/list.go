package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/spotdir/internal/shared"
)

var _ list.Item = fileItem{}

// fileItem wraps a local file name to implement [list.Item].
type fileItem struct {
	name  string
	query string
}

func newFileItem(name string) fileItem {
	return fileItem{name: name, query: shared.SearchQuery(name)}
}

func (i fileItem) FilterValue() string { return i.name }
func (i fileItem) Title() string       { return i.name }
func (i fileItem) Description() string { return "search: " + i.query }
