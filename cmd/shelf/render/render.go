package render

import (
	"shelf/internal/collection"
	"shelf/internal/view"
)

type Renderer interface {
	RenderCollection(v CollectionView) string
	RenderItem(item collection.Item) string
}

// CollectionView is a projection plus what the list screen needs to explain
// it: the unfiltered total and the active query.
type CollectionView struct {
	Projection view.Projection
	Compact    bool
	Total      int
	Query      string
}

func (v CollectionView) IsEmpty() bool {
	return v.Projection.IsEmpty()
}

func (v CollectionView) Filtered() bool {
	return v.Query != ""
}
