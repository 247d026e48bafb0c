package model

import (
	"context"
	"image"
)

// PageRenderer renders a page of an open document into a bitmap.
type PageRenderer interface {
	Rasterize(ctx context.Context, index int) (image.Image, error)
}

// PageHandle references one page of an open document. Its lifetime is bound
// to that document.
type PageHandle struct {
	Index int
	doc   PageRenderer
}

// NewPageHandle returns a handle for page index of doc.
func NewPageHandle(doc PageRenderer, index int) PageHandle {
	return PageHandle{Index: index, doc: doc}
}

// Number is the 1-based page number shown to users.
func (h PageHandle) Number() int { return h.Index + 1 }

// Rasterize renders the referenced page.
func (h PageHandle) Rasterize(ctx context.Context) (image.Image, error) {
	return h.doc.Rasterize(ctx, h.Index)
}
