package service

import (
	"filereducer/internal/model"
	"filereducer/internal/storage"
)

// Classifier maps file extensions to processing categories.
type Classifier struct {
	byExt map[string]model.Category
}

// NewClassifier builds a Classifier from lowercase extensions without dots.
func NewClassifier(image, video, document []string) *Classifier {
	c := &Classifier{byExt: make(map[string]model.Category)}
	for _, set := range []struct {
		exts []string
		cat  model.Category
	}{
		{document, model.CategoryDocument},
		{video, model.CategoryVideo},
		{image, model.CategoryImage},
	} {
		for _, ext := range set.exts {
			c.byExt[ext] = set.cat
		}
	}
	return c
}

// Category returns the category of filename, or unsupported if its extension is not allowed.
func (c *Classifier) Category(filename string) model.Category {
	if cat, ok := c.byExt[storage.Ext(filename)]; ok {
		return cat
	}
	return model.CategoryUnsupported
}

// Allowed reports whether filename has an allowed extension.
func (c *Classifier) Allowed(filename string) bool {
	return c.Category(filename) != model.CategoryUnsupported
}
