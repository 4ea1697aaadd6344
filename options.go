package mockup

import (
	"github.com/setanarut/mockup/layered"
	"github.com/setanarut/mockup/mask"
	"github.com/setanarut/mockup/palette"
)

// CacheSize bounds one engine cache. When Limit entries are stored the
// oldest Evict entries are dropped; Evict <= 0 drops half.
type CacheSize struct {
	Limit int
	Evict int
}

type Options struct {
	// Corner radius in template units of a 2000 px side. 0 keeps sharp corners.
	Radius int
	// Share of the template's mean centre color mixed into the product.
	// Ideal start: 0.2-0.3. 0 disables the blend.
	Blend float64
	// Upper bound for dominant color clusters.
	Clusters int
	// Dominant color clustering method.
	Method palette.Method
	// Minimum skin share for a layer to count as a photo.
	SkinThreshold float64
	// Layers covering more of the canvas than this are never photos.
	MaxPhotoCoverage float64
	// Longest side of preview images.
	PreviewSize int
	// Parallel renders in batch mode.
	Workers int

	Templates    CacheSize
	Transformers CacheSize
	Documents    CacheSize
	Colors       CacheSize
}

func DefaultOptions() Options {
	return Options{
		Radius:           0,
		Blend:            0.25,
		Clusters:         palette.DefaultClusters,
		Method:           palette.MethodSeededKMeans,
		SkinThreshold:    mask.DefaultPhotoThreshold,
		MaxPhotoCoverage: 0.8,
		PreviewSize:      1200,
		Workers:          4,
		Templates:        CacheSize{Limit: 50},
		Transformers:     CacheSize{Limit: 15, Evict: 5},
		Documents:        CacheSize{Limit: 10, Evict: 1},
		Colors:           CacheSize{Limit: 50, Evict: 10},
	}
}

func (o Options) layered() layered.Options {
	return layered.Options{
		SkinThreshold:    o.SkinThreshold,
		MaxPhotoCoverage: o.MaxPhotoCoverage,
	}
}
