package imaging

import (
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/structure-tensor-mcp/internal/tensor"
)

// LoadedImage pairs a decoded image with its structure tensor handle.
//
// Source is kept for rendering overlays; Field holds the luminance and
// gradient fields derived once at load time. Both are read-only.
type LoadedImage struct {
	Path   string
	Source image.Image
	Field  *tensor.Image
}

// ImageCache provides thread-safe caching of loaded images so that each file
// is decoded, and its gradient field computed, only once.
//
// Images are keyed by the exact path string passed to Load. Cached entries
// remain in memory until Evict or Clear is called.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/path/to/image.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	d := tensor.QueryStructureTensor(img.Field, kernel, 10, 20)
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*LoadedImage

	// OnLoad, if set, is called after an image has been decoded and its
	// gradient field derived. It is not called for cache hits.
	OnLoad func(*LoadedImage)
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]*LoadedImage),
	}
}

// Load retrieves an image from the cache or decodes it from disk.
//
// Supported formats are those registered by the imaging package (PNG, JPEG,
// GIF, BMP and TIFF). EXIF orientation is applied while decoding so the
// gradient field matches the image as it is displayed.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the file is not a decodable image
//   - Returns an error wrapping tensor.ErrInvalidImage for empty images
func (c *ImageCache) Load(path string) (*LoadedImage, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	src, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	loaded, err := FromImage(src)
	if err != nil {
		return nil, err
	}
	loaded.Path = path

	c.mu.Lock()
	if cached, ok := c.images[path]; ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.images[path] = loaded
	c.mu.Unlock()

	if c.OnLoad != nil {
		c.OnLoad(loaded)
	}
	return loaded, nil
}

// FromImage derives the structure tensor handle for an in-memory image.
// The image is flattened to a non-premultiplied RGBA buffer whose origin is
// its top-left corner, whatever its bounds, so alpha never reaches the
// luminance.
func FromImage(src image.Image) (*LoadedImage, error) {
	flat := imaging.Clone(src)
	b := flat.Bounds()

	field, err := tensor.LoadImage(flat.Pix, b.Dx(), b.Dy())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare image: %w", err)
	}
	return &LoadedImage{Source: src, Field: field}, nil
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*LoadedImage)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path. Unknown paths
// are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// ImageSummary describes a loaded image.
type ImageSummary struct {
	// Path is the cache key the image was loaded under.
	Path string `json:"path"`

	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`
}

// Summarize loads an image through the cache and reports its dimensions.
func Summarize(cache *ImageCache, path string) (*ImageSummary, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	return &ImageSummary{
		Path:   path,
		Width:  img.Field.Width(),
		Height: img.Field.Height(),
	}, nil
}
