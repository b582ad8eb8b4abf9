package background

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/tsawler/folio/backend"
	"github.com/tsawler/folio/model"
)

// Extractable reports whether an embedded image stream can be copied
// into a standalone file instead of being painted into the background:
// a JPEG stream in a gray or RGB color space with no remapping table.
// Such streams are byte-for-byte valid .jpg files, so extraction costs
// nothing and keeps large photos out of the vector output.
func Extractable(ref backend.DataRef) bool {
	if ref.Encoding() != backend.EncodingJPEG {
		return false
	}
	if ch := ref.Channels(); ch != 1 && ch != 3 {
		return false
	}
	return !ref.HasRemap()
}

// Extract copies an extractable stream out as an external asset.
func Extract(ref backend.DataRef, name string) (model.AssetRef, error) {
	data, err := ref.Bytes()
	if err != nil {
		return model.AssetRef{}, fmt.Errorf("failed to read image stream: %w", err)
	}
	return model.AssetRef{
		Kind:      model.AssetExternal,
		Name:      name + ".jpg",
		Data:      data,
		MediaType: "image/jpeg",
	}, nil
}

// decodeImage decodes an embedded stream into pixels for painting.
// Raw sample streams carry no dimensions in the stream itself and
// cannot be decoded here; the page backend is expected to hand those
// over re-encoded.
func decodeImage(ref backend.DataRef) (image.Image, error) {
	data, err := ref.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to read image stream: %w", err)
	}
	switch ref.Encoding() {
	case backend.EncodingJPEG:
		img, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode jpeg stream: %w", err)
		}
		return img, nil
	case backend.EncodingRaw:
		return nil, fmt.Errorf("raw sample stream carries no dimensions")
	default:
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode image stream: %w", err)
		}
		return img, nil
	}
}
