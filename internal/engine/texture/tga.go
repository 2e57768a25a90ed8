// Package texture decodes texture formats the standard image package
// does not register.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

// TGA image types.
const (
	TGATypeUncompressed = 2  // uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

const tgaHeaderSize = 18

// ErrUnsupportedTGA is returned for TGA variants the decoder does not handle.
var ErrUnsupportedTGA = errors.New("unsupported TGA")

type tgaHeader struct {
	idLength    int
	imageType   byte
	width       int
	height      int
	bytesPerPx  int
	topToBottom bool
}

func parseTGAHeader(data []byte) (tgaHeader, error) {
	if len(data) < tgaHeaderSize {
		return tgaHeader{}, fmt.Errorf("TGA data too short")
	}
	h := tgaHeader{
		idLength:    int(data[0]),
		imageType:   data[2],
		width:       int(data[12]) | int(data[13])<<8,
		height:      int(data[14]) | int(data[15])<<8,
		topToBottom: data[17]&0x20 != 0,
	}
	if data[1] != 0 {
		return h, fmt.Errorf("%w: color-mapped", ErrUnsupportedTGA)
	}
	if h.imageType != TGATypeUncompressed && h.imageType != TGATypeRLE {
		return h, fmt.Errorf("%w: type %d", ErrUnsupportedTGA, h.imageType)
	}
	switch bpp := int(data[16]); bpp {
	case 24, 32:
		h.bytesPerPx = bpp / 8
	default:
		return h, fmt.Errorf("%w: %d bits per pixel", ErrUnsupportedTGA, bpp)
	}
	return h, nil
}

// DecodeTGAConfig reads the dimensions of a TGA image from its header.
func DecodeTGAConfig(r io.Reader) (image.Config, error) {
	var buf [tgaHeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return image.Config{}, fmt.Errorf("TGA header: %w", err)
	}
	h, err := parseTGAHeader(buf[:])
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.RGBAModel, Width: h.width, Height: h.height}, nil
}

// DecodeTGA decodes uncompressed or RLE true-color TGA data.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	h, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}
	offset := tgaHeaderSize + h.idLength
	if offset > len(data) {
		return nil, fmt.Errorf("TGA data truncated")
	}
	px := data[offset:]

	img := image.NewRGBA(image.Rect(0, 0, h.width, h.height))
	total := h.width * h.height
	// put stores the n-th pixel in file order.
	put := func(n int, c color.RGBA) {
		x, y := n%h.width, n/h.width
		if !h.topToBottom {
			y = h.height - 1 - y
		}
		img.SetRGBA(x, y, c)
	}

	if h.imageType == TGATypeUncompressed {
		if len(px) < total*h.bytesPerPx {
			return nil, fmt.Errorf("TGA pixel data truncated")
		}
		for n := 0; n < total; n++ {
			put(n, h.pixel(px[n*h.bytesPerPx:]))
		}
		return img, nil
	}

	n, i := 0, 0
	for n < total && i < len(px) {
		packet := px[i]
		i++
		count := int(packet&0x7f) + 1

		if packet&0x80 != 0 {
			if i+h.bytesPerPx > len(px) {
				break
			}
			c := h.pixel(px[i:])
			i += h.bytesPerPx
			for ; count > 0 && n < total; count-- {
				put(n, c)
				n++
			}
			continue
		}
		for ; count > 0 && n < total && i+h.bytesPerPx <= len(px); count-- {
			put(n, h.pixel(px[i:]))
			i += h.bytesPerPx
			n++
		}
	}
	return img, nil
}

// pixel reads one BGR(A) pixel.
func (h tgaHeader) pixel(p []byte) color.RGBA {
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if h.bytesPerPx == 4 {
		c.A = p[3]
	}
	return c
}
