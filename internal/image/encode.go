package image

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

var pngEncoder = png.Encoder{CompressionLevel: png.BestCompression}

// EncodePNG writes img to w as an optimised PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := pngEncoder.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// WritePNG encodes img as PNG to path, creating parent directories.
func WritePNG(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return err
	}
	return writeFile(path, buf.Bytes())
}

// EncodeICO writes a multi-resolution ICO file whose entries are PNG streams.
// Images must be at most 256 pixels on each edge.
func EncodeICO(w io.Writer, imgs []image.Image) error {
	if len(imgs) == 0 {
		return fmt.Errorf("ico requires at least one image")
	}

	pngs := make([][]byte, len(imgs))
	for i, img := range imgs {
		b := img.Bounds()
		if b.Dx() > 256 || b.Dy() > 256 {
			return fmt.Errorf("ico entry %d is %dx%d (maximum 256x256)", i, b.Dx(), b.Dy())
		}
		var buf bytes.Buffer
		if err := EncodePNG(&buf, img); err != nil {
			return err
		}
		pngs[i] = buf.Bytes()
	}

	var buf bytes.Buffer
	// Header: reserved, type (1=ICO), count.
	_ = binary.Write(&buf, binary.LittleEndian, [3]uint16{0, 1, uint16(len(imgs))})

	offset := uint32(6 + len(imgs)*16)
	for i, img := range imgs {
		b := img.Bounds()
		buf.Write([]byte{icoDim(b.Dx()), icoDim(b.Dy()), 0, 0}) // width, height, palette, reserved
		_ = binary.Write(&buf, binary.LittleEndian, uint16(1))  // colour planes
		_ = binary.Write(&buf, binary.LittleEndian, uint16(32)) // bits per pixel
		_ = binary.Write(&buf, binary.LittleEndian, uint32(len(pngs[i])))
		_ = binary.Write(&buf, binary.LittleEndian, offset)
		offset += uint32(len(pngs[i]))
	}
	for _, p := range pngs {
		buf.Write(p)
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write ico: %w", err)
	}
	return nil
}

// WriteICO encodes imgs as an ICO file at path, creating parent directories.
func WriteICO(path string, imgs []image.Image) error {
	var buf bytes.Buffer
	if err := EncodeICO(&buf, imgs); err != nil {
		return err
	}
	return writeFile(path, buf.Bytes())
}

// icoDim encodes an edge length for an ICO directory entry, where 0 means 256.
func icoDim(n int) uint8 {
	if n >= 256 {
		return 0
	}
	return uint8(n)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { // #nosec G301 - Site output directories need standard permissions
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 - Site output files are world-readable
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
