package image

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestEncodeICO(t *testing.T) {
	imgs := []image.Image{
		image.NewRGBA(image.Rect(0, 0, 16, 16)),
		image.NewRGBA(image.Rect(0, 0, 32, 32)),
		image.NewRGBA(image.Rect(0, 0, 256, 256)),
	}

	var buf bytes.Buffer
	if err := EncodeICO(&buf, imgs); err != nil {
		t.Fatalf("EncodeICO() error = %v", err)
	}
	data := buf.Bytes()

	var header [3]uint16
	if err := binary.Read(bytes.NewReader(data[:6]), binary.LittleEndian, &header); err != nil {
		t.Fatal(err)
	}
	if header != [3]uint16{0, 1, 3} {
		t.Fatalf("header = %v, want [0 1 3]", header)
	}

	wantDims := []byte{16, 32, 0}
	for i, want := range wantDims {
		entry := data[6+i*16 : 6+(i+1)*16]
		if entry[0] != want || entry[1] != want {
			t.Errorf("entry %d dims = %dx%d, want %d", i, entry[0], entry[1], want)
		}

		size := binary.LittleEndian.Uint32(entry[8:12])
		offset := binary.LittleEndian.Uint32(entry[12:16])
		if int(offset+size) > len(data) {
			t.Fatalf("entry %d points past end of file", i)
		}

		img, err := png.Decode(bytes.NewReader(data[offset : offset+size]))
		if err != nil {
			t.Fatalf("entry %d is not a PNG: %v", i, err)
		}
		if img.Bounds() != imgs[i].Bounds() {
			t.Errorf("entry %d bounds = %v, want %v", i, img.Bounds(), imgs[i].Bounds())
		}
	}

	if first := binary.LittleEndian.Uint32(data[6+12 : 6+16]); first != 6+3*16 {
		t.Errorf("first image offset = %d, want %d", first, 6+3*16)
	}
}

func TestEncodeICO_Errors(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeICO(&buf, nil); err == nil {
		t.Error("expected error for no images")
	}
	if err := EncodeICO(&buf, []image.Image{image.NewRGBA(image.Rect(0, 0, 300, 16))}); err == nil {
		t.Error("expected error for an oversized entry")
	}
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.png")
	if err := WritePNG(path, image.NewRGBA(image.Rect(0, 0, 3, 5))); err != nil {
		t.Fatalf("WritePNG() error = %v", err)
	}

	w, h, err := GetImageDimensions(path)
	if err != nil {
		t.Fatalf("GetImageDimensions() error = %v", err)
	}
	if w != 3 || h != 5 {
		t.Errorf("dimensions = %dx%d, want 3x5", w, h)
	}
}

func TestWriteICO(t *testing.T) {
	path := filepath.Join(t.TempDir(), "favicon.ico")
	if err := WriteICO(path, []image.Image{image.NewRGBA(image.Rect(0, 0, 16, 16))}); err != nil {
		t.Fatalf("WriteICO() error = %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("expected a non-empty ico file, stat err = %v", err)
	}
}
