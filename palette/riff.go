// Package palette reads Microsoft RIFF PAL files.
package palette

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"

	"golang.org/x/image/riff"
)

/*
typedef struct tagLOGPALETTE {
  WORD         palVersion;
  WORD         palNumEntries;
  PALETTEENTRY palPalEntry[1];
} LOGPALETTE;

typedef struct tagPALETTEENTRY {
  BYTE peRed;
  BYTE peGreen;
  BYTE peBlue;
  BYTE peFlags;
} PALETTEENTRY;
*/

var ErrTooFewColors = errors.New("palette needs at least two colors")

var (
	palType  = riff.FourCC{'P', 'A', 'L', ' '}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}
)

// LoadDuotone reads the PAL file at path and returns its first two colors,
// foreground then background.
func LoadDuotone(path string) (fg, bg color.NRGBA, err error) {
	f, err := os.Open(path)
	if err != nil {
		return fg, bg, fmt.Errorf("could not open palette %q: %w", path, err)
	}
	defer f.Close()

	pals, err := ReadFrom(f)
	if err != nil {
		return fg, bg, fmt.Errorf("could not load palette %q: %w", path, err)
	}

	var all color.Palette
	for _, pal := range pals {
		all = append(all, pal...)
	}
	if len(all) < 2 {
		return fg, bg, fmt.Errorf("%w: %q has %d", ErrTooFewColors, path, len(all))
	}

	return color.NRGBAModel.Convert(all[0]).(color.NRGBA), color.NRGBAModel.Convert(all[1]).(color.NRGBA), nil
}

// ReadFrom returns every palette found in a RIFF PAL stream.
func ReadFrom(r io.Reader) ([]color.Palette, error) {
	formType, rd, err := riff.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not open RIFF stream: %w", err)
	} else if formType != palType {
		return nil, fmt.Errorf("unsupported RIFF content type: %s", string(formType[:]))
	}

	return readPalettes(rd, string(formType[:]))
}

func readPalettes(r *riff.Reader, ident string) ([]color.Palette, error) {
	var res []color.Palette

	for {
		id, size, data, err := r.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return res, fmt.Errorf("could not read chunk %q#%d: %w", ident, len(res), err)
		}

		switch id {
		case riff.LIST:
			listType, list, lerr := riff.NewListReader(size, data)
			if lerr != nil {
				return res, fmt.Errorf("could not read list from chunk %q#%d: %w", ident, len(res), lerr)
			} else if listType != palType {
				return res, fmt.Errorf("chunk %q#%d unsupported type: %s", ident, len(res), string(listType[:]))
			}

			listRes, lerr := readPalettes(list, fmt.Sprintf("%s%d.%s", ident, len(res), listType[:]))
			res = append(res, listRes...)
			if lerr != nil {
				return res, lerr
			}
		case dataType:
			pal, err := readPalette(data, fmt.Sprintf("%s%d", ident, len(res)))
			if err != nil {
				return res, err
			}
			res = append(res, pal)
		default:
			return res, fmt.Errorf("unsupported chunk type in %q#%d: %s", ident, len(res), id[:])
		}
	}

	return res, nil
}

func readPalette(r io.Reader, ident string) (color.Palette, error) {
	var head [4]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, fmt.Errorf("could not read header from chunk %s: %w", ident, err)
	}

	if ver := binary.BigEndian.Uint16(head[:2]); ver != 3 {
		return nil, fmt.Errorf("unsupported palette version in chunk %s: %d", ident, ver)
	}

	count := binary.LittleEndian.Uint16(head[2:])
	res := make(color.Palette, count)
	var entry [4]byte
	for i := range count {
		if _, err := io.ReadFull(r, entry[:]); err != nil {
			return res[:i], fmt.Errorf("could not read color %d/%d from chunk %s: %w", i, count, ident, err)
		}

		res[i] = color.NRGBA{
			R: entry[0],
			G: entry[1],
			B: entry[2],
			A: 0xFF,
		}
	}

	return res, nil
}
