package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"os"
)

const (
	charW, charH = 8, 16
	maxFrames    = 1800
)

// Recorder collects canvas frames into an animated GIF.
type Recorder struct {
	frames []*image.Paletted
}

func NewRecorder() *Recorder {
	return &Recorder{frames: make([]*image.Paletted, 0, 256)}
}

func (r *Recorder) Len() int { return len(r.frames) }

// Capture paints each lit Braille dot as a block in its cell color. Labels
// are not rendered.
func (r *Recorder) Capture(c *Canvas) {
	if len(r.frames) >= maxFrames {
		return
	}
	imgW, imgH := c.Width*charW, c.Height*charH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), palette.Plan9)

	black := uint8(img.Palette.Index(color.Black))
	for i := range img.Pix {
		img.Pix[i] = black
	}

	dotW, dotH := charW/2, charH/4
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			pattern := c.Grid[row][col] - blank
			if pattern <= 0 {
				continue
			}
			idx := uint8(img.Palette.Index(toRGBA(c.Colors[row][col])))
			baseX, baseY := col*charW, row*charH
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&rune(pixelMap[dy][dx]) == 0 {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, idx)
						}
					}
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

// Save writes the frames at roughly 50fps and clears the recorder.
func (r *Recorder) Save(path string) error {
	if len(r.frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	r.frames = r.frames[:0]
	return nil
}

func toRGBA(hex string) color.RGBA {
	if hex == "" {
		return color.RGBA{255, 255, 255, 255}
	}
	red, green, blue := parseHex(hex)
	return color.RGBA{uint8(red), uint8(green), uint8(blue), 255}
}
