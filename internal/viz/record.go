package viz

import (
	"image"
	"image/color"
	"image/gif"
	"os"
)

const (
	gifDotW = 4
	gifDotH = 4
)

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.gifFrames = m.gifFrames[:0]
		return
	}
	m.recording = false
	if err := saveGIF(m.gifPath, m.gifFrames); err != nil {
		m.status = "gif: " + err.Error()
	} else if len(m.gifFrames) > 0 {
		m.status = "saved " + m.gifPath
	}
	m.gifFrames = nil
}

// captureFrame copies the lit canvas dots into a two-color frame.
func (m *Model) captureFrame() {
	dots := m.canvas.DotSize()
	img := image.NewPaletted(image.Rect(0, 0, dots.Width*gifDotW, dots.Height*gifDotH), color.Palette{color.Black, color.White})
	for y := 0; y < dots.Height; y++ {
		for x := 0; x < dots.Width; x++ {
			if !m.canvas.IsSet(x, y) {
				continue
			}
			for py := 0; py < gifDotH-1; py++ {
				for px := 0; px < gifDotW-1; px++ {
					img.SetColorIndex(x*gifDotW+px, y*gifDotH+py, 1)
				}
			}
		}
	}
	m.gifFrames = append(m.gifFrames, img)
}

func saveGIF(path string, frames []*image.Paletted) error {
	if len(frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 3)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, &anim); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
