// Package ppm writes binary netpbm images: P5 for *image.Gray, P6 for everything
// else. Alpha is dropped.
package ppm

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
)

func Encode(w io.Writer, img image.Image) error {
	b := img.Bounds()
	bw := bufio.NewWriter(w)

	if gray, ok := img.(*image.Gray); ok {
		if _, err := fmt.Fprintf(bw, "P5\n%d %d\n255\n", b.Dx(), b.Dy()); err != nil {
			return err
		}
		for y := b.Min.Y; y < b.Max.Y; y++ {
			off := gray.PixOffset(b.Min.X, y)
			if _, err := bw.Write(gray.Pix[off : off+b.Dx()]); err != nil {
				return err
			}
		}
		return bw.Flush()
	}

	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", b.Dx(), b.Dy()); err != nil {
		return err
	}
	px := make([]byte, 3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			px[0], px[1], px[2] = c.R, c.G, c.B
			if _, err := bw.Write(px); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
