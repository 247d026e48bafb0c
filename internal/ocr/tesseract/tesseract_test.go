package tesseract

import (
	"context"
	"image"
	"image/color"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

func requireTesseract(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("tesseract not installed in PATH")
	}
}

// textImage renders s in a bitmap font and scales it up so Tesseract can read it.
func textImage(s string) image.Image {
	small := image.NewRGBA(image.Rect(0, 0, 200, 40))
	draw.Draw(small, small.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  small,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(10, 25),
	}
	d.DrawString(s)

	big := image.NewRGBA(image.Rect(0, 0, 800, 160))
	draw.NearestNeighbor.Scale(big, big.Bounds(), small, small.Bounds(), draw.Src, nil)
	return big
}

func TestEngine_Name(t *testing.T) {
	assert.Equal(t, "tesseract", New().Name())
}

func TestEngine_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New("eng").Recognize(ctx, textImage("ignored"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_Recognize(t *testing.T) {
	requireTesseract(t)

	text, err := New("eng").Recognize(context.Background(), textImage("Hello PDF"))
	require.NoError(t, err)

	got := strings.ToLower(text)
	assert.Contains(t, got, "hello")
	assert.Contains(t, got, "pdf")
}

func TestEngine_BlankPage(t *testing.T) {
	requireTesseract(t)

	blank := image.NewGray(image.Rect(0, 0, 400, 400))
	draw.Draw(blank, blank.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	text, err := New("eng").Recognize(context.Background(), blank)
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(text))
}

func TestEngine_Version(t *testing.T) {
	requireTesseract(t)
	assert.NotEmpty(t, New().Version())
}
