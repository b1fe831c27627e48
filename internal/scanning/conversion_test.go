package scanning

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// tinyPNG returns a small valid PNG for tests in this package
func tinyPNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func tinyJPEG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

var _ = Describe("NormalizeToPNG", func() {
	When("the input is already PNG", func() {
		It("returns the bytes unchanged", func() {
			data := tinyPNG()
			out, err := NormalizeToPNG(data, "image/png")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(data))
		})
	})

	When("the input is JPEG", func() {
		It("re-encodes it as PNG", func() {
			out, err := NormalizeToPNG(tinyJPEG(), "image/jpeg")
			Expect(err).NotTo(HaveOccurred())

			_, format, err := image.Decode(bytes.NewReader(out))
			Expect(err).NotTo(HaveOccurred())
			Expect(format).To(Equal("png"))
		})
	})

	When("the content type is missing", func() {
		It("still decodes by sniffing the data", func() {
			out, err := NormalizeToPNG(tinyJPEG(), "")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).NotTo(BeEmpty())
		})
	})

	When("the input is not an image", func() {
		It("returns the error", func() {
			_, err := NormalizeToPNG([]byte("definitely not an image"), "image/jpeg")
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("isHEIC", func() {
	It("rejects short data", func() {
		Expect(isHEIC([]byte("short"))).To(BeFalse())
	})

	It("detects the heic brand", func() {
		data := append([]byte{0, 0, 0, 24}, []byte("ftypheic")...)
		data = append(data, make([]byte, 16)...)
		Expect(isHEIC(data)).To(BeTrue())
	})

	It("rejects PNG data", func() {
		Expect(isHEIC(tinyPNG())).To(BeFalse())
	})
})
