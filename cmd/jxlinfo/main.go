// Command jxlinfo prints a JPEG XL codestream or container's leading
// metadata without decoding any frame's pixel data — a thin wrapper
// over jxl.ParseImageHeader. The wider CLI front end (encode,
// decode, format conversion) is explicitly out of scope; this
// binary exists only for info-style callers that need header
// metadata without a decode.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jxlgo/jxl"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s <file.jxl>\n", os.Args[0])
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "jxlinfo: %v\n", err)
		os.Exit(1)
	}

	hdr, err := jxl.ParseImageHeader(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jxlinfo: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("dimensions:     %dx%d\n", hdr.Width, hdr.Height)
	fmt.Printf("channels:       %d\n", hdr.Channels)
	fmt.Printf("pixel type:     %v\n", hdr.PixelType)
	fmt.Printf("bits/sample:    %d\n", hdr.BitsPerSample)
	fmt.Printf("has alpha:      %v\n", hdr.HasAlpha)
	fmt.Printf("extra channels: %d\n", hdr.ExtraChannels)
	fmt.Printf("orientation:    %d\n", hdr.Orientation)
	if hdr.Animation {
		fmt.Printf("animation:      %d/%d ticks/sec, loop=%d\n", hdr.TicksPerSecondNum, hdr.TicksPerSecondDen, hdr.LoopCount)
	}
	fmt.Printf("color space:    %v\n", hdr.ColorEncoding.ColorSpace)
}
