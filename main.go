// Command heic_to_jpg converts a single HEIC/HEIF file to JPG in a Converted
// folder next to the program and opens the result.
//
//	heic_to_jpg <path-to-heic-file>
//
// Exit code is 1 only when no path is given; conversion problems are reported
// as messages.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"HeicConvert/internal/codec"
	"HeicConvert/internal/config"
	"HeicConvert/internal/convert"
	"HeicConvert/internal/display"
	"HeicConvert/internal/domain"
	"HeicConvert/internal/logger"
	"HeicConvert/internal/paths"
)

type legacy struct {
	codec    convert.Codec
	opener   convert.Opener
	resolver paths.Resolver
	out      io.Writer
}

func (l legacy) run(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(l.out, "Usage: %s <path-to-heic-file>\n", filepath.Base(os.Args[0]))
		return 1
	}

	src := args[0]
	if _, err := os.Stat(src); err != nil || !codec.IsHEIF(src) {
		e := domain.NewError(domain.KindInputNotFound, src, fmt.Errorf("does not exist or is not a HEIC file"))
		fmt.Fprintf(l.out, "Error: %v\n", e)
		return 0
	}

	conv := convert.New(l.codec, convert.WithOpener(l.opener), convert.WithResolver(l.resolver))
	out, err := conv.ConvertBatch(context.Background(), []string{src}, "jpg", "")
	if err != nil {
		fmt.Fprintf(l.out, "Error during conversion: %v\n", err)
		return 0
	}

	r := out.Results[0]
	if !r.OK() {
		fmt.Fprintf(l.out, "Error during conversion: %v\n", r.Err)
		return 0
	}
	fmt.Fprintf(l.out, "Converted: %s\n", r.OutputPath)
	if out.OpenErr != nil {
		fmt.Fprintf(l.out, "Error opening the image: %v\n", out.OpenErr)
	}
	return 0
}

func main() {
	logger.Setup(config.LogConfig{Level: "warn"}, os.Stderr)
	defer logger.Close()

	l := legacy{
		codec:  codec.New(),
		opener: display.SystemOpener{},
		out:    os.Stdout,
	}
	os.Exit(l.run(os.Args[1:]))
}
