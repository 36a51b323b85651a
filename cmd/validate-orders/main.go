package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Gunvolt24/orderfeed/pkg/validate"
)

// CLI: прогоняет файл с сообщениями шины через ту же нормализацию, что и конвейер,
// и печатает принятые заказы каноническим JSON (по одному на строку).
func main() {
	inputPath := flag.String("in", "", "payload file (.json: one message, .jsonl: one message per line); empty = stdin as jsonl")
	formatStr := flag.String("format", "auto", "input format: auto|json|jsonl")
	outPath := flag.String("out", "", "write accepted orders to file instead of stdout")
	quiet := flag.Bool("quiet", false, "do not print accepted orders, only the summary")
	flag.Parse()

	format := validate.InputFormat(*formatStr)
	path := *inputPath
	if path == "" {
		path = "/dev/stdin"
		if format == validate.FormatAuto {
			format = validate.FormatJSONL
		}
	}

	var out io.Writer = os.Stdout
	switch {
	case *quiet:
		out = io.Discard
	case *outPath != "":
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "create output: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	summary, err := validate.ValidateFile(context.Background(), validate.New(), path, format, out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "validation: %v (%s)\n", err, summary)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "validation ok (%s)\n", summary)
}
