// olml - OLML encoder CLI tool
//
// Usage:
//
//	olml [options] [file]
//
// Reads a JSON, YAML or CBOR document and prints its OLML text.
// Input may be gzip or zstd compressed. If no file is given, reads
// from stdin.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joeshaw/envdecode"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/ctyxer/olml/olml"
)

const version = "0.1.0"

// config holds defaults taken from the environment. Flags override them.
type config struct {
	// From is the input format: json, yaml, cbor or auto. ENV: OLML_FROM
	From string `env:"OLML_FROM,default=auto"`
	// LogLevel is a logrus level name. ENV: OLML_LOG_LEVEL
	LogLevel string `env:"OLML_LOG_LEVEL,default=warn"`
}

func loadConfig() (config, error) {
	var cfg config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return cfg, fmt.Errorf("environment: %w", err)
	}
	if cfg.From == "" {
		cfg.From = "auto"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	return cfg, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	log := logrus.New()
	log.SetOutput(stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	cfg, err := loadConfig()
	if err != nil {
		log.Error(err)
		return 1
	}

	flags := pflag.NewFlagSet("olml", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() { printUsage(stderr, flags) }

	from := flags.StringP("from", "f", cfg.From, "input format: json, yaml, cbor or auto")
	output := flags.StringP("output", "o", "", "write to file instead of stdout")
	noNewline := flags.Bool("no-newline", false, "do not append a newline to the output")
	verbose := flags.BoolP("verbose", "v", false, "log debug information to stderr")
	showVersion := flags.Bool("version", false, "print version info")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 1
	}

	if *showVersion {
		fmt.Fprintf(stdout, "olml %s\n", version)
		return 0
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Errorf("invalid log level %q: %v", cfg.LogLevel, err)
		return 1
	}
	log.SetLevel(level)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if flags.NArg() > 1 {
		log.Errorf("expected at most one input file, got %d", flags.NArg())
		return 1
	}

	path := flags.Arg(0)
	input := stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			log.Errorf("open file: %v", err)
			return 1
		}
		defer f.Close()
		input = f
	}

	// The output file is only touched once conversion has succeeded.
	var buf bytes.Buffer
	if err := convert(log, input, path, *from, &buf, !*noNewline); err != nil {
		log.Error(err)
		return 1
	}

	if *output == "" {
		if _, err := stdout.Write(buf.Bytes()); err != nil {
			log.Errorf("write output: %v", err)
			return 1
		}
		return 0
	}
	if err := writeFile(*output, buf.Bytes()); err != nil {
		log.Errorf("write output: %v", err)
		return 1
	}
	log.WithField("path", *output).Debug("wrote output")
	return 0
}

func writeFile(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// convert reads one document from r and writes its OLML text to w.
func convert(log *logrus.Logger, r io.Reader, path, from string, w io.Writer, newline bool) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	log.WithField("bytes", len(data)).Debug("read input")

	data, compression, err := decompress(data)
	if err != nil {
		return err
	}
	if compression != "" {
		log.WithFields(logrus.Fields{
			"compression": compression,
			"bytes":       len(data),
		}).Debug("decompressed input")
	}

	format, err := resolveFormat(from, path)
	if err != nil {
		return err
	}
	log.WithField("format", format).Debug("decoding input")

	v, err := olml.FromFormat(format, data)
	if err != nil {
		return err
	}

	enc := olml.NewEncoder(w)
	enc.SetNewline(newline)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.WithField("kind", v.Kind()).Debug("encoded value")
	return nil
}

func resolveFormat(from, path string) (olml.Format, error) {
	if from != "auto" {
		return olml.ParseFormat(from)
	}
	if f, ok := olml.FormatFromPath(path); ok {
		return f, nil
	}
	return olml.FormatJSON, nil
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// zstdDecoder is reused across calls; DecodeAll is safe for concurrent use.
var zstdDecoder *zstd.Decoder

func init() {
	var err error
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("olml: zstd decoder initialization failed: " + err.Error())
	}
}

// decompress inflates gzip or zstd input detected by magic bytes.
// Other input is returned unchanged with an empty compression name.
func decompress(data []byte) ([]byte, string, error) {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, "", fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, "", fmt.Errorf("gzip: %w", err)
		}
		return out, "gzip", nil

	case bytes.HasPrefix(data, zstdMagic):
		out, err := zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, "", fmt.Errorf("zstd: %w", err)
		}
		return out, "zstd", nil

	default:
		return data, "", nil
	}
}

func printUsage(w io.Writer, flags *pflag.FlagSet) {
	fmt.Fprintf(w, `olml - OLML encoder CLI tool (v%s)

Usage:
  olml [options] [file]

Reads a JSON, YAML or CBOR document (optionally gzip or zstd
compressed) and prints its OLML text. If no file is given, reads
from stdin.

Options:
%s
Environment:
  OLML_FROM        default for --from (default: auto)
  OLML_LOG_LEVEL   logrus level (default: warn)

Examples:
  echo '{"b":1,"a":[1,2]}' | olml
  # Output: {"a":[1 2] "b":1}

  olml config.yaml
  olml -f cbor < data.bin
`, version, flags.FlagUsages())
}
