// amfdump decodes AMF0, AMF3 or remoting packet bytes and prints the
// decoded values as YAML or CBOR.
//
// Input is read from --file or stdin, either raw or as hex text (--hex).
// Classes are not known to the dumper, so typed objects are shown as plain
// objects carrying their properties.
package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/ssungk/eamf/pkg/amf"
	"github.com/ssungk/eamf/pkg/bytearray"
)

type options struct {
	file     string
	hex      bool
	format   string
	mode     string
	logLevel string
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		slog.Error("amfdump failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var opts options
	flagSet := pflag.NewFlagSet("amfdump", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&opts.file, "file", "", "read input from this file instead of stdin")
	flagSet.BoolVar(&opts.hex, "hex", false, "input is hex text (whitespace ignored)")
	flagSet.StringVar(&opts.format, "format", "yaml", "output format: yaml or cbor")
	flagSet.StringVar(&opts.mode, "mode", "amf3", "input layout: amf0, amf3 or packet")
	flagSet.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", opts.logLevel, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	ba, err := readInput(opts, stdin)
	if err != nil {
		return err
	}
	defer ba.Release()
	slog.Info("Input loaded", "bytes", ba.Len(), "mode", opts.mode)

	doc, err := decode(ba, opts.mode)
	if err != nil {
		return err
	}

	return write(stdout, doc, opts.format)
}

func readInput(opts options, stdin io.Reader) (*bytearray.ByteArray, error) {
	r := stdin
	if opts.file != "" {
		f, err := os.Open(opts.file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	ba := bytearray.NewDefault()
	if _, err := ba.ReadFrom(r); err != nil {
		ba.Release()
		return nil, fmt.Errorf("read input: %w", err)
	}
	if !opts.hex {
		return ba, nil
	}

	text := strings.Join(strings.Fields(string(ba.Bytes())), "")
	ba.Release()
	raw, err := hex.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("hex input: %w", err)
	}
	return bytearray.NewFromBytes(raw), nil
}

// decode turns the input into plain Go values ready for YAML or CBOR.
func decode(ba *bytearray.ByteArray, mode string) (any, error) {
	cfg := amf.DefaultConfig()
	cfg.AllowUnregistered = true

	switch mode {
	case "amf0":
		return decodeValues(ba, amf.NewAMF0Context(cfg))
	case "amf3":
		return decodeValues(ba, amf.NewAMF3Context(cfg))
	case "packet":
		p, err := amf.ReadPacket(ba, cfg)
		if err != nil {
			return nil, err
		}
		return packetDoc(p), nil
	default:
		return nil, fmt.Errorf("unknown --mode %q", mode)
	}
}

type decoder interface {
	Decode(ba *bytearray.ByteArray) (amf.Value, error)
}

func decodeValues(ba *bytearray.ByteArray, dec decoder) ([]any, error) {
	var out []any
	for ba.BytesAvailable() > 0 {
		offset := ba.ReadPosition()
		v, err := dec.Decode(ba)
		if err != nil {
			return nil, fmt.Errorf("value %d at offset %d: %w", len(out), offset, err)
		}
		slog.Debug("Value decoded", "index", len(out), "offset", offset, "kind", v.Kind())
		out = append(out, amf.ToNative(v))
	}
	return out, nil
}

func packetDoc(p *amf.Packet) map[string]any {
	headers := make([]any, 0, len(p.Headers))
	for _, h := range p.Headers {
		headers = append(headers, map[string]any{
			"name":           h.Name,
			"mustUnderstand": h.MustUnderstand,
			"value":          amf.ToNative(h.Value),
		})
	}
	messages := make([]any, 0, len(p.Messages))
	for _, m := range p.Messages {
		messages = append(messages, map[string]any{
			"targetURI":   m.TargetURI,
			"responseURI": m.ResponseURI,
			"value":       amf.ToNative(m.Value),
		})
	}
	return map[string]any{
		"version":  p.Version,
		"headers":  headers,
		"messages": messages,
	}
}

func write(w io.Writer, doc any, format string) error {
	switch format {
	case "yaml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	case "cbor":
		data, err := cborMode.Marshal(doc)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown --format %q", format)
	}
}

// cborMode writes deterministic CBOR with dates as tagged RFC 3339 strings.
var cborMode = func() cbor.EncMode {
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	opts.TimeTag = cbor.EncTagRequired
	mode, err := opts.EncMode()
	if err != nil {
		panic("amfdump: CBOR encoder initialization failed: " + err.Error())
	}
	return mode
}()
