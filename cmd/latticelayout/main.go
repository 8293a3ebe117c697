// Command latticelayout plans a latticemap layout from the command line and
// either prints it once (flag mode) or walks an interactive REPL for trying
// different entry counts, alignments and replication settings.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/iamNilotpal/latticemap/pkg/latticemap"
	"github.com/iamNilotpal/latticemap/pkg/logger"
	"github.com/iamNilotpal/latticemap/pkg/marshal"
	"github.com/iamNilotpal/latticemap/pkg/options"
	"github.com/iamNilotpal/latticemap/pkg/recipe"
	"github.com/natefinch/atomic"
	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	var (
		entries           int64
		averageKeySize    float64
		averageValueSize  float64
		constantKeySize   int64
		constantValueSize int64
		valueAlignment    int64
		replicated        bool
		interactive       bool
		recipePath        string
		outPath           string
	)

	flag.Int64VarP(&entries, "entries", "e", options.DefaultEntries, "upper bound on logical entry count")
	flag.Float64Var(&averageKeySize, "average-key-size", 0, "average serialized key size in bytes")
	flag.Float64Var(&averageValueSize, "average-value-size", 0, "average serialized value size in bytes")
	flag.Int64Var(&constantKeySize, "constant-key-size", 0, "asserted fixed key size in bytes")
	flag.Int64Var(&constantValueSize, "constant-value-size", 0, "asserted fixed value size in bytes")
	flag.Int64Var(&valueAlignment, "value-alignment", 1, "value alignment (power of two)")
	flag.BoolVar(&replicated, "replicated", false, "plan for replicated entries")
	flag.BoolVarP(&interactive, "interactive", "i", false, "enter an interactive REPL instead of printing once")
	flag.StringVar(&recipePath, "recipe", "", "load configuration from a TOML recipe file")
	flag.StringVarP(&outPath, "out", "o", "", "write the emitted layout as JSON to this file")
	flag.Parse()

	log := logger.NewDevelopment("latticelayout")

	var optFns []options.OptionFunc
	if recipePath != "" {
		r, err := recipe.Load(recipePath)
		if err != nil {
			log.Fatalw("failed to load recipe", "error", err)
		}
		optFns = append(optFns, r.OptionFuncs()...)
	}

	// With a recipe loaded, only flags given explicitly override its values.
	if recipePath == "" || flag.CommandLine.Changed("entries") {
		optFns = append(optFns, options.WithEntries(entries))
	}
	if recipePath == "" || flag.CommandLine.Changed("value-alignment") {
		optFns = append(optFns, options.WithValueAlignment(valueAlignment))
	}
	if recipePath == "" || flag.CommandLine.Changed("replicated") {
		optFns = append(optFns, options.WithReplicated(replicated))
	}
	if constantKeySize > 0 {
		optFns = append(optFns, options.WithConstantKeySize(constantKeySize), options.WithKeyMarshaller(marshal.NewRuntimeConstantSize(int(constantKeySize))))
	} else if averageKeySize > 0 {
		optFns = append(optFns, options.WithAverageKeySize(averageKeySize), options.WithKeyMarshaller(marshal.BytesMarshaller()))
	}
	if constantValueSize > 0 {
		optFns = append(optFns, options.WithConstantValueSize(constantValueSize), options.WithValueMarshaller(marshal.NewRuntimeConstantSize(int(constantValueSize))))
	} else if averageValueSize > 0 {
		optFns = append(optFns, options.WithAverageValueSize(averageValueSize), options.WithValueMarshaller(marshal.BytesMarshaller()))
	}

	if interactive {
		runREPL(optFns)
		return
	}

	builder := latticemap.NewWithLogger(log, optFns...)
	emitAndReport(builder, outPath, log)
}

func emitAndReport(builder *latticemap.Builder, outPath string, log *zap.SugaredLogger) bool {
	result, err := builder.Emit()
	if err != nil {
		log.Errorw("layout planning failed", "error", err)
		return false
	}

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Errorw("encoding layout failed", "error", err)
		return false
	}
	fmt.Println(string(payload))

	if outPath != "" {
		if err := atomic.WriteFile(outPath, bytes.NewReader(payload)); err != nil {
			log.Errorw("writing layout file failed", "path", outPath, "error", err)
			return false
		}
	}
	return true
}

// runREPL lets a user iteratively tweak entries, alignment and replication
// and re-emit a layout without restarting the process, using liner for line
// editing and history. Emit freezes a Builder (spec's Configuring -> Frozen
// lifecycle), so every emit, successful or not, is followed by Clone()-ing
// into a fresh Configuring builder that carries the same configuration forward.
func runREPL(optFns []options.OptionFunc) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	builder := latticemap.New(optFns...)
	fmt.Println("latticelayout interactive mode. Commands: entries <n>, alignment <n>, replicated <true|false>, emit, quit")

	for {
		input, err := line.Prompt("latticelayout> ")
		if err != nil {
			return
		}
		line.AppendHistory(input)

		fields := strings.Fields(input)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "exit":
			return

		case "emit":
			emitAndReportPlain(builder)
			builder = builder.Clone()

		case "entries":
			if len(fields) != 2 {
				fmt.Println("usage: entries <n>")
				continue
			}
			n, parseErr := strconv.ParseInt(fields[1], 10, 64)
			if parseErr != nil {
				fmt.Println("invalid integer:", parseErr)
				continue
			}
			if cfgErr := builder.Configure(options.WithEntries(n)); cfgErr != nil {
				fmt.Println(cfgErr)
			}

		case "alignment":
			if len(fields) != 2 {
				fmt.Println("usage: alignment <n>")
				continue
			}
			n, parseErr := strconv.ParseInt(fields[1], 10, 64)
			if parseErr != nil {
				fmt.Println("invalid integer:", parseErr)
				continue
			}
			if cfgErr := builder.Configure(options.WithValueAlignment(n)); cfgErr != nil {
				fmt.Println(cfgErr)
			}

		case "replicated":
			if len(fields) != 2 {
				fmt.Println("usage: replicated <true|false>")
				continue
			}
			b, parseErr := strconv.ParseBool(fields[1])
			if parseErr != nil {
				fmt.Println("invalid bool:", parseErr)
				continue
			}
			if cfgErr := builder.Configure(options.WithReplicated(b)); cfgErr != nil {
				fmt.Println(cfgErr)
			}

		default:
			fmt.Println("unknown command:", fields[0])
		}
	}
}

func emitAndReportPlain(builder *latticemap.Builder) {
	result, err := builder.Emit()
	if err != nil {
		fmt.Println("layout planning failed:", err)
		return
	}
	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Println("encoding layout:", err)
		return
	}
	fmt.Println(string(payload))
}
