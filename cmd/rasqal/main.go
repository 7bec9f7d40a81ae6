// SPDX-License-Identifier: Apache-2.0
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"rasqal/internal/config"
	"rasqal/internal/execution"
	"rasqal/internal/runtime"
)

const defaultSimulatorQubits = 20

func main() {
	args := os.Args[1:]

	var path, entryPoint, configPath string
	verbosity := 0
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--entry":
			if i+1 >= len(args) {
				usage()
			}
			i++
			entryPoint = args[i]
		case "--config":
			if i+1 >= len(args) {
				usage()
			}
			i++
			configPath = args[i]
		case "-v", "--verbose":
			verbosity++
		case "-h", "--help":
			usage()
		default:
			if path != "" {
				usage()
			}
			path = args[i]
		}
	}
	if path == "" {
		usage()
	}

	commonlog.Configure(verbosity, nil)

	fsys := afero.NewOsFs()
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFile(fsys, configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	runtimes := runtime.CollectionFrom(runtime.NewSimulator(defaultSimulatorQubits))

	startTime := time.Now()
	result, err := execution.RunFile(fsys, path, nil, runtimes, entryPoint, cfg)
	formattedDuration := formatDuration(time.Since(startTime))

	if err != nil {
		var syntaxErr participle.Error
		if errors.As(err, &syntaxErr) {
			if source, readErr := afero.ReadFile(fsys, path); readErr == nil {
				fmt.Print(formatSyntaxError(path, syntaxErr, string(source)))
			}
		}
		color.Red("Execution failed after %s: %v", formattedDuration, err)
		os.Exit(1)
	}

	if result != nil {
		fmt.Println(result.String())
	}
	color.Green("Successfully executed %s in %s", path, formattedDuration)
}

func usage() {
	fmt.Println("Usage: rasqal [--entry <name>] [--config <file.yaml>] [-v] <file.ll|file.bc>")
	os.Exit(1)
}

func formatSyntaxError(path string, err participle.Error, source string) string {
	pos := err.Position()
	lines := strings.Split(source, "\n")

	var lineContent string
	if pos.Line-1 < len(lines) && pos.Line-1 >= 0 {
		lineContent = lines[pos.Line-1]
	}

	marker := strings.Repeat(" ", max(0, pos.Column-1)) + "^"

	red := color.New(color.FgRed).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	lineNumberWidth := len(fmt.Sprintf("%d", pos.Line))
	if lineNumberWidth < 3 {
		lineNumberWidth = 3
	}
	indent := strings.Repeat(" ", lineNumberWidth)

	return fmt.Sprintf(
		"%s: %s\n%s┌─ %s:%d:%d\n%s│\n%3d│%s\n%s│%s\n\n",
		red("error"),
		err.Message(),
		indent,
		path, pos.Line, pos.Column,
		indent,
		pos.Line, lineContent,
		indent,
		bold(marker),
	)
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
