// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"github.com/walteh/pkgsync/pkg/status"
)

// 🎨 Display configuration
const (
	ruleWidth   = 60 // width of the header and summary rules
	entryIndent = 3  // spaces before a directory's file count
	noteIndent  = 2  // spaces before transformer notes
)

// 🎯 FileOperation represents one file line under an entry
type FileOperation struct {
	Label   string         // Relative path, or "src → dst" for a previewed file entry
	Outcome status.Outcome // What happened
	Path    string         // Destination path, for the structured log
}

// 📦 EntryOperation represents a manifest entry being synced
type EntryOperation struct {
	Source      string
	Destination string
	Transformed bool
}

// 🎯 Logger handles console progress, mirrored to zerolog
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	formatter status.FileFormatter
	mu        sync.Mutex
	current   *EntryOperation
}

// 🏭 New creates a new logger. Mirrored events go to stderr at the given level.
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(level)
	return NewWithLogger(console, zlog)
}

// 🏭 NewWithLogger creates a logger that mirrors events to zlog
func NewWithLogger(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:      zlog,
		console:   console,
		formatter: status.NewDefaultFileFormatter(),
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

func rule() string {
	return strings.Repeat("=", ruleWidth)
}

// 📝 Header prints the run header
func (l *Logger) Header(root, pkg string, dryRun bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	name := color.New(color.Bold, color.FgCyan).Sprint("pkgsync")
	fmt.Fprintln(l.console, rule())
	fmt.Fprintf(l.console, "🔄 %s %s\n", name, color.New(color.Faint).Sprint("• sync to package"))
	fmt.Fprintln(l.console, rule())
	fmt.Fprintf(l.console, "Root:    %s\n", root)
	fmt.Fprintf(l.console, "Package: %s\n", pkg)
	if dryRun {
		fmt.Fprintf(l.console, "Mode:    %s\n", color.New(color.FgYellow).Sprint("DRY RUN (no changes will be made)"))
	}
	fmt.Fprintln(l.console, rule())
	fmt.Fprintln(l.console)

	l.zlog.Debug().Str("root", root).Str("package", pkg).Bool("dry_run", dryRun).Msg("starting sync")
}

// 📝 StartEntry prints the header line for a manifest entry
func (l *Logger) StartEntry(ctx context.Context, op EntryOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current = &op
	fmt.Fprintln(l.console, color.New(color.Bold).Sprint(l.formatter.FormatEntryHeader(op.Source, op.Transformed)))

	l.zlog.Debug().
		Str("source", op.Source).
		Str("destination", op.Destination).
		Bool("transformed", op.Transformed).
		Msg("starting entry")
}

// 📝 EndEntry closes the current entry. Directory entries print their count.
func (l *Logger) EndEntry(ctx context.Context, res status.EntryResult) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if res.IsDir && res.Files > 0 {
		fmt.Fprintf(l.console, "%s(%d files)\n", strings.Repeat(" ", entryIndent), res.Files)
	}

	l.zlog.Debug().
		Str("source", res.Source).
		Str("outcome", res.Outcome.String()).
		Int("files", res.Files).
		Msg("entry complete")

	l.current = nil
}

// 📝 LogFileOperation logs a file operation
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, status.FormatFileOperation(l.formatter, op.Label, op.Outcome))

	ev := l.zlog.Debug().
		Str("file", op.Label).
		Str("outcome", op.Outcome.String())
	if op.Path != "" {
		ev = ev.Str("path", op.Path)
	}
	if l.current != nil {
		ev = ev.Str("entry", l.current.Source)
	}
	ev.Msg("file operation")
}

// 📝 Note prints a transformer note under the current entry
func (l *Logger) Note(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "%sℹ️  %s\n", strings.Repeat(" ", noteIndent), color.New(color.FgCyan).Sprint(msg))
	l.zlog.Debug().Msg(msg)
}

// 📊 Summary prints the run total, and the next steps after a real run that wrote files
func (l *Logger) Summary(s *status.Summary, pkgName string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console)
	fmt.Fprintln(l.console, rule())
	if s.DryRun {
		pterm.Info.WithPrefix(pterm.Prefix{Text: "📊"}).WithWriter(l.console).Println(fmt.Sprintf("Would sync %d file(s)", s.Total()))
	} else {
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).WithWriter(l.console).Println(fmt.Sprintf("Synced %d file(s)", s.Total()))
	}
	fmt.Fprintln(l.console, rule())

	l.zlog.Info().
		Bool("dry_run", s.DryRun).
		Int("total", s.Total()).
		Int("skipped", s.Count(status.OutcomeSkipped)).
		Msg(l.formatter.FormatSummary(s.Total(), s.DryRun))

	if !s.Changed() {
		return
	}

	fmt.Fprintln(l.console)
	steps := []string{
		fmt.Sprintf("1. Review changes: git diff %s/", pkgName),
		fmt.Sprintf("2. Test locally: python -c 'from %s import app'", pkgName),
		"3. Build package: python -m build",
	}
	pterm.Info.WithPrefix(pterm.Prefix{Text: "💡"}).WithWriter(l.console).Println("Next steps:\n" + strings.Join(steps, "\n"))
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs a failed run. A nil error prints nothing.
func (l *Logger) Error(err error) {
	msg := l.formatter.FormatError(err)
	if msg == "" {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console, color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Err(err).Msg("run failed")
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}
