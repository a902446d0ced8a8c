// Command graphpaste converts textual diagram descriptions into whiteboard
// scene JSON. It runs one-shot on a graph from a file, an argument or stdin,
// or keeps watching a file or the clipboard and reconverting on change.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/atotto/clipboard"
	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/nottheswimmer/graphpaste"
	"github.com/nottheswimmer/graphpaste/mermaid"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: .env file not found")
	}

	inFile := flag.String("i", "", "read the graph from this file")
	outFile := flag.String("o", "", "write the scene JSON to this file (default: stdout)")
	toClip := flag.Bool("clip", false, "write the scene JSON to the clipboard")
	watchPath := flag.String("watch", "", "watch a graph file and reconvert it on change")
	watchClip := flag.Bool("watch-clip", false, "watch the clipboard and convert graphs found in it")
	dotted := flag.Bool("dotted", dottedDefault(),
		"map dash patterns to dotted strokes instead of dashed")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [graph]\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "\nConverts a diagram description into whiteboard scene JSON.")
		fmt.Fprintln(os.Stderr, "The graph comes from -i, the positional argument, or stdin.")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flag.PrintDefaults()
	}
	flag.Parse()

	log := newLogger()
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []graphpaste.Option{
		graphpaste.WithLogger(log),
		graphpaste.WithDottedDashes(*dotted),
	}
	if source := os.Getenv("GRAPHPASTE_SOURCE"); source != "" {
		opts = append(opts, graphpaste.WithSource(source))
	}
	if base := os.Getenv("MERMAID_INK_URL"); base != "" {
		opts = append(opts, graphpaste.WithRenderer(mermaid.NewClient(
			mermaid.WithBaseURL(base),
			mermaid.WithLogger(log),
		)))
	}

	a := &app{
		log:     log,
		conv:    graphpaste.New(opts...),
		outFile: *outFile,
		toClip:  *toClip,
	}

	var err error
	switch {
	case *watchClip:
		err = a.watchClipboard(ctx)
	case *watchPath != "":
		err = a.watchFile(ctx, *watchPath)
	default:
		var graph string
		graph, err = readGraph(*inFile)
		if err == nil {
			err = a.convert(ctx, graph)
		}
	}
	if err != nil {
		log.Fatal("graphpaste failed", zap.Error(err))
	}
}

func newLogger() *zap.Logger {
	if os.Getenv("GRAPHPASTE_ENV") == "production" {
		return zap.Must(zap.NewProduction())
	}
	return zap.Must(zap.NewDevelopment())
}

// readGraph picks the one-shot input source: -i file, positional
// arguments, or stdin.
func readGraph(inFile string) (string, error) {
	if inFile != "" {
		data, err := os.ReadFile(inFile)
		return string(data), err
	}
	if flag.NArg() > 0 {
		return strings.Join(flag.Args(), "\n"), nil
	}
	data, err := io.ReadAll(os.Stdin)
	return string(data), err
}

type app struct {
	log     *zap.Logger
	conv    *graphpaste.Converter
	outFile string
	toClip  bool
}

func (a *app) convert(ctx context.Context, graph string) error {
	doc, err := a.conv.Convert(ctx, graph)
	if errors.Is(err, graphpaste.ErrNoDiagram) {
		a.log.Warn("no diagram found")
		return nil
	}
	if err != nil {
		return err
	}
	data, err := doc.Encode()
	if err != nil {
		return err
	}
	return a.write(data, len(doc.Elements))
}

func (a *app) write(data []byte, elements int) error {
	if a.toClip {
		if err := clipboard.WriteAll(string(data)); err != nil {
			return fmt.Errorf("clipboard write: %w", err)
		}
		a.log.Info("scene copied to clipboard", zap.Int("elements", elements))
		return nil
	}
	if a.outFile != "" {
		if err := os.WriteFile(a.outFile, data, 0o644); err != nil {
			return err
		}
		a.log.Info("scene written", zap.String("path", a.outFile), zap.Int("elements", elements))
		return nil
	}
	_, err := fmt.Println(string(data))
	return err
}

// watchClipboard polls the clipboard and converts any graph that shows up
// in it, either as plain text or embedded in a scene payload copied back
// out of the whiteboard. The converted scene JSON replaces the clipboard
// content.
func (a *app) watchClipboard(ctx context.Context) error {
	interval := pollInterval()
	a.log.Info("watching clipboard", zap.Duration("interval", interval))
	tick := time.NewTicker(interval)
	defer tick.Stop()

	last := ""
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
		}
		text, err := clipboard.ReadAll()
		if err != nil {
			a.log.Debug("clipboard read failed", zap.Error(err))
			continue
		}
		if text == last {
			continue
		}
		last = text

		graph, ok := graphpaste.GraphFromScene([]byte(text))
		if !ok {
			if !graphpaste.LooksLikeGraph(text) {
				continue
			}
			graph = text
		}
		doc, err := a.conv.Convert(ctx, graph)
		if err != nil {
			if errors.Is(err, graphpaste.ErrNoDiagram) {
				a.log.Warn("no diagram found in clipboard")
			} else {
				a.log.Error("conversion failed", zap.Error(err))
			}
			continue
		}
		data, err := doc.Encode()
		if err != nil {
			a.log.Error("encoding failed", zap.Error(err))
			continue
		}
		if err := clipboard.WriteAll(string(data)); err != nil {
			a.log.Error("clipboard write failed", zap.Error(err))
			continue
		}
		last = string(data)
		a.log.Info("scene copied to clipboard", zap.Int("elements", len(doc.Elements)))
	}
}

// pollInterval reads GRAPHPASTE_POLL_MS, defaulting to one second.
func pollInterval() time.Duration {
	ms, err := strconv.Atoi(os.Getenv("GRAPHPASTE_POLL_MS"))
	if err != nil || ms <= 0 {
		ms = 1000
	}
	return time.Duration(ms) * time.Millisecond
}

// dottedDefault reads the GRAPHPASTE_DOTTED toggle for the -dotted flag.
func dottedDefault() bool {
	return os.Getenv("GRAPHPASTE_DOTTED") == "true"
}

// watchFile reconverts path whenever it changes. The parent directory is
// watched rather than the file itself, since editors often replace the
// file on save.
func (a *app) watchFile(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	a.log.Info("watching file", zap.String("path", path))

	if err := a.convertFile(ctx, path); err != nil {
		a.log.Error("conversion failed", zap.Error(err))
	}

	// Debounce rapid save events into one conversion.
	var debounce *time.Timer
	const debounceDelay = 500 * time.Millisecond
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, func() {
				if err := a.convertFile(ctx, path); err != nil {
					a.log.Error("conversion failed", zap.Error(err))
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.log.Error("watcher error", zap.Error(err))
		}
	}
}

func (a *app) convertFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return a.convert(ctx, string(data))
}
