package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/satzlich/swift-rohan-sub002/internal/config"
	"github.com/satzlich/swift-rohan-sub002/internal/engine"
	"github.com/satzlich/swift-rohan-sub002/internal/engine/node"
	"github.com/satzlich/swift-rohan-sub002/internal/logging"
	"github.com/satzlich/swift-rohan-sub002/internal/script"
	"github.com/satzlich/swift-rohan-sub002/internal/watch"
)

// runner executes scripts against fresh engines.
type runner struct {
	cfg    *config.Config
	log    *zap.Logger
	out    io.Writer
	trace  bool
	strict bool
}

// initialRoot is the document a script starts from.
func initialRoot(kind string) *node.Container {
	if kind == "heading" {
		return node.NewRoot(node.NewHeading(1))
	}
	return node.NewRoot(node.NewParagraph())
}

// once runs the script at path and prints the resulting document. The
// document is printed even when the script fails part way.
func (r *runner) once(ctx context.Context, path string) error {
	e := engine.New(
		engine.WithRoot(initialRoot(r.cfg.Engine.ParagraphKind)),
		engine.WithLogger(r.log),
		engine.WithInvariantChecks(r.cfg.Engine.CheckInvariants || r.strict),
		engine.WithTrace(r.trace),
	)
	// Only the passes caused by the script are of interest.
	e.TakeTrace()

	s := script.NewState(
		script.WithTimeout(r.cfg.Script.Timeout),
		script.WithInstructionLimit(int64(r.cfg.Script.InstructionLimit)),
		script.WithOutput(r.out),
	)
	defer s.Close()
	script.Register(s, e)

	log := logging.Component(r.log, "script").With(zap.String("path", path), zap.Stringer("doc", e.ID()))
	log.Debug("running")
	runErr := s.DoFile(ctx, path)
	if runErr != nil {
		log.Error("script failed", zap.Error(runErr))
	} else {
		log.Debug("finished", zap.Int64("calls", s.Calls()), zap.Uint64("revision", e.Revision()))
	}

	r.print(e)
	if runErr != nil {
		return fmt.Errorf("%s: %w", path, runErr)
	}
	return nil
}

func (r *runner) print(e *engine.Engine) {
	rep := e.LastReport()
	fmt.Fprintf(r.out, "document %s revision %d\n", e.ID(), e.Revision())
	fmt.Fprintf(r.out, "tree:\n%s\n", indent(e.Tree()))
	fmt.Fprintf(r.out, "render:\n%s\n", indent(e.Render()))
	fmt.Fprintf(r.out, "length: content %d, layout %d\n", e.ContentLength(), e.LayoutLength())
	if r.trace {
		fmt.Fprintf(r.out, "trace:\n%s\n", indent(strings.Join(e.TakeTrace(), "\n")))
		fmt.Fprintf(r.out, "last pass: %+v\n", rep.Stats)
	}
}

func indent(s string) string {
	if s == "" {
		return "  (empty)"
	}
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}

// watch runs the script, then reruns it whenever the script or the
// configuration file changes, until ctx is done.
func (r *runner) watch(ctx context.Context, path string, g *Globals) error {
	w, err := watch.New()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(path); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	configPath := ""
	if g.Config != "" {
		configPath, _ = filepath.Abs(g.Config)
		if err := w.Add(g.Config); err != nil {
			return fmt.Errorf("watching %s: %w", g.Config, err)
		}
	}

	log := logging.Component(r.log, "watch")
	if err := r.once(ctx, path); err != nil {
		fmt.Fprintln(r.out, "error:", err)
	}
	log.Info("watching", zap.Strings("files", w.Files()))

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			log.Info("change detected", zap.String("path", ev.Path), zap.Stringer("op", ev.Op))
			if ev.Op.Has(watch.OpRemove) || ev.Op.Has(watch.OpRename) {
				// Editors replace files by renaming; watch the new file.
				_ = w.Remove(ev.Path)
				if err := w.Add(ev.Path); err != nil {
					log.Warn("file gone", zap.String("path", ev.Path), zap.Error(err))
					continue
				}
			}
			if ev.Path == configPath {
				cfg, err := g.load()
				if err != nil {
					log.Warn("keeping previous configuration", zap.Error(err))
				} else {
					r.cfg = cfg
				}
			}
			if err := r.once(ctx, path); err != nil {
				fmt.Fprintln(r.out, "error:", err)
			}

		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		}
	}
}
