// Package ops implements the actions behind the CLI commands: the local
// document pipeline (expand embedded files, parse, render canonical entity
// XML) and the operation layer over the remote feed service boundary.
package ops

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"fsc/client"
	"fsc/document"
	"fsc/entity"
	"fsc/state"
)

// Render loads the source document, resolves embedded file placeholders,
// parses the result as entity or feed XML and pretty-prints it to the
// destination (stdout when none is given).
func Render(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("render")

	src, dst, err := sourceAndDestination(cmd, log)
	if err != nil {
		return err
	}
	prepareRunOptions(cmd, env, log)

	runID, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("unable to generate run id: %w", err)
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", destinationLabel(dst)), zap.Stringer("run_id", runID))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	text, err := loadDocument(env, src)
	if err != nil {
		return err
	}
	env.Rpt.StoreData(fmt.Sprintf("expanded/%s", filepath.Base(src)), []byte(text))

	feed, entry, err := client.Parse(text)
	if err != nil {
		return fmt.Errorf("unable to parse document %q: %w", src, err)
	}

	buf := new(bytes.Buffer)
	if entry != nil {
		err = entity.RenderEntity(buf, entry)
	} else {
		err = entity.RenderFeed(buf, feed)
	}
	if err != nil {
		return fmt.Errorf("unable to render document %q: %w", src, err)
	}
	env.Rpt.StoreData(fmt.Sprintf("rendered/%s", filepath.Base(src)), buf.Bytes())

	return writeOutput(env, log, src, dst, "render", buf.Bytes())
}

// Expand runs only the embedding expander over the source document and
// writes the flat text out - the preprocessing step of insert and update.
func Expand(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("expand")

	src, dst, err := sourceAndDestination(cmd, log)
	if err != nil {
		return err
	}
	prepareRunOptions(cmd, env, log)

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", destinationLabel(dst)))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	text, err := loadDocument(env, src)
	if err != nil {
		return err
	}
	env.Rpt.StoreData(fmt.Sprintf("expanded/%s", filepath.Base(src)), []byte(text))

	return writeOutput(env, log, src, dst, "expand", []byte(text))
}

func sourceAndDestination(cmd *cli.Command, log *zap.Logger) (src, dst string, err error) {
	src = cmd.Args().Get(0)
	if len(src) == 0 {
		return "", "", errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return "", "", err
	}
	dst = cmd.Args().Get(1)
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}
	return src, dst, nil
}

// prepareRunOptions moves command line knobs into the run environment,
// resolving the forced source encoding by its IANA name if one was given.
func prepareRunOptions(cmd *cli.Command, env *state.LocalEnv, log *zap.Logger) {
	env.Overwrite = cmd.Bool("overwrite")

	cp := cmd.String("encoding")
	if len(cp) == 0 {
		cp = env.Cfg.Document.SourceEncoding
	}
	if len(cp) == 0 {
		return
	}
	enc, err := ianaindex.IANA.Encoding(cp)
	if err != nil || enc == nil {
		log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
		return
	}
	env.SourceEncoding = enc
	n, _ := ianaindex.IANA.Name(enc)
	log.Debug("Forcefully decoding source documents", zap.String("charset", n))
}

func loadDocument(env *state.LocalEnv, src string) (string, error) {
	loader := document.Loader{
		Encoding: env.SourceEncoding,
		Expander: document.Expander{MaxDepth: env.Cfg.Expansion.MaxDepth},
	}
	text, err := loader.Load(src)
	if err != nil {
		return "", fmt.Errorf("unable to load document %q: %w", src, err)
	}
	return text, nil
}

func destinationLabel(dst string) string {
	if len(dst) == 0 {
		return "STDOUT"
	}
	return dst
}

// writeOutput delivers data to the destination: stdout when empty, the
// named file otherwise. A destination that is an existing directory gets
// the file name derived from the output name template.
func writeOutput(env *state.LocalEnv, log *zap.Logger, src, dst, context string, data []byte) error {
	if len(dst) == 0 {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("unable to write output: %w", err)
		}
		return nil
	}

	name := buildOutputPath(src, dst, context, env, log)

	if _, err := os.Stat(name); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", name)
		}
		log.Warn("Overwriting existing file", zap.String("file", name))
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	if err := os.WriteFile(name, data, 0644); err != nil {
		return fmt.Errorf("unable to write output file %q: %w", name, err)
	}
	log.Info("Output written", zap.String("file", name))
	return nil
}
