package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/claudekit/skillbench/internal/projectconfig"
	"github.com/claudekit/skillbench/internal/publish"
	"github.com/claudekit/skillbench/internal/reporting"
)

// newPublisher is replaced in tests.
var newPublisher = func(cfg projectconfig.PublishConfig) (publish.Publisher, error) {
	return publish.New(cfg)
}

// loadProjectConfig loads .skillbench.yaml from the working directory
// upwards. It also returns the working directory.
func loadProjectConfig() (*projectconfig.ProjectConfig, string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get current directory: %w", err)
	}
	cfg, err := projectconfig.Load(cwd)
	if err != nil {
		return nil, "", err
	}
	return cfg, cwd, nil
}

// reportSink saves a rendered report and its optional HTML copy, then
// publishes them when asked.
type reportSink struct {
	Dir     string
	NoWrite bool
	HTML    bool
	Publish bool
	Config  *projectconfig.ProjectConfig
}

// Emit writes content to <Dir>/<filename> and prints where it went,
// followed by content itself.
func (s reportSink) Emit(ctx context.Context, w io.Writer, filename, title, content string) error {
	type artifact struct {
		name string
		data []byte
	}
	artifacts := []artifact{{filename, []byte(content)}}

	if s.HTML && strings.HasSuffix(filename, ".md") {
		page, err := reporting.RenderHTML(title, content)
		if err != nil {
			return err
		}
		artifacts = append(artifacts, artifact{strings.TrimSuffix(filename, ".md") + ".html", page})
	}

	if !s.NoWrite {
		if err := os.MkdirAll(s.Dir, 0755); err != nil {
			return fmt.Errorf("creating reports directory: %w", err)
		}
		for i, a := range artifacts {
			path := filepath.Join(s.Dir, a.name)
			if err := os.WriteFile(path, a.data, 0644); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			if i == 0 {
				fmt.Fprintf(w, "\nReport saved: %s\n", path) //nolint:errcheck
			} else {
				fmt.Fprintf(w, "HTML report saved: %s\n", path) //nolint:errcheck
			}
		}
	}

	if s.Publish {
		p, err := newPublisher(s.Config.Publish)
		if err != nil {
			return err
		}
		for _, a := range artifacts {
			url, err := p.Publish(ctx, a.name, a.data)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Published: %s\n", url) //nolint:errcheck
		}
	}

	fmt.Fprintln(w, "\n"+strings.Repeat("=", 60)) //nolint:errcheck
	fmt.Fprintln(w, content)                      //nolint:errcheck
	return nil
}
