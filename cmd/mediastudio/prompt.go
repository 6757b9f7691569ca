package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/mediastudio/internal/generate"
)

// promptCmd prints the prompt a generator would receive for a set of
// annotations, or runs the request against the placeholder service.
type promptCmd struct {
	*root
	fs          *flag.FlagSet
	edit        bool
	run         bool
	negative    string
	annotations string
	style       string
	aspect      string
	prompt      string
}

func (p *promptCmd) FlagSet() *flag.FlagSet {
	return p.fs
}

func (p *promptCmd) Program() string {
	return p.root.subcommand("prompt")
}

func parsePromptCmd(args []string, r *root) (*promptCmd, error) {
	fs := flag.NewFlagSet("prompt", flag.ExitOnError)
	p := &promptCmd{root: r, fs: fs}
	fs.Usage = usageFunc(p)
	fs.BoolVar(&p.edit, "edit", false, "build an edit prompt instead of a generation prompt")
	fs.BoolVar(&p.run, "generate", false, "send the request to the placeholder generator and print the JSON result")
	fs.StringVar(&p.negative, "negative", "", "negative prompt (generation only)")
	fs.StringVar(&p.annotations, "annotations", "", "JSON file with annotations, - for stdin")
	fs.StringVar(&p.style, "style", generate.DefaultStyle, "style name")
	fs.StringVar(&p.aspect, "aspect", "", "aspect ratio (16:9, 1:1, anything else is portrait)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	p.prompt = strings.TrimSpace(strings.Join(fs.Args(), " "))
	if p.prompt == "" {
		return nil, &UsageError{of: p, msg: generate.ErrEmptyPrompt.Error()}
	}
	return p, nil
}

func (p *promptCmd) loadAnnotations() ([]generate.Annotation, error) {
	if p.annotations == "" {
		return nil, nil
	}
	var r io.Reader = os.Stdin
	if p.annotations != "-" {
		f, err := os.Open(p.annotations)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var as []generate.Annotation
	if err := json.NewDecoder(r).Decode(&as); err != nil {
		return nil, fmt.Errorf("annotations %s: %w", p.annotations, err)
	}
	return as, nil
}

func (p *promptCmd) Run() error {
	as, err := p.loadAnnotations()
	if err != nil {
		return err
	}
	if !p.run {
		if p.edit {
			fmt.Fprintln(p.root.stdout, generate.EnhanceEdit(p.prompt, as))
		} else {
			fmt.Fprintln(p.root.stdout, generate.EnhanceGenerate(p.prompt, p.negative, as))
		}
		return nil
	}

	svc := generate.NewService(
		generate.WithCredentials(p.root.credentials()),
		generate.WithLogger(p.root.logger.Named("generate")),
	)
	var res generate.ImageResult
	kind := "image"
	if p.edit {
		kind = "edit"
		res, err = svc.EditImage(context.Background(), generate.EditRequest{
			Prompt: p.prompt, Style: p.style, Annotations: as,
		})
	} else {
		res, err = svc.GenerateImage(context.Background(), generate.ImageRequest{
			Prompt: p.prompt, Style: p.style, AspectRatio: p.aspect,
			NegativePrompt: p.negative, Annotations: as,
		})
	}
	if err != nil {
		return err
	}
	p.root.notifier.Generate(kind, res.ImageURL)
	enc := json.NewEncoder(p.root.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
