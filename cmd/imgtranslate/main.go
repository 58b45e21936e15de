// Command imgtranslate translates the text inside one image file and
// writes the translated image next to it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/lifeinpassion/translator/config"
	"github.com/lifeinpassion/translator/observability"
	"github.com/lifeinpassion/translator/pipeline"
	"github.com/lifeinpassion/translator/translate"

	_ "github.com/lifeinpassion/translator/ocr/tesseract"
)

type options struct {
	inputPath  string
	outputPath string
	configPath string
	visualize  bool
	verbose    bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "imgtranslate: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "imgtranslate: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: imgtranslate [flags] <image>\n")
		flag.PrintDefaults()
	}
	output := flag.String("output", "", "Output file path (default: <input>_translated.<ext>)")
	configPath := flag.String("config", "", "Path to a JSON configuration file")
	visualize := flag.Bool("viz", false, "Draw detection boxes on the output")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return options{}, fmt.Errorf("missing image path")
	}
	opts.inputPath = flag.Arg(0)
	opts.outputPath = *output
	opts.configPath = *configPath
	opts.visualize = *visualize
	opts.verbose = *verbose
	if opts.outputPath == "" {
		opts.outputPath = defaultOutputPath(opts.inputPath)
	}
	return opts, nil
}

// defaultOutputPath derives <stem>_translated<ext> next to the input.
func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_translated" + ext
}

func run(opts options) error {
	// Backend credentials may live in a .env file; absence is fine.
	_ = godotenv.Load()

	level := observability.LevelInfo
	if opts.verbose {
		level = observability.LevelDebug
	}
	log := observability.NewStdLogger(os.Stderr, level)

	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	mgr, err := translate.NewManager(cfg.Translation, translate.WithLogger(log))
	if err != nil {
		return err
	}
	defer func() {
		if err := mgr.SaveCache(); err != nil {
			log.Warn("could not persist translation cache", observability.Error("error", err))
		}
	}()

	p, err := pipeline.New(cfg, pipeline.WithLogger(log), pipeline.WithGateway(mgr))
	if err != nil {
		return err
	}
	res, err := p.TranslateImage(context.Background(), opts.inputPath, opts.outputPath, opts.visualize)
	if err != nil {
		return err
	}

	if cache := mgr.Cache(); cache != nil {
		hits, misses := cache.Stats()
		log.Debug("translation cache stats",
			observability.Int64("hits", hits),
			observability.Int64("misses", misses))
	}
	if res.OutputPath == "" {
		fmt.Printf("no text detected in %s, nothing written\n", opts.inputPath)
		return nil
	}
	fmt.Printf("translated %d region(s), %d warning(s): %s\n", len(res.Regions), res.Warnings(), res.OutputPath)
	return nil
}
