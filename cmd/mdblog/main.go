package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/eringen/mdblog"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "build":
		err = runBuild(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "post":
		err = runPost(os.Args[2:])
	case "new":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: mdblog new <directory>")
			os.Exit(1)
		}
		err = runNew(os.Args[2], time.Now())
	case "version":
		fmt.Printf("mdblog %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		reportError(err)
		os.Exit(1)
	}
}

func reportError(err error) {
	if goerrors.IsCategory(err, goerrors.CategoryValidation) {
		fmt.Fprintf(os.Stderr, "Invalid input: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

// siteFlags are shared by every command that reads the site configuration.
type siteFlags struct {
	config  string
	content string
	url     string
}

func (s *siteFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&s.config, "config", "", "path to the site config file (default "+mdblog.DefaultConfigFile+" when present)")
	fs.StringVar(&s.content, "content", "", "markdown content directory")
	fs.StringVar(&s.url, "url", "", "canonical site URL")
}

// load reads the config file and environment, then applies flag overrides.
func (s siteFlags) load() (mdblog.SiteConfig, error) {
	cfg, err := mdblog.LoadConfig(s.config)
	if err != nil {
		return mdblog.SiteConfig{}, err
	}
	if s.content != "" {
		cfg.ContentDir = s.content
	}
	if s.url != "" {
		cfg.URL = s.url
	}
	return cfg, nil
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	var site siteFlags
	site.register(fs)
	out := fs.String("out", "", "output directory (default from config, \"dist\")")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := site.load()
	if err != nil {
		return err
	}
	app, err := mdblog.New(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := app.Build(ctx, *out)
	if err != nil {
		return err
	}
	fmt.Printf("Built %d posts and %d tags into %s (%d files, %s)\n",
		report.Posts, report.Tags, report.OutputDir, len(report.Files), report.Duration.Round(time.Millisecond))
	return nil
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	var site siteFlags
	site.register(fs)
	addr := fs.String("addr", "", "listen address (default from config, \":3000\")")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := site.load()
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	app, err := mdblog.New(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Start()
	}()
	fmt.Printf("Serving %s on %s\n", app.Config.ContentDir, app.Config.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.Shutdown(shutdownCtx)
}

func runPost(args []string) error {
	fs := flag.NewFlagSet("post", flag.ContinueOnError)
	var site siteFlags
	site.register(fs)
	title := fs.String("title", "", "post title (required)")
	slug := fs.String("slug", "", "post slug (default derived from the title)")
	tags := fs.String("tags", "", "comma-separated tags")
	description := fs.String("description", "", "short summary for feeds and meta tags")
	date := fs.String("date", "", "publication date, YYYY-MM-DD (default today)")
	draft := fs.Bool("draft", false, "create the post unpublished")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := site.load()
	if err != nil {
		return err
	}

	when := time.Now()
	if *date != "" {
		when, err = time.Parse("2006-01-02", *date)
		if err != nil {
			return fmt.Errorf("invalid -date %q: use YYYY-MM-DD", *date)
		}
	}

	path, err := mdblog.WritePost(cfg.ContentDir, mdblog.NewPost{
		Title:       *title,
		Slug:        *slug,
		Tags:        mdblog.SplitTags(*tags),
		Description: *description,
		Published:   !*draft,
		Date:        when,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Created %s\n", path)
	return nil
}

func printUsage() {
	fmt.Println(`mdblog - a static blog engine for markdown posts

Usage:
  mdblog <command> [arguments]

Commands:
  new <dir>     Create a new site with a sample post
  post          Create a new markdown post in the content directory
  serve         Run the preview server
  build         Write the static site to the output directory
  version       Print the mdblog version
  help          Show this help message

Examples:
  mdblog new myblog
  mdblog post -title "Scott encoding" -tags fp,types
  mdblog serve -addr :8080
  mdblog build -out public_html`)
}
