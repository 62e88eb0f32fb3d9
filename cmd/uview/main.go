// Package main provides the uview CLI for working with .unitypackage files
// without a GUI: listing contents, rendering the asset tree, showing package
// information, and extracting to a directory.
//
// Usage:
//
//	uview list    [flags] <package>
//	uview tree    [flags] <package>
//	uview info    [flags] <package>
//	uview extract [flags] <package> <dest-dir>
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/habedi/uview"
	"github.com/habedi/uview/tree"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "list":
		err = runList(os.Args[2:])
	case "tree":
		err = runTree(os.Args[2:])
	case "info":
		err = runInfo(os.Args[2:])
	case "extract":
		err = runExtract(os.Args[2:])
	case "-h", "-help", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "uview:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  uview list    [flags] <package>        list asset paths and sizes\n")
	fmt.Fprintf(os.Stderr, "  uview tree    [flags] <package>        render the asset tree\n")
	fmt.Fprintf(os.Stderr, "  uview info    [flags] <package>        show package summary\n")
	fmt.Fprintf(os.Stderr, "  uview extract [flags] <package> <dir>  extract assets to a directory\n")
}

// commonFlags holds flags shared by all subcommands.
type commonFlags struct {
	verbose  bool
	cacheDir string
}

func registerCommon(fs *flag.FlagSet) *commonFlags {
	cf := &commonFlags{}
	fs.BoolVar(&cf.verbose, "v", false, "enable debug logging")
	fs.StringVar(&cf.cacheDir, "cache-dir", defaultCacheDir(), "manifest cache directory (empty to disable)")
	return cf
}

func (cf *commonFlags) options() []uview.Option {
	level := slog.LevelWarn
	if cf.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := []uview.Option{uview.WithLogger(logger)}
	if cf.cacheDir != "" {
		opts = append(opts, uview.WithCacheDir(cf.cacheDir))
	}
	return opts
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "uview")
}

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	cf := registerCommon(fs)
	guids := fs.Bool("guids", false, "include asset GUIDs")
	_ = fs.Parse(args) //nolint:errcheck // ExitOnError
	if fs.NArg() != 1 {
		return fmt.Errorf("list: expected exactly one package, got %d arguments", fs.NArg())
	}

	m, err := uview.Inspect(fs.Arg(0), cf.options()...)
	if err != nil {
		return err
	}
	for e := range m.Entries() {
		if *guids {
			fmt.Printf("%s  %10d  %s\n", e.GUID, e.ContentSize, e.Path)
		} else {
			fmt.Printf("%10d  %s\n", e.ContentSize, e.Path)
		}
	}
	return nil
}

func runTree(args []string) error {
	fs := flag.NewFlagSet("tree", flag.ExitOnError)
	cf := registerCommon(fs)
	_ = fs.Parse(args) //nolint:errcheck // ExitOnError
	if fs.NArg() != 1 {
		return fmt.Errorf("tree: expected exactly one package, got %d arguments", fs.NArg())
	}

	m, err := uview.Inspect(fs.Arg(0), cf.options()...)
	if err != nil {
		return err
	}
	root := tree.Build(m.Assets())
	renderTree(root, "")
	return nil
}

// renderTree prints a node's children with box-drawing connectors.
func renderTree(n *tree.Node, prefix string) {
	children := n.Children()
	for i, child := range children {
		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(children)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}
		name := child.Name()
		if child.Kind() == tree.KindDirectory {
			name += "/"
		}
		fmt.Println(prefix + connector + name)
		renderTree(child, childPrefix)
	}
}

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	cf := registerCommon(fs)
	_ = fs.Parse(args) //nolint:errcheck // ExitOnError
	if fs.NArg() != 1 {
		return fmt.Errorf("info: expected exactly one package, got %d arguments", fs.NArg())
	}

	m, err := uview.Inspect(fs.Arg(0), cf.options()...)
	if err != nil {
		return err
	}

	var folders, previews int
	for e := range m.Entries() {
		if !e.HasContent {
			folders++
		}
		if e.HasPreview {
			previews++
		}
	}

	fmt.Printf("package:  %s\n", fs.Arg(0))
	fmt.Printf("digest:   %s\n", m.PackageDigest())
	fmt.Printf("size:     %d bytes (%d decoded)\n", m.PackageSize(), m.TotalContentSize())
	fmt.Printf("assets:   %d (%d folders, %d with previews)\n", m.Len(), folders, previews)
	return nil
}

func runExtract(args []string) error {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	cf := registerCommon(fs)
	overwrite := fs.Bool("overwrite", false, "overwrite existing files")
	meta := fs.Bool("meta", false, "write .meta sidecar files")
	previews := fs.Bool("previews", false, "write preview images")
	workers := fs.Int("workers", 0, "concurrent file writers (0 = default)")
	_ = fs.Parse(args) //nolint:errcheck // ExitOnError
	if fs.NArg() != 2 {
		return fmt.Errorf("extract: expected <package> <dest-dir>, got %d arguments", fs.NArg())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pkg, err := uview.Open(fs.Arg(0), cf.options()...)
	if err != nil {
		return err
	}

	err = pkg.ExtractTo(ctx, fs.Arg(1),
		uview.ExtractWithOverwrite(*overwrite),
		uview.ExtractWithMeta(*meta),
		uview.ExtractWithPreviews(*previews),
		uview.ExtractWithWorkers(*workers),
	)
	if err != nil {
		return err
	}
	fmt.Printf("extracted %d assets to %s\n", pkg.Len(), strings.TrimSuffix(fs.Arg(1), "/"))
	return nil
}
