package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/andresuchdata/s3-file-manager/internal/client"
	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func newServerFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "server",
		Usage:   "Base URL of the file gateway",
		Value:   "http://localhost:5000",
		EnvVars: []string{"FILECTL_SERVER"},
	}
}

func apiClient(c *cli.Context) *client.Client {
	return client.New(c.String("server"), nil)
}

func requireArg(c *cli.Context, name string) (string, error) {
	if c.NArg() < 1 {
		return "", fmt.Errorf("missing <%s> argument", name)
	}
	return c.Args().First(), nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: could not load .env file: %v", err)
	}

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "filectl",
		Usage: "Upload, list, download and delete files through the file gateway",
		Flags: []cli.Flag{
			newServerFlag(),
		},
		Commands: []*cli.Command{
			{
				Name:      "upload",
				Usage:     "Upload a local file",
				ArgsUsage: "<path>",
				Action:    uploadAction,
			},
			{
				Name:   "list",
				Usage:  "List stored files",
				Action: listAction,
			},
			{
				Name:      "download",
				Usage:     "Download a stored file",
				ArgsUsage: "<key>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Destination path (defaults to the key in the current directory)",
					},
				},
				Action: downloadAction,
			},
			{
				Name:      "delete",
				Usage:     "Delete a stored file",
				ArgsUsage: "<key>",
				Action:    deleteAction,
			},
			{
				Name:      "info",
				Usage:     "Show metadata of a stored file",
				ArgsUsage: "<key>",
				Action:    infoAction,
			},
			{
				Name:   "health",
				Usage:  "Check that the gateway is up",
				Action: healthAction,
			},
		},
	}
}

func uploadAction(c *cli.Context) error {
	path, err := requireArg(c, "path")
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	uploaded, err := apiClient(c).Upload(c.Context, filepath.Base(path), f)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Uploaded %s as %s (%s)\n", uploaded.OriginalName, uploaded.Key, humanize.IBytes(uint64(uploaded.Size)))
	fmt.Fprintln(c.App.Writer, uploaded.URL)
	return nil
}

func listAction(c *cli.Context) error {
	listing, err := apiClient(c).List(c.Context)
	if err != nil {
		return err
	}

	if listing.Count == 0 {
		fmt.Fprintln(c.App.Writer, "No files.")
		return nil
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tSIZE\tMODIFIED")
	for _, f := range listing.Files {
		fmt.Fprintf(w, "%s\t%s\t%s\n", f.Key, humanize.IBytes(uint64(f.Size)), humanize.Time(f.LastModified))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if listing.IsTruncated {
		fmt.Fprintf(c.App.Writer, "Showing the first %d files; more exist.\n", listing.Count)
	}
	return nil
}

func downloadAction(c *cli.Context) error {
	key, err := requireArg(c, "key")
	if err != nil {
		return err
	}

	dest := c.String("output")
	if dest == "" {
		dest = filepath.Base(key)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}

	_, n, err := apiClient(c).Download(c.Context, key, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dest)
		return err
	}

	fmt.Fprintf(c.App.Writer, "Saved %s to %s (%s)\n", key, dest, humanize.IBytes(uint64(n)))
	return nil
}

func deleteAction(c *cli.Context) error {
	key, err := requireArg(c, "key")
	if err != nil {
		return err
	}

	if err := apiClient(c).Delete(c.Context, key); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Deleted %s\n", key)
	return nil
}

func infoAction(c *cli.Context) error {
	key, err := requireArg(c, "key")
	if err != nil {
		return err
	}

	info, err := apiClient(c).Info(c.Context, key)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Key:\t%s\n", info.Filename)
	fmt.Fprintf(w, "Size:\t%s (%d bytes)\n", humanize.IBytes(uint64(info.Size)), info.Size)
	fmt.Fprintf(w, "Type:\t%s\n", info.ContentType)
	fmt.Fprintf(w, "Modified:\t%s\n", info.LastModified.Format(time.RFC3339))
	fmt.Fprintf(w, "ETag:\t%s\n", info.ETag)
	fmt.Fprintf(w, "URL:\t%s\n", info.URL)
	return w.Flush()
}

func healthAction(c *cli.Context) error {
	health, err := apiClient(c).Health(c.Context)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "%s: %s (storage %s)\n", health.Status, health.Message, health.Storage)
	return nil
}
