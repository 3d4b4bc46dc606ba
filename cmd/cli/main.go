package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"
	"time"

	"countrydash/internal/config"
	"countrydash/internal/dataset"
	"countrydash/internal/plots"
	"countrydash/internal/screenshot"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	rootCmd := &cobra.Command{
		Use:          "countrydash-cli",
		Short:        "Country dashboard tools: gallery plots, page screenshots and dataset inspection",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newPlotsCmd(),
		newScreenshotsCmd(),
		newInspectCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newPlotsCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "plots",
		Short: "Render the gallery images from the dataset",
		Long: `Render the scatter plots, histograms, correlation heatmap and sector
chart the visualizations page shows.

Example: countrydash-cli plots --out ../plots`,
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig, err := config.Load()
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = defaultPlotsDir(appConfig)
			}
			ds, err := loadDataset(appConfig)
			if err != nil {
				return err
			}
			return runPlots(cmd.OutOrStdout(), ds, outDir)
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "Output directory (default: first VISUALIZATION_SOURCES entry)")
	return cmd
}

func newScreenshotsCmd() *cobra.Command {
	var baseURL, outDir string
	var wait time.Duration
	var width, height int

	cmd := &cobra.Command{
		Use:   "screenshots",
		Short: "Capture every dashboard page from a running server",
		Long: `Capture dashboard.png, histograms.png, scatter.png and visualizations.png
with headless Chrome. The server must already be listening.

Example: countrydash-cli screenshots --base-url http://localhost:5000 --wait 3s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig, err := config.Load()
			if err != nil {
				return err
			}
			shots := appConfig.Screenshot
			if cmd.Flags().Changed("base-url") {
				shots.BaseURL = baseURL
			}
			if cmd.Flags().Changed("out") {
				shots.OutDir = outDir
			}
			if cmd.Flags().Changed("wait") {
				shots.Wait = wait
			}
			if cmd.Flags().Changed("width") {
				shots.Width = width
			}
			if cmd.Flags().Changed("height") {
				shots.Height = height
			}
			return runScreenshots(cmd.Context(), cmd.OutOrStdout(), shots)
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "Server root URL (default: SCREENSHOT_BASE_URL)")
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory (default: SCREENSHOT_DIR)")
	cmd.Flags().DurationVar(&wait, "wait", 0, "Time each page gets to render (default: SCREENSHOT_WAIT)")
	cmd.Flags().IntVar(&width, "width", 0, "Viewport width (default: SCREENSHOT_WIDTH)")
	cmd.Flags().IntVar(&height, "height", 0, "Viewport height (default: SCREENSHOT_HEIGHT)")
	return cmd
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Load the dataset and print its shape, column types and missing counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig, err := config.Load()
			if err != nil {
				return err
			}
			ds, err := loadDataset(appConfig)
			if err != nil {
				return err
			}
			return writeInspection(cmd.OutOrStdout(), ds)
		},
	}
	return cmd
}

func runPlots(w io.Writer, ds *dataset.Dataset, outDir string) error {
	written, err := plots.NewGenerator(ds, outDir).Generate()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "✅ Wrote %d plots to %s\n", len(written), outDir)
	for _, name := range written {
		fmt.Fprintf(w, "• %s\n", name)
	}
	return nil
}

func runScreenshots(ctx context.Context, w io.Writer, shots config.ScreenshotConfig) error {
	capturer, err := screenshot.NewChromeCapturer(ctx, screenshot.Options{
		Width:  shots.Width,
		Height: shots.Height,
		Wait:   shots.Wait,
	})
	if err != nil {
		return err
	}
	defer capturer.Close()

	written, err := screenshot.NewDriver(capturer, shots.BaseURL, shots.OutDir).Run(ctx, screenshot.DefaultPages)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "✅ Captured %d pages into %s\n", len(written), shots.OutDir)
	return nil
}

// writeInspection prints the dataset summary: shape, then one line per
// column with its kind and missing count
func writeInspection(w io.Writer, ds *dataset.Dataset) error {
	if ds.IsEmpty() {
		fmt.Fprintln(w, "❌ Dataset is empty: no columns loaded")
		return nil
	}

	fmt.Fprintf(w, "📊 DATASET SHAPE: %d rows × %d columns\n\n", ds.Len(), len(ds.Columns()))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tKIND\tPRESENT\tMISSING")
	for _, name := range ds.Columns() {
		kind, present := "text", 0
		if col, ok := ds.Column(name); ok {
			kind, present = "numeric", col.ValidCount()
		} else {
			for i := 0; i < ds.Len(); i++ {
				if ds.Text(name, i) != nil {
					present++
				}
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", name, kind, present, ds.Len()-present)
	}
	return tw.Flush()
}

// loadDataset runs the same loader the server uses, but a failed load is an
// error here rather than an empty dataset
func loadDataset(appConfig *config.Config) (*dataset.Dataset, error) {
	ds, err := dataset.NewLoader(dataset.LoaderConfig{
		DataDir:     appConfig.Data.Dir,
		FileName:    appConfig.Data.FileName,
		Candidates:  appConfig.Data.Candidates,
		SearchRoots: config.SearchRoots(),
	}).Load()
	if err != nil {
		return nil, err
	}
	return ds, nil
}

// defaultPlotsDir is the first visualization source, relative to the working
// directory. The server expands sources against the working directory too, so
// the plots are picked up by the gallery.
func defaultPlotsDir(appConfig *config.Config) string {
	if len(appConfig.Gallery.Sources) > 0 {
		return appConfig.Gallery.Sources[0]
	}
	return filepath.Join("..", "plots")
}
