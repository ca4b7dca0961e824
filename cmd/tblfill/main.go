// Fills in the missing data rows of partially annotated tables in YOLO (labelImg) label files.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sensorable/tblfill"
)

var (
	configFilePath string // The YAML config file.

	labelFileOrDirPath string // The input label file or directory.
	outFileOrDirPath   string // The output label file or directory (stdout if empty for a file).
	imagePath          string // The page image (file input) or image directory (dir input).
	previewOutPath     string // The preview image file or directory.
	previewSize        int    // The max. side length of previews.
	jpegQuality        int    // The JPEG quality for previews.

	kittiOutDirPath          string // The KITTI output directory (dir input only).
	tfRecordOutPath          string // The TFRecord output file (dir input only).
	tfRecordLabelMapFilePath string // The TFRecord label map file.
	numShardFiles            int    // The number of TFRecord shard files to create.

	stopOnError bool // Abort a directory run on the first failed file.
	verbose     bool // Debug logging.

	config  tblfill.Config // The effective fill configuration.
	isBatch bool           // labelFileOrDirPath is a directory.
)

var log = logrus.New()

// parseFlags parses and validates the command line into the package variables.
func parseFlags() {
	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage of %s:\n", filepath.Base(os.Args[0]))
		_, _ = fmt.Fprintln(os.Stderr, "  single file:\t-labels <file> [-out <file>] [-images <image> -preview-out <file>]")
		_, _ = fmt.Fprintln(os.Stderr, "  directory:\t-labels <dir> -out <dir> [-images <dir> [-preview-out <dir>]"+
			" [-kitti-out <dir>] [-tfrecord-out <file> -tfrecord-label-map-file <file>]]")
		_, _ = fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}

	printUsageAndExit := func(msg ...interface{}) {
		log.Error(msg...)
		flag.Usage()
		os.Exit(1)
	}

	flag.StringVar(&configFilePath, "config", configFilePath,
		"The YAML config file `path`; flags override its values")

	// Path arguments.
	flag.StringVar(&labelFileOrDirPath, "labels", labelFileOrDirPath,
		"The `path` to the label input file or directory")
	flag.StringVar(&outFileOrDirPath, "out", outFileOrDirPath,
		"The `path` to the label output file (default stdout) or directory")
	flag.StringVar(&imagePath, "images", imagePath,
		"The `path` to the page image (file input) or the image directory (directory input)")
	flag.StringVar(&previewOutPath, "preview-out", previewOutPath,
		"The `path` to the preview image file or directory")
	flag.IntVar(&previewSize, "preview-size", 0,
		"The max. side `length` of preview images (zero keeps the image size)")
	flag.IntVar(&jpegQuality, "jpeg-quality", 90,
		"The quality to use when encoding JPEG previews [1, 100]")
	flag.StringVar(&kittiOutDirPath, "kitti-out", kittiOutDirPath,
		"The `path` to a KITTI label output directory (directory input only)")
	flag.StringVar(&tfRecordOutPath, "tfrecord-out", tfRecordOutPath,
		"The `path` to a TFRecord output file (directory input only)")
	flag.StringVar(&tfRecordLabelMapFilePath, "tfrecord-label-map-file", tfRecordLabelMapFilePath,
		"The TFRecord label map file `path`")
	flag.IntVar(&numShardFiles, "num-shards", 1,
		"The number of shard files to create (tfrecord only)")

	// Fill arguments.
	tolerance := flag.Float64("tolerance", tblfill.DefaultTolerance,
		"The vertical row grouping tolerance, normalised to the image height")
	pitchMode := flag.String("pitch", "average",
		"The row pitch estimate {average, first}")
	classifier := flag.String("classifier", "statistical",
		"The role inference strategy {statistical, fixed}")
	tableFallback := flag.String("table-fallback", "largest-box",
		"The table fallback of the statistical classifier {largest-box, bounding-rect}")
	roles := flag.String("roles", "1,2,0",
		"The table,header,data class ids of the fixed classifier")
	format := flag.String("format", "append",
		"The output `format` {append, separate, json}")

	flag.BoolVar(&stopOnError, "stop-on-error", stopOnError,
		"Abort a directory run on the first file that cannot be filled")
	flag.BoolVar(&verbose, "v", verbose, "Enable debug logging")

	flag.Parse()

	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	// Start from the config file, if any, and apply the flags that were set explicitly.
	var err error
	if configFilePath != "" {
		if config, err = tblfill.LoadConfig(configFilePath); err != nil {
			printUsageAndExit(err)
		}
	} else {
		config = tblfill.DefaultConfig()
	}

	isSet := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { isSet[f.Name] = true })

	if isSet["tolerance"] {
		if !(*tolerance > 0) {
			printUsageAndExit("Invalid -tolerance: ", *tolerance)
		}
		config.Tolerance = *tolerance
	}
	if isSet["pitch"] {
		if config.PitchMode, err = tblfill.ParsePitchMode(*pitchMode); err != nil {
			printUsageAndExit(err)
		}
	}
	if isSet["format"] {
		if config.Format, err = tblfill.ParseFormat(*format); err != nil {
			printUsageAndExit(err)
		}
	}
	if config.Classifier, err = classifierFromFlags(config.Classifier, isSet, *classifier, *tableFallback,
		*roles); err != nil {
		printUsageAndExit(err)
	}

	// Validate the paths.
	if labelFileOrDirPath == "" {
		printUsageAndExit("Missing label input path argument")
	}
	labelFileOrDirPath = filepath.Clean(labelFileOrDirPath)
	info, err := os.Stat(labelFileOrDirPath)
	if err != nil {
		printUsageAndExit("Cannot access the label input: ", err)
	}
	isBatch = info.IsDir()

	if isBatch && outFileOrDirPath == "" && previewOutPath == "" && kittiOutDirPath == "" &&
		tfRecordOutPath == "" {
		printUsageAndExit("Missing output path argument")
	}
	if !isBatch && (kittiOutDirPath != "" || tfRecordOutPath != "") {
		printUsageAndExit("KITTI and TFRecord outputs require a label directory")
	}
	if previewOutPath != "" && imagePath == "" {
		printUsageAndExit("Missing image path argument")
	}
	if tfRecordOutPath != "" && tfRecordLabelMapFilePath == "" {
		printUsageAndExit("Missing TFRecord label map path argument")
	}
	if outFileOrDirPath != "" && filepath.Clean(outFileOrDirPath) == labelFileOrDirPath {
		printUsageAndExit("The label input and output paths cannot be identical")
	}
	if jpegQuality < 1 || jpegQuality > 100 {
		jpegQuality = 90
		log.Warn("Invalid JPEG quality, setting it to ", jpegQuality)
	}
}

// classifierFromFlags applies the classifier flags that were set explicitly to current. A lone
// -table-fallback only changes the fallback of a statistical classifier; -classifier or -roles
// replace the classifier.
func classifierFromFlags(current tblfill.Classifier, isSet map[string]bool, classifier, tableFallback,
	roles string) (tblfill.Classifier, error) {

	if !isSet["classifier"] && !isSet["roles"] {
		if !isSet["table-fallback"] {
			return current, nil
		}
		fallback, err := tblfill.ParseTableFallback(tableFallback)
		if err != nil {
			return nil, err
		}
		sc, ok := current.(tblfill.StatisticalClassifier)
		if !ok {
			log.Warn("-table-fallback only applies to the statistical classifier, ignoring it")
			return current, nil
		}
		sc.Fallback = fallback
		return sc, nil
	}

	fc := tblfill.FileConfig{Classifier: classifier, TableFallback: tableFallback}
	if isSet["roles"] && !isSet["classifier"] {
		fc.Classifier = "fixed"
	}
	if fc.Classifier == "fixed" {
		ids, err := parseRoles(roles)
		if err != nil {
			return nil, err
		}
		fc.FixedRoles = &tblfill.RoleIDs{Table: ids[0], Header: ids[1], Data: ids[2]}
	}
	c, err := fc.Config()
	if err != nil {
		return nil, err
	}
	return c.Classifier, nil
}

// parseRoles parses "table,header,data" class ids.
func parseRoles(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid -roles %q, want table,header,data", s)
	}
	ids := make([]int, 3)
	for i, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid class id in -roles: %v", err)
		}
		ids[i] = id
	}
	return ids, nil
}

func main() {
	parseFlags()
	if isBatch {
		fillDir()
	} else {
		fillFile()
	}
}

func fillDir() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := tblfill.FillDir(ctx, tblfill.BatchOptions{
		LabelDir:     labelFileOrDirPath,
		OutDir:       outFileOrDirPath,
		Config:       config,
		ImageDir:     imagePath,
		PreviewDir:   previewOutPath,
		PreviewSize:  previewSize,
		JPEGQuality:  jpegQuality,
		KittiDir:     kittiOutDirPath,
		TFRecordPath: tfRecordOutPath,
		LabelMapPath: tfRecordLabelMapFilePath,
		NumShards:    numShardFiles,
		StopOnError:  stopOnError,
		Logger:       log,
	})
	if err != nil {
		log.Fatal("Filling failed: ", err)
	}

	log.Infof("Total number of filled files: %d", len(report.Pages()))
}

func fillFile() {
	text, err := os.ReadFile(labelFileOrDirPath)
	if err != nil {
		log.Fatal("Failed to read the input: ", err)
	}

	res, err := tblfill.Fill(string(text), config)
	if err != nil {
		log.Fatal("Failed to fill the table: ", err)
	}

	roles := res.Layout.Roles
	entry := log.WithFields(logrus.Fields{
		"table":  res.Layout.TableSource.String(),
		"header": roles.Header,
		"data":   fmt.Sprint(roles.Data),
		"rows":   len(res.Rows),
		"pitch":  fmt.Sprintf("%.6f", res.Pitch),
	})
	for _, w := range res.Warnings {
		entry.Warn(w.String())
	}
	entry.Infof("Generated %d rows", len(res.Generated))

	out := os.Stdout
	if outFileOrDirPath != "" {
		if out, err = os.Create(outFileOrDirPath); err != nil {
			log.Fatal("Failed to create the output: ", err)
		}
	}
	if err := tblfill.WriteResult(out, res, config.Format); err != nil {
		log.Fatal("Failed to write the output: ", err)
	}
	if out != os.Stdout {
		if err := out.Close(); err != nil {
			log.Fatal("Failed to write the output: ", err)
		}
	}

	if previewOutPath != "" {
		if err := tblfill.SavePreview(previewOutPath, imagePath, res, previewSize, jpegQuality); err != nil {
			log.Fatal("Failed to save the preview: ", err)
		}
		log.Info("Wrote preview to ", previewOutPath)
	}
}
