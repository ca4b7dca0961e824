package tblfill

// Filling of a directory of label files.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Page is a filled label file together with the page image it annotates.
type Page struct {
	LabelPath string
	ImagePath string // Empty if no image was found.
	Result    *Result
}

// BatchOptions configures FillDir.
type BatchOptions struct {
	LabelDir string // Directory with the ".txt" label files.
	OutDir   string // Output directory for the filled label files; empty to skip.
	Config   Config

	ImageDir    string // Directory with the page images, matched to labels by base name.
	PreviewDir  string // Output directory for preview images; requires ImageDir.
	PreviewExt  string // Preview file extension, ".jpg" by default.
	PreviewSize int    // Maximum preview side length in pixels; zero keeps the image size.
	JPEGQuality int    // Quality of JPEG previews, 90 by default.

	KittiDir     string // Output directory for KITTI labels; requires ImageDir.
	TFRecordPath string // Output TFRecord file; requires ImageDir and LabelMapPath.
	LabelMapPath string // The TFRecord label map file.
	NumShards    int    // The number of TFRecord shard files.

	StopOnError bool               // Abort on the first failed file instead of skipping it.
	Logger      logrus.FieldLogger // Nil logs to the logrus standard logger.
}

// FileReport is the outcome for a single label file.
type FileReport struct {
	Path string
	Page Page
	Err  error // Set if the file was skipped.
}

// BatchReport summarises a FillDir run, one entry per label file in name order.
type BatchReport struct {
	Files []FileReport
}

// Pages returns the successfully filled pages.
func (r *BatchReport) Pages() []Page {
	pages := make([]Page, 0, len(r.Files))
	for _, f := range r.Files {
		if f.Err == nil && f.Page.Result != nil {
			pages = append(pages, f.Page)
		}
	}
	return pages
}

// NumFailed is the number of files that were skipped or not processed.
func (r *BatchReport) NumFailed() int {
	n := 0
	for _, f := range r.Files {
		if f.Err != nil || f.Page.Result == nil {
			n++
		}
	}
	return n
}

// NumGenerated is the total number of generated boxes.
func (r *BatchReport) NumGenerated() int {
	n := 0
	for _, p := range r.Pages() {
		n += p.Result.NumGenerated()
	}
	return n
}

// ErrNotProcessed marks the files of an aborted FillDir run that were never filled.
var ErrNotProcessed = errors.New("file not processed")

// FillDir fills every label file in opts.LabelDir concurrently.
//
// Files that fail to parse or classify, or have too few data rows, are logged and skipped, unless
// opts.StopOnError is set. IO errors on outputs always abort the run. An aborted run returns its
// error together with the report so far, in which every file is either filled or has an error.
func FillDir(ctx context.Context, opts BatchOptions) (*BatchReport, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	labelFiles, err := filesByExtInDir(opts.LabelDir, ".txt")
	if err != nil {
		return nil, err
	}
	log.Infof("Filling tables in %d label files", len(labelFiles))

	var images map[string]string
	if opts.ImageDir != "" {
		if images, err = imagesByBaseName(opts.ImageDir); err != nil {
			return nil, err
		}
	}

	// Files that are never reached, after a failure or cancellation, keep ErrNotProcessed.
	report := &BatchReport{Files: make([]FileReport, len(labelFiles))}
	for i, path := range labelFiles {
		report.Files[i] = FileReport{Path: path, Err: ErrNotProcessed}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(2 * runtime.NumCPU())
	for i, path := range labelFiles {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				report.Files[i].Err = fmt.Errorf("%w: %w", ErrNotProcessed, err)
				return err
			}

			fr := FileReport{Path: path, Page: Page{LabelPath: path, ImagePath: images[baseNoExt(path)]}}
			fr.Page.Result, fr.Err = fillFile(path, opts.Config)
			report.Files[i] = fr

			logger := log.WithField("file", filepath.Base(path))
			if fr.Err != nil {
				if opts.StopOnError {
					return fmt.Errorf("failed to fill %q: %w", path, fr.Err)
				}
				logger.WithError(fr.Err).Warn("Skipping label file")
				return nil
			}

			logResult(logger, fr.Page.Result)
			if err := opts.writePage(fr.Page, logger); err != nil {
				report.Files[i].Err = err
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	if err := opts.export(report.Pages(), log); err != nil {
		return report, err
	}

	log.Infof("Generated %d boxes, skipped %d of %d files",
		report.NumGenerated(), report.NumFailed(), len(labelFiles))
	return report, nil
}

func (opts *BatchOptions) validate() error {
	needImages := opts.PreviewDir != "" || opts.KittiDir != "" || opts.TFRecordPath != ""
	switch {
	case opts.LabelDir == "":
		return fmt.Errorf("missing label directory")
	case opts.OutDir != "" && filepath.Clean(opts.OutDir) == filepath.Clean(opts.LabelDir):
		return fmt.Errorf("the label input and output directories cannot be identical")
	case needImages && opts.ImageDir == "":
		return fmt.Errorf("previews and image based exports require an image directory")
	case opts.TFRecordPath != "" && opts.LabelMapPath == "":
		return fmt.Errorf("missing TFRecord label map path")
	}

	if opts.PreviewExt == "" {
		opts.PreviewExt = ".jpg"
	}
	if opts.JPEGQuality < 1 || opts.JPEGQuality > 100 {
		opts.JPEGQuality = 90
	}
	return nil
}

// fillFile reads and fills the label file at path.
func fillFile(path string, cfg Config) (*Result, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file %q: %w", path, err)
	}
	return Fill(string(text), cfg)
}

// writePage writes the filled labels and the preview of a page.
func (opts *BatchOptions) writePage(p Page, log logrus.FieldLogger) error {
	base := baseNoExt(p.LabelPath)

	if opts.OutDir != "" {
		ext := ".txt"
		if opts.Config.Format == FormatJSON {
			ext = ".json"
		}
		if err := writeResultFile(filepath.Join(opts.OutDir, base+ext), p.Result, opts.Config.Format); err != nil {
			return err
		}
	}

	if opts.PreviewDir != "" {
		if p.ImagePath == "" {
			log.Warn("No corresponding image file, skipping preview")
			return nil
		}
		outPath := filepath.Join(opts.PreviewDir, base+opts.PreviewExt)
		if err := SavePreview(outPath, p.ImagePath, p.Result, opts.PreviewSize, opts.JPEGQuality); err != nil {
			return err
		}
	}

	return nil
}

// export writes the KITTI and TFRecord outputs for the pages that have an image.
func (opts *BatchOptions) export(pages []Page, log logrus.FieldLogger) error {
	if opts.KittiDir == "" && opts.TFRecordPath == "" {
		return nil
	}

	withImages := make([]Page, 0, len(pages))
	for _, p := range pages {
		if p.ImagePath == "" {
			log.WithField("file", filepath.Base(p.LabelPath)).Warn("No corresponding image file, skipping export")
			continue
		}
		withImages = append(withImages, p)
	}

	if opts.KittiDir != "" {
		kittiData := make([]KITTIAnnotatedFile, 0, len(withImages))
		for _, p := range withImages {
			kf, err := ToKitti(p)
			if err != nil {
				return err
			}
			kittiData = append(kittiData, kf)
		}
		if err := WriteKitti(opts.KittiDir, kittiData); err != nil {
			return err
		}
		log.Infof("Wrote KITTI labels for %d files to %s", len(kittiData), opts.KittiDir)
	}

	if opts.TFRecordPath != "" {
		if err := WriteTFRecord(opts.TFRecordPath, opts.LabelMapPath, withImages, opts.NumShards, log); err != nil {
			return err
		}
		log.Infof("Wrote TFRecord for %d files to %s", len(withImages), opts.TFRecordPath)
	}

	return nil
}

// writeResultFile writes r in format to a new file at path.
func writeResultFile(path string, r *Result, format Format) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create file %q: %w", path, err)
	}
	defer closeWithErrCheck(file, &err)

	return WriteResult(file, r, format)
}

// logResult reports the inferred role mapping and the number of generated rows.
func logResult(log logrus.FieldLogger, r *Result) {
	roles := r.Layout.Roles
	fields := logrus.Fields{
		"table":     r.Layout.TableSource.String(),
		"header":    roles.Header,
		"data":      joinClasses(roles.Data),
		"rows":      len(r.Rows),
		"pitch":     fmt.Sprintf("%.6f", r.Pitch),
		"generated": len(r.Generated),
	}
	if r.Layout.TableSource != TableSynthesized {
		fields["table_class"] = roles.Table
	}
	entry := log.WithFields(fields)
	for _, w := range r.Warnings {
		entry.Warn(w.String())
	}
	entry.Info("Filled table")
}

func joinClasses(ids []ClassID) string {
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = fmt.Sprint(int(id))
	}
	return strings.Join(s, ",")
}
