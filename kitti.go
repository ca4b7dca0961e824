package tblfill

// KITTI export of filled pages.

import (
	"fmt"
	"os"
	"path/filepath"
)

// KITTIAnnotation is a single annotation within a KITTI file.
type KITTIAnnotation struct {
	Coords [4]float64 // Pixel x1, y1, x2, y2.
	Label  string     // The role name.
	Score  float64    // 1 for annotated boxes, 0 for generated ones.
}

// KITTIAnnotatedFile defines the KITTI annotation structure for a single page.
type KITTIAnnotatedFile struct {
	Annotations []KITTIAnnotation
	FilePath    string // The page image.
}

// ToKitti converts the boxes of a filled page to KITTI pixel coordinates, using the size of the
// page image. The table boundary, header, data and generated boxes are labelled with their role.
func ToKitti(p Page) (KITTIAnnotatedFile, error) {
	img, _, err := decodeImageConfig(p.ImagePath)
	if err != nil {
		return KITTIAnnotatedFile{}, fmt.Errorf("failed to decode the image metadata of %q: %w",
			p.ImagePath, err)
	}
	w, h := float64(img.Width), float64(img.Height)

	labeled := p.Result.Labeled()
	kf := KITTIAnnotatedFile{
		Annotations: make([]KITTIAnnotation, len(labeled)),
		FilePath:    p.ImagePath,
	}
	for i, lb := range labeled {
		a := KITTIAnnotation{
			Coords: [4]float64{lb.Left() * w, lb.Top() * h, lb.Right() * w, lb.Bottom() * h},
			Label:  lb.Role,
			Score:  1,
		}
		if lb.Generated {
			a.Score = 0
		}
		kf.Annotations[i] = a
	}

	return kf, nil
}

// WriteKitti writes data to dirPath, one file per page, named after the page image.
func WriteKitti(dirPath string, data []KITTIAnnotatedFile) error {
	dirInfo, err := os.Stat(dirPath)
	if err != nil || !dirInfo.IsDir() {
		return fmt.Errorf("cannot access directory %q: %v", dirPath, err)
	}

	for _, fileData := range data {
		lines := make([]string, len(fileData.Annotations))
		for i, a := range fileData.Annotations {
			lines[i] = fmt.Sprintf("%s 0.0 0 0.0 %.2f %.2f %.2f %.2f 0.0 0.0 0.0 0.0 0.0 0.0 0.0 %f",
				a.Label, a.Coords[0], a.Coords[1], a.Coords[2], a.Coords[3], a.Score)
		}

		filePath := filepath.Join(dirPath, baseNoExt(fileData.FilePath)+".txt")
		if err := writeLines(filePath, lines); err != nil {
			return err
		}
	}

	return nil
}
