package tblfill

// TFRecord object detection export of filled pages.

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/golang/protobuf/proto"
	"github.com/ryszard/tfutils/go/example"
	"github.com/ryszard/tfutils/go/tfrecord"
	"github.com/ryszard/tfutils/proto/tensorflow/core/example" // package tensorflow
	"github.com/sirupsen/logrus"
)

// TFFeatureMap maps feature names to their values. Values must be convertible to
// tensorflow.Feature.
type TFFeatureMap map[string]interface{}

// labelMapItem and labelMap mirror the StringIntLabelMap messages of the TensorFlow object
// detection API, so that label maps can be shared with its training pipelines.
type labelMapItem struct {
	Name *string `protobuf:"bytes,1,opt,name=name"`
	ID   *int32  `protobuf:"varint,2,opt,name=id"`
}

func (m *labelMapItem) Reset()         { *m = labelMapItem{} }
func (m *labelMapItem) String() string { return proto.CompactTextString(m) }
func (*labelMapItem) ProtoMessage()    {}

type labelMap struct {
	Item []*labelMapItem `protobuf:"bytes,1,rep,name=item"`
}

func (m *labelMap) Reset()         { *m = labelMap{} }
func (m *labelMap) String() string { return proto.CompactTextString(m) }
func (*labelMap) ProtoMessage()    {}

// labelIDs assigns stable integer ids to role names.
type labelIDs struct {
	ids  map[string]int32
	next int32
}

func (l *labelIDs) id(label string) int32 {
	id, ok := l.ids[label]
	if !ok {
		id = l.next
		l.ids[label] = id
		l.next++
	}
	return id
}

// toTFFeatures converts a filled page to the feature map of a tensorflow.Example.
func toTFFeatures(p Page, labels *labelIDs) (TFFeatureMap, error) {
	img, format, err := decodeImageConfig(p.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to decode the image metadata: %v", err)
	}
	imgData, err := os.ReadFile(p.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read the image: %v", err)
	}

	f := make(TFFeatureMap, 16)
	f["image/height"] = img.Height
	f["image/width"] = img.Width
	f["image/filename"] = p.ImagePath
	f["image/source_id"] = p.LabelPath
	f["image/encoded"] = imgData
	f["image/format"] = format

	labeled := p.Result.Labeled()
	n := len(labeled)
	xmins := make([]float32, n)
	ymins := make([]float32, n)
	xmaxs := make([]float32, n)
	ymaxs := make([]float32, n)
	classes := make([]string, n)
	classIDs := make([]int64, n)
	for i, lb := range labeled {
		xmins[i] = float32(clamp01(lb.Left()))
		ymins[i] = float32(clamp01(lb.Top()))
		xmaxs[i] = float32(clamp01(lb.Right()))
		ymaxs[i] = float32(clamp01(lb.Bottom()))
		classes[i] = lb.Role
		classIDs[i] = int64(labels.id(lb.Role))
	}
	f["image/object/bbox/xmin"] = xmins
	f["image/object/bbox/ymin"] = ymins
	f["image/object/bbox/xmax"] = xmaxs
	f["image/object/bbox/ymax"] = ymaxs
	f["image/object/class/text"] = classes
	f["image/object/class/label"] = classIDs

	return f, nil
}

// WriteTFRecord serialises one tensorflow.Example per page to one or more TFRecord files under
// recordFilePath, with "-xxxxx-of-yyyyy" suffixes when numShards > 1. Pages whose image cannot be
// read are logged and skipped.
//
// The role names are mapped to ids through the label map at labelMapPath. An existing map is
// extended, otherwise a new one is created. The map is written back in prototxt format.
func WriteTFRecord(recordFilePath, labelMapPath string, pages []Page, numShards int,
	log logrus.FieldLogger) (err error) {

	defer func() {
		if e := recover(); e != nil {
			err = fmt.Errorf("conversion to TensorFlow Example failed: %v", e)
		}
	}()

	if numShards <= 0 {
		numShards = 1
	}

	labels, err := loadLabelMap(labelMapPath)
	if os.IsNotExist(err) {
		log.Info("Creating a new label map")
		labels = &labelIDs{ids: make(map[string]int32), next: 1}
	} else if err != nil {
		return fmt.Errorf("failed to read the label map from %q: %w", labelMapPath, err)
	}

	shardSize := int(math.Ceil(float64(len(pages)) / float64(numShards)))
	if shardSize < 1 {
		shardSize = 1
	}
	shardPath := func(idx int) string {
		if numShards == 1 {
			return recordFilePath
		}
		return fmt.Sprintf("%s-%05d-of-%05d", recordFilePath, idx, numShards)
	}

	var shardFile *os.File
	defer func() {
		if shardFile != nil {
			closeWithErrCheck(shardFile, &err)
		}
	}()

	for i, p := range pages {
		if i%shardSize == 0 {
			if shardFile != nil {
				if err := shardFile.Close(); err != nil {
					return err
				}
			}
			if shardFile, err = os.Create(shardPath(i / shardSize)); err != nil {
				return fmt.Errorf("failed to create shard: %w", err)
			}
		}

		features, err := toTFFeatures(p, labels)
		if err != nil {
			log.WithField("file", p.LabelPath).WithError(err).Warn("Failed to convert page")
			continue
		}
		if err := writeTFRecordExample(shardFile, example.New(features)); err != nil {
			return fmt.Errorf("failed to write example: %w", err)
		}
	}

	return saveLabelMap(labelMapPath, labels)
}

// writeTFRecordExample serialises the example and writes it as a TFRecord to w.
func writeTFRecordExample(w io.Writer, e *tensorflow.Example) error {
	enc, err := proto.Marshal(e)
	if err != nil {
		return err
	}

	return tfrecord.Write(w, enc)
}

// loadLabelMap reads the prototxt label map at path. If the file does not exist, os.IsNotExist
// is true for the returned error.
func loadLabelMap(path string) (*labelIDs, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var lm labelMap
	if err := proto.UnmarshalText(string(text), &lm); err != nil {
		return nil, err
	}

	labels := &labelIDs{ids: make(map[string]int32, len(lm.Item)), next: 1}
	for _, item := range lm.Item {
		if item.Name == nil || item.ID == nil || *item.ID <= 0 {
			return nil, fmt.Errorf("invalid entry: %v", item)
		}
		labels.ids[*item.Name] = *item.ID
		if *item.ID >= labels.next {
			labels.next = *item.ID + 1
		}
	}

	return labels, nil
}

// saveLabelMap writes labels to path in prototxt format, ordered by id.
func saveLabelMap(path string, labels *labelIDs) (err error) {
	lm := &labelMap{Item: make([]*labelMapItem, 0, len(labels.ids))}
	for name, id := range labels.ids {
		lm.Item = append(lm.Item, &labelMapItem{Name: proto.String(name), ID: proto.Int32(id)})
	}
	sort.Slice(lm.Item, func(i, j int) bool { return *lm.Item[i].ID < *lm.Item[j].ID })

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create the label map file %q: %w", path, err)
	}
	defer closeWithErrCheck(file, &err)

	if err := proto.MarshalText(file, lm); err != nil {
		return fmt.Errorf("failed to write the label map %q: %w", path, err)
	}
	return nil
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
