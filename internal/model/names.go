package model

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Names maps a class index to its label
type Names map[int]string

// Label resolves a class index, falling back to the index itself.
func (n Names) Label(class int) string {
	if label, ok := n[class]; ok {
		return label
	}
	return strconv.Itoa(class)
}

// Len returns the number of contiguous classes starting at 0.
func (n Names) Len() int {
	i := 0
	for {
		if _, ok := n[i]; !ok {
			return i
		}
		i++
	}
}

// cocoNames is the 80-class table yolov8n is trained on
var cocoNames = []string{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train", "truck", "boat",
	"traffic light", "fire hydrant", "stop sign", "parking meter", "bench", "bird", "cat",
	"dog", "horse", "sheep", "cow", "elephant", "bear", "zebra", "giraffe", "backpack",
	"umbrella", "handbag", "tie", "suitcase", "frisbee", "skis", "snowboard", "sports ball",
	"kite", "baseball bat", "baseball glove", "skateboard", "surfboard", "tennis racket",
	"bottle", "wine glass", "cup", "fork", "knife", "spoon", "bowl", "banana", "apple",
	"sandwich", "orange", "broccoli", "carrot", "hot dog", "pizza", "donut", "cake", "chair",
	"couch", "potted plant", "bed", "dining table", "toilet", "tv", "laptop", "mouse",
	"remote", "keyboard", "cell phone", "microwave", "oven", "toaster", "sink",
	"refrigerator", "book", "clock", "vase", "scissors", "teddy bear", "hair drier",
	"toothbrush",
}

// COCONames returns a fresh copy of the COCO class table.
func COCONames() Names {
	names := make(Names, len(cocoNames))
	for i, label := range cocoNames {
		names[i] = label
	}
	return names
}

// namesFile is the subset of an ultralytics data YAML we care about.
// `names` is either a list or an index map.
type namesFile struct {
	Names yaml.Node `yaml:"names"`
}

// LoadNames reads a class table from a data YAML.
func LoadNames(path string) (Names, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read names %s: %w", path, err)
	}
	return ParseNames(data)
}

// ParseNames reads the `names` key of a data YAML, given either as a list
// of labels or as a mapping of class index to label.
func ParseNames(data []byte) (Names, error) {
	var f namesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse names: %w", err)
	}

	names := Names{}
	switch f.Names.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := f.Names.Decode(&list); err != nil {
			return nil, fmt.Errorf("parse names: %w", err)
		}
		for i, label := range list {
			names[i] = label
		}
	case yaml.MappingNode:
		if err := f.Names.Decode(&names); err != nil {
			return nil, fmt.Errorf("parse names: %w", err)
		}
	default:
		return nil, fmt.Errorf("parse names: missing or invalid 'names' key")
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("parse names: empty class table")
	}
	return names, nil
}

// ResolveNames returns the table from path, or COCO when path is empty.
func ResolveNames(path string) (Names, error) {
	if path == "" {
		return COCONames(), nil
	}
	return LoadNames(path)
}
