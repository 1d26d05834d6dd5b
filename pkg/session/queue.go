package session

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	"github.com/stylerack/stylerack/pkg/catalog"
	"github.com/stylerack/stylerack/pkg/constants"
	"github.com/stylerack/stylerack/pkg/errors"
)

// Status is the lifecycle state of one upload queue entry.
type Status string

// Queue entry statuses. An entry is created Pending, moves to Uploading
// when its network call starts, and settles as Succeeded or Failed. After
// a halted batch the untouched tail stays Pending.
const (
	StatusPending   Status = "pending"
	StatusUploading Status = "uploading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Entry is one local file staged for upload.
type Entry struct {
	// Path is the local filesystem path the file is read from at upload time.
	Path string `json:"path"`

	// Name is the file's base name; it becomes the remote filename and
	// drives the queue's default ordering.
	Name string `json:"name"`

	// Size in bytes, recorded at staging time.
	Size int64 `json:"size"`

	// ContentType is sniffed from the file's leading bytes when the entry
	// is staged. It doubles as the preview handle: a stageable entry is a
	// decodable one.
	ContentType string `json:"content_type"`

	Status Status `json:"status"`

	// Err holds the failure that settled a Failed entry.
	Err error `json:"-"`
}

// stageFile builds a Pending entry from a local path, sniffing its content
// type from the leading bytes.
func stageFile(path string) (*Entry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.WrapIO("stat", path, err)
	}
	if info.IsDir() {
		return nil, errors.NewValidationError("file", path, "directories cannot be staged for upload")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, constants.SniffLength)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return nil, errors.WrapIO("read", path, err)
	}

	return &Entry{
		Path:        path,
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: http.DetectContentType(head[:n]),
		Status:      StatusPending,
	}, nil
}

// sortQueue orders entries by filename under numeric-aware collation.
// It runs after every append; a manual reorder holds only until then.
func sortQueue(queue []*Entry) {
	sort.SliceStable(queue, func(i, j int) bool {
		return catalog.CompareFileNames(queue[i].Name, queue[j].Name) < 0
	})
}
